/*
Package ports defines the driven ports (interfaces) of the interview service.

These interfaces decouple the engine and its transports from storage backends.

# Key Interfaces

  - Engine: the stateless step function the transports drive.
  - SessionStore: persists session records ({state, currentNode} plus ownership).
  - CreditLedger: per-user credit balances with an atomic debit.
*/
package ports
