/*
Package session creates, loads and saves interview sessions.

A Manager sits between a transport and a ports.SessionStore. It charges the
creation cost to a ports.CreditLedger, checks ownership, and validates the
stored state on every load so that handlers never see an invalid state.

The Manager holds no locks. Two requests racing on the same session are
last-writer-wins at the store.
*/
package session
