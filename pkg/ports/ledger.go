package ports

import (
	"context"

	"github.com/embld/interviewflow/pkg/domain"
)

// CreditLedger tracks per-user credit balances. Users unknown to the ledger
// start at the ledger's initial grant.
type CreditLedger interface {
	// Balance returns the current balance of user.
	Balance(ctx context.Context, user string) (int, error)

	// Deduct atomically checks and debits amount, returning the new balance.
	// Returns domain.ErrInsufficientCredits, leaving the balance untouched,
	// when the balance is lower than amount.
	Deduct(ctx context.Context, user string, amount int, reason, ref string) (int, error)

	// Grant credits amount to user and returns the new balance.
	Grant(ctx context.Context, user string, amount int, reason string) (int, error)

	// Transactions returns the recorded movements of user, oldest first.
	Transactions(ctx context.Context, user string) ([]domain.CreditTransaction, error)
}
