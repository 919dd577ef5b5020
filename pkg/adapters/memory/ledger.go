package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/embld/interviewflow/pkg/domain"
)

// Ledger implements ports.CreditLedger in memory.
// A single mutex makes every debit an atomic check-and-set.
type Ledger struct {
	initial  int
	mu       sync.Mutex
	balances map[string]int
	history  map[string][]domain.CreditTransaction
}

// NewLedger creates a ledger that starts new users at initialGrant.
func NewLedger(initialGrant int) *Ledger {
	return &Ledger{
		initial:  initialGrant,
		balances: make(map[string]int),
		history:  make(map[string][]domain.CreditTransaction),
	}
}

func (l *Ledger) balanceLocked(user string) int {
	if b, ok := l.balances[user]; ok {
		return b
	}
	return l.initial
}

func (l *Ledger) Balance(_ context.Context, user string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(user), nil
}

func (l *Ledger) Deduct(_ context.Context, user string, amount int, reason, ref string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.balanceLocked(user)
	if current < amount {
		return current, &domain.InsufficientCreditsError{Required: amount, Current: current}
	}
	return l.applyLocked(user, -amount, reason, ref), nil
}

func (l *Ledger) Grant(_ context.Context, user string, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("grant amount must be positive, got %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applyLocked(user, amount, reason, ""), nil
}

func (l *Ledger) Transactions(_ context.Context, user string) ([]domain.CreditTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.CreditTransaction(nil), l.history[user]...), nil
}

func (l *Ledger) applyLocked(user string, delta int, reason, ref string) int {
	balance := l.balanceLocked(user) + delta
	l.balances[user] = balance
	l.history[user] = append(l.history[user], domain.CreditTransaction{
		UserID:       user,
		Amount:       delta,
		BalanceAfter: balance,
		Reason:       reason,
		Ref:          ref,
		CreatedAt:    time.Now().UTC(),
	})
	return balance
}
