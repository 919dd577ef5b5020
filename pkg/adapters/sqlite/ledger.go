package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/embld/interviewflow/pkg/domain"
)

// Ledger implements ports.CreditLedger on SQLite. Every balance change and
// its transaction row are written in one database transaction.
type Ledger struct {
	db      *sql.DB
	initial int
}

// NewLedger wraps a database opened with Open. Users without a balance row
// start at initialGrant.
func NewLedger(db *sql.DB, initialGrant int) *Ledger {
	return &Ledger{db: db, initial: initialGrant}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *Ledger) balance(ctx context.Context, q querier, user string) (int, error) {
	var balance int
	err := q.QueryRowContext(ctx, `SELECT balance FROM credit_balances WHERE user_id = ?`, user).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return l.initial, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func (l *Ledger) Balance(ctx context.Context, user string) (int, error) {
	return l.balance(ctx, l.db, user)
}

func (l *Ledger) Deduct(ctx context.Context, user string, amount int, reason, ref string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}
	return l.apply(ctx, user, -amount, reason, ref)
}

func (l *Ledger) Grant(ctx context.Context, user string, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("grant amount must be positive, got %d", amount)
	}
	return l.apply(ctx, user, amount, reason, "")
}

func (l *Ledger) apply(ctx context.Context, user string, delta int, reason, ref string) (int, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := l.balance(ctx, tx, user)
	if err != nil {
		return 0, err
	}
	if current+delta < 0 {
		return current, &domain.InsufficientCreditsError{Required: -delta, Current: current}
	}
	balance := current + delta

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credit_balances (user_id, balance) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET balance = excluded.balance`, user, balance); err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (user_id, amount, balance_after, reason, ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, user, delta, balance, reason, ref, formatTime(time.Now())); err != nil {
		return 0, fmt.Errorf("failed to record transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return balance, nil
}

func (l *Ledger) Transactions(ctx context.Context, user string) ([]domain.CreditTransaction, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT amount, balance_after, reason, ref, created_at
		FROM credit_transactions WHERE user_id = ? ORDER BY id`, user)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txs []domain.CreditTransaction
	for rows.Next() {
		t := domain.CreditTransaction{UserID: user}
		var created string
		if err := rows.Scan(&t.Amount, &t.BalanceAfter, &t.Reason, &t.Ref, &created); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
