package domain

import "time"

// SessionCost is the default price of opening a session.
const SessionCost = 10

// CreditTransaction is one recorded balance movement. Amount is negative
// for debits.
type CreditTransaction struct {
	UserID       string    `json:"user_id"`
	Amount       int       `json:"amount"`
	BalanceAfter int       `json:"balance_after"`
	Reason       string    `json:"reason"`
	Ref          string    `json:"ref,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
