package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/embld/interviewflow/pkg/domain"
)

// deductScript debits KEYS[1] by ARGV[1] only when the balance covers it.
// A missing key starts at ARGV[2]. The transaction ARGV[3] gets its
// balance_after filled in and is appended to KEYS[2]. It returns {ok, balance}.
var deductScript = backend.NewScript(`
local balance = tonumber(redis.call("get", KEYS[1]) or ARGV[2])
local amount = tonumber(ARGV[1])
if balance < amount then
	return {0, balance}
end
balance = balance - amount
redis.call("set", KEYS[1], balance)
local tx = cjson.decode(ARGV[3])
tx["balance_after"] = balance
redis.call("rpush", KEYS[2], cjson.encode(tx))
return {1, balance}
`)

// grantScript credits KEYS[1] by ARGV[1] and records ARGV[3] like deductScript.
var grantScript = backend.NewScript(`
local balance = tonumber(redis.call("get", KEYS[1]) or ARGV[2]) + tonumber(ARGV[1])
redis.call("set", KEYS[1], balance)
local tx = cjson.decode(ARGV[3])
tx["balance_after"] = balance
redis.call("rpush", KEYS[2], cjson.encode(tx))
return balance
`)

// Ledger implements ports.CreditLedger on Redis. Balance changes run as Lua
// scripts, so a check-and-debit is atomic across replicas.
type Ledger struct {
	client  *backend.Client
	prefix  string
	initial int
}

// NewLedger creates a ledger starting new users at initialGrant.
func NewLedger(client *backend.Client, initialGrant int, opts ...Option) *Ledger {
	s := &Store{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return &Ledger{client: client, prefix: s.prefix, initial: initialGrant}
}

func (l *Ledger) balanceKey(user string) string { return l.prefix + "credits:" + user }
func (l *Ledger) historyKey(user string) string { return l.prefix + "credits:" + user + ":tx" }

func (l *Ledger) Balance(ctx context.Context, user string) (int, error) {
	balance, err := l.client.Get(ctx, l.balanceKey(user)).Int()
	if errors.Is(err, backend.Nil) {
		return l.initial, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func (l *Ledger) Deduct(ctx context.Context, user string, amount int, reason, ref string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}
	tx, err := encodeTx(user, -amount, reason, ref)
	if err != nil {
		return 0, err
	}

	res, err := deductScript.Run(ctx, l.client,
		[]string{l.balanceKey(user), l.historyKey(user)},
		amount, l.initial, tx).Int64Slice()
	if err != nil {
		return 0, fmt.Errorf("failed to deduct credits: %w", err)
	}
	balance := int(res[1])
	if res[0] == 0 {
		return balance, &domain.InsufficientCreditsError{Required: amount, Current: balance}
	}
	return balance, nil
}

func (l *Ledger) Grant(ctx context.Context, user string, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("grant amount must be positive, got %d", amount)
	}
	tx, err := encodeTx(user, amount, reason, "")
	if err != nil {
		return 0, err
	}

	balance, err := grantScript.Run(ctx, l.client,
		[]string{l.balanceKey(user), l.historyKey(user)},
		amount, l.initial, tx).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to grant credits: %w", err)
	}
	return balance, nil
}

func (l *Ledger) Transactions(ctx context.Context, user string) ([]domain.CreditTransaction, error) {
	raw, err := l.client.LRange(ctx, l.historyKey(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	txs := make([]domain.CreditTransaction, 0, len(raw))
	for _, r := range raw {
		var tx domain.CreditTransaction
		if err := json.Unmarshal([]byte(r), &tx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func encodeTx(user string, amount int, reason, ref string) (string, error) {
	data, err := json.Marshal(domain.CreditTransaction{
		UserID:    user,
		Amount:    amount,
		Reason:    reason,
		Ref:       ref,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction: %w", err)
	}
	return string(data), nil
}
