package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405.000000")

	newSession := func(id string) domain.Session {
		now := time.Now().UTC().Truncate(time.Second)
		return domain.Session{
			ID:          id,
			OwnerID:     "user-1",
			AgentType:   domain.AgentServiceBuilder,
			Title:       "Harmony app",
			CurrentNode: domain.NodeDetailedQuestions,
			State:       json.RawMessage(`{"initial_problem":"Singing alone","current_question_index":9}`),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-save"
		sess := newSession(id)
		require.NoError(t, store.Save(ctx, sess), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.ID, loaded.ID)
		assert.Equal(t, sess.OwnerID, loaded.OwnerID)
		assert.Equal(t, sess.AgentType, loaded.AgentType)
		assert.Equal(t, sess.Title, loaded.Title)
		assert.Equal(t, sess.CurrentNode, loaded.CurrentNode)
		assert.JSONEq(t, string(sess.State), string(loaded.State))
		assert.True(t, sess.CreatedAt.Equal(loaded.CreatedAt), "created_at must round-trip")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		id := prefix + "-overwrite"
		sess := newSession(id)
		require.NoError(t, store.Save(ctx, sess))

		sess.CurrentNode = domain.NodeSummarizeRequest
		sess.State = json.RawMessage(`{"user_request":"summary"}`)
		require.NoError(t, store.Save(ctx, sess))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeSummarizeRequest, loaded.CurrentNode)
		assert.JSONEq(t, `{"user_request":"summary"}`, string(loaded.State))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-delete"
		require.NoError(t, store.Save(ctx, newSession(id)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := prefix + "-list-1"
		id2 := prefix + "-list-2"
		require.NoError(t, store.Save(ctx, newSession(id1)))
		require.NoError(t, store.Save(ctx, newSession(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunCreditLedgerContract verifies a CreditLedger. The ledger must start new
// users at initialGrant.
func RunCreditLedgerContract(t *testing.T, ledger CreditLedger, initialGrant int) {
	ctx := context.Background()
	prefix := "ledger-" + time.Now().Format("20060102150405.000000")

	t.Run("New User Balance", func(t *testing.T) {
		balance, err := ledger.Balance(ctx, prefix+"-new")
		require.NoError(t, err)
		assert.Equal(t, initialGrant, balance)
	})

	t.Run("Grant And Deduct", func(t *testing.T) {
		user := prefix + "-grant"
		balance, err := ledger.Grant(ctx, user, 25, "purchase")
		require.NoError(t, err)
		assert.Equal(t, initialGrant+25, balance)

		balance, err = ledger.Deduct(ctx, user, 10, "session", "sess-1")
		require.NoError(t, err)
		assert.Equal(t, initialGrant+15, balance)

		current, err := ledger.Balance(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, balance, current)

		txs, err := ledger.Transactions(ctx, user)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, 25, txs[0].Amount)
		assert.Equal(t, -10, txs[1].Amount)
		assert.Equal(t, "sess-1", txs[1].Ref)
		assert.Equal(t, initialGrant+15, txs[1].BalanceAfter)
	})

	t.Run("Insufficient Credits", func(t *testing.T) {
		user := prefix + "-poor"
		_, err := ledger.Deduct(ctx, user, initialGrant+1, "session", "sess-2")
		require.ErrorIs(t, err, domain.ErrInsufficientCredits)

		var ice *domain.InsufficientCreditsError
		require.True(t, errors.As(err, &ice))
		assert.Equal(t, initialGrant+1, ice.Required)
		assert.Equal(t, initialGrant, ice.Current)

		balance, err := ledger.Balance(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, initialGrant, balance, "a rejected debit leaves the balance untouched")
	})

	t.Run("Concurrent Deducts Never Overdraw", func(t *testing.T) {
		user := prefix + "-race"
		_, err := ledger.Grant(ctx, user, 50, "purchase")
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		total := initialGrant + 50
		for i := 0; i < total/10+5; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, err := ledger.Deduct(ctx, user, 10, "session", fmt.Sprintf("race-%d", i)); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		balance, err := ledger.Balance(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, total/10, succeeded)
		assert.Equal(t, total-10*succeeded, balance)
		assert.GreaterOrEqual(t, balance, 0)
	})
}
