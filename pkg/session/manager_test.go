package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/adapters/memory"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/schema"
	"github.com/embld/interviewflow/pkg/session"
)

// failingStore rejects every Save.
type failingStore struct {
	*memory.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) Save(context.Context, domain.Session) error { return errDiskFull }

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

func newManager(t *testing.T, grant int) (*session.Manager, *memory.Store, *memory.Ledger) {
	t.Helper()
	store := memory.NewStore()
	ledger := memory.NewLedger(grant)
	v, err := schema.NewValidator()
	require.NoError(t, err)
	m, err := session.NewManager(store, ledger, v,
		session.WithClock(fixedClock),
		session.WithIDGenerator(func() string { return "s-1" }),
	)
	require.NoError(t, err)
	return m, store, ledger
}

func TestManager_CreateChargesAndPersists(t *testing.T) {
	ctx := context.Background()
	m, store, ledger := newManager(t, 30)

	sess, state, err := m.Create(ctx, "alice", "Harmony app", "")
	require.NoError(t, err)

	assert.Equal(t, "s-1", sess.ID)
	assert.Equal(t, "alice", sess.OwnerID)
	assert.Equal(t, domain.AgentServiceBuilder, sess.AgentType)
	assert.Equal(t, domain.StartNode, sess.CurrentNode)
	assert.Equal(t, fixedClock(), sess.CreatedAt)
	assert.Equal(t, domain.NewInterviewState(), state)

	stored, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(sess.State), string(stored.State))

	balance, err := ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 30-domain.SessionCost, balance)

	txs, err := ledger.Transactions(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, txs)
	last := txs[len(txs)-1]
	assert.Equal(t, -domain.SessionCost, last.Amount)
	assert.Equal(t, "s-1", last.Ref)
}

func TestManager_CreateInsufficientCredits(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t, 5)

	_, _, err := m.Create(ctx, "alice", "", domain.AgentServiceBuilder)
	require.ErrorIs(t, err, domain.ErrInsufficientCredits)

	var ice *domain.InsufficientCreditsError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, domain.SessionCost, ice.Required)
	assert.Equal(t, 5, ice.Current)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_CreateRefundsOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger(10)
	m, err := session.NewManager(failingStore{memory.NewStore()}, ledger, nil)
	require.NoError(t, err)

	_, _, err = m.Create(ctx, "alice", "", "")
	require.ErrorIs(t, err, errDiskFull)

	balance, err := ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestManager_CreateRejectsOtherAgents(t *testing.T) {
	m, _, ledger := newManager(t, 30)

	_, _, err := m.Create(context.Background(), "alice", "", "chatbot")
	require.ErrorIs(t, err, domain.ErrUnsupportedAgent)

	balance, _ := ledger.Balance(context.Background(), "alice")
	assert.Equal(t, 30, balance, "nothing is charged for a rejected agent")
}

func TestManager_FreeSessionsWithoutLedger(t *testing.T) {
	m, err := session.NewManager(memory.NewStore(), nil, nil)
	require.NoError(t, err)
	_, _, err = m.Create(context.Background(), "alice", "", "")
	require.NoError(t, err)

	balance, err := m.Balance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestManager_LoadChecksOwner(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t, 30)
	_, _, err := m.Create(ctx, "alice", "", "")
	require.NoError(t, err)

	_, _, err = m.Load(ctx, "bob", "s-1")
	require.ErrorIs(t, err, domain.ErrNotOwner)

	_, _, err = m.Load(ctx, "alice", "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.ErrorIs(t, m.Delete(ctx, "bob", "s-1"), domain.ErrNotOwner)
	require.NoError(t, m.Delete(ctx, "alice", "s-1"))
}

func TestManager_LoadRejectsInvalidState(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t, 0)

	cases := map[string]string{
		"wrong type":     `{"initial_problem":"","initial_persona":"","initial_solution":"","iteration":"two"}`,
		"missing field":  `{"initial_problem":""}`,
		"unknown field":  `{"initial_problem":"","initial_persona":"","initial_solution":"","mood":"happy"}`,
		"malformed json": `{"initial_problem":`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(ctx, domain.Session{
				ID:          "bad",
				OwnerID:     "alice",
				CurrentNode: domain.StartNode,
				State:       []byte(raw),
			}))
			_, _, err := m.Load(ctx, "alice", "bad")
			require.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestManager_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t, 30)
	sess, state, err := m.Create(ctx, "alice", "", "")
	require.NoError(t, err)

	state.InitialProblem = "Singing alone is lonely"
	state.CurrentQuestionIndex = 2
	saved, err := m.Save(ctx, sess, state, domain.NodeDetailedQuestions)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeDetailedQuestions, saved.CurrentNode)

	loaded, got, err := m.Load(ctx, "alice", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeDetailedQuestions, loaded.CurrentNode)
	assert.Equal(t, state, got)
	assert.Equal(t, sess.CreatedAt, loaded.CreatedAt)
}
