package memory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/adapters/memory"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryLedger_Contract(t *testing.T) {
	ports.RunCreditLedgerContract(t, memory.NewLedger(0), 0)
	ports.RunCreditLedgerContract(t, memory.NewLedger(30), 30)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	sess := domain.Session{ID: "s1", State: json.RawMessage(`{"a":1}`)}
	require.NoError(t, store.Save(ctx, sess))
	sess.State[5] = '2'

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(loaded.State))
}
