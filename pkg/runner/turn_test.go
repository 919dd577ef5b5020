package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/internal/testutils"
	"github.com/embld/interviewflow/pkg/adapters/memory"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/session"
)

// patchingEngine answers every step with a plan carrying a fixed patch.
type patchingEngine struct {
	*runtime.Engine
	patch domain.StatePatch
}

func (p patchingEngine) Execute(_ context.Context, _ domain.NodeID, state domain.InterviewState, _ string) (runtime.Result, error) {
	return runtime.Result{
		Response: domain.PlanResponse{Content: "moving on", StatePatch: p.patch},
		State:    state,
		NextNode: domain.NodeDetailedQuestions,
	}, nil
}

func TestExecuteAndSave_StatePatch(t *testing.T) {
	tests := []struct {
		name     string
		patch    domain.StatePatch
		wantErr  error
		wantNode domain.NodeID
	}{
		{
			name:     "forward cursor is saved",
			patch:    domain.StatePatch{"current_question_index": 3},
			wantNode: domain.NodeDetailedQuestions,
		},
		{
			name:     "regressing cursor is rejected",
			patch:    domain.StatePatch{"current_question_index": 0},
			wantErr:  domain.ErrCursorRegression,
			wantNode: domain.StartNode,
		},
		{
			name:     "unknown key is rejected",
			patch:    domain.StatePatch{"mood": "happy"},
			wantErr:  domain.ErrUnknownField,
			wantNode: domain.StartNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			eng, err := runtime.NewEngine(testutils.NewScriptedLLM())
			require.NoError(t, err)
			manager, err := session.NewManager(memory.NewStore(), nil, eng.Validator())
			require.NoError(t, err)

			sess, state, err := manager.CreateWithID(ctx, "s-1", "local", "demo", "")
			require.NoError(t, err)
			state.CurrentQuestionIndex = 2
			sess, err = manager.Save(ctx, sess, state, domain.StartNode)
			require.NoError(t, err)

			_, _, err = ExecuteAndSave(ctx, patchingEngine{Engine: eng, patch: tt.patch}, manager, sess, domain.StartNode, state, "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			loaded, _, err := manager.Load(ctx, "local", "s-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantNode, loaded.CurrentNode)
		})
	}
}
