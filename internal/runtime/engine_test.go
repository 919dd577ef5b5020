package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/internal/testutils"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
)

var errModelDown = errors.New("model down")

func newTestEngine(t *testing.T, client *testutils.ScriptedLLM, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(client, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil)
	assert.Error(t, err)

	client := testutils.NewScriptedLLM()
	_, err = NewEngine(client, WithMaxFollowupRounds(-1))
	assert.Error(t, err)

	_, err = NewEngine(client, WithInterviewQuestionsPerPersona(0))
	assert.Error(t, err)

	_, err = NewEngine(client, WithGate("profitability.passed &&"))
	assert.Error(t, err)

	e, err := NewEngine(client, WithGate(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultGateExpression, e.gate.source)
}

func TestExecute_UnknownNode(t *testing.T) {
	client := testutils.NewScriptedLLM()
	e := newTestEngine(t, client)

	_, err := e.Execute(context.Background(), "no_such_node", domain.NewInterviewState(), "")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
	client.AssertNoCalls(t)
}

func TestExecute_InvalidState(t *testing.T) {
	client := testutils.NewScriptedLLM()
	e := newTestEngine(t, client)

	s := domain.NewInterviewState()
	s.CurrentQuestionIndex = len(e.Plan().Clarification) + 1

	_, err := e.Execute(context.Background(), domain.StartNode, s, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	client.AssertNoCalls(t)
}

func TestExecute_OversizedInput(t *testing.T) {
	e := newTestEngine(t, testutils.NewScriptedLLM(), WithMaxInputSize(8))

	_, err := e.Execute(context.Background(), domain.StartNode, domain.NewInterviewState(), strings.Repeat("x", 9))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Every node of the closed set dispatches to a handler and never errors on a
// valid state, even when every model call fails.
func TestExecute_EveryNodeDispatches(t *testing.T) {
	e := newTestEngine(t, testutils.FailingLLM(errModelDown))
	for _, node := range domain.AllNodes() {
		t.Run(string(node), func(t *testing.T) {
			res, err := e.Execute(context.Background(), node, domain.NewInterviewState(), "")
			require.NoError(t, err)
			assert.NotNil(t, res.Response)
		})
	}
}

func TestExecute_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t, testutils.NewScriptedLLM())

	in := domain.NewInterviewState()
	in.CurrentQuestionIndex = 1
	in.ClarificationAnswers["service_overview"] = "karaoke app"
	snapshot := in.Clone()

	res, err := e.Execute(context.Background(), domain.StartNode, in, "lonely singing")
	require.NoError(t, err)

	assert.Equal(t, snapshot, in)
	assert.Equal(t, "lonely singing", res.State.InitialProblem)
}

// Asking the same question twice without an answer is idempotent.
func TestExecute_QuestionIsIdempotent(t *testing.T) {
	e := newTestEngine(t, testutils.NewScriptedLLM())
	s := domain.NewInterviewState()

	first, err := e.Execute(context.Background(), domain.StartNode, s, "")
	require.NoError(t, err)
	second, err := e.Execute(context.Background(), domain.StartNode, first.State, "")
	require.NoError(t, err)

	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, domain.NodeID(""), first.NextNode)
	assert.False(t, first.IsComplete())
}

func TestExecute_Hooks(t *testing.T) {
	var entered, left []domain.NodeID
	var fallbacks []*domain.FallbackEvent
	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, ev *domain.NodeEvent) { entered = append(entered, ev.NodeID) },
		OnNodeLeave: func(_ context.Context, ev *domain.NodeEvent) {
			left = append(left, ev.NodeID)
			assert.Equal(t, string(domain.ResponseMessage), ev.ResponseType)
			assert.Equal(t, domain.NodeSummarizeRequest, ev.NextNode)
		},
		OnFallback: func(_ context.Context, ev *domain.FallbackEvent) { fallbacks = append(fallbacks, ev) },
	}
	e := newTestEngine(t, testutils.FailingLLM(errModelDown), WithLifecycleHooks(hooks))

	_, err := e.Execute(context.Background(), domain.NodeSummarizeRequest, domain.NewInterviewState(), "")
	require.NoError(t, err)

	assert.Equal(t, []domain.NodeID{domain.NodeSummarizeRequest}, entered)
	assert.Equal(t, []domain.NodeID{domain.NodeSummarizeRequest}, left)
	require.Len(t, fallbacks, 1)
	assert.Equal(t, domain.EventModelFallback, fallbacks[0].Type)
	assert.Contains(t, fallbacks[0].Reason, "model down")
}

func TestResult_IsComplete(t *testing.T) {
	assert.True(t, Result{Response: domain.MessageResponse{Content: "pitch"}}.IsComplete())
	assert.False(t, Result{Response: domain.MessageResponse{}, NextNode: domain.NodeGeneratePitch}.IsComplete())
	assert.False(t, Result{Response: domain.QuestionResponse{}}.IsComplete())
	assert.False(t, Result{}.IsComplete())
}

// A zero-value state validates, so the scripted nodes must accept it as is.
func TestExecute_ZeroValueState(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, testutils.NewScriptedLLM())
	require.NoError(t, e.Validator().ValidateState(domain.InterviewState{}))

	res, err := e.Execute(ctx, domain.NodeClarificationInterview, domain.InterviewState{}, "my service")
	require.NoError(t, err)
	assert.Equal(t, "my service", res.State.ClarificationAnswers["service_overview"])
	assert.Equal(t, 1, res.State.CurrentQuestionIndex)

	res, err = e.Execute(ctx, domain.NodeDetailedQuestions, domain.InterviewState{DetailedQuestions: []string{"q1?"}}, "yes")
	require.NoError(t, err)
	assert.Len(t, res.State.DetailedAnswers, 1)
	assert.Equal(t, domain.NodeSummarizeRequest, res.NextNode)
}

func TestExecute_ModelCallTimesOut(t *testing.T) {
	blocking := llm.ClientFunc(func(ctx context.Context, _ llm.Request) (llm.Response, error) {
		<-ctx.Done()
		return llm.Response{}, ctx.Err()
	})
	e, err := NewEngine(blocking, WithCallTimeout(20*time.Millisecond))
	require.NoError(t, err)

	done := make(chan Result, 1)
	go func() {
		res, err := e.Execute(context.Background(), domain.NodeGeneratePitch, summarizedState(), "")
		assert.NoError(t, err)
		done <- res
	}()

	select {
	case res := <-done:
		assert.True(t, asMessage(t, res.Response).Fallback)
		assert.Equal(t, domain.NodeGeneratePitch, res.NextNode)
		assert.Empty(t, res.State.PitchDocument)
	case <-time.After(5 * time.Second):
		t.Fatal("model call was not bounded")
	}
}
