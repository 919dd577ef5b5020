package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/internal/testutils"
	"github.com/embld/interviewflow/pkg/domain"
)

func asQuestion(t *testing.T, r domain.Response) domain.QuestionResponse {
	t.Helper()
	q, ok := r.(domain.QuestionResponse)
	require.Truef(t, ok, "expected a question, got %T", r)
	return q
}

func asMessage(t *testing.T, r domain.Response) domain.MessageResponse {
	t.Helper()
	m, ok := r.(domain.MessageResponse)
	require.Truef(t, ok, "expected a message, got %T", r)
	return m
}

func asPlan(t *testing.T, r domain.Response) domain.PlanResponse {
	t.Helper()
	p, ok := r.(domain.PlanResponse)
	require.Truef(t, ok, "expected a plan, got %T", r)
	return p
}

func TestClarification_FirstQuestion(t *testing.T) {
	client := testutils.NewScriptedLLM()
	e := newTestEngine(t, client)

	res, err := e.Execute(context.Background(), domain.StartNode, domain.NewInterviewState(), "")
	require.NoError(t, err)

	q := asQuestion(t, res.Response)
	first := e.Plan().Clarification[0]
	assert.Equal(t, first.Prompt, q.Prompt)
	assert.Equal(t, first.ID, q.Key)
	assert.Equal(t, 1, q.Current)
	assert.Equal(t, len(e.Plan().Clarification), q.Total)
	assert.Equal(t, domain.NodeClarificationInterview, q.Node)
	assert.Equal(t, 0, res.State.CurrentQuestionIndex)
	client.AssertNoCalls(t)
}

func TestClarification_RequiredAnswerIsReasked(t *testing.T) {
	e := newTestEngine(t, testutils.NewScriptedLLM())

	for _, msg := range []string{" ", "\t\n"} {
		res, err := e.Execute(context.Background(), domain.StartNode, domain.NewInterviewState(), msg)
		require.NoError(t, err)
		q := asQuestion(t, res.Response)
		assert.Equal(t, "service_overview", q.Key)
		assert.Equal(t, 0, res.State.CurrentQuestionIndex)
		assert.Empty(t, res.State.ClarificationAnswers)
	}
}

func TestClarification_FullWalk(t *testing.T) {
	client := testutils.NewScriptedLLM().On("Terms:", "- latency\n- harmony quality\n- fun")
	e := newTestEngine(t, client)
	ctx := context.Background()

	s := domain.NewInterviewState()
	step := func(msg string) Result {
		t.Helper()
		res, err := e.Execute(ctx, domain.NodeClarificationInterview, s, msg)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.State.CurrentQuestionIndex, s.CurrentQuestionIndex)
		s = res.State
		return res
	}

	step("")
	step("An app that sings harmonies with you")
	step("Singing alone is lonely")
	step("Office workers who love karaoke")
	res := step("AI that harmonizes in real time")

	terms := asQuestion(t, res.Response)
	assert.Equal(t, "terms", terms.Key)
	assert.Equal(t, domain.QuestionMulti, terms.InputType)
	assert.Equal(t, []domain.Choice{
		{Label: "latency", Value: "latency"},
		{Label: "harmony quality", Value: "harmony quality"},
		{Label: "fun", Value: "fun"},
	}, terms.Choices)
	assert.Equal(t, []string{"latency", "harmony quality", "fun"}, s.AssistCandidates["terms"])

	// Candidates are offered, so an empty answer re-asks without a new model call.
	calls := client.CallCount()
	res = step(" ")
	assert.Equal(t, "terms", asQuestion(t, res.Response).Key)
	assert.Equal(t, calls, client.CallCount())

	res = step("latency, harmony quality")
	term1 := asQuestion(t, res.Response)
	assert.Equal(t, "term_1", term1.Key)
	assert.Contains(t, term1.Prompt, `"latency"`)

	res = step("Under 50 ms between voice and harmony")
	term2 := asQuestion(t, res.Response)
	assert.Equal(t, "term_2", term2.Key)
	assert.Contains(t, term2.Prompt, `"harmony quality"`)

	// Only two terms were picked, so term_3 is skipped.
	res = step("Listeners rate it pleasant")
	assert.Equal(t, "risks", asQuestion(t, res.Response).Key)

	res = step(" ")
	plan := asPlan(t, res.Response)
	assert.Equal(t, domain.NodeDetailedQuestions, res.NextNode)
	assert.Equal(t, len(e.Plan().Clarification), s.CurrentQuestionIndex)
	assert.Contains(t, plan.StatePatch, "clarification_interview_log")

	assert.Equal(t, "Singing alone is lonely", s.InitialProblem)
	assert.Equal(t, "Office workers who love karaoke", s.InitialPersona)
	assert.Equal(t, "AI that harmonizes in real time", s.InitialSolution)
	assert.Equal(t, "latency, harmony quality", s.ClarificationAnswers["terms"])

	log := s.ClarificationInterviewLog
	assert.Contains(t, log, "## Collected information")
	assert.Contains(t, log, "### Problem\nSinging alone is lonely")
	assert.Contains(t, log, "### Definition: latency\nUnder 50 ms between voice and harmony")
	assert.NotContains(t, log, "### Concerns and risks")

	// The cursor is at the end: the node only hands over.
	res = step("")
	assert.Equal(t, domain.NodeDetailedQuestions, res.NextNode)
	assert.Nil(t, asPlan(t, res.Response).StatePatch)
	assert.Equal(t, log, res.State.ClarificationInterviewLog)
}

func TestClarification_CandidateFailureAsksFreeText(t *testing.T) {
	var fallbacks int
	hooks := domain.LifecycleHooks{
		OnFallback: func(context.Context, *domain.FallbackEvent) { fallbacks++ },
	}
	e := newTestEngine(t, testutils.FailingLLM(errModelDown), WithLifecycleHooks(hooks))

	s := domain.NewInterviewState()
	s.CurrentQuestionIndex = 4

	res, err := e.Execute(context.Background(), domain.NodeClarificationInterview, s, "")
	require.NoError(t, err)

	q := asQuestion(t, res.Response)
	assert.Equal(t, "terms", q.Key)
	assert.Equal(t, domain.QuestionText, q.InputType)
	assert.Empty(t, q.Choices)
	assert.Equal(t, 1, fallbacks)

	// Without candidates the question is optional; skipping it skips every slot.
	res, err = e.Execute(context.Background(), domain.NodeClarificationInterview, res.State, " ")
	require.NoError(t, err)
	assert.Equal(t, "risks", asQuestion(t, res.Response).Key)
}

func TestSplitTerms(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitTerms("a, b\nc; d"))
	assert.Equal(t, []string{"x", "y"}, splitTerms("x、 y"))
	assert.Empty(t, splitTerms(" , ,"))
}

func TestNormalizeAnswer(t *testing.T) {
	yesno := domain.Question{Type: domain.QuestionYesNo}
	tests := map[string]string{
		"Y":        "yes",
		" true ":   "yes",
		"no":       "no",
		"0":        "no",
		"not sure": "unknown",
		"?":        "unknown",
		"maybe":    "maybe",
		"   ":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeAnswer(yesno, in), in)
	}
	assert.Equal(t, "Yes", normalizeAnswer(domain.Question{Type: domain.QuestionText}, " Yes "))
}

func TestAppendSection(t *testing.T) {
	assert.Equal(t, "a", appendSection("", "a\n\n"))
	assert.Equal(t, "a\n\nb", appendSection("a", "b\n"))
}
