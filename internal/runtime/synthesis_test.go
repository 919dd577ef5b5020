package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/internal/testutils"
	"github.com/embld/interviewflow/pkg/domain"
)

const personasJSON = "```json\n" + `{"personas": [
  {"name": "Aki", "background": "Student who sings in a choir"},
  {"name": "", "background": "nameless"},
  {"name": "Ben", "background": "Office worker who loves karaoke"}
]}` + "\n```"

func summarizedState() domain.InterviewState {
	s := domain.NewInterviewState()
	s.InitialProblem = "Singing alone is lonely"
	s.InitialPersona = "Karaoke fans"
	s.InitialSolution = "AI harmonies"
	s.UserRequest = "An app that adds live AI harmonies for solo singers."
	return s
}

func TestSummarizeRequest(t *testing.T) {
	client := testutils.NewScriptedLLM("  A harmony app for lonely singers.  ")
	e := newTestEngine(t, client)

	res, err := e.Execute(context.Background(), domain.NodeSummarizeRequest, domain.NewInterviewState(), "")
	require.NoError(t, err)

	msg := asMessage(t, res.Response)
	assert.Equal(t, domain.DocSummary, msg.Document)
	assert.Equal(t, "A harmony app for lonely singers.", msg.Content)
	assert.Equal(t, msg.Content, res.State.UserRequest)
	assert.Equal(t, domain.NodeGeneratePersonas, res.NextNode)
}

// A model failure leaves the target field unset and keeps the session on the node.
func TestSummarizeRequest_Fallback(t *testing.T) {
	e := newTestEngine(t, testutils.FailingLLM(errModelDown))
	in := domain.NewInterviewState()

	res, err := e.Execute(context.Background(), domain.NodeSummarizeRequest, in, "")
	require.NoError(t, err)

	msg := asMessage(t, res.Response)
	assert.True(t, msg.Fallback)
	assert.Equal(t, domain.NodeSummarizeRequest, msg.Node)
	assert.Contains(t, msg.Content, "service summary could not be generated")
	assert.Empty(t, res.State.UserRequest)
	assert.Equal(t, in, res.State)
	assert.Equal(t, domain.NodeSummarizeRequest, res.NextNode)
	assert.False(t, res.IsComplete())
}

func TestGeneratePersonas(t *testing.T) {
	e := newTestEngine(t, testutils.NewScriptedLLM(personasJSON))
	s := summarizedState()
	s.Iteration = 3
	s.IsInformationSufficient = true

	res, err := e.Execute(context.Background(), domain.NodeGeneratePersonas, s, "")
	require.NoError(t, err)

	assert.Equal(t, []domain.Persona{
		{Name: "Aki", Background: "Student who sings in a choir"},
		{Name: "Ben", Background: "Office worker who loves karaoke"},
	}, res.State.Personas)
	assert.Equal(t, 0, res.State.Iteration)
	assert.False(t, res.State.IsInformationSufficient)
	assert.Equal(t, domain.NodeConductInterviews, res.NextNode)
	assert.Contains(t, asMessage(t, res.Response).Content, "## 1. Aki\n\n**Background:** Student who sings in a choir")
}

func TestGeneratePersonas_ExistingAreRedisplayed(t *testing.T) {
	client := testutils.NewScriptedLLM()
	e := newTestEngine(t, client)
	s := summarizedState()
	s.Personas = []domain.Persona{{Name: "Aki", Background: "Student"}}

	res, err := e.Execute(context.Background(), domain.NodeGeneratePersonas, s, "")
	require.NoError(t, err)
	assert.Equal(t, s.Personas, res.State.Personas)
	assert.Equal(t, domain.NodeConductInterviews, res.NextNode)
	client.AssertNoCalls(t)
}

func TestGeneratePersonas_Errors(t *testing.T) {
	t.Run("missing summary reroutes", func(t *testing.T) {
		client := testutils.NewScriptedLLM()
		e := newTestEngine(t, client)
		res, err := e.Execute(context.Background(), domain.NodeGeneratePersonas, domain.NewInterviewState(), "")
		require.NoError(t, err)
		assert.Equal(t, domain.NodeSummarizeRequest, res.NextNode)
		assert.Contains(t, asPlan(t, res.Response).Content, "user_request")
		client.AssertNoCalls(t)
	})

	for name, content := range map[string]string{
		"malformed JSON": "here are some personas",
		"no personas":    `{"personas": [{"name": "  "}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, testutils.NewScriptedLLM(content))
			res, err := e.Execute(context.Background(), domain.NodeGeneratePersonas, summarizedState(), "")
			require.NoError(t, err)
			assert.True(t, asMessage(t, res.Response).Fallback)
			assert.Empty(t, res.State.Personas)
		})
	}
}

func TestParsePersonas_Cap(t *testing.T) {
	content := `{"personas": [{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e"},{"name":"f"}]}`
	personas, err := parsePersonas(content)
	require.NoError(t, err)
	assert.Len(t, personas, maxPersonas)
}

func TestConductInterviews(t *testing.T) {
	client := testutils.NewScriptedLLM().
		On("Persona: Aki - Student\n\nReturn", "- Do you sing alone?\n- Would you pay?").
		On("Persona: Ben - Worker\n\nReturn", "1) Is it fun?\n2) Would you invite friends?").
		On("Question: Is it fun?", "Very.").
		On("Question: Do you sing alone?", "Yes, every night.").
		On("Question: Would you pay?", "Maybe five dollars.")
	e := newTestEngine(t, client, WithInterviewQuestionsPerPersona(2))

	s := summarizedState()
	s.Personas = []domain.Persona{{Name: "Aki", Background: "Student"}, {Name: "Ben", Background: "Worker"}}

	res, err := e.Execute(context.Background(), domain.NodeConductInterviews, s, "")
	require.NoError(t, err)

	// Ben's second question has no scripted answer and is skipped.
	require.Len(t, res.State.Interviews, 3)
	assert.Equal(t, domain.Interview{Persona: s.Personas[0], Question: "Do you sing alone?", Answer: "Yes, every night."}, res.State.Interviews[0])
	assert.Equal(t, "Would you pay?", res.State.Interviews[1].Question)
	assert.Equal(t, "Ben", res.State.Interviews[2].Persona.Name)
	assert.Equal(t, domain.NodeEvaluateInformation, res.NextNode)
	assert.Contains(t, asMessage(t, res.Response).Content, "## 1. Interview with Aki")
}

func TestConductInterviews_PartialFailureIsTolerated(t *testing.T) {
	client := testutils.NewScriptedLLM().
		On("Persona: Aki - Student\n\nReturn", "- Do you sing alone?").
		On("Question: Do you sing alone?", "Every night.")
	client.ThenFail(errModelDown)
	e := newTestEngine(t, client, WithInterviewQuestionsPerPersona(1))

	s := summarizedState()
	s.Personas = []domain.Persona{{Name: "Aki", Background: "Student"}, {Name: "Ben", Background: "Worker"}}

	res, err := e.Execute(context.Background(), domain.NodeConductInterviews, s, "")
	require.NoError(t, err)
	require.Len(t, res.State.Interviews, 1)
	assert.False(t, asMessage(t, res.Response).Fallback)
}

func TestConductInterviews_AllFailed(t *testing.T) {
	e := newTestEngine(t, testutils.FailingLLM(errModelDown))
	s := summarizedState()
	s.Personas = []domain.Persona{{Name: "Aki", Background: "Student"}}

	res, err := e.Execute(context.Background(), domain.NodeConductInterviews, s, "")
	require.NoError(t, err)
	assert.True(t, asMessage(t, res.Response).Fallback)
	assert.Empty(t, res.State.Interviews)
	assert.Equal(t, domain.NodeConductInterviews, res.NextNode)
}

func TestGeneratePitch_IsTerminal(t *testing.T) {
	e := newTestEngine(t, testutils.NewScriptedLLM("# Project pitch: Harmonia"))

	res, err := e.Execute(context.Background(), domain.NodeGeneratePitch, summarizedState(), "")
	require.NoError(t, err)
	assert.Equal(t, "# Project pitch: Harmonia", res.State.PitchDocument)
	assert.Equal(t, domain.NodeID(""), res.NextNode)
	assert.True(t, res.IsComplete())
}
