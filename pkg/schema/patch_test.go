package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/domain"
)

func baseState() domain.InterviewState {
	s := domain.NewInterviewState()
	s.ClarificationInterviewLog = "## Collected information\n"
	s.ClarificationAnswers["problem"] = "no-shows"
	s.CurrentQuestionIndex = 2
	s.Iteration = 1
	s.Personas = []domain.Persona{{Name: "Ana", Background: "nurse"}}
	return s
}

func TestApplyPatch_Policy(t *testing.T) {
	v := newValidator(t)
	current := baseState()

	next, err := v.ApplyPatch(current, domain.StatePatch{
		"clarification_answers":       map[string]any{"persona": "clinic owners"},
		"clarification_interview_log": current.ClarificationInterviewLog + "### Persona\nclinic owners\n",
		"current_question_index":      3,
		"personas":                    []any{map[string]any{"name": "Bo", "background": "owner"}},
		"user_request":                "booking reminders",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"problem": "no-shows", "persona": "clinic owners"}, next.ClarificationAnswers)
	assert.Equal(t, []domain.Persona{{Name: "Bo", Background: "owner"}}, next.Personas)
	assert.Equal(t, 3, next.CurrentQuestionIndex)
	assert.Equal(t, "booking reminders", next.UserRequest)
	assert.Equal(t, "no-shows", current.ClarificationAnswers["problem"])
	assert.Len(t, current.ClarificationAnswers, 1)
}

func TestApplyPatch_Rejections(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		patch domain.StatePatch
		want  error
	}{
		{"log rewrite", domain.StatePatch{"clarification_interview_log": "something else"}, domain.ErrLogRewrite},
		{"cursor regression", domain.StatePatch{"current_question_index": 1}, domain.ErrCursorRegression},
		{"iteration regression", domain.StatePatch{"iteration": 0}, domain.ErrCursorRegression},
		{"unknown key", domain.StatePatch{"mood": "happy"}, domain.ErrUnknownField},
		{"invalid merged value", domain.StatePatch{"user_request": 42}, domain.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ApplyPatch(baseState(), tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyPatch_DiffRoundTrip(t *testing.T) {
	v := newValidator(t)
	old := baseState()

	next := old.Clone()
	next.ClarificationAnswers["solution"] = "sms reminders"
	next.ClarificationInterviewLog += "### Solution\nsms reminders\n"
	next.CurrentQuestionIndex++
	next.Profitability = &domain.ProfitabilityAssessment{IsProfitable: true, Reason: "subscription"}

	merged, err := v.ApplyPatch(old, domain.Diff(old, next))
	require.NoError(t, err)
	assert.Equal(t, next, merged)
}
