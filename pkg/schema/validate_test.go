package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/domain"
)

func newValidator(t *testing.T, opts ...Option) *Validator {
	t.Helper()
	v, err := NewValidator(opts...)
	require.NoError(t, err)
	return v
}

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, SchemaID, doc["$id"])
	assert.Equal(t, SchemaTitle, doc["title"])
	assert.Contains(t, string(data), "initial_problem")
	assert.Contains(t, string(data), "clarification_interview_log")
}

func TestDecode_MinimalState(t *testing.T) {
	v := newValidator(t)

	s, err := v.Decode(map[string]any{
		"initial_problem":  "",
		"initial_persona":  "",
		"initial_solution": "",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.NewInterviewState(), s)
}

func TestDecode_MissingRequired(t *testing.T) {
	v := newValidator(t)

	_, err := v.Decode(map[string]any{"initial_problem": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ValidationErrors(err))
}

func TestDecode_WrongTypes(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		field string
		value any
	}{
		{"cursor as string", "current_question_index", "3"},
		{"negative cursor", "current_detailed_question_index", -1},
		{"fractional iteration", "iteration", 1.5},
		{"answers as list", "clarification_answers", []any{"a"}},
		{"persona missing name", "personas", []any{map[string]any{"background": "b"}}},
		{"unknown field", "favourite_colour", "blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"initial_problem": "", "initial_persona": "", "initial_solution": ""}
			raw[tt.field] = tt.value
			_, err := v.Decode(raw)
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestDecode_Invariants(t *testing.T) {
	v := newValidator(t, WithPlanLength(3))

	_, err := v.Decode(map[string]any{
		"initial_problem": "", "initial_persona": "", "initial_solution": "",
		"current_question_index": 4,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = v.Decode(map[string]any{
		"initial_problem": "", "initial_persona": "", "initial_solution": "",
		"detailed_questions":              []any{"q1"},
		"current_detailed_question_index": 2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = v.Decode(map[string]any{
		"initial_problem": "", "initial_persona": "", "initial_solution": "",
		"current_question_index": 3,
	})
	assert.NoError(t, err)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	v := newValidator(t)

	s := domain.NewInterviewState()
	s.InitialProblem = "clinics lose bookings"
	s.ClarificationAnswers["problem"] = "clinics lose bookings"
	s.AssistCandidates["terms"] = []string{"slot", "walk-in"}
	s.Personas = []domain.Persona{{Name: "Ana", Background: "receptionist"}}
	s.Interviews = []domain.Interview{{Persona: s.Personas[0], Question: "q", Answer: "a"}}
	s.EvaluationResult = &domain.EvaluationResult{Reason: "thin", Gaps: []string{"pricing"}, FollowupQuestions: []string{"How much?"}}
	s.ConsultantAnalysisReport = &domain.EnvironmentAnalysis{CustomerAnalysis: "c"}
	s.Iteration = 2

	data, err := EncodeJSON(s)
	require.NoError(t, err)
	back, err := v.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, s, back)
	assert.NoError(t, v.ValidateState(back))
}

func TestEncodeJSON_NoNullCollections(t *testing.T) {
	data, err := EncodeJSON(domain.InterviewState{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestDecodeJSON_Malformed(t *testing.T) {
	v := newValidator(t)

	_, err := v.DecodeJSON([]byte(`{"initial_problem":`))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = v.DecodeJSON([]byte(`null`))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
