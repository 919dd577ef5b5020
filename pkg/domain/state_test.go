package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterviewState_EmptyCollections(t *testing.T) {
	s := NewInterviewState()
	assert.NotNil(t, s.ClarificationAnswers)
	assert.NotNil(t, s.DetailedAnswers)
	assert.NotNil(t, s.AssistCandidates)
	assert.NotNil(t, s.DetailedQuestions)
	assert.NotNil(t, s.Personas)
	assert.NotNil(t, s.Interviews)
	assert.Zero(t, s.CurrentQuestionIndex)
}

func TestClone_IsDeep(t *testing.T) {
	s := NewInterviewState()
	s.ClarificationAnswers["a"] = "1"
	s.AssistCandidates["terms"] = []string{"x"}
	s.Personas = append(s.Personas, Persona{Name: "Ana", Background: "nurse"})
	s.EvaluationResult = &EvaluationResult{Gaps: []string{"pricing"}, FollowupQuestions: []string{}}
	s.Feasibility = &FeasibilityAssessment{IsFeasible: true}

	c := s.Clone()
	c.ClarificationAnswers["a"] = "2"
	c.AssistCandidates["terms"][0] = "y"
	c.Personas[0].Name = "Bo"
	c.EvaluationResult.Gaps[0] = "none"
	c.Feasibility.IsFeasible = false

	assert.Equal(t, "1", s.ClarificationAnswers["a"])
	assert.Equal(t, "x", s.AssistCandidates["terms"][0])
	assert.Equal(t, "Ana", s.Personas[0].Name)
	assert.Equal(t, "pricing", s.EvaluationResult.Gaps[0])
	assert.True(t, s.Feasibility.IsFeasible)
}
