package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/embld/interviewflow/internal/presentation/graph"
	"github.com/embld/interviewflow/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(domain.AllNodes(), domain.Transitions(), nil)

	tests := []struct {
		name     string
		contains string
	}{
		{"start shape", `clarification_interview(("clarification_interview"))`},
		{"input shape", `ask_followups[/"ask_followups"/]`},
		{"gate shape", `assessment_gate{"assessment_gate"}`},
		{"stream shape", `generate_pitch(["generate_pitch"])`},
		{"plain shape", `summarize_request["summarize_request"]`},
		{"forward edge", "summarize_request --> generate_personas"},
		{"conditional edge", `assessment_gate -- "failed" --> improve_requirements`},
		{"recovery edge", "conduct_interviews -.-> generate_personas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out, tt.contains)
		})
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_EscapesConditions(t *testing.T) {
	edges := []domain.Transition{{From: domain.NodeAssessmentGate, To: domain.NodeGeneratePitch, Condition: `say "yes"`}}
	out := graph.GenerateMermaid(nil, edges, nil)
	assert.Contains(t, out, `-- "say 'yes'" -->`)
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	overlay := &graph.Overlay{
		VisitedNodes: []domain.NodeID{domain.NodeClarificationInterview, domain.NodeClarificationInterview, domain.NodeDetailedQuestions},
		CurrentNode:  domain.NodeSummarizeRequest,
	}
	out := graph.GenerateMermaid(domain.AllNodes(), domain.Transitions(), overlay)

	assert.Equal(t, 1, strings.Count(out, "class clarification_interview visited;"))
	assert.Contains(t, out, "class detailed_questions visited;")
	assert.Contains(t, out, "class summarize_request current;")
}

func TestVisited(t *testing.T) {
	assert.Empty(t, graph.Visited(domain.StartNode))
	assert.Equal(t,
		[]domain.NodeID{domain.NodeClarificationInterview, domain.NodeDetailedQuestions},
		graph.Visited(domain.NodeSummarizeRequest))

	got := graph.Visited(domain.NodeGeneratePitch)
	assert.NotContains(t, got, domain.NodeAskFollowups)
	assert.NotContains(t, got, domain.NodeImproveRequirements)
	assert.Contains(t, got, domain.NodeAssessmentGate)
}
