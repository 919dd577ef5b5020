package domain

import "fmt"

// NodeID identifies one step of the interview workflow.
// The set is closed: ParseNodeID rejects anything not declared below.
type NodeID string

const (
	NodeClarificationInterview NodeID = "clarification_interview"
	NodeDetailedQuestions      NodeID = "detailed_questions"
	NodeSummarizeRequest       NodeID = "summarize_request"
	NodeGeneratePersonas       NodeID = "generate_personas"
	NodeConductInterviews      NodeID = "conduct_interviews"
	NodeEvaluateInformation    NodeID = "evaluate_information"
	NodeAskFollowups           NodeID = "ask_followups"
	NodeGenerateRequirements   NodeID = "generate_professional_requirements"
	NodeAnalyzeEnvironment     NodeID = "analyze_environment"
	NodeAssessProfitability    NodeID = "assess_profitability"
	NodeAssessFeasibility      NodeID = "assess_feasibility"
	NodeAssessLegal            NodeID = "assess_legal"
	NodeAssessmentGate         NodeID = "assessment_gate"
	NodeImproveRequirements    NodeID = "improve_requirements"
	NodeGeneratePitch          NodeID = "generate_pitch"
)

// StartNode is where every new session begins.
const StartNode = NodeClarificationInterview

const noNode NodeID = ""

var allNodes = []NodeID{
	NodeClarificationInterview,
	NodeDetailedQuestions,
	NodeSummarizeRequest,
	NodeGeneratePersonas,
	NodeConductInterviews,
	NodeEvaluateInformation,
	NodeAskFollowups,
	NodeGenerateRequirements,
	NodeAnalyzeEnvironment,
	NodeAssessProfitability,
	NodeAssessFeasibility,
	NodeAssessLegal,
	NodeAssessmentGate,
	NodeImproveRequirements,
	NodeGeneratePitch,
}

// AllNodes returns every node identifier in workflow order.
func AllNodes() []NodeID {
	out := make([]NodeID, len(allNodes))
	copy(out, allNodes)
	return out
}

// ParseNodeID converts a wire identifier into a NodeID.
func ParseNodeID(s string) (NodeID, error) {
	id := NodeID(s)
	if !id.Valid() {
		return noNode, fmt.Errorf("%w: %q", ErrUnknownNode, s)
	}
	return id, nil
}

// Valid reports whether id belongs to the closed set.
func (id NodeID) Valid() bool {
	for _, n := range allNodes {
		if n == id {
			return true
		}
	}
	return false
}

// Streamable reports whether the node's output may be delivered as chunks.
func (id NodeID) Streamable() bool {
	switch id {
	case NodeGenerateRequirements, NodeAnalyzeEnvironment, NodeGeneratePitch:
		return true
	}
	return false
}

func (id NodeID) String() string { return string(id) }
