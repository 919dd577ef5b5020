package domain

// Transition is one edge of the workflow graph.
type Transition struct {
	From NodeID
	To   NodeID
	// Condition labels edges taken only in some cases.
	Condition string
	// Recovery marks the edge taken when a prerequisite document is missing.
	Recovery bool
}

var transitions = []Transition{
	{From: NodeClarificationInterview, To: NodeDetailedQuestions},
	{From: NodeDetailedQuestions, To: NodeSummarizeRequest},
	{From: NodeSummarizeRequest, To: NodeGeneratePersonas},
	{From: NodeGeneratePersonas, To: NodeConductInterviews},
	{From: NodeConductInterviews, To: NodeEvaluateInformation},
	{From: NodeEvaluateInformation, To: NodeAskFollowups, Condition: "information missing"},
	{From: NodeEvaluateInformation, To: NodeGenerateRequirements, Condition: "sufficient or rounds exhausted"},
	{From: NodeAskFollowups, To: NodeEvaluateInformation},
	{From: NodeAskFollowups, To: NodeGenerateRequirements, Condition: "rounds exhausted"},
	{From: NodeGenerateRequirements, To: NodeAnalyzeEnvironment},
	{From: NodeAnalyzeEnvironment, To: NodeAssessProfitability},
	{From: NodeAssessProfitability, To: NodeAssessFeasibility},
	{From: NodeAssessFeasibility, To: NodeAssessLegal},
	{From: NodeAssessLegal, To: NodeAssessmentGate},
	{From: NodeAssessmentGate, To: NodeGeneratePitch, Condition: "passed"},
	{From: NodeAssessmentGate, To: NodeImproveRequirements, Condition: "failed"},
	{From: NodeImproveRequirements, To: NodeGeneratePitch},

	{From: NodeGeneratePersonas, To: NodeSummarizeRequest, Recovery: true},
	{From: NodeConductInterviews, To: NodeGeneratePersonas, Recovery: true},
	{From: NodeEvaluateInformation, To: NodeSummarizeRequest, Recovery: true},
	{From: NodeGenerateRequirements, To: NodeSummarizeRequest, Recovery: true},
	{From: NodeAnalyzeEnvironment, To: NodeGenerateRequirements, Recovery: true},
	{From: NodeAssessProfitability, To: NodeAnalyzeEnvironment, Recovery: true},
	{From: NodeAssessFeasibility, To: NodeAnalyzeEnvironment, Recovery: true},
	{From: NodeAssessLegal, To: NodeAnalyzeEnvironment, Recovery: true},
	{From: NodeImproveRequirements, To: NodeAnalyzeEnvironment, Recovery: true},
	{From: NodeGeneratePitch, To: NodeSummarizeRequest, Recovery: true},
}

// Transitions returns the edges of the workflow graph, forward edges first.
// generate_pitch is terminal.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// AwaitsInput reports whether the node asks the user questions.
func (id NodeID) AwaitsInput() bool {
	switch id {
	case NodeClarificationInterview, NodeDetailedQuestions, NodeAskFollowups:
		return true
	}
	return false
}
