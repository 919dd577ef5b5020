package domain

import "maps"

// InterviewState is the complete record of one interview session.
// It is the only mutable entity of the workflow and is always passed by value.
type InterviewState struct {
	InitialProblem  string `json:"initial_problem" jsonschema:"required"`
	InitialPersona  string `json:"initial_persona" jsonschema:"required"`
	InitialSolution string `json:"initial_solution" jsonschema:"required"`

	// ClarificationInterviewLog only ever grows.
	ClarificationInterviewLog string              `json:"clarification_interview_log"`
	ClarificationAnswers      map[string]string   `json:"clarification_answers"`
	CurrentQuestionIndex      int                 `json:"current_question_index" jsonschema:"minimum=0"`
	AssistCandidates          map[string][]string `json:"assist_candidates"`

	DetailedQuestions            []string          `json:"detailed_questions"`
	DetailedAnswers              map[string]string `json:"detailed_answers"`
	CurrentDetailedQuestionIndex int               `json:"current_detailed_question_index" jsonschema:"minimum=0"`

	UserRequest string      `json:"user_request"`
	Personas    []Persona   `json:"personas"`
	Interviews  []Interview `json:"interviews"`

	ProfessionalRequirementsDoc string                   `json:"professional_requirements_doc"`
	ConsultantAnalysisReport    *EnvironmentAnalysis     `json:"consultant_analysis_report,omitempty"`
	PitchDocument               string                   `json:"pitch_document"`
	Profitability               *ProfitabilityAssessment `json:"profitability,omitempty"`
	Feasibility                 *FeasibilityAssessment   `json:"feasibility,omitempty"`
	Legal                       *LegalAssessment         `json:"legal,omitempty"`

	Iteration               int               `json:"iteration" jsonschema:"minimum=0"`
	IsInformationSufficient bool              `json:"is_information_sufficient"`
	EvaluationResult        *EvaluationResult `json:"evaluation_result,omitempty"`
	FollowupRound           int               `json:"followup_round" jsonschema:"minimum=0"`
	AugmentPersonas         bool              `json:"augment_personas"`
}

// Persona is a synthetic interviewee.
type Persona struct {
	Name       string `json:"name" jsonschema:"required"`
	Background string `json:"background" jsonschema:"required"`
}

// Interview is one question asked to one persona, with the simulated answer.
type Interview struct {
	Persona  Persona `json:"persona" jsonschema:"required"`
	Question string  `json:"question" jsonschema:"required"`
	Answer   string  `json:"answer" jsonschema:"required"`
}

// EvaluationResult is the verdict on whether enough has been gathered.
type EvaluationResult struct {
	Reason            string   `json:"reason" jsonschema:"required"`
	IsSufficient      bool     `json:"is_sufficient" jsonschema:"required"`
	Gaps              []string `json:"gaps" jsonschema:"required"`
	FollowupQuestions []string `json:"followup_questions" jsonschema:"required"`
}

// EnvironmentAnalysis is the consultant report on the market around the product.
type EnvironmentAnalysis struct {
	CustomerAnalysis   string `json:"customer_analysis" jsonschema:"required"`
	CompetitorAnalysis string `json:"competitor_analysis" jsonschema:"required"`
	CompanyAnalysis    string `json:"company_analysis" jsonschema:"required"`
	PESTAnalysis       string `json:"pest_analysis" jsonschema:"required"`
	SummaryAndStrategy string `json:"summary_and_strategy" jsonschema:"required"`
}

type ProfitabilityAssessment struct {
	IsProfitable bool   `json:"is_profitable" jsonschema:"required"`
	Reason       string `json:"reason" jsonschema:"required"`
}

type FeasibilityAssessment struct {
	IsFeasible bool   `json:"is_feasible" jsonschema:"required"`
	Reason     string `json:"reason" jsonschema:"required"`
}

type LegalAssessment struct {
	IsCompliant bool   `json:"is_compliant" jsonschema:"required"`
	Reason      string `json:"reason" jsonschema:"required"`
}

// NewInterviewState returns the empty state a session starts with.
func NewInterviewState() InterviewState {
	var s InterviewState
	s.Normalize()
	return s
}

// Normalize replaces nil maps and slices with empty ones so that the
// encoded form never carries null collections.
func (s *InterviewState) Normalize() {
	if s.ClarificationAnswers == nil {
		s.ClarificationAnswers = map[string]string{}
	}
	if s.AssistCandidates == nil {
		s.AssistCandidates = map[string][]string{}
	}
	if s.DetailedQuestions == nil {
		s.DetailedQuestions = []string{}
	}
	if s.DetailedAnswers == nil {
		s.DetailedAnswers = map[string]string{}
	}
	if s.Personas == nil {
		s.Personas = []Persona{}
	}
	if s.Interviews == nil {
		s.Interviews = []Interview{}
	}
	if s.EvaluationResult != nil {
		if s.EvaluationResult.Gaps == nil {
			s.EvaluationResult.Gaps = []string{}
		}
		if s.EvaluationResult.FollowupQuestions == nil {
			s.EvaluationResult.FollowupQuestions = []string{}
		}
	}
}

// Clone returns a deep copy. Handlers work on clones so their input is never mutated.
func (s InterviewState) Clone() InterviewState {
	c := s
	c.ClarificationAnswers = maps.Clone(s.ClarificationAnswers)
	c.DetailedAnswers = maps.Clone(s.DetailedAnswers)
	if s.AssistCandidates != nil {
		c.AssistCandidates = make(map[string][]string, len(s.AssistCandidates))
		for k, v := range s.AssistCandidates {
			c.AssistCandidates[k] = append([]string(nil), v...)
		}
	}
	if s.DetailedQuestions != nil {
		c.DetailedQuestions = append([]string{}, s.DetailedQuestions...)
	}
	if s.Personas != nil {
		c.Personas = append([]Persona{}, s.Personas...)
	}
	if s.Interviews != nil {
		c.Interviews = append([]Interview{}, s.Interviews...)
	}
	if s.ConsultantAnalysisReport != nil {
		r := *s.ConsultantAnalysisReport
		c.ConsultantAnalysisReport = &r
	}
	if s.Profitability != nil {
		p := *s.Profitability
		c.Profitability = &p
	}
	if s.Feasibility != nil {
		f := *s.Feasibility
		c.Feasibility = &f
	}
	if s.Legal != nil {
		l := *s.Legal
		c.Legal = &l
	}
	if s.EvaluationResult != nil {
		e := *s.EvaluationResult
		e.Gaps = append([]string{}, s.EvaluationResult.Gaps...)
		e.FollowupQuestions = append([]string{}, s.EvaluationResult.FollowupQuestions...)
		c.EvaluationResult = &e
	}
	return c
}
