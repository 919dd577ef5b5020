package runtime

import (
	"context"
	"fmt"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
)

func (e *Engine) analyzeEnvironment(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeAnalyzeEnvironment
	if s.ProfessionalRequirementsDoc == "" {
		return reroute(s, "professional_requirements_doc", domain.NodeGenerateRequirements)
	}

	content, err := e.complete(ctx, e.prompts().analysis(&s))
	if err != nil {
		return e.fallback(ctx, node, s, docAnalysis, err)
	}
	analysis, err := parseAnalysis(content)
	if err != nil {
		return e.fallback(ctx, node, s, docAnalysis, err)
	}

	s.ConsultantAnalysisReport = &analysis
	return produced(s, node, docAnalysis, renderAnalysis(analysis), domain.NodeAssessProfitability)
}

// parseAnalysis accepts any JSON value per field and stringifies it.
func parseAnalysis(content string) (domain.EnvironmentAnalysis, error) {
	var raw map[string]any
	if err := decodeModelJSON(content, &raw); err != nil {
		return domain.EnvironmentAnalysis{}, err
	}
	a := domain.EnvironmentAnalysis{
		CustomerAnalysis:   ensureString(raw["customer_analysis"]),
		CompetitorAnalysis: ensureString(raw["competitor_analysis"]),
		CompanyAnalysis:    ensureString(raw["company_analysis"]),
		PESTAnalysis:       ensureString(raw["pest_analysis"]),
		SummaryAndStrategy: ensureString(raw["summary_and_strategy"]),
	}
	if a == (domain.EnvironmentAnalysis{}) {
		return a, fmt.Errorf("model analysis has none of the expected fields")
	}
	return a, nil
}

// parseVerdict reads {"<field>": bool, "reason": string}.
func parseVerdict(content, field string) (verdict, error) {
	var raw map[string]any
	if err := decodeModelJSON(content, &raw); err != nil {
		return verdict{}, err
	}
	passed, ok := raw[field].(bool)
	if !ok {
		return verdict{}, fmt.Errorf("model verdict is missing boolean %q", field)
	}
	return verdict{Passed: passed, Reason: ensureString(raw["reason"])}, nil
}

func (e *Engine) assessProfitability(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeAssessProfitability
	if s.ConsultantAnalysisReport == nil {
		return reroute(s, "consultant_analysis_report", domain.NodeAnalyzeEnvironment)
	}
	v, err := e.assess(ctx, e.prompts().profitability(&s), "is_profitable")
	if err != nil {
		return e.fallback(ctx, node, s, docProfitability, err)
	}
	s.Profitability = &domain.ProfitabilityAssessment{IsProfitable: v.Passed, Reason: v.Reason}
	content := renderVerdict(docProfitability.title, v.Passed, "Can be profitable", "Hard to make profitable", v.Reason)
	return produced(s, node, docProfitability, content, domain.NodeAssessFeasibility)
}

func (e *Engine) assessFeasibility(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeAssessFeasibility
	if s.ConsultantAnalysisReport == nil {
		return reroute(s, "consultant_analysis_report", domain.NodeAnalyzeEnvironment)
	}
	v, err := e.assess(ctx, e.prompts().feasibility(&s), "is_feasible")
	if err != nil {
		return e.fallback(ctx, node, s, docFeasibility, err)
	}
	s.Feasibility = &domain.FeasibilityAssessment{IsFeasible: v.Passed, Reason: v.Reason}
	content := renderVerdict(docFeasibility.title, v.Passed, "Feasible", "Hard to realize", v.Reason)
	return produced(s, node, docFeasibility, content, domain.NodeAssessLegal)
}

func (e *Engine) assessLegal(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeAssessLegal
	if s.ConsultantAnalysisReport == nil {
		return reroute(s, "consultant_analysis_report", domain.NodeAnalyzeEnvironment)
	}
	v, err := e.assess(ctx, e.prompts().legal(&s), "is_compliant")
	if err != nil {
		return e.fallback(ctx, node, s, docLegal, err)
	}
	s.Legal = &domain.LegalAssessment{IsCompliant: v.Passed, Reason: v.Reason}
	content := renderVerdict(docLegal.title, v.Passed, "No legal issues found", "Needs legal attention", v.Reason)
	return produced(s, node, docLegal, content, domain.NodeAssessmentGate)
}

func (e *Engine) assess(ctx context.Context, req llm.Request, field string) (verdict, error) {
	content, err := e.complete(ctx, req)
	if err != nil {
		return verdict{}, err
	}
	return parseVerdict(content, field)
}

// assessmentGate routes on the gate expression without calling the model.
// An evaluation error counts as a failed gate.
func (e *Engine) assessmentGate(ctx context.Context, s domain.InterviewState) (Result, error) {
	in := gateInputOf(s)
	passed, err := e.gate.eval(in)
	if err != nil {
		e.logger.Warn("gate evaluation failed, treating as not passed", "node_id", domain.NodeAssessmentGate, "error", err)
		passed = false
	}

	next := domain.NodeImproveRequirements
	if passed {
		next = domain.NodeGeneratePitch
	}
	return produced(s, domain.NodeAssessmentGate, docGate, renderGate(passed, in), next)
}

func (e *Engine) improveRequirements(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeImproveRequirements
	if s.ConsultantAnalysisReport == nil {
		return reroute(s, "consultant_analysis_report", domain.NodeAnalyzeEnvironment)
	}
	if s.ProfessionalRequirementsDoc == "" {
		return reroute(s, "professional_requirements_doc", domain.NodeGenerateRequirements)
	}

	improved, err := e.complete(ctx, e.prompts().improve(&s, failedReasons(s)))
	if err != nil {
		return e.fallback(ctx, node, s, docImproved, err)
	}

	summary, err := e.complete(ctx, e.prompts().summaryFromRequirements(improved))
	if err != nil {
		e.warnFallback(ctx, node, "summary refresh failed, keeping previous summary", err)
	} else {
		s.UserRequest = summary
	}
	s.ProfessionalRequirementsDoc = improved
	s.AugmentPersonas = true
	return produced(s, node, docImproved, improved, domain.NodeGeneratePitch)
}

func failedReasons(s domain.InterviewState) []string {
	var reasons []string
	if p := s.Profitability; p != nil && !p.IsProfitable {
		reasons = append(reasons, "[Profitability NG] "+p.Reason)
	}
	if f := s.Feasibility; f != nil && !f.IsFeasible {
		reasons = append(reasons, "[Feasibility NG] "+f.Reason)
	}
	if l := s.Legal; l != nil && !l.IsCompliant {
		reasons = append(reasons, "[Legal NG] "+l.Reason)
	}
	return reasons
}
