package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

// maxPersonas is the number of personas requested from the model.
const maxPersonas = 5

func (e *Engine) summarizeRequest(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeSummarizeRequest
	summary, err := e.complete(ctx, e.prompts().summarizeRequest(&s))
	if err != nil {
		return e.fallback(ctx, node, s, docSummary, err)
	}
	s.UserRequest = summary
	return produced(s, node, docSummary, summary, domain.NodeGeneratePersonas)
}

func (e *Engine) generatePersonas(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeGeneratePersonas
	if s.UserRequest == "" {
		return reroute(s, "user_request", domain.NodeSummarizeRequest)
	}
	if len(s.Personas) > 0 {
		return produced(s, node, docPersonas, renderPersonas(s.Personas), domain.NodeConductInterviews)
	}

	content, err := e.complete(ctx, e.prompts().personas(&s))
	if err != nil {
		return e.fallback(ctx, node, s, docPersonas, err)
	}
	personas, err := parsePersonas(content)
	if err != nil {
		return e.fallback(ctx, node, s, docPersonas, err)
	}

	s.Personas = personas
	s.Iteration = 0
	s.IsInformationSufficient = false
	return produced(s, node, docPersonas, renderPersonas(personas), domain.NodeConductInterviews)
}

func parsePersonas(content string) ([]domain.Persona, error) {
	var out struct {
		Personas []domain.Persona `json:"personas"`
	}
	if err := decodeModelJSON(content, &out); err != nil {
		return nil, err
	}
	personas := make([]domain.Persona, 0, len(out.Personas))
	for _, p := range out.Personas {
		p.Name = strings.TrimSpace(p.Name)
		p.Background = strings.TrimSpace(p.Background)
		if p.Name == "" {
			continue
		}
		personas = append(personas, p)
		if len(personas) == maxPersonas {
			break
		}
	}
	if len(personas) == 0 {
		return nil, fmt.Errorf("model returned no personas")
	}
	return personas, nil
}

// conductInterviews simulates an interview with every persona. A persona
// whose questions cannot be generated is skipped; the node only falls back
// when no interview at all could be produced.
func (e *Engine) conductInterviews(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeConductInterviews
	if len(s.Personas) == 0 {
		return reroute(s, "personas", domain.NodeGeneratePersonas)
	}
	if len(s.Interviews) > 0 {
		return produced(s, node, docInterviews, renderInterviews(s.Interviews), domain.NodeEvaluateInformation)
	}

	var (
		interviews []domain.Interview
		lastErr    error
	)
	p := e.prompts()
	for _, persona := range s.Personas {
		content, err := e.complete(ctx, p.interviewQuestions(&s, persona))
		if err != nil {
			e.logger.Warn("interview questions failed", "node_id", node, "persona", persona.Name, "error", err)
			lastErr = err
			continue
		}
		for _, question := range parseLines(content, e.questionsPerPersona) {
			answer, err := e.complete(ctx, p.interviewAnswer(persona, question))
			if err != nil {
				e.logger.Warn("interview answer failed", "node_id", node, "persona", persona.Name, "error", err)
				lastErr = err
				continue
			}
			interviews = append(interviews, domain.Interview{Persona: persona, Question: question, Answer: answer})
		}
	}
	if len(interviews) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("model returned no interview questions")
		}
		return e.fallback(ctx, node, s, docInterviews, lastErr)
	}

	s.Interviews = interviews
	return produced(s, node, docInterviews, renderInterviews(interviews), domain.NodeEvaluateInformation)
}

func (e *Engine) generateRequirements(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeGenerateRequirements
	if s.UserRequest == "" {
		return reroute(s, "user_request", domain.NodeSummarizeRequest)
	}
	doc, err := e.complete(ctx, e.prompts().requirements(&s))
	if err != nil {
		return e.fallback(ctx, node, s, docRequirements, err)
	}
	s.ProfessionalRequirementsDoc = doc
	return produced(s, node, docRequirements, doc, domain.NodeAnalyzeEnvironment)
}

func (e *Engine) generatePitch(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeGeneratePitch
	if s.UserRequest == "" {
		return reroute(s, "user_request", domain.NodeSummarizeRequest)
	}
	pitch, err := e.complete(ctx, e.prompts().pitch(&s))
	if err != nil {
		return e.fallback(ctx, node, s, docPitch, err)
	}
	s.PitchDocument = pitch
	return produced(s, node, docPitch, pitch, "")
}
