package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/plan"
)

func (e *Engine) newDetailedNode() *scriptedNode {
	return &scriptedNode{
		id:        domain.NodeDetailedQuestions,
		successor: domain.NodeSummarizeRequest,
		prepare:   e.prepareDetailed,
		questions: detailedPlan,
		cursor:    func(s *domain.InterviewState) *int { return &s.CurrentDetailedQuestionIndex },
		resolve: func(_ *domain.InterviewState, qs []domain.Question, i int) (domain.Question, bool) {
			return qs[i], true
		},
		mustAnswer: func(*domain.InterviewState, domain.Question) bool { return true },
		sink: func(s *domain.InterviewState, q domain.Question, answer string) {
			s.DetailedAnswers[q.ID] = answer
		},
		fold: foldDetailed,
	}
}

// prepareDetailed generates the question list on first entry, falling back
// to the plan's built-in alignment questions.
func (e *Engine) prepareDetailed(ctx context.Context, s *domain.InterviewState) {
	if len(s.DetailedQuestions) > 0 {
		return
	}

	questions, err := e.generateDetailedQuestions(ctx, s)
	if err != nil {
		e.warnFallback(ctx, domain.NodeDetailedQuestions, "using built-in detailed questions", err)
		questions = append([]string{}, e.plan.DetailedFallback...)
	}
	s.DetailedQuestions = questions
	s.CurrentDetailedQuestionIndex = 0
}

func (e *Engine) generateDetailedQuestions(ctx context.Context, s *domain.InterviewState) ([]string, error) {
	content, err := e.complete(ctx, e.prompts().detailedQuestions(s))
	if err != nil {
		return nil, err
	}
	questions := parseLines(content, plan.MaxDetailedQuestions)
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	return questions, nil
}

func detailedKey(i int) string { return fmt.Sprintf("detailed_%d", i) }

func detailedPlan(s *domain.InterviewState) []domain.Question {
	qs := make([]domain.Question, len(s.DetailedQuestions))
	for i, text := range s.DetailedQuestions {
		qs[i] = domain.Question{
			ID:       detailedKey(i),
			Title:    fmt.Sprintf("Question %d", i+1),
			Prompt:   text,
			Type:     domain.QuestionYesNo,
			Choices:  domain.YesNoChoices,
			Required: true,
		}
	}
	return qs
}

func foldDetailed(s *domain.InterviewState, qs []domain.Question) {
	var b strings.Builder
	b.WriteString("## Detailed questions\n\n")
	for i, q := range qs {
		answer := s.DetailedAnswers[q.ID]
		if answer == "" {
			answer = "unanswered"
		}
		fmt.Fprintf(&b, "### Question %d\n%s\n**Answer**: %s\n\n", i+1, q.Prompt, answer)
	}
	s.ClarificationInterviewLog = appendSection(s.ClarificationInterviewLog, b.String())
}
