package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/plan"
)

// maxPickedTerms is the number of model-assisted slots a plan may define.
const maxPickedTerms = 3

func (e *Engine) newClarificationNode() *scriptedNode {
	return &scriptedNode{
		id:        domain.NodeClarificationInterview,
		successor: domain.NodeDetailedQuestions,
		questions: func(*domain.InterviewState) []domain.Question { return e.plan.Clarification },
		cursor:    func(s *domain.InterviewState) *int { return &s.CurrentQuestionIndex },
		resolve:   e.resolveClarification,
		present:   e.presentClarification,
		mustAnswer: func(s *domain.InterviewState, q domain.Question) bool {
			return q.Required || (q.NeedsModelAssist && len(s.AssistCandidates[q.ID]) > 0)
		},
		sink: func(s *domain.InterviewState, q domain.Question, answer string) {
			if q.NeedsModelAssist {
				answer = strings.Join(splitTerms(answer), ", ")
			}
			s.ClarificationAnswers[q.ID] = answer
			switch q.SaveKey {
			case "initial_problem":
				s.InitialProblem = answer
			case "initial_persona":
				s.InitialPersona = answer
			case "initial_solution":
				s.InitialSolution = answer
			}
		},
		fold: e.foldClarification,
	}
}

// resolveClarification substitutes the picked term into slot questions and
// reports false for slots beyond the number of picked terms.
func (e *Engine) resolveClarification(s *domain.InterviewState, qs []domain.Question, i int) (domain.Question, bool) {
	q := qs[i]
	if q.Slot == 0 {
		return q, true
	}
	src := e.plan.AssistSource(i)
	if src < 0 {
		return q, false
	}
	terms := splitTerms(s.ClarificationAnswers[qs[src].ID])
	if q.Slot > len(terms) {
		return q, false
	}
	term := terms[q.Slot-1]
	q.Prompt = strings.ReplaceAll(q.Prompt, plan.TermPlaceholder, term)
	q.Title = strings.ReplaceAll(q.Title, plan.TermPlaceholder, term)
	q.Placeholder = strings.ReplaceAll(q.Placeholder, plan.TermPlaceholder, term)
	return q, true
}

// presentClarification offers model-proposed candidates for questions that
// ask for them. Candidates are kept in the state so a re-ask shows the same
// choices without another model call.
func (e *Engine) presentClarification(ctx context.Context, s *domain.InterviewState, _ int, q domain.Question) domain.Question {
	if !q.NeedsModelAssist {
		return q
	}

	candidates := s.AssistCandidates[q.ID]
	if len(candidates) == 0 && e.assistFieldEmpty(s, q) {
		proposed, err := e.proposeCandidates(ctx, s)
		if err != nil {
			e.warnFallback(ctx, domain.NodeClarificationInterview, "candidate proposal failed", err)
		} else if len(proposed) > 0 {
			s.AssistCandidates[q.ID] = proposed
			candidates = proposed
		}
	}
	if len(candidates) == 0 {
		return q
	}

	q.Type = domain.QuestionMulti
	q.Choices = make([]domain.Choice, 0, len(candidates))
	for _, c := range candidates {
		q.Choices = append(q.Choices, domain.Choice{Label: c, Value: c})
	}
	return q
}

func (e *Engine) assistFieldEmpty(s *domain.InterviewState, q domain.Question) bool {
	if s.ClarificationAnswers[q.ID] != "" {
		return false
	}
	switch q.SaveKey {
	case "initial_problem":
		return s.InitialProblem == ""
	case "initial_persona":
		return s.InitialPersona == ""
	case "initial_solution":
		return s.InitialSolution == ""
	}
	return true
}

func (e *Engine) proposeCandidates(ctx context.Context, s *domain.InterviewState) ([]string, error) {
	content, err := e.complete(ctx, e.prompts().candidateTerms(s))
	if err != nil {
		return nil, err
	}
	return splitTerms(stripListMarkers(content)), nil
}

// foldClarification appends every answered question, in plan order, to the log.
func (e *Engine) foldClarification(s *domain.InterviewState, qs []domain.Question) {
	var b strings.Builder
	b.WriteString("## Collected information\n\n")
	for i := range qs {
		q, ok := e.resolveClarification(s, qs, i)
		if !ok {
			continue
		}
		answer := strings.TrimSpace(s.ClarificationAnswers[q.ID])
		if answer == "" {
			continue
		}
		fmt.Fprintf(&b, "### %s\n%s\n\n", q.Heading(), answer)
	}
	s.ClarificationInterviewLog = appendSection(s.ClarificationInterviewLog, b.String())
}

// splitTerms splits a free-form answer on commas and newlines and keeps at
// most maxPickedTerms non-empty entries.
func splitTerms(answer string) []string {
	fields := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == '\n' || r == '、' || r == ';'
	})
	terms := make([]string, 0, maxPickedTerms)
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		terms = append(terms, f)
		if len(terms) == maxPickedTerms {
			break
		}
	}
	return terms
}
