package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

// scriptedNode walks a question plan one answer at a time.
//
// States are the cursor positions 0..N. Every call either presents the
// question at the cursor, records an answer and advances, or, once the
// cursor reaches N, hands over to the successor.
type scriptedNode struct {
	id        domain.NodeID
	successor domain.NodeID

	// prepare runs before anything else, e.g. to generate the plan on first entry.
	prepare func(ctx context.Context, s *domain.InterviewState)
	// questions returns the plan for s.
	questions func(s *domain.InterviewState) []domain.Question
	cursor    func(s *domain.InterviewState) *int
	// resolve returns the question as shown at index i, or false when it must be skipped.
	resolve func(s *domain.InterviewState, qs []domain.Question, i int) (domain.Question, bool)
	// present may enrich a question before it is shown, e.g. with model-proposed choices.
	present func(ctx context.Context, s *domain.InterviewState, i int, q domain.Question) domain.Question
	// mustAnswer reports whether an empty answer keeps the node on the question.
	mustAnswer func(s *domain.InterviewState, q domain.Question) bool
	sink       func(s *domain.InterviewState, q domain.Question, answer string)
	fold       func(s *domain.InterviewState, qs []domain.Question)
}

func (n *scriptedNode) run(ctx context.Context, in domain.InterviewState, msg string) (Result, error) {
	s := in.Clone()
	if n.prepare != nil {
		n.prepare(ctx, &s)
	}

	qs := n.questions(&s)
	cur := n.cursor(&s)

	if *cur >= len(qs) {
		return Result{
			Response: domain.PlanResponse{Content: fmt.Sprintf("All questions answered; continuing with %s.", n.successor)},
			State:    s,
			NextNode: n.successor,
		}, nil
	}
	n.skip(&s, qs, cur)
	if *cur >= len(qs) {
		return n.finish(in, s, qs), nil
	}

	q, _ := n.resolve(&s, qs, *cur)
	if msg == "" {
		return n.ask(ctx, &s, qs, *cur, q), nil
	}

	answer := normalizeAnswer(q, msg)
	if answer == "" && n.mustAnswer(&s, q) {
		return n.ask(ctx, &s, qs, *cur, q), nil
	}

	n.sink(&s, q, answer)
	*cur++
	n.skip(&s, qs, cur)
	if *cur >= len(qs) {
		return n.finish(in, s, qs), nil
	}

	next, _ := n.resolve(&s, qs, *cur)
	return n.ask(ctx, &s, qs, *cur, next), nil
}

// skip advances the cursor past questions that do not apply.
func (n *scriptedNode) skip(s *domain.InterviewState, qs []domain.Question, cur *int) {
	for *cur < len(qs) {
		if _, ok := n.resolve(s, qs, *cur); ok {
			return
		}
		*cur++
	}
}

func (n *scriptedNode) ask(ctx context.Context, s *domain.InterviewState, qs []domain.Question, i int, q domain.Question) Result {
	if n.present != nil {
		q = n.present(ctx, s, i, q)
	}
	return Result{
		Response: domain.QuestionResponse{
			Prompt:      q.Prompt,
			Choices:     q.Choices,
			InputType:   q.Type,
			Placeholder: q.Placeholder,
			Key:         q.ID,
			Node:        n.id,
			Current:     i + 1,
			Total:       len(qs),
		},
		State: *s,
	}
}

func (n *scriptedNode) finish(in, s domain.InterviewState, qs []domain.Question) Result {
	n.fold(&s, qs)
	return Result{
		Response: domain.PlanResponse{
			Content:    fmt.Sprintf("Answers recorded; continuing with %s.", n.successor),
			StatePatch: domain.Diff(in, s),
		},
		State:    s,
		NextNode: n.successor,
	}
}

// normalizeAnswer trims the answer and maps yes/no spellings onto choice values.
func normalizeAnswer(q domain.Question, msg string) string {
	answer := strings.TrimSpace(msg)
	if q.Type != domain.QuestionYesNo || answer == "" {
		return answer
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "true", "1":
		return "yes"
	case "n", "no", "false", "0":
		return "no"
	case "?", "unknown", "don't know", "dont know", "not sure":
		return "unknown"
	}
	return answer
}

// appendSection appends a section to the interview log, which only ever grows.
func appendSection(log, section string) string {
	section = strings.TrimRight(section, "\n")
	if log == "" {
		return section
	}
	return log + "\n\n" + section
}
