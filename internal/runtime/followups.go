package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

func (e *Engine) evaluateInformation(ctx context.Context, s domain.InterviewState) (Result, error) {
	node := domain.NodeEvaluateInformation
	if s.UserRequest == "" {
		return reroute(s, "user_request", domain.NodeSummarizeRequest)
	}

	content, err := e.complete(ctx, e.prompts().evaluate(&s))
	if err != nil {
		return e.fallback(ctx, node, s, docEvaluation, err)
	}
	var result domain.EvaluationResult
	if err := decodeModelJSON(content, &result); err != nil {
		return e.fallback(ctx, node, s, docEvaluation, err)
	}

	s.EvaluationResult = &result
	s.Normalize()
	s.IsInformationSufficient = result.IsSufficient
	s.Iteration++

	return produced(s, node, docEvaluation, renderEvaluation(result), e.afterEvaluation(s))
}

// afterEvaluation bounds the follow-up loop: once MaxFollowupRounds rounds
// were asked the workflow moves on regardless of the verdict.
func (e *Engine) afterEvaluation(s domain.InterviewState) domain.NodeID {
	switch {
	case s.IsInformationSufficient:
		return domain.NodeGenerateRequirements
	case s.FollowupRound < e.maxFollowupRounds:
		return domain.NodeAskFollowups
	default:
		return domain.NodeGenerateRequirements
	}
}

func (e *Engine) askFollowups(ctx context.Context, s domain.InterviewState, msg string) (Result, error) {
	node := domain.NodeAskFollowups
	if s.EvaluationResult == nil {
		return reroute(s, "evaluation_result", domain.NodeEvaluateInformation)
	}
	in := s.Clone()
	eval := s.EvaluationResult

	if s.FollowupRound >= e.maxFollowupRounds || len(eval.FollowupQuestions) == 0 {
		if len(eval.Gaps) > 0 {
			filled, err := e.complete(ctx, e.prompts().backfill(&s, eval.Gaps))
			if err != nil {
				e.warnFallback(ctx, node, "assumption backfill skipped", err)
			} else {
				s.ClarificationInterviewLog = appendSection(s.ClarificationInterviewLog, "## Assumptions filled in automatically\n"+filled)
			}
		}
		s.IsInformationSufficient = true
		return Result{
			Response: domain.PlanResponse{
				Content:    "Remaining gaps were filled with assumptions; continuing with the requirements document.",
				StatePatch: domain.Diff(in, s),
			},
			State:    s,
			NextNode: domain.NodeGenerateRequirements,
		}, nil
	}

	answer := strings.TrimSpace(msg)
	if answer == "" {
		return e.followupQuestion(ctx, s), nil
	}

	s.ClarificationInterviewLog = appendSection(s.ClarificationInterviewLog, followupHeader(s.FollowupRound)+"\n"+answer)
	s.FollowupRound++
	return Result{
		Response: domain.PlanResponse{
			Content:    "Thanks, your answers were added; re-evaluating the information.",
			StatePatch: domain.Diff(in, s),
		},
		State:    s,
		NextNode: domain.NodeEvaluateInformation,
	}, nil
}

// followupQuestion asks the open questions of the current round. The first
// round is free text; later rounds are rephrased as yes/no questions.
func (e *Engine) followupQuestion(ctx context.Context, s domain.InterviewState) Result {
	questions := s.EvaluationResult.FollowupQuestions
	mode := "free text"
	if s.FollowupRound > 0 {
		mode = "yes/no"
		content, err := e.complete(ctx, e.prompts().yesNoQuestions(questions))
		if err == nil {
			if converted := parseLines(content, 0); len(converted) > 0 {
				questions = converted
			}
		} else {
			e.warnFallback(ctx, domain.NodeAskFollowups, "yes/no conversion failed, asking original questions", err)
		}
	}

	lines := make([]string, len(questions))
	for i, q := range questions {
		lines[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return Result{
		Response: domain.QuestionResponse{
			Prompt:    fmt.Sprintf("Please tell us more about the following points (%s):\n\n%s", mode, strings.Join(lines, "\n")),
			InputType: domain.QuestionText,
			Key:       "followup_response",
			Node:      domain.NodeAskFollowups,
			Current:   s.FollowupRound + 1,
			Total:     e.maxFollowupRounds,
		},
		State: s,
	}
}

func followupHeader(round int) string {
	if round == 0 {
		return "## Additional input (round 1, free text)"
	}
	return fmt.Sprintf("## Additional input (round %d, yes/no)", round+1)
}
