package runtime

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
)

// complete calls the model under the per-call timeout and returns the
// trimmed content.
func (e *Engine) complete(ctx context.Context, req llm.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	resp, err := e.llm.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}

// warnFallback records that a node absorbed a model failure.
func (e *Engine) warnFallback(ctx context.Context, node domain.NodeID, msg string, err error) {
	e.logger.Warn(msg, "node_id", node, "error", err)
	e.emitFallback(ctx, node, fmt.Sprintf("%s: %v", msg, err))
}

// fallback keeps the session on node with its state untouched so the
// client can retry without losing anything.
func (e *Engine) fallback(ctx context.Context, node domain.NodeID, s domain.InterviewState, doc document, err error) (Result, error) {
	e.warnFallback(ctx, node, "model step failed, returning fallback", err)
	return Result{
		Response: domain.MessageResponse{
			Content:  fmt.Sprintf("The %s could not be generated right now. Your answers are saved; run this step again to retry.", strings.ToLower(doc.title)),
			Title:    doc.title,
			Document: doc.kind,
			Fallback: true,
			Node:     node,
		},
		State:    s,
		NextNode: node,
	}, nil
}

// reroute sends the session back to the node that produces a missing input.
func reroute(s domain.InterviewState, missing string, target domain.NodeID) (Result, error) {
	return Result{
		Response: domain.PlanResponse{Content: fmt.Sprintf("%s is not available yet; continuing with %s.", missing, target)},
		State:    s,
		NextNode: target,
	}, nil
}

// produced returns a document message moving on to next.
func produced(s domain.InterviewState, node domain.NodeID, doc document, content string, next domain.NodeID) (Result, error) {
	return Result{
		Response: domain.MessageResponse{
			Content:  content,
			Title:    doc.title,
			Document: doc.kind,
			Node:     node,
		},
		State:    s,
		NextNode: next,
	}, nil
}

var listMarker = regexp.MustCompile(`^\s*(?:[-•*]|\d+[.)])\s*`)

// stripListMarkers removes bullets and numbering from every line.
func stripListMarkers(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = listMarker.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}

// parseLines returns up to limit non-empty lines with list markers removed.
func parseLines(content string, limit int) []string {
	var out []string
	for _, line := range strings.Split(stripListMarkers(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
