package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/embld/interviewflow/pkg/domain"
)

// StreamResult carries the finalized state of a streamed step and the chunk
// sequence of its content. State and NextNode are final before the first
// chunk is produced; callers persist them before draining Chunks.
type StreamResult struct {
	Response domain.Response
	State    domain.InterviewState
	NextNode domain.NodeID
	Chunks   <-chan domain.StreamingResponse
}

// Stream runs a streamable node once and delivers its content as ordered
// line chunks. A node that is not streamable yields an already closed
// channel and leaves the state and node as they were.
//
// A model failure streams the fallback message like any other content, so
// the client always learns why the step did not advance.
//
// Cancelling ctx stops emission and closes the channel; nothing else
// happens after the first chunk.
func (e *Engine) Stream(ctx context.Context, node domain.NodeID, state domain.InterviewState) (StreamResult, error) {
	if !node.Valid() {
		return StreamResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownNode, node)
	}
	if !node.Streamable() {
		if err := e.validator.ValidateState(state); err != nil {
			return StreamResult{}, err
		}
		closed := make(chan domain.StreamingResponse)
		close(closed)
		s := state.Clone()
		s.Normalize()
		return StreamResult{State: s, NextNode: node, Chunks: closed}, nil
	}

	res, err := e.Execute(ctx, node, state, "")
	if err != nil {
		return StreamResult{}, err
	}

	chunks := make(chan domain.StreamingResponse)
	go e.emitChunks(ctx, node, SplitChunks(contentOf(res.Response)), chunks)

	return StreamResult{
		Response: res.Response,
		State:    res.State,
		NextNode: res.NextNode,
		Chunks:   chunks,
	}, nil
}

func (e *Engine) emitChunks(ctx context.Context, node domain.NodeID, parts []string, out chan<- domain.StreamingResponse) {
	defer close(out)
	for i, part := range parts {
		if i > 0 && e.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(e.chunkDelay):
			}
		}
		chunk := domain.StreamingResponse{
			Content:    part,
			IsComplete: i == len(parts)-1,
			Node:       node,
		}
		select {
		case <-ctx.Done():
			return
		case out <- chunk:
		}
	}
}

// SplitChunks splits content into lines, keeping the newline on every
// fragment but the last. Concatenating the chunks yields content.
func SplitChunks(content string) []string {
	parts := strings.Split(content, "\n")
	for i := 0; i < len(parts)-1; i++ {
		parts[i] += "\n"
	}
	return parts
}

// contentOf extracts the user-visible text of any response.
func contentOf(r domain.Response) string {
	var v contentVisitor
	if r != nil {
		r.Accept(&v)
	}
	return v.content
}

type contentVisitor struct{ content string }

func (v *contentVisitor) VisitQuestion(r domain.QuestionResponse)   { v.content = r.Prompt }
func (v *contentVisitor) VisitPlan(r domain.PlanResponse)           { v.content = r.Content }
func (v *contentVisitor) VisitStreaming(r domain.StreamingResponse) { v.content = r.Content }
func (v *contentVisitor) VisitMessage(r domain.MessageResponse)     { v.content = r.Content }
