package ports

import (
	"context"

	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/schema"
)

// Engine is the stateless interview core used by the transports (HTTP, MCP, CLI).
// Callers own the state: every call takes it in and hands a new one back.
type Engine interface {
	// Execute runs one node with an optional user message.
	Execute(ctx context.Context, node domain.NodeID, state domain.InterviewState, message string) (runtime.Result, error)

	// Stream runs a streamable node and returns its content as ordered chunks.
	Stream(ctx context.Context, node domain.NodeID, state domain.InterviewState) (runtime.StreamResult, error)

	// Validator returns the validator the engine checks states with.
	Validator() *schema.Validator
}

var _ Engine = (*runtime.Engine)(nil)
