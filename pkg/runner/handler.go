package runner

import (
	"context"

	"github.com/embld/interviewflow/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a response. It returns true when the response waits
	// for an answer.
	Output(ctx context.Context, resp domain.Response) (bool, error)

	// Input reads an answer. io.EOF ends the interview.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message such as a status update.
	// This is distinct from interview content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms document content before it is printed, e.g.
// markdown to ANSI.
type ContentRenderer func(string) (string, error)
