package runner

import (
	"context"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

// RetryPolicy is consulted when a node answers with a fallback message.
// It returns true to run the same node again and false to stop the run,
// leaving the session where it is.
type RetryPolicy func(ctx context.Context, handler IOHandler, msg domain.MessageResponse) (bool, error)

// ConfirmRetry asks the user through handler. An empty answer means yes.
func ConfirmRetry() RetryPolicy {
	return func(ctx context.Context, handler IOHandler, msg domain.MessageResponse) (bool, error) {
		if err := handler.SystemOutput(ctx, "The model step failed. Retry? [Y/n]"); err != nil {
			return false, err
		}
		input, err := handler.Input(ctx)
		if err != nil {
			return false, err
		}
		switch strings.TrimSpace(strings.ToLower(input)) {
		case "", "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// RetryUpTo retries without asking, at most n times in a row per node.
func RetryUpTo(n int) RetryPolicy {
	var (
		last  domain.NodeID
		count int
	)
	return func(ctx context.Context, handler IOHandler, msg domain.MessageResponse) (bool, error) {
		if msg.Node != last {
			last, count = msg.Node, 0
		}
		if count >= n {
			return false, nil
		}
		count++
		return true, handler.SystemOutput(ctx, "The model step failed, retrying.")
	}
}

// NeverRetry stops at the first fallback.
func NeverRetry() RetryPolicy {
	return func(context.Context, IOHandler, domain.MessageResponse) (bool, error) {
		return false, nil
	}
}
