package middleware

import (
	"context"
	"time"

	"github.com/embld/interviewflow/pkg/llm"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 60 * time.Second

// Timeout gives every request its own deadline. A non-positive duration
// uses DefaultTimeout.
func Timeout(d time.Duration) llm.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(func(ctx context.Context, req llm.Request) (llm.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Complete(ctx, req)
		}, next.ModelName)
	}
}
