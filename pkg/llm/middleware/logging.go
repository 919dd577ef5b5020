package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/embld/interviewflow/pkg/llm"
)

// Logging records one debug line per completion, or a warning on failure.
func Logging(logger *slog.Logger) llm.Middleware {
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(func(ctx context.Context, req llm.Request) (llm.Response, error) {
			start := time.Now()
			resp, err := next.Complete(ctx, req)
			attrs := []any{
				"model", next.ModelName(),
				"duration", time.Since(start),
				"max_tokens", req.EffectiveMaxTokens(),
			}
			if err != nil {
				logger.WarnContext(ctx, "LLM request failed", append(attrs, "error", err)...)
				return resp, err
			}
			logger.DebugContext(ctx, "LLM request completed", append(attrs, "chars", len(resp.Content))...)
			return resp, nil
		}, next.ModelName)
	}
}
