package middleware

import (
	"context"
	"strings"

	"github.com/embld/interviewflow/pkg/llm"
)

// RequireContent turns a blank completion into llm.ErrEmptyResponse so that
// callers take their fallback path instead of storing nothing.
func RequireContent() llm.Middleware {
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(func(ctx context.Context, req llm.Request) (llm.Response, error) {
			resp, err := next.Complete(ctx, req)
			if err != nil {
				return resp, err
			}
			if strings.TrimSpace(resp.Content) == "" {
				return llm.Response{}, llm.ErrEmptyResponse
			}
			return resp, nil
		}, next.ModelName)
	}
}
