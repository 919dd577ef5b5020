package runner

import (
	"log/slog"

	"github.com/embld/interviewflow/pkg/ports"
	"github.com/embld/interviewflow/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the interview engine. Required.
func WithEngine(engine ports.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithSessions persists every step through m.
// Without it, or for a session with no ID, the interview is ephemeral.
func WithSessions(m *session.Manager) Option {
	return func(r *Runner) {
		r.Sessions = m
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithRetryPolicy decides what happens after a fallback message.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(r *Runner) {
		r.Retry = policy
	}
}
