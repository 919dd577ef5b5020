package runtime

import (
	"log/slog"
	"time"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/plan"
)

const (
	// DefaultMaxFollowupRounds bounds how often ask_followups questions the user.
	DefaultMaxFollowupRounds = 2
	// DefaultQuestionsPerPersona is the number of simulated interview questions per persona.
	DefaultQuestionsPerPersona = 3
	// DefaultLanguage is the language every generated document is written in.
	DefaultLanguage = "English"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPlan replaces the embedded question plan.
func WithPlan(p plan.Plan) Option {
	return func(e *Engine) {
		e.plan = p
	}
}

// WithMaxFollowupRounds sets the follow-up cap. Zero disables follow-up questions.
func WithMaxFollowupRounds(n int) Option {
	return func(e *Engine) {
		e.maxFollowupRounds = n
	}
}

// WithGate sets the expression deciding between generate_pitch and
// improve_requirements. An empty expression keeps the default.
func WithGate(expression string) Option {
	return func(e *Engine) {
		if expression != "" {
			e.gateExpression = expression
		}
	}
}

// WithLanguage sets the output language of generated documents.
func WithLanguage(language string) Option {
	return func(e *Engine) {
		if language != "" {
			e.language = language
		}
	}
}

// WithChunkDelay sets the pause between streamed chunks.
func WithChunkDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.chunkDelay = d
	}
}

// WithInterviewQuestionsPerPersona sets how many questions each persona is asked.
func WithInterviewQuestionsPerPersona(n int) Option {
	return func(e *Engine) {
		e.questionsPerPersona = n
	}
}

// WithCallTimeout bounds every model call. A call that runs out of time is
// handled like any other model failure. Non-positive values keep
// middleware.DefaultTimeout.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithMaxInputSize bounds the size of a user message in bytes.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxInputSize = n
		}
	}
}
