package interviewflow

import (
	_ "embed"
	"strings"

	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
)

//go:embed VERSION
var rawVersion string

// Version is the release of this module.
var Version = strings.TrimSpace(rawVersion)

type (
	// Engine runs interview nodes.
	Engine = runtime.Engine
	// Result is the outcome of one Execute call.
	Result = runtime.Result
	// StreamResult is the outcome of one Stream call.
	StreamResult = runtime.StreamResult
	// Option configures an Engine.
	Option = runtime.Option
)

// StartNode is the node every interview begins at.
const StartNode = domain.StartNode

// Engine options.
var (
	WithLogger                       = runtime.WithLogger
	WithLifecycleHooks               = runtime.WithLifecycleHooks
	WithPlan                         = runtime.WithPlan
	WithMaxFollowupRounds            = runtime.WithMaxFollowupRounds
	WithGate                         = runtime.WithGate
	WithLanguage                     = runtime.WithLanguage
	WithChunkDelay                   = runtime.WithChunkDelay
	WithInterviewQuestionsPerPersona = runtime.WithInterviewQuestionsPerPersona
	WithMaxInputSize                 = runtime.WithMaxInputSize
	WithCallTimeout                  = runtime.WithCallTimeout
)

// New creates an Engine that calls client for every synthesized step.
func New(client llm.Client, opts ...Option) (*Engine, error) {
	return runtime.NewEngine(client, opts...)
}

// NewState returns the empty state of a new interview.
func NewState() domain.InterviewState {
	return domain.NewInterviewState()
}
