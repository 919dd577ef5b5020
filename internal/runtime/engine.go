package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
	"github.com/embld/interviewflow/pkg/llm/middleware"
	"github.com/embld/interviewflow/pkg/plan"
	"github.com/embld/interviewflow/pkg/schema"
)

// Result is the outcome of one node execution. An empty NextNode means the
// workflow has no successor for this step.
type Result struct {
	Response domain.Response
	State    domain.InterviewState
	NextNode domain.NodeID
}

// IsComplete reports whether the interview reached its end: there is no next
// node and nothing is awaiting an answer.
func (r Result) IsComplete() bool {
	return r.NextNode == "" && r.Response != nil && r.Response.Type() != domain.ResponseQuestion
}

// Engine runs interview nodes. It is a pure step function over the state it
// is given: everything it holds is immutable after NewEngine, so a single
// Engine serves any number of sessions concurrently.
type Engine struct {
	llm       llm.Client
	plan      plan.Plan
	validator *schema.Validator
	gate      *gate
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	gateExpression        string
	maxFollowupRounds     int
	questionsPerPersona   int
	language              string
	chunkDelay            time.Duration
	maxInputSize          int
	callTimeout           time.Duration
	clarificationQuestion *scriptedNode
	detailedQuestion      *scriptedNode
}

// NewEngine creates an engine that calls client for every synthesized step.
func NewEngine(client llm.Client, opts ...Option) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}

	e := &Engine{
		llm:                 client,
		plan:                plan.Default(),
		gateExpression:      DefaultGateExpression,
		maxFollowupRounds:   DefaultMaxFollowupRounds,
		questionsPerPersona: DefaultQuestionsPerPersona,
		language:            DefaultLanguage,
		maxInputSize:        domain.DefaultMaxInputSize,
		callTimeout:         middleware.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := e.plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question plan: %w", err)
	}
	if e.maxFollowupRounds < 0 {
		return nil, fmt.Errorf("max followup rounds must not be negative, got %d", e.maxFollowupRounds)
	}
	if e.questionsPerPersona < 1 {
		return nil, fmt.Errorf("questions per persona must be positive, got %d", e.questionsPerPersona)
	}

	g, err := compileGate(e.gateExpression)
	if err != nil {
		return nil, err
	}
	e.gate = g

	v, err := schema.NewValidator(schema.WithPlanLength(len(e.plan.Clarification)))
	if err != nil {
		return nil, fmt.Errorf("failed to build state validator: %w", err)
	}
	e.validator = v

	e.clarificationQuestion = e.newClarificationNode()
	e.detailedQuestion = e.newDetailedNode()
	return e, nil
}

// Plan returns the question plan the engine was built with.
func (e *Engine) Plan() plan.Plan { return e.plan }

// Validator returns the state validator bound to the engine's plan.
func (e *Engine) Validator() *schema.Validator { return e.validator }

// Execute runs one node against state with an optional user message.
//
// The node must belong to the closed set and the state must validate;
// otherwise an error wrapping domain.ErrUnknownNode or domain.ErrInvalidState
// is returned and no handler runs. Model failures never surface as errors:
// they produce a fallback message that keeps the session on the same node.
func (e *Engine) Execute(ctx context.Context, node domain.NodeID, state domain.InterviewState, message string) (Result, error) {
	if !node.Valid() {
		e.logger.Error("dispatch to unknown node", "node_id", node)
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownNode, node)
	}

	msg, err := domain.SanitizeInputLimit(message, e.maxInputSize)
	if err != nil {
		return Result{}, err
	}

	if err := e.validator.ValidateState(state); err != nil {
		return Result{}, fmt.Errorf("state rejected for node %s: %w", node, err)
	}

	e.emitNodeEnter(ctx, node)
	start := time.Now()

	work := state.Clone()
	work.Normalize()
	res, err := e.dispatch(ctx, node, work, msg)

	e.emitNodeLeave(ctx, node, res, time.Since(start), err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// dispatch routes to the handler owning node.
func (e *Engine) dispatch(ctx context.Context, node domain.NodeID, s domain.InterviewState, msg string) (Result, error) {
	//exhaustive:enforce
	switch node {
	case domain.NodeClarificationInterview:
		return e.clarificationQuestion.run(ctx, s, msg)
	case domain.NodeDetailedQuestions:
		return e.detailedQuestion.run(ctx, s, msg)
	case domain.NodeSummarizeRequest:
		return e.summarizeRequest(ctx, s)
	case domain.NodeGeneratePersonas:
		return e.generatePersonas(ctx, s)
	case domain.NodeConductInterviews:
		return e.conductInterviews(ctx, s)
	case domain.NodeEvaluateInformation:
		return e.evaluateInformation(ctx, s)
	case domain.NodeAskFollowups:
		return e.askFollowups(ctx, s, msg)
	case domain.NodeGenerateRequirements:
		return e.generateRequirements(ctx, s)
	case domain.NodeAnalyzeEnvironment:
		return e.analyzeEnvironment(ctx, s)
	case domain.NodeAssessProfitability:
		return e.assessProfitability(ctx, s)
	case domain.NodeAssessFeasibility:
		return e.assessFeasibility(ctx, s)
	case domain.NodeAssessLegal:
		return e.assessLegal(ctx, s)
	case domain.NodeAssessmentGate:
		return e.assessmentGate(ctx, s)
	case domain.NodeImproveRequirements:
		return e.improveRequirements(ctx, s)
	case domain.NodeGeneratePitch:
		return e.generatePitch(ctx, s)
	}
	return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownNode, node)
}

func (e *Engine) emitNodeEnter(ctx context.Context, node domain.NodeID) {
	e.logger.Debug("node enter", "node_id", node)
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeEnter},
		NodeID:    node,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, node domain.NodeID, res Result, elapsed time.Duration, err error) {
	var responseType string
	if res.Response != nil {
		responseType = string(res.Response.Type())
	}
	e.logger.Debug("node leave",
		"node_id", node,
		"next_node", res.NextNode,
		"response_type", responseType,
		"duration", elapsed,
		"error", err)

	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeLeave},
		NodeID:       node,
		NextNode:     res.NextNode,
		ResponseType: responseType,
		Duration:     elapsed,
		Err:          err,
	})
}

func (e *Engine) emitFallback(ctx context.Context, node domain.NodeID, reason string) {
	if e.hooks.OnFallback == nil {
		return
	}
	e.hooks.OnFallback(ctx, &domain.FallbackEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventModelFallback},
		NodeID:    node,
		Reason:    reason,
	})
}
