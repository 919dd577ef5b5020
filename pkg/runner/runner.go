package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/embld/interviewflow/internal/logging"
	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/ports"
	"github.com/embld/interviewflow/pkg/session"
)

// SkipAnswer is sent for an empty line. An empty message would only present
// the question again; a blank one counts as an empty answer, which skips
// optional questions and re-asks required ones.
const SkipAnswer = " "

// ErrStopped is returned when the run ends before the interview completes,
// e.g. because a retry was declined. The session is left resumable.
var ErrStopped = errors.New("interview stopped")

// Runner handles the execution loop of the interview engine using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Retry decides what happens after a fallback message.
	// Defaults to ConfirmRetry.
	Retry RetryPolicy

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Sessions persists every step. If nil, the run is ephemeral.
	Sessions *session.Manager

	engine ports.Engine
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
		Retry:  ConfirmRetry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the interview from sess.CurrentNode until it completes, the
// input ends or the user leaves. It returns the session as last saved.
func (r *Runner) Run(ctx context.Context, sess domain.Session, state domain.InterviewState) (domain.Session, error) {
	if r.engine == nil {
		return sess, fmt.Errorf("runner: engine is required")
	}
	handler := r.resolveHandler()

	node := sess.CurrentNode
	if node == "" {
		node = domain.StartNode
	}
	input := ""

	for {
		if err := ctx.Err(); err != nil {
			return sess, err
		}

		res, streamed, err := r.step(ctx, handler, &sess, node, state, input)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				if serr := handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err)); serr != nil {
					return sess, serr
				}
				input = ""
				continue
			}
			return sess, err
		}
		state = res.State

		needsInput := false
		if !streamed {
			if needsInput, err = handler.Output(ctx, res.Response); err != nil {
				return sess, fmt.Errorf("output error: %w", err)
			}
		}

		if res.IsComplete() {
			return sess, handler.SystemOutput(ctx, "Interview complete.")
		}

		if msg, ok := res.Response.(domain.MessageResponse); ok && msg.Fallback {
			retry, err := r.Retry(ctx, handler, msg)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return sess, ErrStopped
				}
				return sess, err
			}
			if !retry {
				return sess, ErrStopped
			}
			input = ""
			continue
		}

		node = ResumeNode(node, res)
		if !needsInput {
			input = ""
			continue
		}

		answer, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sess, ErrStopped
			}
			return sess, fmt.Errorf("input error: %w", err)
		}
		switch strings.TrimSpace(answer) {
		case "exit", "quit":
			return sess, ErrStopped
		case "":
			answer = SkipAnswer
		}
		input = answer
	}
}

// step runs one node and persists the result. Streamable nodes are
// delivered chunk by chunk once their state is saved.
func (r *Runner) step(
	ctx context.Context,
	handler IOHandler,
	sess *domain.Session,
	node domain.NodeID,
	state domain.InterviewState,
	input string,
) (runtime.Result, bool, error) {
	if !node.Streamable() || input != "" {
		res, err := r.engine.Execute(ctx, node, state, input)
		if err != nil {
			return runtime.Result{}, false, err
		}
		return res, false, r.save(ctx, sess, node, res)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sr, err := r.engine.Stream(streamCtx, node, state)
	if err != nil {
		return runtime.Result{}, false, err
	}
	res := runtime.Result{Response: sr.Response, State: sr.State, NextNode: sr.NextNode}
	if err := r.save(ctx, sess, node, res); err != nil {
		return runtime.Result{}, false, err
	}
	for chunk := range sr.Chunks {
		if _, err := handler.Output(ctx, chunk); err != nil {
			return runtime.Result{}, false, fmt.Errorf("output error: %w", err)
		}
	}
	return res, true, nil
}

func (r *Runner) save(ctx context.Context, sess *domain.Session, node domain.NodeID, res runtime.Result) error {
	if r.Sessions == nil || sess.ID == "" {
		return nil
	}
	saved, err := r.Sessions.Save(ctx, *sess, res.State, ResumeNode(node, res))
	if err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	*sess = saved
	r.Logger.Debug("state saved", "session_id", sess.ID, "node_id", saved.CurrentNode)
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r.Handler
}
