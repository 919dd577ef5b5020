package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/embld/interviewflow"
	"github.com/embld/interviewflow/internal/presentation/tui"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/runner"
)

// LocalOwner owns the sessions of the interactive runner.
const LocalOwner = "local"

// RunOptions configures RunSession.
type RunOptions struct {
	// SessionID resumes or creates a persisted session. Empty runs an
	// ephemeral interview.
	SessionID string
	Title     string
	JSON      bool
	NoBanner  bool
	In        io.Reader
	Out       io.Writer
}

// RunSession drives one interview on the terminal (or NDJSON on stdio).
// Leaving the interview early is not an error.
func RunSession(ctx context.Context, app *App, opts RunOptions) error {
	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		if !opts.NoBanner && opts.Out != nil {
			tui.PrintBanner(opts.Out, interviewflow.Version)
		}
		render, err := tui.NewRenderer(0)
		if err != nil {
			app.Logger.Warn("markdown rendering disabled", "err", err)
		}
		var textOpts []runner.TextHandlerOption
		if render != nil {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
		}
		th := runner.NewTextHandler(opts.In, opts.Out, textOpts...)
		defer th.Close()
		handler = th
	}

	sess, state, loaded, err := openSession(ctx, app, opts)
	if err != nil {
		return err
	}
	if loaded {
		app.Logger.Info("session resumed", "session_id", sess.ID, "node_id", sess.CurrentNode)
		_ = handler.SystemOutput(ctx, fmt.Sprintf("Resuming session %s at %s.", sess.ID, sess.CurrentNode))
	} else if sess.ID != "" {
		app.Logger.Info("session created", "session_id", sess.ID)
	}

	r := runner.NewRunner(
		runner.WithEngine(app.Engine),
		runner.WithSessions(app.Sessions),
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	)
	final, err := r.Run(ctx, sess, state)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, runner.ErrStopped), errors.Is(err, context.Canceled):
		if final.ID != "" {
			_ = handler.SystemOutput(context.WithoutCancel(ctx),
				fmt.Sprintf("Stopped at %s. Resume with --session %s.", final.CurrentNode, final.ID))
		}
		return nil
	default:
		return err
	}
}

func openSession(ctx context.Context, app *App, opts RunOptions) (domain.Session, domain.InterviewState, bool, error) {
	if opts.SessionID == "" {
		return domain.Session{CurrentNode: domain.StartNode}, domain.NewInterviewState(), false, nil
	}
	sess, state, err := app.Sessions.Load(ctx, LocalOwner, opts.SessionID)
	if err == nil {
		return sess, state, true, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.Session{}, domain.InterviewState{}, false, fmt.Errorf("failed to load session %s: %w", opts.SessionID, err)
	}
	sess, state, err = app.Sessions.CreateWithID(ctx, opts.SessionID, LocalOwner, opts.Title, "")
	if err != nil {
		return domain.Session{}, domain.InterviewState{}, false, fmt.Errorf("failed to create session %s: %w", opts.SessionID, err)
	}
	return sess, state, false, nil
}
