// Package cli wires configuration into the engine, storage and transports
// that the interviewflow commands run.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/embld/interviewflow/internal/config"
	"github.com/embld/interviewflow/internal/llmimpl"
	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/llm"
	"github.com/embld/interviewflow/pkg/observability"
	"github.com/embld/interviewflow/pkg/plan"
	"github.com/embld/interviewflow/pkg/session"
)

// App holds the process-wide components shared by every command.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Engine   *runtime.Engine
	Sessions *session.Manager

	closers []func() error
}

type buildOptions struct {
	client  llm.Client
	credits bool
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

// WithClient replaces the configured provider, e.g. with a scripted model.
// The client is used as is, without the middleware chain.
func WithClient(c llm.Client) BuildOption {
	return func(o *buildOptions) { o.client = c }
}

// WithoutCredits opens sessions free of charge, as the local runner does.
func WithoutCredits() BuildOption {
	return func(o *buildOptions) { o.credits = false }
}

// Build validates cfg and assembles the application.
// The caller must Close the returned App.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...BuildOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	o := buildOptions{credits: true}
	for _, opt := range opts {
		opt(&o)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := o.client
	if client == nil {
		var err error
		client, err = llmimpl.New(ctx, cfg.LLM.Client(), llmimpl.Options{Logger: logger, Registerer: reg})
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	}

	engineOpts, err := engineOptions(cfg.Workflow, cfg.LLM.Timeout, logger, reg)
	if err != nil {
		return nil, err
	}
	engine, err := runtime.NewEngine(client, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	storage, err := OpenStorage(ctx, cfg.Store, cfg.Credits.InitialGrant)
	if err != nil {
		return nil, err
	}
	ledger := storage.Ledger
	if !o.credits {
		ledger = nil
	}

	sessions, err := session.NewManager(storage.Store, ledger, engine.Validator(),
		session.WithLogger(logger),
		session.WithSessionCost(cfg.Credits.SessionCost),
	)
	if err != nil {
		if storage.Close != nil {
			_ = storage.Close()
		}
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Engine:   engine,
		Sessions: sessions,
	}
	if storage.Close != nil {
		app.closers = append(app.closers, storage.Close)
	}
	logger.Debug("application ready",
		"provider", cfg.LLM.Provider,
		"model", client.ModelName(),
		"store", cfg.Store.Driver,
		"encrypted", cfg.Store.EncryptionKey != "")
	return app, nil
}

func engineOptions(cfg config.WorkflowConfig, callTimeout time.Duration, logger *slog.Logger, reg prometheus.Registerer) ([]runtime.Option, error) {
	opts := []runtime.Option{
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(observability.Combine(
			observability.NewMetrics(reg).Hooks(),
			observability.AuditHooks(logger),
		)),
		runtime.WithLanguage(cfg.Language),
		runtime.WithMaxFollowupRounds(cfg.MaxFollowupRounds),
		runtime.WithGate(cfg.Gate),
		runtime.WithChunkDelay(cfg.ChunkDelay),
		runtime.WithInterviewQuestionsPerPersona(cfg.QuestionsPerPersona),
		runtime.WithMaxInputSize(cfg.MaxInputSize),
		runtime.WithCallTimeout(callTimeout),
	}
	if cfg.PlanFile != "" {
		p, err := plan.Load(cfg.PlanFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, runtime.WithPlan(p))
	}
	return opts, nil
}

// Close releases storage connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
