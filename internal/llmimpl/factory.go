// Package llmimpl selects an LLM provider and assembles the middleware chain
// the workflow engine calls through.
package llmimpl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/embld/interviewflow/internal/llmimpl/anthropic"
	"github.com/embld/interviewflow/internal/llmimpl/google"
	"github.com/embld/interviewflow/internal/llmimpl/ollama"
	"github.com/embld/interviewflow/internal/llmimpl/openai"
	"github.com/embld/interviewflow/pkg/llm"
	"github.com/embld/interviewflow/pkg/llm/middleware"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
	ProviderOllama    = "ollama"
)

// Providers lists the supported provider names.
func Providers() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderOllama}
}

// Config describes which provider to use and how to call it.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL is the Ollama host, or an OpenAI-compatible endpoint.
	BaseURL string
	Timeout time.Duration
	Retry   middleware.RetryConfig
}

// Options are the process-wide collaborators of the chain.
type Options struct {
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// NewProvider creates the bare provider client, without middleware.
func NewProvider(ctx context.Context, cfg Config) (llm.Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai: API key is required")
		}
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(cfg.APIKey, cfg.Model, opts...), nil
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic: API key is required")
		}
		return anthropic.New(cfg.APIKey, cfg.Model), nil
	case ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google: API key is required")
		}
		return google.New(ctx, cfg.APIKey, cfg.Model)
	case ProviderOllama:
		return ollama.New(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (want one of %s)", cfg.Provider, strings.Join(Providers(), ", "))
	}
}

// Build wraps base with the standard chain. Order, outermost first:
// logging, metrics, retry, timeout, content validation.
// Each attempt gets its own timeout; metrics and logs see the final outcome.
func Build(base llm.Client, cfg Config, opts Options) llm.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = middleware.DefaultTimeout
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = middleware.DefaultRetryConfig
	}

	var mws []llm.Middleware
	if opts.Logger != nil {
		mws = append(mws, middleware.Logging(opts.Logger))
	}
	if opts.Registerer != nil {
		mws = append(mws, middleware.NewMetrics(opts.Registerer).Middleware())
	}
	mws = append(mws,
		middleware.Retry(retry, nil),
		middleware.Timeout(timeout),
		middleware.RequireContent(),
	)
	return llm.Chain(base, mws...)
}

// New creates the provider named by cfg and wraps it with Build.
func New(ctx context.Context, cfg Config, opts Options) (llm.Client, error) {
	base, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Build(base, cfg, opts), nil
}
