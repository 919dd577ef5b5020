package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/embld/interviewflow/pkg/llm"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"` // including the first call
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	Jitter        bool          `yaml:"jitter"`
}

// DefaultRetryConfig provides reasonable defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:   3,
	InitialDelay:  200 * time.Millisecond,
	MaxDelay:      5 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
}

// Classifier reports whether an error is worth another attempt.
type Classifier func(error) bool

// ShouldRetry retries transient transport, rate limit and server errors.
// Cancellation and deadlines are never retried.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, llm.ErrEmptyResponse) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "connection", "network", "temporary", "rate", "429", "500", "502", "503", "504", "overloaded"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Delay computes the wait before the given attempt (1-based).
func (c RetryConfig) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-2)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	if c.Jitter && delay > 0 {
		delay = delay/2 + rand.N(delay/2+1)
	}
	return delay
}

// Retry re-issues failed requests with exponential backoff.
// A nil classifier uses ShouldRetry.
func Retry(cfg RetryConfig, classify Classifier) llm.Middleware {
	if classify == nil {
		classify = ShouldRetry
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(func(ctx context.Context, req llm.Request) (llm.Response, error) {
			var lastErr error
			for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
				if delay := cfg.Delay(attempt); delay > 0 {
					select {
					case <-ctx.Done():
						return llm.Response{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
					case <-time.After(delay):
					}
				}

				resp, err := next.Complete(ctx, req)
				if err == nil {
					return resp, nil
				}
				lastErr = err
				if !classify(err) {
					break
				}
			}
			return llm.Response{}, lastErr
		}, next.ModelName)
	}
}
