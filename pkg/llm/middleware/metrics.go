package middleware

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tiktoken-go/tokenizer"

	"github.com/embld/interviewflow/pkg/llm"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics records request counts, latency and token usage per model.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	tokensTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the LLM collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interviewflow_llm_requests_total",
				Help: "Total number of LLM requests by model and status",
			},
			[]string{"model", "status", "error_type"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interviewflow_llm_tokens_total",
				Help: "Estimated tokens sent to and received from the model",
			},
			[]string{"model", "type"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interviewflow_llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
	}
	reg.MustRegister(m.requestsTotal, m.tokensTotal, m.requestDuration)
	return m
}

// Middleware observes every completion passing through it.
func (m *Metrics) Middleware() llm.Middleware {
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(func(ctx context.Context, req llm.Request) (llm.Response, error) {
			model := next.ModelName()
			start := time.Now()
			resp, err := next.Complete(ctx, req)
			m.requestDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())

			if err != nil {
				m.requestsTotal.WithLabelValues(model, statusError, errorType(err)).Inc()
				return resp, err
			}
			m.requestsTotal.WithLabelValues(model, statusSuccess, "").Inc()

			var prompt strings.Builder
			for _, msg := range req.Messages {
				prompt.WriteString(msg.Content)
				prompt.WriteByte('\n')
			}
			m.tokensTotal.WithLabelValues(model, "prompt").Add(float64(CountTokens(prompt.String())))
			m.tokensTotal.WithLabelValues(model, "completion").Add(float64(CountTokens(resp.Content)))
			return resp, nil
		}, next.ModelName)
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty_response"
	case ShouldRetry(err):
		return "transient"
	}
	return "other"
}

var gpt4Codec = sync.OnceValues(func() (tokenizer.Codec, error) {
	return tokenizer.ForModel(tokenizer.GPT4)
})

// CountTokens estimates tokens with the GPT-4 encoding, falling back to
// four characters per token when the codec is unavailable.
func CountTokens(text string) int {
	codec, err := gpt4Codec()
	if err != nil {
		return len(text) / 4
	}
	n, err := codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return n
}
