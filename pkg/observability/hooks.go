package observability

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/embld/interviewflow/pkg/domain"
)

// Metrics holds the node-level collectors.
type Metrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	fallbacks  *prometheus.CounterVec
}

// NewMetrics registers the node collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interviewflow_node_executions_total",
				Help: "Node executions by node, response type and outcome",
			},
			[]string{"node", "response_type", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interviewflow_node_duration_seconds",
				Help:    "Node execution latency",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
			[]string{"node"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interviewflow_model_fallbacks_total",
				Help: "Model failures absorbed by a node",
			},
			[]string{"node"},
		),
	}
	reg.MustRegister(m.executions, m.duration, m.fallbacks)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.executions.WithLabelValues(string(e.NodeID), e.ResponseType, outcome).Inc()
			m.duration.WithLabelValues(string(e.NodeID)).Observe(e.Duration.Seconds())
		},
		OnFallback: func(_ context.Context, e *domain.FallbackEvent) {
			m.fallbacks.WithLabelValues(string(e.NodeID)).Inc()
		},
	}
}

// AuditHooks logs every transition at info level.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "node failed", "node_id", e.NodeID, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "node executed",
				"node_id", e.NodeID,
				"next_node", e.NextNode,
				"response_type", e.ResponseType,
				"duration", e.Duration)
		},
		OnFallback: func(ctx context.Context, e *domain.FallbackEvent) {
			logger.WarnContext(ctx, "model fallback", "node_id", e.NodeID, "reason", e.Reason)
		},
	}
}

// Combine fans every event out to each hook set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnNodeEnter = chain(out.OnNodeEnter, h.OnNodeEnter)
		out.OnNodeLeave = chain(out.OnNodeLeave, h.OnNodeLeave)
		out.OnFallback = chain(out.OnFallback, h.OnFallback)
	}
	return out
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}
