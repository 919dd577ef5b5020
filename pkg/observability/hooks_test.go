package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/embld/interviewflow/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnNodeLeave(ctx, &domain.NodeEvent{NodeID: domain.NodeSummarizeRequest, ResponseType: "message", Duration: time.Second})
	hooks.OnNodeLeave(ctx, &domain.NodeEvent{NodeID: domain.NodeSummarizeRequest, Err: errors.New("boom")})
	hooks.OnFallback(ctx, &domain.FallbackEvent{NodeID: domain.NodeGeneratePitch})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("summarize_request", "message", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("summarize_request", "", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("generate_pitch")))
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnNodeEnter: func(context.Context, *domain.NodeEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnNodeEnter: func(context.Context, *domain.NodeEvent) { calls = append(calls, "b") },
		OnFallback:  func(context.Context, *domain.FallbackEvent) { calls = append(calls, "fb") },
	}

	h := Combine(a, domain.LifecycleHooks{}, b)
	h.OnNodeEnter(context.Background(), &domain.NodeEvent{})
	h.OnFallback(context.Background(), &domain.FallbackEvent{})

	assert.Equal(t, []string{"a", "b", "fb"}, calls)
	assert.Nil(t, h.OnNodeLeave)
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := AuditHooks(logger)

	h.OnNodeLeave(context.Background(), &domain.NodeEvent{NodeID: domain.NodeAssessLegal, NextNode: domain.NodeAssessmentGate})
	h.OnFallback(context.Background(), &domain.FallbackEvent{NodeID: domain.NodeAssessLegal, Reason: "timeout"})

	out := buf.String()
	assert.Contains(t, out, "node executed")
	assert.Contains(t, out, "next_node=assessment_gate")
	assert.Contains(t, out, "reason=timeout")
}
