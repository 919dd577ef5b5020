package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/domain"
)

// mockIOHandler answers Input with the queued lines.
type mockIOHandler struct {
	inputs []string
	system []string
}

func (m *mockIOHandler) Output(context.Context, domain.Response) (bool, error) { return false, nil }

func (m *mockIOHandler) Input(context.Context) (string, error) {
	in := m.inputs[0]
	m.inputs = m.inputs[1:]
	return in, nil
}

func (m *mockIOHandler) SystemOutput(_ context.Context, msg string) error {
	m.system = append(m.system, msg)
	return nil
}

func TestConfirmRetry(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"Y", true},
		{"yes", true},
		{"n", false},
		{"later", false},
	}
	for _, tt := range tests {
		h := &mockIOHandler{inputs: []string{tt.input}}
		got, err := ConfirmRetry()(context.Background(), h, domain.MessageResponse{Fallback: true})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Len(t, h.system, 1)
	}
}

func TestRetryUpTo_ResetsPerNode(t *testing.T) {
	policy := RetryUpTo(1)
	h := &mockIOHandler{}
	ctx := context.Background()

	ok, _ := policy(ctx, h, domain.MessageResponse{Node: domain.NodeSummarizeRequest})
	assert.True(t, ok)
	ok, _ = policy(ctx, h, domain.MessageResponse{Node: domain.NodeSummarizeRequest})
	assert.False(t, ok)
	ok, _ = policy(ctx, h, domain.MessageResponse{Node: domain.NodeGeneratePersonas})
	assert.True(t, ok)
}

func TestNeverRetry(t *testing.T) {
	ok, err := NeverRetry()(context.Background(), &mockIOHandler{}, domain.MessageResponse{})
	require.NoError(t, err)
	assert.False(t, ok)
}
