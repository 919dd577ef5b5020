package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/pkg/domain"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewJSONHandler(strings.NewReader(""), buf)

	needsInput, err := h.Output(context.Background(), domain.QuestionResponse{Prompt: "Q?", Key: "problem"})
	require.NoError(t, err)
	assert.True(t, needsInput)

	needsInput, err = h.Output(context.Background(), domain.PlanResponse{Content: "next"})
	require.NoError(t, err)
	assert.False(t, needsInput)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	resp, err := domain.UnmarshalResponse([]byte(lines[0]))
	require.NoError(t, err)
	assert.Equal(t, "problem", resp.(domain.QuestionResponse).Key)
}

func TestJSONHandler_Input(t *testing.T) {
	h := NewJSONHandler(strings.NewReader("\"quoted answer\"\nraw answer\nlast"), nil)

	for _, want := range []string{"quoted answer", "raw answer", "last"} {
		got, err := h.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewJSONHandler(nil, buf)
	require.NoError(t, h.SystemOutput(context.Background(), "saved"))
	assert.JSONEq(t, `{"type":"system","content":"saved"}`, buf.String())
}
