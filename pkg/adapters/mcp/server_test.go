package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/internal/testutils"
	"github.com/embld/interviewflow/pkg/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := runtime.NewEngine(testutils.NewScriptedLLM())
	require.NoError(t, err)
	return NewServer(eng)
}

func TestExecuteNode_StartsAndResumes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	turn, err := s.handleExecuteNode(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	q, ok := turn.Response.(domain.QuestionResponse)
	require.True(t, ok)
	assert.Equal(t, "service_overview", q.Key)
	assert.False(t, turn.IsComplete)

	state, err := json.Marshal(turn.State)
	require.NoError(t, err)

	turn, err = s.handleExecuteNode(ctx, mcp.CallToolRequest{}, map[string]any{
		"node":    string(domain.NodeClarificationInterview),
		"state":   string(state),
		"message": "A harmony app",
	})
	require.NoError(t, err)
	assert.Equal(t, "problem", turn.Response.(domain.QuestionResponse).Key)
	assert.Equal(t, 1, turn.State.CurrentQuestionIndex)
}

func TestExecuteNode_StateAsObject(t *testing.T) {
	s := newTestServer(t)
	turn, err := s.handleExecuteNode(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"state": map[string]any{
			"initial_problem": "", "initial_persona": "", "initial_solution": "",
			"current_question_index": 1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "problem", turn.Response.(domain.QuestionResponse).Key)
}

func TestExecuteNode_Rejections(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleExecuteNode(ctx, mcp.CallToolRequest{}, map[string]any{"node": "chitchat"})
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	_, err = s.handleExecuteNode(ctx, mcp.CallToolRequest{}, map[string]any{"state": `{"iteration":"x"}`})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = s.handleExecuteNode(ctx, mcp.CallToolRequest{}, map[string]any{"state": 42.0})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestListNodes(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleListNodes(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var nodes []NodeInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &nodes))
	assert.Len(t, nodes, 15)
	assert.True(t, nodes[0].Start)

	streamable := 0
	for _, n := range nodes {
		if n.Streamable {
			streamable++
		}
	}
	assert.Equal(t, 3, streamable)
}
