// Package ollama implements llm.Client against a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/embld/interviewflow/pkg/llm"
)

const (
	// DefaultHost is the address of a stock Ollama install.
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.1"
)

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
	model  string
}

// New creates a client for hostURL; an empty or invalid URL falls back to DefaultHost.
func New(hostURL, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	parsed, err := url.Parse(hostURL)
	if hostURL == "" || err != nil {
		parsed, _ = url.Parse(DefaultHost)
	}
	return &Client{client: api.NewClient(parsed, http.DefaultClient), model: model}
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	messages := make([]api.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, api.Message{Role: string(msg.Role), Content: msg.Content})
	}

	stream := false
	chat := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.EffectiveMaxTokens(),
		},
	}

	var response api.ChatResponse
	err := c.client.Chat(ctx, chat, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return llm.Response{}, fmt.Errorf("Ollama chat failed: %w", err)
	}
	return llm.Response{Content: response.Message.Content, StopReason: response.DoneReason}, nil
}

func (c *Client) ModelName() string { return c.model }
