// Package openai implements llm.Client on the OpenAI Responses API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/embld/interviewflow/pkg/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// Client wraps the official OpenAI client.
type Client struct {
	client openai.Client
	model  string
}

// New creates a client. Extra request options (base URL, HTTP client) are
// passed through to the SDK.
func New(apiKey, model string, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{client: openai.NewClient(opts...), model: model}
}

// Complete flattens the conversation into a single input, the form the
// Responses API accepts for plain text prompts.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	var input strings.Builder
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			fmt.Fprintf(&input, "System: %s\n\n", msg.Content)
		case llm.RoleAssistant:
			fmt.Fprintf(&input, "Assistant: %s\n\n", msg.Content)
		default:
			input.WriteString(msg.Content)
		}
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(int64(req.EffectiveMaxTokens())),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(input.String())},
		Temperature:     openai.Float(float64(req.Temperature)),
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return llm.Response{}, fmt.Errorf("OpenAI Responses API failed: %w", err)
	}
	if resp == nil {
		return llm.Response{}, llm.ErrEmptyResponse
	}
	return llm.Response{Content: resp.OutputText(), StopReason: string(resp.Status)}, nil
}

func (c *Client) ModelName() string { return c.model }
