// Package google implements llm.Client on the Gemini API.
package google

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"

	"github.com/embld/interviewflow/pkg/llm"
)

const DefaultModel = "gemini-2.5-flash"

// Client wraps a genai client bound to one model.
type Client struct {
	client *genai.Client
	model  string
}

// New creates the underlying genai client eagerly so that Complete is safe
// for concurrent use.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	system, turns := llm.SplitSystem(req.Messages)

	contents := make([]*genai.Content, 0, len(turns))
	for _, msg := range turns {
		role := genai.RoleUser
		if msg.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  string(role),
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxOutputTokens(req.EffectiveMaxTokens()),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return llm.Response{}, fmt.Errorf("Gemini API call failed: %w", err)
	}
	if result == nil {
		return llm.Response{}, llm.ErrEmptyResponse
	}

	var stop string
	if len(result.Candidates) > 0 {
		stop = string(result.Candidates[0].FinishReason)
	}
	return llm.Response{Content: result.Text(), StopReason: stop}, nil
}

func (c *Client) ModelName() string { return c.model }

// maxOutputTokens clamps n into the int32 range the API accepts.
func maxOutputTokens(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int32(n)
}
