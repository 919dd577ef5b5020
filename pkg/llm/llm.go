// Package llm defines the completion function the workflow nodes depend on.
//
// Providers live in internal/llmimpl; cross-cutting behavior (timeouts,
// retries, metrics, response validation) is layered with Chain and the
// middleware package.
package llm

import (
	"context"
	"errors"
)

// Role is the author of a message in a completion request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultMaxTokens is used when a request does not set MaxTokens.
const DefaultMaxTokens = 2048

// ErrEmptyResponse is returned when a provider answers with no content.
var ErrEmptyResponse = errors.New("empty completion")

// Message is one turn of a completion request.
type Message struct {
	Role    Role
	Content string
}

// Request is a single completion call.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Response is the text a provider produced.
type Response struct {
	Content    string
	StopReason string
}

// Client completes prompts. Implementations must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
	ModelName() string
}

// NewRequest builds a system+user request.
func NewRequest(system, user string, temperature float32, maxTokens int) Request {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, NewSystemMessage(system))
	}
	msgs = append(msgs, NewUserMessage(user))
	return Request{Messages: msgs, Temperature: temperature, MaxTokens: maxTokens}
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// SplitSystem separates the system prompt from the conversational turns,
// for providers that take it as a dedicated parameter.
func SplitSystem(msgs []Message) (system string, rest []Message) {
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}

// EffectiveMaxTokens returns MaxTokens or DefaultMaxTokens.
func (r Request) EffectiveMaxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}
