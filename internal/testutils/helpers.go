// Package testutils holds test doubles shared across packages.
package testutils

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/embld/interviewflow/pkg/llm"
)

// ErrScriptExhausted is returned when a ScriptedLLM has no reply left.
var ErrScriptExhausted = errors.New("scripted llm: no reply left")

// Reply is one canned completion outcome.
type Reply struct {
	Content string
	Err     error
}

// ScriptedLLM replays replies in order and records every request.
// A reply can also be keyed by a substring of the prompt with On, which
// takes precedence over the queue.
type ScriptedLLM struct {
	mu       sync.Mutex
	queue    []Reply
	matchers []matcher
	calls    []llm.Request
	fallback *Reply
}

type matcher struct {
	substr string
	reply  Reply
}

// NewScriptedLLM returns a double that answers with contents in order.
func NewScriptedLLM(contents ...string) *ScriptedLLM {
	s := &ScriptedLLM{}
	for _, c := range contents {
		s.queue = append(s.queue, Reply{Content: c})
	}
	return s
}

// FailingLLM returns a double whose every call fails with err.
func FailingLLM(err error) *ScriptedLLM {
	return &ScriptedLLM{fallback: &Reply{Err: err}}
}

// Then queues another reply.
func (s *ScriptedLLM) Then(content string) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, Reply{Content: content})
	return s
}

// ThenFail queues a failing reply.
func (s *ScriptedLLM) ThenFail(err error) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, Reply{Err: err})
	return s
}

// On answers any request whose user prompt contains substr. Matchers are
// reusable.
func (s *ScriptedLLM) On(substr, content string) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchers = append(s.matchers, matcher{substr: substr, reply: Reply{Content: content}})
	return s
}

// Otherwise sets the reply used when nothing else matches.
func (s *ScriptedLLM) Otherwise(content string) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = &Reply{Content: content}
	return s
}

func (s *ScriptedLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)

	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}

	prompt := promptText(req)
	for _, m := range s.matchers {
		if strings.Contains(prompt, m.substr) {
			return toResponse(m.reply)
		}
	}
	if len(s.queue) > 0 {
		r := s.queue[0]
		s.queue = s.queue[1:]
		return toResponse(r)
	}
	if s.fallback != nil {
		return toResponse(*s.fallback)
	}
	return llm.Response{}, ErrScriptExhausted
}

func (s *ScriptedLLM) ModelName() string { return "scripted" }

// Calls returns the requests seen so far.
func (s *ScriptedLLM) Calls() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Request(nil), s.calls...)
}

// CallCount returns how many requests were made.
func (s *ScriptedLLM) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// AssertNoCalls fails the test if the double was called.
func (s *ScriptedLLM) AssertNoCalls(t *testing.T) {
	t.Helper()
	if n := s.CallCount(); n != 0 {
		t.Fatalf("expected no LLM calls, got %d", n)
	}
}

func promptText(req llm.Request) string {
	var b strings.Builder
	for _, m := range req.Messages {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func toResponse(r Reply) (llm.Response, error) {
	if r.Err != nil {
		return llm.Response{}, r.Err
	}
	return llm.Response{Content: r.Content, StopReason: "stop"}, nil
}
