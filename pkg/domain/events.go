package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter     EventType = "node_enter"
	EventNodeLeave     EventType = "node_leave"
	EventModelFallback EventType = "model_fallback"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent represents entry or exit from a node.
// On leave, NextNode and ResponseType describe the outcome; Err is set when
// the handler failed.
type NodeEvent struct {
	EventBase
	NodeID       NodeID        `json:"node_id"`
	NextNode     NodeID        `json:"next_node,omitempty"`
	ResponseType string        `json:"response_type,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Err          error         `json:"-"`
}

// FallbackEvent is emitted when a node absorbed a model failure and
// returned deterministic content instead.
type FallbackEvent struct {
	EventBase
	NodeID NodeID `json:"node_id"`
	Reason string `json:"reason"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks observe only; they cannot change the outcome of a step.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnFallback  func(context.Context, *FallbackEvent)
}
