package domain

import (
	"encoding/json"
	"time"
)

// AgentServiceBuilder is the only agent type the workflow serves.
const AgentServiceBuilder = "service_builder"

// Session is the record persisted by a session store.
// State is kept as raw JSON so that stores never depend on the state shape
// and every load goes back through validation.
type Session struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	AgentType   string          `json:"agent_type"`
	Title       string          `json:"title,omitempty"`
	CurrentNode NodeID          `json:"current_node"`
	State       json.RawMessage `json:"state"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Clone returns a copy that does not share the State buffer.
func (s Session) Clone() Session {
	c := s
	if s.State != nil {
		c.State = append(json.RawMessage(nil), s.State...)
	}
	return c
}
