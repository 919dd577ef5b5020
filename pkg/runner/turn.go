package runner

import (
	"context"
	"fmt"

	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/ports"
	"github.com/embld/interviewflow/pkg/session"
)

// Turn is the wire shape of one step for rich clients (HTTP, MCP).
type Turn struct {
	Response   domain.Response       `json:"response" jsonschema_description:"The node response, discriminated by its type field"`
	State      domain.InterviewState `json:"state" jsonschema_description:"The state to send with the next request"`
	NextNode   domain.NodeID         `json:"nextNode,omitempty" jsonschema_description:"The node to call next; empty while a question is open"`
	IsComplete bool                  `json:"isComplete" jsonschema_description:"True once the interview has ended"`
}

// NewTurn converts an engine result to its wire shape.
func NewTurn(res runtime.Result) Turn {
	return Turn{
		Response:   res.Response,
		State:      res.State,
		NextNode:   res.NextNode,
		IsComplete: res.IsComplete(),
	}
}

// ResumeNode is the node a session continues from after res was produced at
// current. Questions and the final node have no successor, so the session
// stays where it is.
func ResumeNode(current domain.NodeID, res runtime.Result) domain.NodeID {
	if res.NextNode != "" {
		return res.NextNode
	}
	return current
}

// ExecuteAndSave runs one step and persists its state before returning, so
// a client never sees a response the store does not reflect. A step whose
// statePatch breaks the merge policy against state is not persisted.
func ExecuteAndSave(
	ctx context.Context,
	engine ports.Engine,
	sessions *session.Manager,
	sess domain.Session,
	node domain.NodeID,
	state domain.InterviewState,
	message string,
) (Turn, domain.Session, error) {
	res, err := engine.Execute(ctx, node, state, message)
	if err != nil {
		return Turn{}, sess, err
	}
	if plan, ok := res.Response.(domain.PlanResponse); ok && len(plan.StatePatch) > 0 {
		if _, err := engine.Validator().ApplyPatch(state, plan.StatePatch); err != nil {
			return Turn{}, sess, fmt.Errorf("node %s returned an unmergeable state patch: %w", node, err)
		}
	}
	saved, err := sessions.Save(ctx, sess, res.State, ResumeNode(node, res))
	if err != nil {
		return Turn{}, sess, err
	}
	return NewTurn(res), saved, nil
}
