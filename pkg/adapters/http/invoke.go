package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/runner"
)

type invokeRequest struct {
	Message     string          `json:"message"`
	SessionID   string          `json:"sessionId"`
	AgentType   string          `json:"agentType"`
	State       json.RawMessage `json:"state"`
	CurrentNode string          `json:"currentNode"`
	// History is accepted for client compatibility and ignored.
	History json.RawMessage `json:"history"`
}

type streamRequest struct {
	SessionID string          `json:"sessionId"`
	State     json.RawMessage `json:"state"`
	Node      string          `json:"node"`
}

// resolve loads the caller's session and picks the node and state to run:
// the request's when given, the stored ones otherwise.
func (s *Server) resolve(ctx context.Context, sessionID, node string, rawState json.RawMessage) (domain.Session, domain.NodeID, domain.InterviewState, error) {
	if sessionID == "" {
		return domain.Session{}, "", domain.InterviewState{}, fmt.Errorf("%w: sessionId is required", errBadRequest)
	}
	user, _ := UserFromContext(ctx)
	sess, state, err := s.Sessions.Load(ctx, user, sessionID)
	if err != nil {
		return domain.Session{}, "", domain.InterviewState{}, err
	}

	target := sess.CurrentNode
	if node != "" {
		if target, err = domain.ParseNodeID(node); err != nil {
			return domain.Session{}, "", domain.InterviewState{}, err
		}
	}
	if target == "" {
		target = domain.StartNode
	}

	if raw := bytes.TrimSpace(rawState); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if state, err = s.Engine.Validator().DecodeJSON(raw); err != nil {
			return domain.Session{}, "", domain.InterviewState{}, err
		}
	}
	return sess, target, state, nil
}

// Invoke handles POST /v1/invoke. The response is written only after the
// session is saved.
func (s *Server) Invoke(w http.ResponseWriter, r *http.Request) {
	var body invokeRequest
	if err := decodeBody(r, &body, false); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.AgentType != "" && body.AgentType != domain.AgentServiceBuilder {
		s.fail(w, r, fmt.Errorf("%q: %w", body.AgentType, domain.ErrUnsupportedAgent))
		return
	}

	sess, node, state, err := s.resolve(r.Context(), body.SessionID, body.CurrentNode, body.State)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	turn, _, err := runner.ExecuteAndSave(r.Context(), s.Engine, s.Sessions, sess, node, state, body.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug("node executed", "session_id", sess.ID, "node_id", node, "next_node", turn.NextNode)
	writeJSON(w, http.StatusOK, turn)
}

// Stream handles POST /v1/stream as server-sent events. The state is saved
// before the first chunk is written; a node that cannot stream closes the
// stream without data.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	var body streamRequest
	if err := decodeBody(r, &body, false); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, node, state, err := s.resolve(r.Context(), body.SessionID, body.Node, body.State)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.fail(w, r, fmt.Errorf("streaming not supported"))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sr, err := s.Engine.Stream(ctx, node, state)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if node.Streamable() {
		res := runtime.Result{Response: sr.Response, State: sr.State, NextNode: sr.NextNode}
		if _, err := s.Sessions.Save(r.Context(), sess, sr.State, runner.ResumeNode(node, res)); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for chunk := range sr.Chunks {
		data, err := json.Marshal(chunk)
		if err != nil {
			s.logger.Error("chunk encode failed", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			s.logger.Info("SSE client disconnected", "session_id", sess.ID)
			return
		}
		flusher.Flush()
	}
}
