package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/schema"
)

// SessionView is the wire form of a session.
type SessionView struct {
	SessionID   string                `json:"sessionId"`
	CurrentNode domain.NodeID         `json:"currentNode"`
	State       domain.InterviewState `json:"state"`
}

type createSessionRequest struct {
	Title     string `json:"title"`
	AgentType string `json:"agentType"`
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched
// when optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var body createSessionRequest
	if err := decodeBody(r, &body, true); err != nil {
		s.fail(w, r, err)
		return
	}

	sess, state, err := s.Sessions.Create(r.Context(), user, body.Title, body.AgentType)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("session created", "session_id", sess.ID, "user", user)
	writeJSON(w, http.StatusCreated, SessionView{SessionID: sess.ID, CurrentNode: sess.CurrentNode, State: state})
}

// GetSession handles GET /v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	sess, state, err := s.Sessions.Load(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionView{SessionID: sess.ID, CurrentNode: sess.CurrentNode, State: state})
}

// DeleteSession handles DELETE /v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if err := s.Sessions.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCredits handles GET /v1/credits.
func (s *Server) GetCredits(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	balance, err := s.Sessions.Balance(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"credits": balance})
}

// GetSchema handles GET /v1/schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := schema.GenerateJSONSchema()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(doc)
}
