package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/embld/interviewflow/pkg/domain"
)

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNotOwner):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedAgent),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// fail writes err with its mapped status. Server-side failures are logged;
// an unknown node is a wiring error and logged as such.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var credits *domain.InsufficientCreditsError
	if errors.As(err, &credits) {
		writeJSON(w, status, map[string]any{
			"error":    domain.ErrInsufficientCredits.Error(),
			"required": credits.Required,
			"current":  credits.Current,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnknownNode):
		s.logger.Error("wiring error: unknown node", "path", r.URL.Path, "error", err)
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	default:
		s.logger.Warn("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	switch {
	case status == http.StatusNotFound:
		err = domain.ErrSessionNotFound
	case status >= http.StatusInternalServerError:
		err = errors.New(http.StatusText(status))
	}
	writeError(w, status, err)
}
