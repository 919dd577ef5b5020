package ports

import (
	"context"

	"github.com/embld/interviewflow/pkg/domain"
)

// SessionStore defines the interface for persisting interview sessions.
// This allows a client to leave an interview and resume it later, from
// any replica.
type SessionStore interface {
	// Save persists the session under its ID, replacing any previous record.
	Save(ctx context.Context, session domain.Session) error

	// Load retrieves the session for the given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, id string) (domain.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
