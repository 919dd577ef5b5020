package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/embld/interviewflow/internal/logging"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/ports"
	"github.com/embld/interviewflow/pkg/schema"
)

// Manager orchestrates session access on top of a store and a ledger.
type Manager struct {
	store     ports.SessionStore
	ledger    ports.CreditLedger
	validator *schema.Validator

	cost   int
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSessionCost overrides domain.SessionCost. Zero makes sessions free.
func WithSessionCost(cost int) Option {
	return func(m *Manager) {
		if cost >= 0 {
			m.cost = cost
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator replaces the uuid session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// NewManager creates a new Session Manager.
// A nil ledger disables credit accounting. A nil validator is replaced by
// one without a plan length bound.
func NewManager(store ports.SessionStore, ledger ports.CreditLedger, validator *schema.Validator, opts ...Option) (*Manager, error) {
	if validator == nil {
		v, err := schema.NewValidator()
		if err != nil {
			return nil, fmt.Errorf("failed to build state validator: %w", err)
		}
		validator = v
	}
	m := &Manager{
		store:     store,
		ledger:    ledger,
		validator: validator,
		cost:      domain.SessionCost,
		logger:    logging.NewNop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// Create charges the session cost to owner and persists a fresh session at
// the start node. The charge is refunded if the session cannot be saved.
func (m *Manager) Create(ctx context.Context, owner, title, agentType string) (domain.Session, domain.InterviewState, error) {
	return m.CreateWithID(ctx, m.newID(), owner, title, agentType)
}

// CreateWithID is Create with a caller-chosen session id.
func (m *Manager) CreateWithID(ctx context.Context, id, owner, title, agentType string) (domain.Session, domain.InterviewState, error) {
	if id == "" {
		return domain.Session{}, domain.InterviewState{}, fmt.Errorf("session id is required")
	}
	if agentType == "" {
		agentType = domain.AgentServiceBuilder
	}
	if agentType != domain.AgentServiceBuilder {
		return domain.Session{}, domain.InterviewState{}, fmt.Errorf("%q: %w", agentType, domain.ErrUnsupportedAgent)
	}

	charged := false
	if m.ledger != nil && m.cost > 0 {
		if _, err := m.ledger.Deduct(ctx, owner, m.cost, "session_create", id); err != nil {
			return domain.Session{}, domain.InterviewState{}, err
		}
		charged = true
	}

	state := domain.NewInterviewState()
	raw, err := schema.EncodeJSON(state)
	if err == nil {
		now := m.now().UTC()
		sess := domain.Session{
			ID:          id,
			OwnerID:     owner,
			AgentType:   agentType,
			Title:       title,
			CurrentNode: domain.StartNode,
			State:       raw,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err = m.store.Save(ctx, sess); err == nil {
			m.logger.Debug("session created", "session_id", id, "owner", owner)
			return sess, state, nil
		}
	}

	if charged {
		// The caller's context may already be done; the refund must still land.
		refundCtx := context.WithoutCancel(ctx)
		if _, rerr := m.ledger.Grant(refundCtx, owner, m.cost, "refund:"+id); rerr != nil {
			m.logger.Error("failed to refund session cost", "session_id", id, "owner", owner, "error", rerr)
			err = errors.Join(err, rerr)
		}
	}
	return domain.Session{}, domain.InterviewState{}, fmt.Errorf("failed to create session: %w", err)
}

// Load returns the session and its validated state.
// A session owned by someone else is reported as domain.ErrNotOwner.
func (m *Manager) Load(ctx context.Context, owner, id string) (domain.Session, domain.InterviewState, error) {
	sess, err := m.store.Load(ctx, id)
	if err != nil {
		return domain.Session{}, domain.InterviewState{}, err
	}
	if sess.OwnerID != owner {
		return domain.Session{}, domain.InterviewState{}, fmt.Errorf("session %s: %w", id, domain.ErrNotOwner)
	}
	if _, err := domain.ParseNodeID(string(sess.CurrentNode)); err != nil && sess.CurrentNode != "" {
		return domain.Session{}, domain.InterviewState{}, fmt.Errorf("session %s: %w", id, err)
	}

	state, err := m.validator.DecodeJSON(sess.State)
	if err != nil {
		m.logger.Warn("stored state failed validation", "session_id", id, "error", err)
		return domain.Session{}, domain.InterviewState{}, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, state, nil
}

// Save records state and node on sess and persists it.
func (m *Manager) Save(ctx context.Context, sess domain.Session, state domain.InterviewState, node domain.NodeID) (domain.Session, error) {
	raw, err := schema.EncodeJSON(state)
	if err != nil {
		return domain.Session{}, err
	}
	out := sess.Clone()
	out.State = raw
	out.CurrentNode = node
	out.UpdatedAt = m.now().UTC()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = out.UpdatedAt
	}
	if err := m.store.Save(ctx, out); err != nil {
		return domain.Session{}, fmt.Errorf("failed to save session %s: %w", sess.ID, err)
	}
	return out, nil
}

// Delete removes a session owned by owner.
func (m *Manager) Delete(ctx context.Context, owner, id string) error {
	sess, err := m.store.Load(ctx, id)
	if err != nil {
		return err
	}
	if sess.OwnerID != owner {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotOwner)
	}
	return m.store.Delete(ctx, id)
}

// List returns the ids of all stored sessions.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Balance returns the owner's credit balance, or 0 without a ledger.
func (m *Manager) Balance(ctx context.Context, owner string) (int, error) {
	if m.ledger == nil {
		return 0, nil
	}
	return m.ledger.Balance(ctx, owner)
}

// Cost returns the credits charged per session.
func (m *Manager) Cost() int {
	return m.cost
}
