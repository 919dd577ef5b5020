package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned when a node identifier is outside the declared set.
// It indicates a wiring error and is never defaulted.
var ErrUnknownNode = errors.New("unknown node")

// ErrInvalidState is returned when a state fails schema or invariant validation.
var ErrInvalidState = errors.New("invalid interview state")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotOwner is returned when a session exists but belongs to another user.
var ErrNotOwner = errors.New("session not owned by caller")

// ErrInvalidInput is returned when a user message is rejected by the sanitizer.
var ErrInvalidInput = errors.New("invalid input")

// ErrInsufficientCredits is returned by a ledger when a debit exceeds the balance.
var ErrInsufficientCredits = errors.New("insufficient credits")

// InsufficientCreditsError reports the shortfall of a rejected debit.
// It matches ErrInsufficientCredits with errors.Is.
type InsufficientCreditsError struct {
	Required int
	Current  int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%s: required %d, current %d", ErrInsufficientCredits, e.Required, e.Current)
}

func (e *InsufficientCreditsError) Is(target error) bool { return target == ErrInsufficientCredits }

var (
	// ErrLogRewrite is returned when a patch does not extend the interview log.
	ErrLogRewrite = errors.New("clarification log can only be appended to")
	// ErrCursorRegression is returned when a patch moves a monotonic counter backwards.
	ErrCursorRegression = errors.New("cursor cannot decrease")
	// ErrUnknownField is returned when a patch names a field the state does not have.
	ErrUnknownField = errors.New("unknown state field")
)

// ErrUnsupportedAgent is returned for agent types other than AgentServiceBuilder.
var ErrUnsupportedAgent = errors.New("unsupported agent type")
