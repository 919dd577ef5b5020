package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // JSON path of the offending field, "/" separated
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	key := e.Key
	if key == "" {
		key = "(root)"
	}
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// Is makes every aggregate match domain.ErrInvalidState.
func (e *AggregateError) Is(target error) bool { return target == domain.ErrInvalidState }

// ValidationErrors returns all validation errors if err wraps an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
