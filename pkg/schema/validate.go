package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/embld/interviewflow/pkg/domain"
)

const resourceName = "interview-state-v1.json"

// Validator checks states against the compiled JSON Schema and the domain
// invariants that a schema cannot express. It is immutable and safe for
// concurrent use.
type Validator struct {
	compiled   *sjsonschema.Schema
	planLength int
}

// Option configures a Validator.
type Option func(*Validator)

// WithPlanLength bounds current_question_index by the clarification plan size.
// Without it the upper bound is not checked.
func WithPlanLength(n int) Option {
	return func(v *Validator) {
		v.planLength = n
	}
}

// NewValidator compiles the published schema.
func NewValidator(opts ...Option) (*Validator, error) {
	data, err := GenerateJSONSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v := &Validator{compiled: compiled}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ValidateJSON validates a raw JSON state document.
func (v *Validator) ValidateJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return aggregate([]error{&ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}})
	}
	return v.validateDoc(doc)
}

// ValidateMap validates a generic state object, as decoded from a request body.
func (v *Validator) ValidateMap(raw map[string]any) error {
	doc, err := normalizeDoc(raw)
	if err != nil {
		return aggregate([]error{&ValidationError{Reason: err.Error()}})
	}
	return v.validateDoc(doc)
}

// ValidateState validates a typed state, including the domain invariants.
func (v *Validator) ValidateState(s domain.InterviewState) error {
	raw, err := Encode(s)
	if err != nil {
		return err
	}
	if err := v.validateDoc(raw); err != nil {
		return err
	}
	return v.CheckInvariants(s)
}

// CheckInvariants verifies the cross-field rules that the schema does not carry.
func (v *Validator) CheckInvariants(s domain.InterviewState) error {
	var errs []error
	if v.planLength > 0 && s.CurrentQuestionIndex > v.planLength {
		errs = append(errs, &ValidationError{
			Key:    "current_question_index",
			Reason: fmt.Sprintf("exceeds plan length %d", v.planLength),
			Value:  s.CurrentQuestionIndex,
		})
	}
	if s.CurrentDetailedQuestionIndex > len(s.DetailedQuestions) {
		errs = append(errs, &ValidationError{
			Key:    "current_detailed_question_index",
			Reason: fmt.Sprintf("exceeds %d generated questions", len(s.DetailedQuestions)),
			Value:  s.CurrentDetailedQuestionIndex,
		})
	}
	return aggregate(errs)
}

func (v *Validator) validateDoc(doc any) error {
	err := v.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *sjsonschema.ValidationError
	if !errors.As(err, &ve) {
		return aggregate([]error{&ValidationError{Reason: err.Error()}})
	}

	var errs []error
	for _, cause := range flattenValidationErrors(ve) {
		errs = append(errs, &ValidationError{
			Key:    strings.Join(cause.InstanceLocation, "/"),
			Reason: fmt.Sprintf("%v", cause.ErrorKind),
		})
	}
	return aggregate(errs)
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// normalizeDoc round-trips through JSON so Go-typed values (ints, typed
// slices) take the shapes the schema validator understands.
func normalizeDoc(raw map[string]any) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("state is not JSON encodable: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
