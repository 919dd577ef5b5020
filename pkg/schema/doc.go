// Package schema publishes and enforces the Interview State contract.
//
// The JSON Schema is generated from domain.InterviewState and compiled once.
// Every state crossing a boundary goes through a Validator:
//
//	v, err := schema.NewValidator(schema.WithPlanLength(len(questions)))
//	state, err := v.Decode(raw) // raw is map[string]any from a request body
//
// Validation failures are reported as an AggregateError of ValidationError
// values and always match domain.ErrInvalidState with errors.Is.
//
// ApplyPatch merges a statePatch into a state under the following policy:
// last writer wins per top-level key, lists are replaced, maps merge per key,
// the interview log may only be extended, and cursors may not decrease.
// Remote clients holding a state apply statePatch with it; runner.ExecuteAndSave
// refuses to persist a step whose patch does not merge.
package schema
