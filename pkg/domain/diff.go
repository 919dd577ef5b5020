package domain

import (
	"encoding/json"
	"reflect"
)

// StatePatch maps top-level state field names (their JSON names) to new values.
// A nil value means the field was cleared.
type StatePatch map[string]any

// Diff computes the top-level fields that differ between oldState and newState.
// It returns nil when nothing changed so that omitempty drops the patch.
func Diff(oldState, newState InterviewState) StatePatch {
	oldFields := fieldsOf(oldState)
	newFields := fieldsOf(newState)

	delta := make(StatePatch)
	for k, newVal := range newFields {
		oldVal, exists := oldFields[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}
	for k := range oldFields {
		if _, exists := newFields[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// Keys returns the field names carried by the patch.
func (p StatePatch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// fieldsOf flattens a state into its JSON object form. Comparing the generic
// form keeps nil and empty collections equal once normalized.
func fieldsOf(s InterviewState) map[string]any {
	s = s.Clone()
	s.Normalize()
	raw, err := json.Marshal(s)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
