package schema

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

const logField = "clarification_interview_log"

var monotonicFields = map[string]bool{
	"current_question_index":          true,
	"current_detailed_question_index": true,
	"followup_round":                  true,
	"iteration":                       true,
}

var mapFields = map[string]bool{
	"clarification_answers": true,
	"detailed_answers":      true,
	"assist_candidates":     true,
}

var stateFields = func() map[string]bool {
	out := map[string]bool{}
	t := reflect.TypeOf(domain.InterviewState{})
	for i := range t.NumField() {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			out[name] = true
		}
	}
	return out
}()

// ApplyPatch merges patch into current and returns the validated result.
// current is not modified.
//
// Keys are applied in sorted order. The first policy violation aborts the
// merge: unknown keys fail with domain.ErrUnknownField, a log that does not
// extend the current one with domain.ErrLogRewrite, and a decreasing counter
// with domain.ErrCursorRegression.
func (v *Validator) ApplyPatch(current domain.InterviewState, patch domain.StatePatch) (domain.InterviewState, error) {
	base, err := Encode(current)
	if err != nil {
		return domain.InterviewState{}, err
	}

	for _, key := range slices.Sorted(maps.Keys(patch)) {
		val := patch[key]
		if !stateFields[key] {
			return domain.InterviewState{}, fmt.Errorf("patch key %q: %w", key, domain.ErrUnknownField)
		}

		switch {
		case key == logField:
			next, ok := val.(string)
			if !ok {
				return domain.InterviewState{}, aggregate([]error{&ValidationError{Key: key, Reason: "expected string", Value: val}})
			}
			if !strings.HasPrefix(next, current.ClarificationInterviewLog) {
				return domain.InterviewState{}, fmt.Errorf("patch key %q: %w", key, domain.ErrLogRewrite)
			}
			base[key] = next

		case monotonicFields[key]:
			next, ok := asInt(val)
			if !ok {
				return domain.InterviewState{}, aggregate([]error{&ValidationError{Key: key, Reason: "expected integer", Value: val}})
			}
			prev, _ := asInt(base[key])
			if next < prev {
				return domain.InterviewState{}, fmt.Errorf("patch key %q: %d -> %d: %w", key, prev, next, domain.ErrCursorRegression)
			}
			base[key] = next

		case mapFields[key] && val != nil:
			incoming, ok := val.(map[string]any)
			if !ok {
				incoming, ok = genericMap(val)
			}
			if !ok {
				return domain.InterviewState{}, aggregate([]error{&ValidationError{Key: key, Reason: "expected object", Value: val}})
			}
			merged, _ := base[key].(map[string]any)
			if merged == nil {
				merged = map[string]any{}
			}
			for k, inner := range incoming {
				if inner == nil {
					delete(merged, k)
					continue
				}
				merged[k] = inner
			}
			base[key] = merged

		case val == nil:
			delete(base, key)

		default:
			base[key] = val
		}
	}

	return v.Decode(base)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	case nil:
		return 0, true
	}
	return 0, false
}

// genericMap accepts typed maps such as map[string]string.
func genericMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
