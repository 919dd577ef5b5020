package schema

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/embld/interviewflow/pkg/domain"
)

// Decode validates a generic state object and converts it into a typed state.
// Omitted fields take their zero values; collections are never nil.
func (v *Validator) Decode(raw map[string]any) (domain.InterviewState, error) {
	if err := v.ValidateMap(raw); err != nil {
		return domain.InterviewState{}, err
	}

	doc, err := normalizeDoc(raw)
	if err != nil {
		return domain.InterviewState{}, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return domain.InterviewState{}, aggregate([]error{&ValidationError{Reason: "state must be an object", Value: doc}})
	}

	var s domain.InterviewState
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &s,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.InterviewState{}, fmt.Errorf("failed to build state decoder: %w", err)
	}
	if err := dec.Decode(obj); err != nil {
		return domain.InterviewState{}, aggregate([]error{&ValidationError{Reason: err.Error()}})
	}
	s.Normalize()

	if err := v.CheckInvariants(s); err != nil {
		return domain.InterviewState{}, err
	}
	return s, nil
}

// DecodeJSON is Decode for a raw JSON document.
func (v *Validator) DecodeJSON(data []byte) (domain.InterviewState, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.InterviewState{}, aggregate([]error{&ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}})
	}
	if raw == nil {
		return domain.InterviewState{}, aggregate([]error{&ValidationError{Reason: "state must be an object"}})
	}
	return v.Decode(raw)
}

// Encode converts a state to its generic object form.
func Encode(s domain.InterviewState) (map[string]any, error) {
	data, err := EncodeJSON(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode state object: %w", err)
	}
	return out, nil
}

// EncodeJSON serializes a normalized copy of the state.
func EncodeJSON(s domain.InterviewState) ([]byte, error) {
	c := s.Clone()
	c.Normalize()
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}
