package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/embld/interviewflow/pkg/domain"
)

const (
	// SchemaID is the canonical identifier of the published document.
	SchemaID = "https://github.com/embld/interviewflow/schemas/interview-state-v1.json"
	// SchemaTitle is the title of the published document.
	SchemaTitle = "Interview State v1"
)

var generate = sync.OnceValues(func() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false
	r.RequiredFromJSONSchemaTags = true

	s := r.Reflect(&domain.InterviewState{})
	s.ID = SchemaID
	s.Title = SchemaTitle
	s.Description = "State threaded through every interview workflow request (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
})

// GenerateJSONSchema produces the JSON Schema Draft 2020-12 document for
// domain.InterviewState. The result is computed once and shared; callers
// must not modify it.
func GenerateJSONSchema() ([]byte, error) {
	return generate()
}
