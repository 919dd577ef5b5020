package plan

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/embld/interviewflow/pkg/domain"
)

//go:embed default.yaml
var defaultPlan []byte

// MaxDetailedQuestions caps the generated detailed question list.
const MaxDetailedQuestions = 9

// TermPlaceholder is replaced by the picked term in slot questions.
const TermPlaceholder = "{term}"

// SaveKeys are the top-level state fields a question may write to.
var SaveKeys = map[string]bool{
	"initial_problem":  true,
	"initial_persona":  true,
	"initial_solution": true,
}

// Plan is the static question configuration of the scripted nodes.
type Plan struct {
	Clarification    []domain.Question `yaml:"clarification" json:"clarification"`
	DetailedFallback []string          `yaml:"detailed_fallback" json:"detailed_fallback"`
}

// Default returns the embedded plan.
func Default() Plan {
	p, err := Parse(defaultPlan)
	if err != nil {
		panic(fmt.Sprintf("embedded question plan is invalid: %v", err))
	}
	return p
}

// DefaultYAML returns the embedded plan document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultPlan)
}

// Load reads and validates a plan file.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Plan{}, fmt.Errorf("plan %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a plan document strictly and validates it.
func Parse(data []byte) (Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Plan{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	for i := range p.Clarification {
		if p.Clarification[i].Type == "" {
			p.Clarification[i].Type = domain.QuestionText
		}
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate reports every structural problem of the plan at once.
func (p Plan) Validate() error {
	var errs []error
	if len(p.Clarification) == 0 {
		errs = append(errs, errors.New("clarification plan is empty"))
	}

	seen := map[string]bool{}
	assistSeen := false
	for i, q := range p.Clarification {
		at := fmt.Sprintf("clarification[%d]", i)
		if q.ID == "" {
			errs = append(errs, fmt.Errorf("%s: missing id", at))
		} else if seen[q.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", at, q.ID))
		}
		seen[q.ID] = true

		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Errorf("%s (%s): missing prompt", at, q.ID))
		}
		if !q.Type.Valid() {
			errs = append(errs, fmt.Errorf("%s (%s): unknown type %q", at, q.ID, q.Type))
		}
		if (q.Type == domain.QuestionSingle || q.Type == domain.QuestionMulti) && len(q.Choices) == 0 {
			errs = append(errs, fmt.Errorf("%s (%s): %s question needs choices", at, q.ID, q.Type))
		}
		if q.SaveKey != "" && !SaveKeys[q.SaveKey] {
			errs = append(errs, fmt.Errorf("%s (%s): saveKey %q is not a writable field", at, q.ID, q.SaveKey))
		}
		if q.NeedsModelAssist {
			assistSeen = true
		}
		if q.Slot != 0 {
			if q.Slot < 1 || q.Slot > 3 {
				errs = append(errs, fmt.Errorf("%s (%s): slot must be between 1 and 3", at, q.ID))
			}
			if !assistSeen {
				errs = append(errs, fmt.Errorf("%s (%s): slot question must follow a needsModelAssist question", at, q.ID))
			}
		}
	}

	if len(p.DetailedFallback) == 0 {
		errs = append(errs, errors.New("detailed_fallback is empty"))
	}
	if len(p.DetailedFallback) > MaxDetailedQuestions {
		errs = append(errs, fmt.Errorf("detailed_fallback has %d questions, at most %d allowed", len(p.DetailedFallback), MaxDetailedQuestions))
	}
	return errors.Join(errs...)
}

// AssistSource returns the index of the needsModelAssist question a slot
// question at index i draws its term from, or -1.
func (p Plan) AssistSource(i int) int {
	for j := i - 1; j >= 0; j-- {
		if p.Clarification[j].NeedsModelAssist {
			return j
		}
	}
	return -1
}
