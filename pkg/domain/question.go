package domain

// QuestionType is the input kind a question expects.
type QuestionType string

const (
	QuestionYesNo  QuestionType = "yesno"
	QuestionSingle QuestionType = "single"
	QuestionMulti  QuestionType = "multi"
	QuestionText   QuestionType = "text"
)

// Valid reports whether t is one of the declared question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionYesNo, QuestionSingle, QuestionMulti, QuestionText:
		return true
	}
	return false
}

// Choice is a selectable option of a question.
type Choice struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Question is one immutable entry of a question plan.
type Question struct {
	ID               string       `json:"id" yaml:"id"`
	Section          string       `json:"section,omitempty" yaml:"section"`
	Title            string       `json:"title,omitempty" yaml:"title"`
	Prompt           string       `json:"prompt" yaml:"prompt"`
	Type             QuestionType `json:"type" yaml:"type"`
	Choices          []Choice     `json:"choices,omitempty" yaml:"choices"`
	Placeholder      string       `json:"placeholder,omitempty" yaml:"placeholder"`
	Required         bool         `json:"required,omitempty" yaml:"required"`
	SaveKey          string       `json:"saveKey,omitempty" yaml:"saveKey"`
	NeedsModelAssist bool         `json:"needsModelAssist,omitempty" yaml:"needsModelAssist"`
	// Slot is 1-based; zero means the question does not refer to a picked term.
	Slot int `json:"slot,omitempty" yaml:"slot"`
}

// Heading returns the title used when folding the answer into the log.
func (q Question) Heading() string {
	if q.Title != "" {
		return q.Title
	}
	return q.ID
}

// YesNoChoices are the options offered for every yes/no question.
var YesNoChoices = []Choice{
	{Label: "Yes", Value: "yes"},
	{Label: "No", Value: "no"},
	{Label: "Don't know", Value: "unknown"},
}
