package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVisitor struct {
	seen []ResponseType
}

func (c *countingVisitor) VisitQuestion(QuestionResponse) { c.seen = append(c.seen, ResponseQuestion) }
func (c *countingVisitor) VisitPlan(PlanResponse)         { c.seen = append(c.seen, ResponsePlan) }
func (c *countingVisitor) VisitStreaming(StreamingResponse) {
	c.seen = append(c.seen, ResponseStreaming)
}
func (c *countingVisitor) VisitMessage(MessageResponse) { c.seen = append(c.seen, ResponseMessage) }

func TestResponse_TypeDiscriminator(t *testing.T) {
	responses := []Response{
		QuestionResponse{Prompt: "Who uses it?", InputType: QuestionText, Key: "persona", Node: NodeClarificationInterview, Current: 2, Total: 9},
		PlanResponse{Content: "moving on", StatePatch: StatePatch{"iteration": 1}},
		StreamingResponse{Content: "line\n", Node: NodeGeneratePitch},
		MessageResponse{Content: "# Summary", Title: "Summary", Document: DocSummary, Node: NodeSummarizeRequest},
	}

	v := &countingVisitor{}
	for _, r := range responses {
		raw, err := json.Marshal(r)
		require.NoError(t, err)

		var generic map[string]any
		require.NoError(t, json.Unmarshal(raw, &generic))
		assert.Equal(t, string(r.Type()), generic["type"])

		back, err := UnmarshalResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, r.Type(), back.Type())

		r.Accept(v)
	}
	assert.Equal(t, []ResponseType{ResponseQuestion, ResponsePlan, ResponseStreaming, ResponseMessage}, v.seen)
}

func TestQuestionResponse_WireNames(t *testing.T) {
	raw, err := json.Marshal(QuestionResponse{Prompt: "p", InputType: QuestionYesNo, Choices: YesNoChoices, Key: "k", Node: NodeDetailedQuestions, Current: 1, Total: 3})
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"type", "prompt", "choices", "inputType", "key", "node", "current", "total"} {
		assert.Contains(t, generic, key)
	}
}

func TestUnmarshalResponse_UnknownType(t *testing.T) {
	_, err := UnmarshalResponse([]byte(`{"type":"telepathy"}`))
	assert.Error(t, err)
}
