package domain

import (
	"encoding/json"
	"fmt"
)

// ResponseType is the wire discriminator of a Response.
type ResponseType string

const (
	ResponseQuestion  ResponseType = "question"
	ResponsePlan      ResponseType = "plan"
	ResponseStreaming ResponseType = "streaming"
	ResponseMessage   ResponseType = "message"
)

// DocumentType tags the artifact carried by a MessageResponse.
type DocumentType string

const (
	DocSummary       DocumentType = "summary"
	DocPersonas      DocumentType = "personas"
	DocInterviews    DocumentType = "interviews"
	DocEvaluation    DocumentType = "evaluation"
	DocRequirements  DocumentType = "requirements"
	DocAnalysis      DocumentType = "analysis"
	DocProfitability DocumentType = "profitability_assessment"
	DocFeasibility   DocumentType = "feasibility_assessment"
	DocLegal         DocumentType = "legal_assessment"
	DocGate          DocumentType = "assessment_gate"
	DocPitch         DocumentType = "pitch"
)

// Response is what a node returns to the client. The set of implementations
// is closed; use a ResponseVisitor to handle every variant.
type Response interface {
	Type() ResponseType
	Accept(v ResponseVisitor)
	isResponse()
}

// ResponseVisitor has one method per Response variant.
type ResponseVisitor interface {
	VisitQuestion(QuestionResponse)
	VisitPlan(PlanResponse)
	VisitStreaming(StreamingResponse)
	VisitMessage(MessageResponse)
}

// QuestionResponse asks the user for input.
type QuestionResponse struct {
	Prompt      string       `json:"prompt"`
	Choices     []Choice     `json:"choices,omitempty"`
	InputType   QuestionType `json:"inputType"`
	Placeholder string       `json:"placeholder,omitempty"`
	Key         string       `json:"key"`
	Node        NodeID       `json:"node"`
	Current     int          `json:"current"`
	Total       int          `json:"total"`
}

// PlanResponse announces a transition, optionally with the state changes it made.
type PlanResponse struct {
	Content    string     `json:"content"`
	StatePatch StatePatch `json:"statePatch,omitempty"`
}

// StreamingResponse is one chunk of a streamed document.
type StreamingResponse struct {
	Content    string `json:"content"`
	IsComplete bool   `json:"isComplete"`
	Node       NodeID `json:"node"`
}

// MessageResponse carries a produced document. Fallback is set when the
// content is a deterministic placeholder emitted after a model failure.
type MessageResponse struct {
	Content  string       `json:"content"`
	Title    string       `json:"title,omitempty"`
	Document DocumentType `json:"document,omitempty"`
	Fallback bool         `json:"fallback,omitempty"`
	Node     NodeID       `json:"node,omitempty"`
}

func (QuestionResponse) Type() ResponseType  { return ResponseQuestion }
func (PlanResponse) Type() ResponseType      { return ResponsePlan }
func (StreamingResponse) Type() ResponseType { return ResponseStreaming }
func (MessageResponse) Type() ResponseType   { return ResponseMessage }

func (r QuestionResponse) Accept(v ResponseVisitor)  { v.VisitQuestion(r) }
func (r PlanResponse) Accept(v ResponseVisitor)      { v.VisitPlan(r) }
func (r StreamingResponse) Accept(v ResponseVisitor) { v.VisitStreaming(r) }
func (r MessageResponse) Accept(v ResponseVisitor)   { v.VisitMessage(r) }

func (QuestionResponse) isResponse()  {}
func (PlanResponse) isResponse()      {}
func (StreamingResponse) isResponse() {}
func (MessageResponse) isResponse()   {}

func (r QuestionResponse) MarshalJSON() ([]byte, error) {
	type alias QuestionResponse
	return json.Marshal(struct {
		Type ResponseType `json:"type"`
		alias
	}{ResponseQuestion, alias(r)})
}

func (r PlanResponse) MarshalJSON() ([]byte, error) {
	type alias PlanResponse
	return json.Marshal(struct {
		Type ResponseType `json:"type"`
		alias
	}{ResponsePlan, alias(r)})
}

func (r StreamingResponse) MarshalJSON() ([]byte, error) {
	type alias StreamingResponse
	return json.Marshal(struct {
		Type ResponseType `json:"type"`
		alias
	}{ResponseStreaming, alias(r)})
}

func (r MessageResponse) MarshalJSON() ([]byte, error) {
	type alias MessageResponse
	return json.Marshal(struct {
		Type ResponseType `json:"type"`
		alias
	}{ResponseMessage, alias(r)})
}

// UnmarshalResponse decodes a wire response using its "type" discriminator.
func UnmarshalResponse(data []byte) (Response, error) {
	var head struct {
		Type ResponseType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to read response type: %w", err)
	}
	switch head.Type {
	case ResponseQuestion:
		var r QuestionResponse
		err := json.Unmarshal(data, &r)
		return r, err
	case ResponsePlan:
		var r PlanResponse
		err := json.Unmarshal(data, &r)
		return r, err
	case ResponseStreaming:
		var r StreamingResponse
		err := json.Unmarshal(data, &r)
		return r, err
	case ResponseMessage:
		var r MessageResponse
		err := json.Unmarshal(data, &r)
		return r, err
	}
	return nil, fmt.Errorf("unknown response type %q", head.Type)
}
