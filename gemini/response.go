package gemini

import "fmt"

// Response is the subset of a generateContent response the pipeline reads
type Response struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Candidate is one generated alternative
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Content is a role-tagged list of parts
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text part
type Part struct {
	Text string `json:"text,omitempty"`
}

// PromptFeedback reports why a prompt was blocked
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// FirstText returns the first candidate's first text part. ok is false when
// any step of that path is missing or the text is empty.
func (r *Response) FirstText() (text string, ok bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text = content.Parts[0].Text
	return text, text != ""
}

// FinishReason returns the first candidate's finish reason, if any
func (r *Response) FinishReason() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].FinishReason
}

// APIError is a failed completion call. StatusCode is the upstream HTTP
// status, or 0 when the call never produced one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gemini: status %d: %s", e.StatusCode, e.Message)
	}
	return "gemini: " + e.Message
}
