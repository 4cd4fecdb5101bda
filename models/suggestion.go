package models

import "time"

// FallbackSuggestion is returned in place of model text when the completion
// response carries no candidate text
const FallbackSuggestion = "Unable to generate suggestion at this time."

// SuggestionFailureLabel is the fixed error label of a failed suggestion envelope
const SuggestionFailureLabel = "Failed to generate AI suggestion"

// TimestampLayout renders instants the way JavaScript's toISOString does
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// SuggestionEnvelope is the uniform JSON contract of the suggestion endpoint
type SuggestionEnvelope struct {
	Success    bool   `json:"success"`
	Suggestion string `json:"suggestion,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
}

// NewSuggestionSuccess builds a success envelope stamped with the given instant
func NewSuggestionSuccess(suggestion string, at time.Time) SuggestionEnvelope {
	return SuggestionEnvelope{
		Success:    true,
		Suggestion: suggestion,
		Timestamp:  FormatTimestamp(at),
	}
}

// NewSuggestionFailure builds a failure envelope
func NewSuggestionFailure(label, message string) SuggestionEnvelope {
	return SuggestionEnvelope{
		Success: false,
		Error:   label,
		Message: message,
	}
}

// FormatTimestamp formats t as a UTC ISO-8601 instant with millisecond precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
