package entity

import "time"

// Completion is the flat result a provider returns after unwrapping its
// response envelope. Token counts are zero when the provider did not report them.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

type GenerationResult struct {
	RequestID   string        `json:"requestId"`
	Text        string        `json:"config"`
	Usage       *UsageStats   `json:"usage,omitempty"`
	Diagnostics []*Diagnostic `json:"diagnostics,omitempty"`
	Provider    string        `json:"-"`
	CreatedAt   time.Time     `json:"-"`
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one advisory finding from linting a generated artifact.
type Diagnostic struct {
	File     string   `json:"file"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
}
