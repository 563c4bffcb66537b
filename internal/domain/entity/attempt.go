package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AttemptStatus string

const (
	AttemptReceived   AttemptStatus = "received"
	AttemptValidated  AttemptStatus = "validated"
	AttemptGenerating AttemptStatus = "generating"
	AttemptSucceeded  AttemptStatus = "succeeded"
	AttemptFailed     AttemptStatus = "failed"
)

var attemptTransitions = map[AttemptStatus][]AttemptStatus{
	AttemptReceived:   {AttemptValidated, AttemptFailed},
	AttemptValidated:  {AttemptGenerating, AttemptFailed},
	AttemptGenerating: {AttemptSucceeded, AttemptFailed},
}

const promptPreviewLen = 50

// Attempt tracks one pass through the generation endpoint. It holds metadata
// only; the generated text is never stored on it.
type Attempt struct {
	ID            string        `json:"id" bson:"id"`
	UseCase       string        `json:"use_case" bson:"use_case"`
	PromptPreview string        `json:"prompt_preview" bson:"prompt_preview"`
	Provider      string        `json:"provider,omitempty" bson:"provider,omitempty"`
	Status        AttemptStatus `json:"status" bson:"status"`
	ErrorKind     ErrorKind     `json:"error_kind,omitempty" bson:"error_kind,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

func NewAttempt(useCase, prompt string) *Attempt {
	now := time.Now().UTC()
	return &Attempt{
		ID:            uuid.NewString(),
		UseCase:       useCase,
		PromptPreview: PromptPreview(prompt),
		Status:        AttemptReceived,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Transition moves the attempt forward. Terminal states accept nothing.
func (a *Attempt) Transition(to AttemptStatus) error {
	for _, next := range attemptTransitions[a.Status] {
		if next == to {
			a.Status = to
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("attempt %s: illegal transition %s -> %s", a.ID, a.Status, to)
}

// Fail records the error kind and moves the attempt to failed.
func (a *Attempt) Fail(err error) {
	a.ErrorKind = KindOf(err)
	if a.IsTerminal() {
		return
	}
	_ = a.Transition(AttemptFailed)
}

func (a *Attempt) IsTerminal() bool {
	return a.Status == AttemptSucceeded || a.Status == AttemptFailed
}

func (a *Attempt) Duration() time.Duration {
	return a.UpdatedAt.Sub(a.CreatedAt)
}

// PromptPreview truncates a prompt for log lines.
func PromptPreview(prompt string) string {
	r := []rune(prompt)
	if len(r) <= promptPreviewLen {
		return prompt
	}
	return string(r[:promptPreviewLen]) + "..."
}
