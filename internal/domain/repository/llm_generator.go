package repository

import (
	"context"

	"devopsgen/internal/domain/entity"
)

// GenerationProvider is one upstream text-generation service.
type GenerationProvider interface {
	Name() string
	// Complete sends a single system + user turn and returns the unwrapped text.
	// Failures are *entity.GenerationError values carrying a taxonomy kind.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (entity.Completion, error)
}
