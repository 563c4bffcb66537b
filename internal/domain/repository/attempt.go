package repository

import (
	"context"

	"devopsgen/internal/domain/entity"
)

// AttemptRepository keeps an audit trail of generation attempts.
type AttemptRepository interface {
	Save(ctx context.Context, attempt *entity.Attempt) error
	CountByStatus(ctx context.Context, status entity.AttemptStatus) (int, error)
}
