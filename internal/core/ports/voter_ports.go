package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
)

// VoterRepository reads the voter registry maintained by the identity
// provider. This service never writes to it.
type VoterRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Voter, error)
	Count(ctx context.Context) (int64, error)
}
