package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
)

// VoteRepository is append-only: the interface deliberately exposes no way to
// update or delete a vote row.
type VoteRepository interface {
	HasVoted(ctx context.Context, electionID uuid.UUID, voterHash string) (bool, error)

	// SubmitBallot runs the critical section: it locks the election row,
	// re-checks that voting is open and that the voter token has not voted,
	// then inserts one row per selection, all inside one transaction.
	SubmitBallot(ctx context.Context, electionID uuid.UUID, voterHash string, selections []domain.Selection, now time.Time) error
}

type SubmissionService interface {
	Submit(ctx context.Context, actor domain.Actor, electionID uuid.UUID, selections []domain.Selection) (*domain.Receipt, error)
}
