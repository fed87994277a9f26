package ports

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
)

// CandidateCount is one row of the grouped vote count for an election.
type CandidateCount struct {
	PositionID  uuid.UUID
	CandidateID uuid.UUID
	Votes       int64
}

type ResultRepository interface {
	CandidateCounts(ctx context.Context, electionID uuid.UUID) ([]CandidateCount, error)
	DistinctVoters(ctx context.Context, electionID uuid.UUID) (int64, error)
}

type ResultService interface {
	Tally(ctx context.Context, actor domain.Actor, electionID uuid.UUID) (*domain.ElectionResult, error)
	WriteCSV(ctx context.Context, actor domain.Actor, electionID uuid.UUID, w io.Writer) error
}
