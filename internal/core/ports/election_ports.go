package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
)

type ElectionRepository interface {
	Save(ctx context.Context, election *domain.Election) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	List(ctx context.Context) ([]*domain.Election, error)

	// Update writes the election back only if its stored status still equals
	// from, the status the caller validated against. A lost race returns
	// ErrWriteConflict, so a stale edit can never overwrite a concurrent
	// close.
	Update(ctx context.Context, election *domain.Election, from domain.ElectionStatus) error

	// Delete removes the election and its cascade. Unless allowWithVotes is
	// set, the removal is refused atomically when any vote row exists, even
	// one recorded after the caller's own check.
	Delete(ctx context.Context, id uuid.UUID, allowWithVotes bool) error

	HasVotes(ctx context.Context, id uuid.UUID) (bool, error)
}

type CreateCandidateInput struct {
	Name      string
	Bio       string
	PhotoPath string
}

type CreatePositionInput struct {
	Title           string
	MinVotesAllowed int
	MaxVotesAllowed int
	Candidates      []CreateCandidateInput
}

type CreateElectionInput struct {
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	Positions   []CreatePositionInput
}

// UpdateElectionInput carries a partial update; nil fields are untouched.
// A non-nil Status requests a lifecycle transition.
type UpdateElectionInput struct {
	Title       *string
	Description *string
	StartAt     *time.Time
	EndAt       *time.Time
	Status      *domain.ElectionStatus
}

type ElectionService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateElectionInput) (*domain.Election, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	List(ctx context.Context) ([]*domain.Election, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateElectionInput) (*domain.Election, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}
