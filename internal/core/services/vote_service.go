package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type voteService struct {
	elections ports.ElectionRepository
	votes     ports.VoteRepository
	voters    ports.VoterRepository
	authz     ports.Authorizer
	clock     ports.Clock
	logger    *slog.Logger
}

func NewVoteService(elections ports.ElectionRepository, votes ports.VoteRepository, voters ports.VoterRepository, authz ports.Authorizer, clock ports.Clock, logger *slog.Logger) ports.SubmissionService {
	return &voteService{
		elections: elections,
		votes:     votes,
		voters:    voters,
		authz:     authz,
		clock:     clock,
		logger:    logger,
	}
}

// Submit coordinates a ballot submission. Cheap checks run first, against an
// election graph loaded outside any transaction; the vote repository then
// repeats the state and duplicate checks under a row lock, which is the
// actual correctness guarantee. Either every selection is stored or none.
func (s *voteService) Submit(ctx context.Context, actor domain.Actor, electionID uuid.UUID, selections []domain.Selection) (*domain.Receipt, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanSubmitVote(ctx, actor, election) {
		return nil, domain.ErrForbidden
	}

	// A token alone is not enough: the caller must exist in the voter
	// registry, which is the membership list turnout is measured against.
	if _, err := s.voters.GetByID(ctx, actor.ID); err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	now := s.clock.Now()
	if election.Status != domain.StatusOpen {
		return nil, domain.NewStateError("voting is not open for election %q", election.Title)
	}
	if election.HasEnded(now) {
		return nil, domain.NewStateError("the voting window for election %q has ended", election.Title)
	}

	voterHash := domain.VoterHash(actor.ID, electionID)

	// Optimistic pre-check for a fast, friendly conflict before paying for
	// the transaction. The locked re-check below remains authoritative.
	hasVoted, err := s.votes.HasVoted(ctx, electionID, voterHash)
	if err != nil {
		return nil, err
	}
	if hasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	if err := domain.ValidateBallot(election, selections); err != nil {
		return nil, err
	}

	if err := s.votes.SubmitBallot(ctx, electionID, voterHash, selections, now); err != nil {
		return nil, err
	}

	positions := make(map[uuid.UUID]struct{}, len(selections))
	for _, sel := range selections {
		positions[sel.PositionID] = struct{}{}
	}

	s.logger.Info("ballot accepted",
		"election_id", electionID, "positions_voted", len(positions), "selections", len(selections))

	return &domain.Receipt{
		ElectionID:     electionID,
		PositionsVoted: len(positions),
		SubmittedAt:    now,
	}, nil
}
