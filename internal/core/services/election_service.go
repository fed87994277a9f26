package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type electionService struct {
	repo   ports.ElectionRepository
	authz  ports.Authorizer
	clock  ports.Clock
	logger *slog.Logger
}

func NewElectionService(repo ports.ElectionRepository, authz ports.Authorizer, clock ports.Clock, logger *slog.Logger) ports.ElectionService {
	return &electionService{
		repo:   repo,
		authz:  authz,
		clock:  clock,
		logger: logger,
	}
}

func (s *electionService) Create(ctx context.Context, actor domain.Actor, input ports.CreateElectionInput) (*domain.Election, error) {
	if !s.authz.CanManageElections(ctx, actor) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewValidationError("election title is required")
	}
	if !input.EndAt.After(input.StartAt) {
		return nil, domain.NewValidationError("election end must be after its start")
	}

	now := s.clock.Now()
	election := &domain.Election{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Status:      domain.StatusDraft,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
	}

	seenTitles := make(map[string]bool, len(input.Positions))
	for order, p := range input.Positions {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			return nil, domain.NewValidationError("position title is required")
		}
		if seenTitles[title] {
			return nil, domain.NewValidationError("position %q appears more than once", title)
		}
		seenTitles[title] = true
		if p.MinVotesAllowed < 1 || p.MaxVotesAllowed < p.MinVotesAllowed {
			return nil, domain.NewValidationError("position %q has an invalid vote range (%d-%d)",
				title, p.MinVotesAllowed, p.MaxVotesAllowed)
		}

		position := domain.Position{
			ID:              uuid.New(),
			ElectionID:      election.ID,
			Title:           title,
			MinVotesAllowed: p.MinVotesAllowed,
			MaxVotesAllowed: p.MaxVotesAllowed,
			DisplayOrder:    order,
		}
		seenNames := make(map[string]bool, len(p.Candidates))
		for _, c := range p.Candidates {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				return nil, domain.NewValidationError("candidate name is required for position %q", title)
			}
			if seenNames[name] {
				return nil, domain.NewValidationError("candidate %q appears more than once for position %q", name, title)
			}
			seenNames[name] = true
			position.Candidates = append(position.Candidates, domain.Candidate{
				ID:         uuid.New(),
				PositionID: position.ID,
				Name:       name,
				Bio:        c.Bio,
				PhotoPath:  c.PhotoPath,
			})
		}
		election.Positions = append(election.Positions, position)
	}

	if err := s.repo.Save(ctx, election); err != nil {
		return nil, err
	}
	s.logger.Info("election created", "election_id", election.ID, "title", election.Title)
	return election, nil
}

func (s *electionService) Get(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *electionService) List(ctx context.Context) ([]*domain.Election, error) {
	return s.repo.List(ctx)
}

func (s *electionService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input ports.UpdateElectionInput) (*domain.Election, error) {
	if !s.authz.CanManageElections(ctx, actor) {
		return nil, domain.ErrForbidden
	}

	election, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// All validation below runs against this snapshot; the repository write
	// is conditional on the status still matching it.
	loadedStatus := election.Status

	now := s.clock.Now()
	privileged := s.authz.CanOverrideSchedule(ctx, actor)

	editsRequested := input.Title != nil || input.Description != nil || input.StartAt != nil || input.EndAt != nil
	if editsRequested && !election.CanEdit(privileged) {
		return nil, domain.NewStateError("election %q can no longer be edited in status %s", election.Title, election.Status)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.NewValidationError("election title is required")
		}
		election.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		election.Description = *input.Description
	}
	if input.StartAt != nil {
		election.StartAt = *input.StartAt
	}
	if input.EndAt != nil {
		election.EndAt = *input.EndAt
	}
	if !election.EndAt.After(election.StartAt) {
		return nil, domain.NewValidationError("election end must be after its start")
	}

	if input.Status != nil {
		to := *input.Status
		if !to.Valid() {
			return nil, domain.NewValidationError("unknown election status %q", string(to))
		}
		if err := election.ValidateTransition(to, now, privileged); err != nil {
			s.logger.Warn("election transition rejected",
				"election_id", election.ID, "from", election.Status, "to", to, "reason", err.Error())
			return nil, err
		}
		switch to {
		case domain.StatusOpen:
			election.Status = domain.StatusOpen
		case domain.StatusClosed:
			election.Close(now)
		}
	}

	if err := s.repo.Update(ctx, election, loadedStatus); err != nil {
		return nil, err
	}
	s.logger.Info("election updated", "election_id", election.ID, "status", election.Status)
	return election, nil
}

func (s *electionService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if !s.authz.CanManageElections(ctx, actor) {
		return domain.ErrForbidden
	}

	election, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowWithVotes := s.authz.CanOverrideSchedule(ctx, actor)
	hasVotes, err := s.repo.HasVotes(ctx, id)
	if err != nil {
		return err
	}
	if hasVotes && !allowWithVotes {
		return domain.ErrHasVotes
	}

	// The repository re-checks for votes atomically; a ballot recorded after
	// the check above still blocks an unprivileged delete.
	if err := s.repo.Delete(ctx, id, allowWithVotes); err != nil {
		return err
	}
	s.logger.Info("election deleted", "election_id", election.ID, "title", election.Title)
	return nil
}
