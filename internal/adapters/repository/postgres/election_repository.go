package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryElection := `
		INSERT INTO elections (id, title, description, start_at, end_at, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, queryElection,
		election.ID, election.Title, election.Description,
		election.StartAt, election.EndAt, election.Status, election.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", translateUniqueViolation(err))
	}

	queryPosition := `
		INSERT INTO positions (id, election_id, title, min_votes_allowed, max_votes_allowed, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	posStmt, err := tx.PrepareContext(ctx, queryPosition)
	if err != nil {
		return fmt.Errorf("failed to prepare position statement: %w", err)
	}
	defer posStmt.Close()

	queryCandidate := `
		INSERT INTO candidates (id, position_id, name, bio, photo_path)
		VALUES ($1, $2, $3, $4, $5)
	`
	candStmt, err := tx.PrepareContext(ctx, queryCandidate)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate statement: %w", err)
	}
	defer candStmt.Close()

	for _, pos := range election.Positions {
		_, err = posStmt.ExecContext(ctx, pos.ID, pos.ElectionID, pos.Title,
			pos.MinVotesAllowed, pos.MaxVotesAllowed, pos.DisplayOrder)
		if err != nil {
			return fmt.Errorf("failed to insert position: %w", translateUniqueViolation(err))
		}
		for _, cand := range pos.Candidates {
			_, err = candStmt.ExecContext(ctx, cand.ID, cand.PositionID, cand.Name, cand.Bio, cand.PhotoPath)
			if err != nil {
				return fmt.Errorf("failed to insert candidate: %w", translateUniqueViolation(err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	queryElection := `
		SELECT id, title, description, start_at, end_at, status, created_by, created_at
		FROM elections
		WHERE id = $1
	`

	var election domain.Election
	err := r.db.QueryRowContext(ctx, queryElection, id).Scan(
		&election.ID, &election.Title, &election.Description,
		&election.StartAt, &election.EndAt, &election.Status,
		&election.CreatedBy, &election.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}

	positions, err := r.fetchPositions(ctx, election.ID)
	if err != nil {
		return nil, err
	}
	election.Positions = positions

	return &election, nil
}

func (r *electionRepository) List(ctx context.Context) ([]*domain.Election, error) {
	query := `
		SELECT id, title, description, start_at, end_at, status, created_by, created_at
		FROM elections
		ORDER BY start_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	var elections []*domain.Election
	for rows.Next() {
		var election domain.Election
		if err := rows.Scan(&election.ID, &election.Title, &election.Description,
			&election.StartAt, &election.EndAt, &election.Status,
			&election.CreatedBy, &election.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}

		positions, err := r.fetchPositions(ctx, election.ID)
		if err != nil {
			return nil, err
		}
		election.Positions = positions

		elections = append(elections, &election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elections: %w", err)
	}
	return elections, nil
}

// Update is a compare-and-swap on the status column: the write only lands if
// the stored status still equals the one the caller loaded and validated
// against. A concurrent transition, such as an admin close, makes the guard
// fail and the stale write is rejected instead of resurrecting the election.
func (r *electionRepository) Update(ctx context.Context, election *domain.Election, from domain.ElectionStatus) error {
	query := `
		UPDATE elections
		SET title = $2, description = $3, start_at = $4, end_at = $5, status = $6
		WHERE id = $1 AND status = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		election.ID, election.Title, election.Description,
		election.StartAt, election.EndAt, election.Status, from)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return r.missOrConflict(ctx, election.ID, domain.ErrWriteConflict)
	}
	return nil
}

func (r *electionRepository) Delete(ctx context.Context, id uuid.UUID, allowWithVotes bool) error {
	// The vote re-check shares the statement so a ballot committed after the
	// caller's own HasVotes check still blocks an unprivileged delete.
	query := `
		DELETE FROM elections
		WHERE id = $1
		  AND ($2 OR NOT EXISTS (SELECT 1 FROM votes WHERE election_id = $1))
	`
	res, err := r.db.ExecContext(ctx, query, id, allowWithVotes)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return r.missOrConflict(ctx, id, domain.ErrHasVotes)
	}
	return nil
}

// missOrConflict distinguishes a guarded write that matched no rows: the
// election either no longer exists or its guard failed.
func (r *electionRepository) missOrConflict(ctx context.Context, id uuid.UUID, conflict error) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM elections WHERE id = $1`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrElectionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to inspect election after guarded write: %w", err)
	}
	return conflict
}

func (r *electionRepository) HasVotes(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM votes WHERE election_id = $1 LIMIT 1`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check for votes: %w", err)
	}
	return true, nil
}

func (r *electionRepository) fetchPositions(ctx context.Context, electionID uuid.UUID) ([]domain.Position, error) {
	queryPositions := `
		SELECT id, election_id, title, min_votes_allowed, max_votes_allowed, display_order
		FROM positions
		WHERE election_id = $1
		ORDER BY display_order, title
	`
	rows, err := r.db.QueryContext(ctx, queryPositions, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var pos domain.Position
		if err := rows.Scan(&pos.ID, &pos.ElectionID, &pos.Title,
			&pos.MinVotesAllowed, &pos.MaxVotesAllowed, &pos.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	for i := range positions {
		candidates, err := r.fetchCandidates(ctx, positions[i].ID)
		if err != nil {
			return nil, err
		}
		positions[i].Candidates = candidates
	}
	return positions, nil
}

func (r *electionRepository) fetchCandidates(ctx context.Context, positionID uuid.UUID) ([]domain.Candidate, error) {
	queryCandidates := `
		SELECT id, position_id, name, bio, photo_path
		FROM candidates
		WHERE position_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, queryCandidates, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var cand domain.Candidate
		if err := rows.Scan(&cand.ID, &cand.PositionID, &cand.Name, &cand.Bio, &cand.PhotoPath); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

// translateUniqueViolation turns schema uniqueness breaches into user-facing
// validation errors.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "positions_title_per_election":
		return domain.NewValidationError("position titles must be unique within an election")
	case "candidates_name_per_position":
		return domain.NewValidationError("candidate names must be unique within a position")
	default:
		return err
	}
}
