package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

// voteRepository is append-only: votes are inserted inside SubmitBallot and
// never touched again. The votes table carries a trigger that rejects any
// UPDATE or direct DELETE as a second line of defense.
type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) HasVoted(ctx context.Context, electionID uuid.UUID, voterHash string) (bool, error) {
	query := `SELECT 1 FROM votes WHERE election_id = $1 AND voter_hash = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, electionID, voterHash).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

// SubmitBallot is the critical section of a submission. The election row is
// locked for the duration of the transaction, serializing concurrent ballots
// and admin close actions against this one election, and the open/ended and
// duplicate checks are repeated under that lock. The unique constraint on
// (election, position, candidate, voter_hash) remains authoritative for
// races the lock cannot see, such as a second application node.
func (r *voteRepository) SubmitBallot(ctx context.Context, electionID uuid.UUID, voterHash string, selections []domain.Selection, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status domain.ElectionStatus
	var endAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT status, end_at FROM elections WHERE id = $1 FOR UPDATE`,
		electionID).Scan(&status, &endAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrElectionNotFound
		}
		return fmt.Errorf("failed to lock election: %w", err)
	}

	if status != domain.StatusOpen {
		return domain.NewStateError("voting is not open for this election")
	}
	if !now.Before(endAt) {
		return domain.NewStateError("the voting window for this election has ended")
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM votes WHERE election_id = $1 AND voter_hash = $2 LIMIT 1`,
		electionID, voterHash).Scan(&exists)
	if err == nil {
		return domain.ErrAlreadyVoted
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to re-check existing vote: %w", err)
	}

	query := `
		INSERT INTO votes (id, election_id, position_id, candidate_id, voter_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare vote statement: %w", err)
	}
	defer stmt.Close()

	for _, sel := range selections {
		_, err = stmt.ExecContext(ctx, uuid.New(), electionID, sel.PositionID, sel.CandidateID, voterHash, now)
		if err != nil {
			return translateVoteConflict(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translateVoteConflict(err)
	}

	return nil
}

// translateVoteConflict reclassifies constraint failures into the conflict
// vocabulary callers already handle.
func translateVoteConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "votes_unique_selection" {
				return domain.ErrAlreadyVoted
			}
			return domain.ErrWriteConflict
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrWriteConflict
		}
	}
	return fmt.Errorf("failed to record vote: %w", err)
}
