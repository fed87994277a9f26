package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type resultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) ports.ResultRepository {
	return &resultRepository{
		db: db,
	}
}

func (r *resultRepository) CandidateCounts(ctx context.Context, electionID uuid.UUID) ([]ports.CandidateCount, error) {
	query := `
		SELECT position_id, candidate_id, COUNT(*)
		FROM votes
		WHERE election_id = $1
		GROUP BY position_id, candidate_id
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	var counts []ports.CandidateCount
	for rows.Next() {
		var c ports.CandidateCount
		if err := rows.Scan(&c.PositionID, &c.CandidateID, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vote counts: %w", err)
	}
	return counts, nil
}

func (r *resultRepository) DistinctVoters(ctx context.Context, electionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT voter_hash) FROM votes WHERE election_id = $1`,
		electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct voters: %w", err)
	}
	return count, nil
}
