package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type voterRepository struct {
	db *sql.DB
}

func NewVoterRepository(db *sql.DB) ports.VoterRepository {
	return &voterRepository{
		db: db,
	}
}

func (r *voterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Voter, error) {
	query := `SELECT id, name, email, created_at FROM voters WHERE id = $1`
	var voter domain.Voter
	err := r.db.QueryRowContext(ctx, query, id).Scan(&voter.ID, &voter.Name, &voter.Email, &voter.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}
	return &voter, nil
}

func (r *voterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return count, nil
}
