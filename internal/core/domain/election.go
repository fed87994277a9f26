package domain

import (
	"time"

	"github.com/google/uuid"
)

type ElectionStatus string

const (
	StatusDraft  ElectionStatus = "draft"
	StatusOpen   ElectionStatus = "open"
	StatusClosed ElectionStatus = "closed"
)

func (s ElectionStatus) Valid() bool {
	return s == StatusDraft || s == StatusOpen || s == StatusClosed
}

type Election struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	StartAt     time.Time      `json:"start_datetime"`
	EndAt       time.Time      `json:"end_datetime"`
	Status      ElectionStatus `json:"status"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	Positions   []Position     `json:"positions"`
	CreatedAt   time.Time      `json:"created_at"`
}

type Position struct {
	ID              uuid.UUID   `json:"id"`
	ElectionID      uuid.UUID   `json:"election_id"`
	Title           string      `json:"title"`
	MinVotesAllowed int         `json:"min_votes_allowed"`
	MaxVotesAllowed int         `json:"max_votes_allowed"`
	DisplayOrder    int         `json:"display_order"`
	Candidates      []Candidate `json:"candidates"`
}

type Candidate struct {
	ID         uuid.UUID `json:"id"`
	PositionID uuid.UUID `json:"position_id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio,omitempty"`
	PhotoPath  string    `json:"photo_path,omitempty"`
}

func (e *Election) FindPosition(id uuid.UUID) *Position {
	for i := range e.Positions {
		if e.Positions[i].ID == id {
			return &e.Positions[i]
		}
	}
	return nil
}

func (p *Position) FindCandidate(id uuid.UUID) *Candidate {
	for i := range p.Candidates {
		if p.Candidates[i].ID == id {
			return &p.Candidates[i]
		}
	}
	return nil
}
