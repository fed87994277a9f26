package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is an immutable fact: one selected candidate for one position, tied to
// an anonymized voter token. Rows are only ever created, never updated or
// deleted; see the storage layer for the enforcement.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	ElectionID  uuid.UUID `json:"election_id"`
	PositionID  uuid.UUID `json:"position_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	VoterHash   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Selection is one (position, candidate) pair of a submitted ballot.
type Selection struct {
	PositionID  uuid.UUID `json:"position_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
}

// Receipt confirms an accepted ballot to the voter. It is advisory only and
// carries nothing that could re-derive the voter's identity.
type Receipt struct {
	ElectionID     uuid.UUID `json:"election_id"`
	PositionsVoted int       `json:"positions_voted"`
	SubmittedAt    time.Time `json:"submitted_at"`
}
