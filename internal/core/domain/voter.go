package domain

import (
	"time"

	"github.com/google/uuid"
)

// Voter is an externally authenticated identity eligible to cast a ballot.
// Whether a voter has voted is always derived from the vote store; it is
// never kept as a stored flag that could drift.
type Voter struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor is whoever is performing an operation. The role string is opaque to
// the core; the authorization adapter interprets it.
type Actor struct {
	ID   uuid.UUID
	Role string
}
