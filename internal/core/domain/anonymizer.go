package domain

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// VoterHash derives the opaque token stored on vote rows in place of the
// voter's identity. It is deterministic per (voter, election), so duplicate
// detection stays idempotent, and one-way, so stored votes cannot be traced
// back to a voter. The mapping is always recomputed, never persisted.
func VoterHash(voterID, electionID uuid.UUID) string {
	sum := sha256.Sum256([]byte(voterID.String() + ":" + electionID.String()))
	return hex.EncodeToString(sum[:])
}
