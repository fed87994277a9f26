package domain

import "github.com/google/uuid"

type CandidateResult struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PhotoPath  string    `json:"photo_path,omitempty"`
	Votes      int64     `json:"votes"`
	Percentage float64   `json:"percentage"`
}

type PositionResult struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	TotalVotes int64             `json:"total_votes"`
	Candidates []CandidateResult `json:"candidates"`
}

type ElectionResult struct {
	ID                     uuid.UUID        `json:"id"`
	Title                  string           `json:"title"`
	Status                 ElectionStatus   `json:"status"`
	TotalVotes             int64            `json:"total_votes"`
	VotersParticipated     int64            `json:"voters_participated"`
	TotalVoters            int64            `json:"total_voters"`
	VoterTurnoutPercentage float64          `json:"voter_turnout_percentage"`
	Positions              []PositionResult `json:"positions"`
}
