package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ballotElection() *Election {
	now := time.Now()
	e := electionFixture(StatusOpen, now.Add(-time.Hour), now.Add(time.Hour))

	secID := uuid.New()
	e.Positions = append(e.Positions, Position{
		ID:              secID,
		Title:           "Secretary",
		MinVotesAllowed: 2,
		MaxVotesAllowed: 3,
		Candidates: []Candidate{
			{ID: uuid.New(), PositionID: secID, Name: "Carol"},
			{ID: uuid.New(), PositionID: secID, Name: "Dave"},
			{ID: uuid.New(), PositionID: secID, Name: "Erin"},
		},
	})
	return e
}

func fullBallot(e *Election) []Selection {
	pres, sec := e.Positions[0], e.Positions[1]
	return []Selection{
		{PositionID: pres.ID, CandidateID: pres.Candidates[0].ID},
		{PositionID: sec.ID, CandidateID: sec.Candidates[0].ID},
		{PositionID: sec.ID, CandidateID: sec.Candidates[1].ID},
	}
}

func TestValidateBallotAccepts(t *testing.T) {
	e := ballotElection()
	require.NoError(t, ValidateBallot(e, fullBallot(e)))

	// Max selections for the secretary position is also fine.
	sec := e.Positions[1]
	selections := append(fullBallot(e), Selection{PositionID: sec.ID, CandidateID: sec.Candidates[2].ID})
	require.NoError(t, ValidateBallot(e, selections))
}

func TestValidateBallotForeignPosition(t *testing.T) {
	e := ballotElection()
	selections := fullBallot(e)
	selections[0].PositionID = uuid.New()

	err := ValidateBallot(e, selections)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "does not belong to this election")
}

func TestValidateBallotCrossPositionCandidate(t *testing.T) {
	e := ballotElection()
	pres, sec := e.Positions[0], e.Positions[1]

	// Candidate from the secretary race paired with the president position.
	selections := []Selection{
		{PositionID: pres.ID, CandidateID: sec.Candidates[0].ID},
		{PositionID: sec.ID, CandidateID: sec.Candidates[0].ID},
		{PositionID: sec.ID, CandidateID: sec.Candidates[1].ID},
	}

	err := ValidateBallot(e, selections)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "is not running for position")
}

func TestValidateBallotDuplicatePair(t *testing.T) {
	e := ballotElection()
	sec := e.Positions[1]
	selections := fullBallot(e)
	selections = append(selections, Selection{PositionID: sec.ID, CandidateID: sec.Candidates[0].ID})

	err := ValidateBallot(e, selections)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "duplicate selection")
}

func TestValidateBallotSelectionBounds(t *testing.T) {
	e := ballotElection()
	pres, sec := e.Positions[0], e.Positions[1]

	t.Run("too few for a position", func(t *testing.T) {
		selections := []Selection{
			{PositionID: pres.ID, CandidateID: pres.Candidates[0].ID},
			{PositionID: sec.ID, CandidateID: sec.Candidates[0].ID},
		}
		err := ValidateBallot(e, selections)
		require.Error(t, err)
		assert.Equal(t, `Position "Secretary" requires between 2 and 3 selection(s).`, err.Error())
	})

	t.Run("too many for a position", func(t *testing.T) {
		selections := append(fullBallot(e), Selection{PositionID: pres.ID, CandidateID: pres.Candidates[1].ID})
		err := ValidateBallot(e, selections)
		require.Error(t, err)
		assert.Equal(t, `Position "President" requires between 1 and 1 selection(s).`, err.Error())
	})

	t.Run("position missing entirely", func(t *testing.T) {
		selections := []Selection{
			{PositionID: pres.ID, CandidateID: pres.Candidates[0].ID},
		}
		err := ValidateBallot(e, selections)
		require.Error(t, err)
		assert.Equal(t, `Position "Secretary" requires between 2 and 3 selection(s).`, err.Error())
	})

	t.Run("empty ballot", func(t *testing.T) {
		require.Error(t, ValidateBallot(e, nil))
	})
}
