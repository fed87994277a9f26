package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tallyFixture() (*domain.Election, *fakeResultRepo) {
	now := time.Now().UTC()
	election := openElection(now)
	pres := election.Positions[0]

	results := &fakeResultRepo{
		counts: []ports.CandidateCount{
			{PositionID: pres.ID, CandidateID: pres.Candidates[0].ID, Votes: 2},
			{PositionID: pres.ID, CandidateID: pres.Candidates[1].ID, Votes: 1},
		},
		voters: 3,
	}
	return election, results
}

func TestTallyRanksAndWeights(t *testing.T) {
	election, results := tallyFixture()
	svc := NewResultService(newFakeElectionRepo(election), results, &fakeVoterRepo{total: 4}, &fakeAuthz{})

	result, err := svc.Tally(context.Background(), domain.Actor{ID: uuid.New()}, election.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.TotalVotes)
	assert.Equal(t, int64(3), result.VotersParticipated)
	assert.Equal(t, int64(4), result.TotalVoters)
	assert.InDelta(t, 75.0, result.VoterTurnoutPercentage, 0.001)

	require.Len(t, result.Positions, 1)
	pos := result.Positions[0]
	assert.Equal(t, int64(3), pos.TotalVotes)
	require.Len(t, pos.Candidates, 2)

	assert.Equal(t, "Alice", pos.Candidates[0].Name)
	assert.Equal(t, int64(2), pos.Candidates[0].Votes)
	assert.InDelta(t, 66.67, pos.Candidates[0].Percentage, 0.001)

	assert.Equal(t, "Bob", pos.Candidates[1].Name)
	assert.Equal(t, int64(1), pos.Candidates[1].Votes)
	assert.InDelta(t, 33.33, pos.Candidates[1].Percentage, 0.001)

	// Percentages of a position sum to ~100.
	assert.InDelta(t, 100.0, pos.Candidates[0].Percentage+pos.Candidates[1].Percentage, 0.01)
}

func TestTallyZeroVotes(t *testing.T) {
	election, _ := tallyFixture()
	results := &fakeResultRepo{}
	svc := NewResultService(newFakeElectionRepo(election), results, &fakeVoterRepo{total: 4}, &fakeAuthz{})

	result, err := svc.Tally(context.Background(), domain.Actor{ID: uuid.New()}, election.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.TotalVotes)
	assert.Equal(t, 0.0, result.VoterTurnoutPercentage)
	for _, cand := range result.Positions[0].Candidates {
		assert.Equal(t, int64(0), cand.Votes)
		assert.Equal(t, 0.0, cand.Percentage)
	}
}

func TestTallyTieBreaksOnCandidateID(t *testing.T) {
	election, results := tallyFixture()
	pres := election.Positions[0]
	results.counts = []ports.CandidateCount{
		{PositionID: pres.ID, CandidateID: pres.Candidates[0].ID, Votes: 2},
		{PositionID: pres.ID, CandidateID: pres.Candidates[1].ID, Votes: 2},
	}
	svc := NewResultService(newFakeElectionRepo(election), results, &fakeVoterRepo{total: 4}, &fakeAuthz{})

	first, err := svc.Tally(context.Background(), domain.Actor{ID: uuid.New()}, election.ID)
	require.NoError(t, err)
	second, err := svc.Tally(context.Background(), domain.Actor{ID: uuid.New()}, election.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated tallies must rank identically")
	candidates := first.Positions[0].Candidates
	assert.Less(t, candidates[0].ID.String(), candidates[1].ID.String())
}

func TestTallyUnauthorized(t *testing.T) {
	election, results := tallyFixture()
	svc := NewResultService(newFakeElectionRepo(election), results, &fakeVoterRepo{total: 4}, &fakeAuthz{denyResults: true})

	_, err := svc.Tally(context.Background(), domain.Actor{ID: uuid.New()}, election.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWriteCSV(t *testing.T) {
	election, results := tallyFixture()
	svc := NewResultService(newFakeElectionRepo(election), results, &fakeVoterRepo{total: 4}, &fakeAuthz{})

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), domain.Actor{ID: uuid.New()}, election.ID, &buf)
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per candidate")

	assert.Equal(t, []string{"Election ID", "Election Title", "Position", "Rank", "Candidate", "Photo Path", "Votes", "Percentage"}, rows[0])

	assert.Equal(t, "President", rows[1][2])
	assert.Equal(t, "1", rows[1][3])
	assert.Equal(t, "Alice", rows[1][4])
	assert.Equal(t, "2", rows[1][6])
	assert.Equal(t, "66.67", rows[1][7])

	assert.Equal(t, "2", rows[2][3])
	assert.Equal(t, "Bob", rows[2][4])
	assert.Equal(t, "33.33", rows[2][7])
}
