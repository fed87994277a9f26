package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeElectionRepo struct {
	elections map[uuid.UUID]*domain.Election
	hasVotes  map[uuid.UUID]bool
	saveErr   error

	// Hooks run at the start of the guarded writes, standing in for a
	// concurrent actor slipping between a service's read and its write.
	beforeUpdate func()
	beforeDelete func()
}

func newFakeElectionRepo(elections ...*domain.Election) *fakeElectionRepo {
	repo := &fakeElectionRepo{
		elections: make(map[uuid.UUID]*domain.Election),
		hasVotes:  make(map[uuid.UUID]bool),
	}
	for _, e := range elections {
		repo.elections[e.ID] = e
	}
	return repo
}

func (r *fakeElectionRepo) Save(_ context.Context, election *domain.Election) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.elections[election.ID] = election
	return nil
}

func (r *fakeElectionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Election, error) {
	election, ok := r.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	copied := *election
	return &copied, nil
}

func (r *fakeElectionRepo) List(_ context.Context) ([]*domain.Election, error) {
	var all []*domain.Election
	for _, e := range r.elections {
		all = append(all, e)
	}
	return all, nil
}

func (r *fakeElectionRepo) Update(_ context.Context, election *domain.Election, from domain.ElectionStatus) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	stored, ok := r.elections[election.ID]
	if !ok {
		return domain.ErrElectionNotFound
	}
	if stored.Status != from {
		return domain.ErrWriteConflict
	}
	r.elections[election.ID] = election
	return nil
}

func (r *fakeElectionRepo) Delete(_ context.Context, id uuid.UUID, allowWithVotes bool) error {
	if r.beforeDelete != nil {
		r.beforeDelete()
	}
	if _, ok := r.elections[id]; !ok {
		return domain.ErrElectionNotFound
	}
	if r.hasVotes[id] && !allowWithVotes {
		return domain.ErrHasVotes
	}
	delete(r.elections, id)
	return nil
}

func (r *fakeElectionRepo) HasVotes(_ context.Context, id uuid.UUID) (bool, error) {
	return r.hasVotes[id], nil
}

type submittedBallot struct {
	electionID uuid.UUID
	voterHash  string
	selections []domain.Selection
}

type fakeVoteRepo struct {
	voted     map[string]bool
	submitted []submittedBallot
	submitErr error
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{voted: make(map[string]bool)}
}

func (r *fakeVoteRepo) HasVoted(_ context.Context, electionID uuid.UUID, voterHash string) (bool, error) {
	return r.voted[electionID.String()+voterHash], nil
}

func (r *fakeVoteRepo) SubmitBallot(_ context.Context, electionID uuid.UUID, voterHash string, selections []domain.Selection, _ time.Time) error {
	if r.submitErr != nil {
		return r.submitErr
	}
	if r.voted[electionID.String()+voterHash] {
		return domain.ErrAlreadyVoted
	}
	r.voted[electionID.String()+voterHash] = true
	r.submitted = append(r.submitted, submittedBallot{electionID, voterHash, selections})
	return nil
}

type fakeResultRepo struct {
	counts  []ports.CandidateCount
	voters  int64
	callErr error
}

func (r *fakeResultRepo) CandidateCounts(_ context.Context, _ uuid.UUID) ([]ports.CandidateCount, error) {
	return r.counts, r.callErr
}

func (r *fakeResultRepo) DistinctVoters(_ context.Context, _ uuid.UUID) (int64, error) {
	return r.voters, r.callErr
}

type fakeVoterRepo struct {
	registered map[uuid.UUID]bool
	total      int64
}

func newFakeVoterRepo(ids ...uuid.UUID) *fakeVoterRepo {
	repo := &fakeVoterRepo{registered: make(map[uuid.UUID]bool)}
	for _, id := range ids {
		repo.registered[id] = true
	}
	repo.total = int64(len(ids))
	return repo
}

func (r *fakeVoterRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Voter, error) {
	if !r.registered[id] {
		return nil, domain.ErrVoterNotFound
	}
	return &domain.Voter{ID: id}, nil
}

func (r *fakeVoterRepo) Count(_ context.Context) (int64, error) { return r.total, nil }

// fakeAuthz grants every capability; individual tests flip fields off.
type fakeAuthz struct {
	denySubmit   bool
	denyResults  bool
	denyManage   bool
	denyOverride bool
}

func (a *fakeAuthz) CanSubmitVote(_ context.Context, _ domain.Actor, _ *domain.Election) bool {
	return !a.denySubmit
}

func (a *fakeAuthz) CanViewResults(_ context.Context, _ domain.Actor, _ *domain.Election) bool {
	return !a.denyResults
}

func (a *fakeAuthz) CanManageElections(_ context.Context, _ domain.Actor) bool {
	return !a.denyManage
}

func (a *fakeAuthz) CanOverrideSchedule(_ context.Context, _ domain.Actor) bool {
	return !a.denyOverride
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
