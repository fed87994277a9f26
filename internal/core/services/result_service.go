package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type resultService struct {
	elections ports.ElectionRepository
	results   ports.ResultRepository
	voters    ports.VoterRepository
	authz     ports.Authorizer
}

func NewResultService(elections ports.ElectionRepository, results ports.ResultRepository, voters ports.VoterRepository, authz ports.Authorizer) ports.ResultService {
	return &resultService{
		elections: elections,
		results:   results,
		voters:    voters,
		authz:     authz,
	}
}

// Tally aggregates committed votes into ranked per-position results. It only
// reads, so repeated calls with no intervening votes return identical output.
func (s *resultService) Tally(ctx context.Context, actor domain.Actor, electionID uuid.UUID) (*domain.ElectionResult, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanViewResults(ctx, actor, election) {
		return nil, domain.ErrForbidden
	}

	counts, err := s.results.CandidateCounts(ctx, electionID)
	if err != nil {
		return nil, err
	}
	votesByCandidate := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		votesByCandidate[c.CandidateID] = c.Votes
	}

	result := &domain.ElectionResult{
		ID:     election.ID,
		Title:  election.Title,
		Status: election.Status,
	}

	for _, pos := range election.Positions {
		pr := domain.PositionResult{
			ID:         pos.ID,
			Title:      pos.Title,
			Candidates: make([]domain.CandidateResult, 0, len(pos.Candidates)),
		}
		for _, cand := range pos.Candidates {
			pr.TotalVotes += votesByCandidate[cand.ID]
			pr.Candidates = append(pr.Candidates, domain.CandidateResult{
				ID:        cand.ID,
				Name:      cand.Name,
				PhotoPath: cand.PhotoPath,
				Votes:     votesByCandidate[cand.ID],
			})
		}
		for i := range pr.Candidates {
			pr.Candidates[i].Percentage = percentage(pr.Candidates[i].Votes, pr.TotalVotes)
		}
		// Ties break on candidate id so repeated tallies rank identically.
		sort.Slice(pr.Candidates, func(i, j int) bool {
			a, b := pr.Candidates[i], pr.Candidates[j]
			if a.Votes != b.Votes {
				return a.Votes > b.Votes
			}
			return a.ID.String() < b.ID.String()
		})
		result.TotalVotes += pr.TotalVotes
		result.Positions = append(result.Positions, pr)
	}

	participated, err := s.results.DistinctVoters(ctx, electionID)
	if err != nil {
		return nil, err
	}
	totalVoters, err := s.voters.Count(ctx)
	if err != nil {
		return nil, err
	}
	result.VotersParticipated = participated
	result.TotalVoters = totalVoters
	result.VoterTurnoutPercentage = percentage(participated, totalVoters)

	return result, nil
}

// WriteCSV flattens a tally to one row per candidate per position. Rank is
// the 1-based index within the sorted candidate list.
func (s *resultService) WriteCSV(ctx context.Context, actor domain.Actor, electionID uuid.UUID, w io.Writer) error {
	result, err := s.Tally(ctx, actor, electionID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"Election ID", "Election Title", "Position", "Rank", "Candidate", "Photo Path", "Votes", "Percentage"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, pos := range result.Positions {
		for rank, cand := range pos.Candidates {
			row := []string{
				result.ID.String(),
				result.Title,
				pos.Title,
				strconv.Itoa(rank + 1),
				cand.Name,
				cand.PhotoPath,
				strconv.FormatInt(cand.Votes, 10),
				strconv.FormatFloat(cand.Percentage, 'f', 2, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func percentage(part, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
