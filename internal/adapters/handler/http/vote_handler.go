package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type VoteHandler struct {
	service ports.SubmissionService
}

func NewVoteHandler(service ports.SubmissionService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteSelectionRequest struct {
	PositionID  uuid.UUID `json:"position_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
}

type submitBallotRequest struct {
	Votes []voteSelectionRequest `json:"votes"`
}

type receiptResponse struct {
	ElectionID     uuid.UUID `json:"election_id"`
	PositionsVoted int       `json:"positions_voted"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Message        string    `json:"message"`
}

// SubmitBallot godoc
// @Summary      Casts the caller's ballot for an election
// @Description  Stores one anonymized vote per selection, all or nothing.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      409
// @Failure      422
// @Router       /elections/{id}/votes [post]
func (h *VoteHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "missing user context")
		return
	}

	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid election id")
		return
	}

	var req submitBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	selections := make([]domain.Selection, 0, len(req.Votes))
	for _, v := range req.Votes {
		selections = append(selections, domain.Selection{
			PositionID:  v.PositionID,
			CandidateID: v.CandidateID,
		})
	}

	receipt, err := h.service.Submit(r.Context(), actor, electionID, selections)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, receiptResponse{
		ElectionID:     receipt.ElectionID,
		PositionsVoted: receipt.PositionsVoted,
		SubmittedAt:    receipt.SubmittedAt,
		Message:        "Your vote has been recorded.",
	})
}
