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

type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		service: service,
	}
}

type createCandidateRequest struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	PhotoPath string `json:"photo_path"`
}

type createPositionRequest struct {
	Title           string                   `json:"title"`
	MinVotesAllowed int                      `json:"min_votes_allowed"`
	MaxVotesAllowed int                      `json:"max_votes_allowed"`
	Candidates      []createCandidateRequest `json:"candidates"`
}

type createElectionRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	StartAt     time.Time               `json:"start_datetime"`
	EndAt       time.Time               `json:"end_datetime"`
	Positions   []createPositionRequest `json:"positions"`
}

type updateElectionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartAt     *time.Time `json:"start_datetime"`
	EndAt       *time.Time `json:"end_datetime"`
	Status      *string    `json:"status"`
}

// CreateElection godoc
// @Summary      Creates an election in draft status
// @Tags         elections
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      422
// @Router       /elections [post]
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req createElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreateElectionInput{
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	for _, p := range req.Positions {
		position := ports.CreatePositionInput{
			Title:           p.Title,
			MinVotesAllowed: p.MinVotesAllowed,
			MaxVotesAllowed: p.MaxVotesAllowed,
		}
		for _, c := range p.Candidates {
			position.Candidates = append(position.Candidates, ports.CreateCandidateInput{
				Name:      c.Name,
				Bio:       c.Bio,
				PhotoPath: c.PhotoPath,
			})
		}
		input.Positions = append(input.Positions, position)
	}

	election, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, election)
}

func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid election id")
		return
	}

	election, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, election)
}

func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, elections)
}

// UpdateElection accepts partial updates; a status field requests a
// lifecycle transition validated by the election service.
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid election id")
		return
	}

	var req updateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.UpdateElectionInput{
		Title:       req.Title,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	if req.Status != nil {
		status := domain.ElectionStatus(*req.Status)
		input.Status = &status
	}

	election, err := h.service.Update(r.Context(), actor, id, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, election)
}

func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid election id")
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
