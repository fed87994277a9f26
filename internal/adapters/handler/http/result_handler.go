package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/ports"
)

type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{
		service: service,
	}
}

// GetResults godoc
// @Summary      Returns the ranked tally for an election
// @Tags         results
// @Produce      json
// @Success      200
// @Failure      403
// @Router       /elections/{id}/results [get]
func (h *ResultHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.service.Tally(r.Context(), actor, electionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ExportResultsCSV streams the tally flattened to one row per candidate.
func (h *ResultHandler) ExportResultsCSV(w http.ResponseWriter, r *http.Request) {
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

	// Buffered so an authorization or storage failure can still produce a
	// proper error response instead of a truncated download.
	var buf bytes.Buffer
	if err := h.service.WriteCSV(r.Context(), actor, electionID, &buf); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=election-%s-results.csv", electionID))
	w.Write(buf.Bytes())
}
