package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orgelect/orgelect/internal/core/domain"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dataEnvelope{Data: data}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Message: message})
}

// respondError maps domain errors onto the HTTP error vocabulary: 422 for
// validation and state problems, 409 for conflicts, 404 for missing records,
// and 503 for anything infrastructural, without leaking internal detail.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var stateErr *domain.StateError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &stateErr), errors.Is(err, domain.ErrHasVotes):
		respondMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted), errors.Is(err, domain.ErrWriteConflict):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrElectionNotFound), errors.Is(err, domain.ErrVoterNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondMessage(w, http.StatusForbidden, err.Error())
	default:
		respondMessage(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	}
}
