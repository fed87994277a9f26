package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	JWTSecret     []byte
	VoteRateEvery time.Duration
	VoteRateBurst int
}

func NewHandler(
	cfg RouterConfig,
	electionHandler *ElectionHandler,
	voteHandler *VoteHandler,
	resultHandler *ResultHandler,
	healthHandler *HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler.Healthz)

	limiter := newVoterLimiter(cfg.VoteRateEvery, cfg.VoteRateBurst)

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(cfg.JWTSecret))

		r.Route("/elections", func(r chi.Router) {
			r.Post("/", electionHandler.CreateElection)
			r.Get("/", electionHandler.ListElections)
			r.Get("/{id}", electionHandler.GetElection)
			r.Patch("/{id}", electionHandler.UpdateElection)
			r.Delete("/{id}", electionHandler.DeleteElection)

			r.With(limiter.RateLimit).Post("/{id}/votes", voteHandler.SubmitBallot)

			r.Get("/{id}/results", resultHandler.GetResults)
			r.Get("/{id}/results/csv", resultHandler.ExportResultsCSV)
		})
	})

	return r
}
