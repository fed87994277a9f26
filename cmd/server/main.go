package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/orgelect/orgelect/internal/adapters/authz"
	"github.com/orgelect/orgelect/internal/adapters/handler/http"
	"github.com/orgelect/orgelect/internal/adapters/repository/postgres"
	"github.com/orgelect/orgelect/internal/config"
	"github.com/orgelect/orgelect/internal/core/ports"
	"github.com/orgelect/orgelect/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	electionRepo := postgres.NewElectionRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	voterRepo := postgres.NewVoterRepository(db)

	authorizer := authz.NewRoleAuthorizer(cfg.ResultsBeforeClose)
	clock := ports.SystemClock{}

	electionService := services.NewElectionService(electionRepo, authorizer, clock, logger)
	voteService := services.NewVoteService(electionRepo, voteRepo, voterRepo, authorizer, clock, logger)
	resultService := services.NewResultService(electionRepo, resultRepo, voterRepo, authorizer)

	handler := http.NewHandler(
		http.RouterConfig{
			JWTSecret:     []byte(cfg.JWTSecret),
			VoteRateEvery: cfg.VoteRateEvery,
			VoteRateBurst: cfg.VoteRateBurst,
		},
		http.NewElectionHandler(electionService),
		http.NewVoteHandler(voteService),
		http.NewResultHandler(resultService),
		http.NewHealthHandler(db),
	)

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
