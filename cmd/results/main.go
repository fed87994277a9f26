package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/orgelect/orgelect/internal/adapters/authz"
	"github.com/orgelect/orgelect/internal/adapters/repository/postgres"
	"github.com/orgelect/orgelect/internal/config"
	"github.com/orgelect/orgelect/internal/core/domain"
	"github.com/orgelect/orgelect/internal/core/services"
)

// Exports an election's tally as CSV on stdout, for operators who want the
// results without going through the HTTP API.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("an election id is required")
	}
	electionID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("invalid election id: %v", err)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	cfg := config.Load()
	db, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	resultService := services.NewResultService(
		postgres.NewElectionRepository(db),
		postgres.NewResultRepository(db),
		postgres.NewVoterRepository(db),
		authz.NewRoleAuthorizer(true),
	)

	operator := domain.Actor{ID: uuid.New(), Role: authz.RoleSuperadmin}
	if err := resultService.WriteCSV(context.Background(), operator, electionID, os.Stdout); err != nil {
		log.Fatalf("failed to export results: %v", err)
	}
}
