package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/orgelect/orgelect/internal/config"
)

// Applies the SQL migrations in order. With an argument, applies only the
// migration whose file name contains it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	var only string
	if len(os.Args) > 1 {
		only = os.Args[1]
	}

	cfg := config.Load()
	db, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	applied, err := applyMigrations(db, basePath, only)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("applied %d migration(s)\n", applied)
}

func applyMigrations(db *sql.DB, basePath string, only string) (int, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	applied := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}
		if only != "" && !strings.Contains(entry.Name(), only) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(basePath, entry.Name()))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return applied, fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
		applied++
	}

	if only != "" && applied == 0 {
		return 0, fmt.Errorf("migration file not found")
	}
	return applied, nil
}
