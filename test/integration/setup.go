package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/orgelect/orgelect/internal/adapters/authz"
	apphttp "github.com/orgelect/orgelect/internal/adapters/handler/http"
	pgrepo "github.com/orgelect/orgelect/internal/adapters/repository/postgres"
	"github.com/orgelect/orgelect/internal/core/ports"
	"github.com/orgelect/orgelect/internal/core/services"
)

const testJWTSecret = "test-secret"

type TestApp struct {
	DB        *sql.DB
	Server    *httptest.Server
	Client    *stdhttp.Client
	container testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	electionRepo := pgrepo.NewElectionRepository(db)
	voteRepo := pgrepo.NewVoteRepository(db)
	resultRepo := pgrepo.NewResultRepository(db)
	voterRepo := pgrepo.NewVoterRepository(db)

	authorizer := authz.NewRoleAuthorizer(false)
	clock := ports.SystemClock{}

	handler := apphttp.NewHandler(
		apphttp.RouterConfig{
			JWTSecret:     []byte(testJWTSecret),
			VoteRateEvery: time.Millisecond,
			VoteRateBurst: 1000, // concurrency tests must not trip the limiter
		},
		apphttp.NewElectionHandler(services.NewElectionService(electionRepo, authorizer, clock, logger)),
		apphttp.NewVoteHandler(services.NewVoteService(electionRepo, voteRepo, voterRepo, authorizer, clock, logger)),
		apphttp.NewResultHandler(services.NewResultService(electionRepo, resultRepo, voterRepo, authorizer)),
		apphttp.NewHealthHandler(db),
	)

	server := httptest.NewServer(handler)

	return &TestApp{
		DB:        db,
		Server:    server,
		Client:    server.Client(),
		container: container,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	app.DB.Close()
	require.NoError(t, app.container.Terminate(context.Background()))
}

// createVoterAndToken registers a voter row and signs an access token the
// way the external identity provider would.
func createVoterAndToken(t *testing.T, db *sql.DB, role string) (uuid.UUID, string) {
	t.Helper()

	voterID := uuid.New()
	email := fmt.Sprintf("voter-%s@example.com", voterID)
	name := fmt.Sprintf("Voter %s", voterID)
	_, err := db.Exec("INSERT INTO voters (id, name, email) VALUES ($1, $2, $3)", voterID, name, email)
	require.NoError(t, err)

	return voterID, signToken(t, voterID, role)
}

// signToken mints an access token without touching the voters table, so tests
// can also impersonate subjects the registry has never seen.
func signToken(t *testing.T, subject uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  subject.String(),
		"role": role,
		"exp":  time.Now().Add(15 * time.Minute).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signedToken
}

func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *stdhttp.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := stdhttp.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&stdhttp.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *stdhttp.Response, out any) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func responseMessage(t *testing.T, resp *stdhttp.Response) string {
	t.Helper()
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Message
}

// electionPayload is the admin request for a simple one-position election
// already inside its voting window.
func electionPayload(title string, minVotes, maxVotes int, candidates ...string) map[string]any {
	cands := make([]map[string]any, 0, len(candidates))
	for _, name := range candidates {
		cands = append(cands, map[string]any{"name": name})
	}
	return map[string]any{
		"title":          title,
		"description":    "integration fixture",
		"start_datetime": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"end_datetime":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"positions": []map[string]any{
			{
				"title":             "President",
				"min_votes_allowed": minVotes,
				"max_votes_allowed": maxVotes,
				"candidates":        cands,
			},
		},
	}
}

type electionResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Positions []struct {
		ID         uuid.UUID `json:"id"`
		Title      string    `json:"title"`
		Candidates []struct {
			ID   uuid.UUID `json:"id"`
			Name string    `json:"name"`
		} `json:"candidates"`
	} `json:"positions"`
}

// createOpenElection drives the admin API: create a draft election and open it.
func createOpenElection(t *testing.T, app *TestApp, adminToken string, payload map[string]any) electionResponse {
	t.Helper()

	resp := app.doJSON(t, "POST", "/api/elections", adminToken, payload)
	require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
	var election electionResponse
	decodeData(t, resp, &election)

	resp = app.doJSON(t, "PATCH", "/api/elections/"+election.ID.String(), adminToken, map[string]any{"status": "open"})
	require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	decodeData(t, resp, &election)
	require.Equal(t, "open", election.Status)

	return election
}
