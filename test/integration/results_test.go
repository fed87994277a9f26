package integration

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgelect/orgelect/internal/adapters/authz"
	"github.com/orgelect/orgelect/internal/core/domain"
)

// seedTalliedElection records two votes for Alice and one for Bob. With the
// admin row included the registry holds four voters, three of whom voted.
func seedTalliedElection(t *testing.T, app *TestApp) (electionResponse, string, string) {
	t.Helper()

	_, adminToken := createVoterAndToken(t, app.DB, authz.RoleAdmin)
	election := createOpenElection(t, app, adminToken, electionPayload("Board Election", 1, 1, "Alice", "Bob"))
	path := "/api/elections/" + election.ID.String() + "/votes"

	var lastVoter string
	for _, candidate := range []string{"Alice", "Alice", "Bob"} {
		_, token := createVoterAndToken(t, app.DB, authz.RoleVoter)
		lastVoter = token
		resp := app.doJSON(t, "POST", path, token, ballotFor(election, candidate))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	return election, adminToken, lastVoter
}

func TestResultsTally(t *testing.T) {
	app := setupTestApp(t)
	defer app.Teardown(t)

	election, adminToken, _ := seedTalliedElection(t, app)

	resp := app.doJSON(t, "GET", "/api/elections/"+election.ID.String()+"/results", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ElectionResult
	decodeData(t, resp, &result)

	assert.Equal(t, election.ID, result.ID)
	assert.Equal(t, int64(3), result.TotalVotes)
	assert.Equal(t, int64(3), result.VotersParticipated)
	assert.Equal(t, int64(4), result.TotalVoters)
	assert.Equal(t, 75.0, result.VoterTurnoutPercentage)

	require.Len(t, result.Positions, 1)
	position := result.Positions[0]
	assert.Equal(t, int64(3), position.TotalVotes)
	require.Len(t, position.Candidates, 2)

	assert.Equal(t, "Alice", position.Candidates[0].Name)
	assert.Equal(t, int64(2), position.Candidates[0].Votes)
	assert.Equal(t, 66.67, position.Candidates[0].Percentage)

	assert.Equal(t, "Bob", position.Candidates[1].Name)
	assert.Equal(t, int64(1), position.Candidates[1].Votes)
	assert.Equal(t, 33.33, position.Candidates[1].Percentage)
}

func TestResultsTallyIsRepeatable(t *testing.T) {
	app := setupTestApp(t)
	defer app.Teardown(t)

	election, adminToken, _ := seedTalliedElection(t, app)
	path := "/api/elections/" + election.ID.String() + "/results"

	var first, second domain.ElectionResult
	resp := app.doJSON(t, "GET", path, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &first)

	resp = app.doJSON(t, "GET", path, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &second)

	assert.Equal(t, first, second)
}

func TestResultsHiddenFromVotersWhileOpen(t *testing.T) {
	app := setupTestApp(t)
	defer app.Teardown(t)

	election, adminToken, voterToken := seedTalliedElection(t, app)
	path := "/api/elections/" + election.ID.String() + "/results"

	resp := app.doJSON(t, "GET", path, voterToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "PATCH", "/api/elections/"+election.ID.String(), adminToken, map[string]any{"status": "closed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, "GET", path, voterToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestResultsElectionWithoutVotes(t *testing.T) {
	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := createVoterAndToken(t, app.DB, authz.RoleAdmin)
	election := createOpenElection(t, app, adminToken, electionPayload("Board Election", 1, 1, "Alice", "Bob"))

	resp := app.doJSON(t, "GET", "/api/elections/"+election.ID.String()+"/results", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ElectionResult
	decodeData(t, resp, &result)

	assert.Equal(t, int64(0), result.TotalVotes)
	assert.Equal(t, 0.0, result.VoterTurnoutPercentage)
	require.Len(t, result.Positions, 1)
	for _, c := range result.Positions[0].Candidates {
		assert.Equal(t, int64(0), c.Votes)
		assert.Equal(t, 0.0, c.Percentage)
	}
}

func TestResultsCSVExport(t *testing.T) {
	app := setupTestApp(t)
	defer app.Teardown(t)

	election, adminToken, _ := seedTalliedElection(t, app)

	resp := app.doJSON(t, "GET", "/api/elections/"+election.ID.String()+"/results/csv", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "Election ID,Election Title,Position,Rank,Candidate,Photo Path,Votes,Percentage")
	assert.Contains(t, body, "President,1,Alice,,2,66.67")
	assert.Contains(t, body, "President,2,Bob,,1,33.33")
}
