package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jdvalencia/lineup-showdown/lineup"
	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRosters struct {
	teams map[string]*models.Team
}

func (s *stubRosters) GetTeam(_ context.Context, id string) (*models.Team, error) {
	team, ok := s.teams[id]
	if !ok {
		return nil, lineup.ErrTeamNotLoaded
	}
	copied := *team
	return &copied, nil
}

type stubSnapshots struct {
	data map[string][]byte
}

func (s *stubSnapshots) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok := s.data[key]
	return raw, ok, nil
}

func (s *stubSnapshots) Put(_ context.Context, key string, value []byte) error {
	s.data[key] = value
	return nil
}

func (s *stubSnapshots) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func newLineupRouter(t *testing.T) *chi.Mux {
	t.Helper()

	rosters := &stubRosters{teams: map[string]*models.Team{
		"teamA": {
			ID:   "teamA",
			Name: "Alpha",
			Players: []models.Player{
				{ID: "A01", Name: "Portero", Position: models.PositionGoalkeeper, TeamID: "teamA"},
				{ID: "A02", Name: "Delantero", Position: models.PositionForward, TeamID: "teamA"},
			},
		},
	}}
	sessions := lineup.NewManager(rosters, &stubSnapshots{data: make(map[string][]byte)}, nil, nil)
	handler := NewLineupHandler(sessions)

	router := chi.NewRouter()
	router.Get("/lineup", handler.State)
	router.Get("/lineup/eligible", handler.EligiblePlayers)
	router.Get("/lineup/counts", handler.Counts)
	router.Put("/lineup/formation", handler.SetFormation)
	router.Post("/lineup/assign", handler.Assign)
	router.Post("/lineup/clear", handler.ClearSlot)
	router.Post("/lineup/reset", handler.Reset)
	router.Post("/lineup/bench/toggle", handler.ToggleBench)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLineupStateRequiresTeamA(t *testing.T) {
	router := newLineupRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/lineup", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLineupStateUnknownTeam(t *testing.T) {
	router := newLineupRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/lineup?teamA=teamZ", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLineupAssignFlow(t *testing.T) {
	router := newLineupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/lineup/assign?teamA=teamA",
		`{"slotKey":"GK","teamId":"teamA","playerId":"A01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response struct {
		Lineup lineup.State `json:"lineup"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Contains(t, response.Lineup.Assignments, "GK")
	assert.Equal(t, "A01", response.Lineup.Assignments["GK"].ID())

	// Position mismatch is a 422, not a 500.
	rec = doRequest(t, router, http.MethodPost, "/lineup/assign?teamA=teamA",
		`{"slotKey":"GK","teamId":"teamA","playerId":"A02"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Double assignment of the goalkeeper is rejected.
	rec = doRequest(t, router, http.MethodPost, "/lineup/assign?teamA=teamA",
		`{"slotKey":"SUB_1","teamId":"teamA","playerId":"A01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLineupSetFormation(t *testing.T) {
	router := newLineupRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/lineup/formation?teamA=teamA", `{"key":"4-3-3"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/lineup/formation?teamA=teamA", `{"key":"9-9-9"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLineupClearAndReset(t *testing.T) {
	router := newLineupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/lineup/assign?teamA=teamA",
		`{"slotKey":"GK","teamId":"teamA","playerId":"A01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/lineup/clear?teamA=teamA", `{"slotKey":"GK"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Lineup lineup.State `json:"lineup"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Empty(t, response.Lineup.Assignments)

	rec = doRequest(t, router, http.MethodPost, "/lineup/reset?teamA=teamA", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLineupBenchToggle(t *testing.T) {
	router := newLineupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/lineup/bench/toggle?teamA=teamA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		BenchVisible bool `json:"benchVisible"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.BenchVisible)
}

func TestLineupEligible(t *testing.T) {
	router := newLineupRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/lineup/eligible?teamA=teamA&slot=GK", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Eligible lineup.EligiblePlayers `json:"eligible"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Eligible.TeamAPlayers, 1)
	assert.Equal(t, "A01", response.Eligible.TeamAPlayers[0].ID())

	rec = doRequest(t, router, http.MethodGet, "/lineup/eligible?teamA=teamA", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLineupCounts(t *testing.T) {
	router := newLineupRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/lineup/assign?teamA=teamA",
		`{"slotKey":"GK","teamId":"teamA","playerId":"A01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/lineup/counts?teamA=teamA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Counts lineup.Counts `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Counts.TeamACount)
	assert.Equal(t, "teamA", response.Counts.WinnerTeamID)
}
