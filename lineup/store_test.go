package lineup

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jdvalencia/lineup-showdown/formations"
	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRosters struct {
	teams map[string]*models.Team
}

func (f *fakeRosters) GetTeam(_ context.Context, id string) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, ErrTeamNotLoaded
	}
	copied := *team
	return &copied, nil
}

type memorySnapshots struct {
	data map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string][]byte)}
}

func (m *memorySnapshots) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok := m.data[key]
	return raw, ok, nil
}

func (m *memorySnapshots) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memorySnapshots) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type recordingNotifier struct {
	keys []string
}

func (n *recordingNotifier) SnapshotUpdated(key string, _ []byte) {
	n.keys = append(n.keys, key)
}

func player(id, teamID string, position models.Position) models.Player {
	return models.Player{
		ID:           id,
		Name:         "Player " + id,
		Position:     position,
		TeamID:       teamID,
		RosterStatus: models.RosterStatusInRoster,
	}
}

func testTeams() *fakeRosters {
	return &fakeRosters{teams: map[string]*models.Team{
		"teamA": {
			ID:    "teamA",
			Name:  "Alpha",
			Coach: models.Coach{Name: "Coach Alpha"},
			Players: []models.Player{
				player("A01", "teamA", models.PositionGoalkeeper),
				player("A02", "teamA", models.PositionDefender),
				player("A03", "teamA", models.PositionMidfielder),
				player("A04", "teamA", models.PositionForward),
			},
		},
		"teamB": {
			ID:    "teamB",
			Name:  "Beta",
			Coach: models.Coach{Name: "Coach Beta"},
			Players: []models.Player{
				player("B01", "teamB", models.PositionGoalkeeper),
				player("B02", "teamB", models.PositionForward),
			},
		},
	}}
}

func newLoadedStore(t *testing.T, snapshots SnapshotStore, teamBID string) *Store {
	t.Helper()
	if snapshots == nil {
		snapshots = newMemorySnapshots()
	}
	store := NewStore(testTeams(), snapshots, nil, nil)
	require.NoError(t, store.LoadTeams(context.Background(), "teamA", teamBID))
	return store
}

func TestLoadTeamsDefaults(t *testing.T) {
	store := newLoadedStore(t, nil, "")

	state := store.State()
	assert.Equal(t, "lineupShowdown_build_teamA", state.Key)
	assert.False(t, state.ComparisonMode)
	assert.Equal(t, formations.Default().Key, state.SelectedFormationKey)
	assert.Empty(t, state.Assignments)
	assert.True(t, state.BenchVisible)
}

func TestLoadTeamsComparisonMode(t *testing.T) {
	store := newLoadedStore(t, nil, "teamB")

	state := store.State()
	assert.True(t, state.ComparisonMode)
	require.NotNil(t, state.TeamB)
	assert.Equal(t, "teamB", state.TeamB.ID)
}

func TestAssignPlayerPositionRules(t *testing.T) {
	tests := []struct {
		name     string
		slotKey  string
		playerID string
		wantErr  error
	}{
		{"goalkeeper into GK slot", "GK", "A01", nil},
		{"defender into GK slot", "GK", "A02", ErrPlayerIneligible},
		{"forward into striker slot", "LS", "A04", nil},
		{"midfielder into striker slot", "LS", "A03", ErrPlayerIneligible},
		{"any position onto the bench", "SUB_1", "A01", nil},
		{"unknown slot", "XYZ", "A01", ErrUnknownSlot},
		{"player into coach slot", "COACH_SLOT", "A01", ErrSlotNotCoach},
		{"unknown player", "GK", "ZZ99", ErrPlayerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newLoadedStore(t, nil, "")
			err := store.AssignPlayer(context.Background(), tt.slotKey, "teamA", tt.playerID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			occ, ok := store.State().Assignments[tt.slotKey]
			require.True(t, ok)
			assert.Equal(t, tt.playerID, occ.ID())
		})
	}
}

func TestAssignPlayerUnloadedTeam(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	err := store.AssignPlayer(context.Background(), "GK", "teamB", "B01")
	assert.ErrorIs(t, err, ErrTeamNotLoaded)
}

func TestAssignPlayerRejectsDoubleAssignment(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))

	err := store.AssignPlayer(ctx, "SUB_1", "teamA", "A01")
	assert.ErrorIs(t, err, ErrPlayerAlreadyAssigned)

	// Re-assigning the same player to the slot they already occupy is legal.
	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
}

func TestAssignCoach(t *testing.T) {
	store := newLoadedStore(t, nil, "teamB")
	ctx := context.Background()

	require.NoError(t, store.AssignCoach(ctx, "teamA"))
	occ := store.State().Assignments[CoachSlotKey]
	assert.Equal(t, OccupantCoach, occ.Kind)
	assert.Equal(t, "coach_teamA", occ.ID())
	assert.Equal(t, "teamA", occ.OwnerTeamID())

	// The slot holds one coach; assigning the other replaces it.
	require.NoError(t, store.AssignCoach(ctx, "teamB"))
	occ = store.State().Assignments[CoachSlotKey]
	assert.Equal(t, "coach_teamB", occ.ID())
}

func TestSetFormationClearsAssignments(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
	require.NoError(t, store.SetFormation(ctx, "4-3-3"))

	state := store.State()
	assert.Equal(t, "4-3-3", state.SelectedFormationKey)
	assert.Empty(t, state.Assignments)
}

func TestSetFormationUnknownKey(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	err := store.SetFormation(context.Background(), "9-9-9")
	assert.ErrorIs(t, err, formations.ErrFormationNotFound)

	// The selection is untouched after a failed switch.
	assert.Equal(t, formations.Default().Key, store.State().SelectedFormationKey)
}

func TestClearSlotIdempotent(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
	require.NoError(t, store.ClearSlot(ctx, "GK"))
	assert.Empty(t, store.State().Assignments)

	require.NoError(t, store.ClearSlot(ctx, "GK"))
}

func TestResetLineup(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
	_, err := store.ToggleBenchVisibility(ctx)
	require.NoError(t, err)

	require.NoError(t, store.ResetLineup(ctx))
	state := store.State()
	assert.Empty(t, state.Assignments)
	assert.True(t, state.BenchVisible)
	assert.Equal(t, "4-4-2", state.SelectedFormationKey)
}

func TestToggleBenchVisibility(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	ctx := context.Background()

	visible, err := store.ToggleBenchVisibility(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	visible, err = store.ToggleBenchVisibility(ctx)
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestEligiblePlayersForFormationSlot(t *testing.T) {
	store := newLoadedStore(t, nil, "teamB")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "SUB_1", "teamA", "A04"))

	eligible := store.EligiblePlayersForSlot("GK")
	require.Len(t, eligible.TeamAPlayers, 1)
	assert.Equal(t, "A01", eligible.TeamAPlayers[0].ID())
	require.Len(t, eligible.TeamBPlayers, 1)
	assert.Equal(t, "B01", eligible.TeamBPlayers[0].ID())

	// The benched forward is excluded everywhere else.
	eligible = store.EligiblePlayersForSlot("LS")
	assert.Empty(t, eligible.TeamAPlayers)
	require.Len(t, eligible.TeamBPlayers, 1)
	assert.Equal(t, "B02", eligible.TeamBPlayers[0].ID())
}

func TestEligiblePlayersBenchIgnoresPosition(t *testing.T) {
	store := newLoadedStore(t, nil, "")

	eligible := store.EligiblePlayersForSlot("SUB_3")
	assert.Len(t, eligible.TeamAPlayers, 4)
	assert.Empty(t, eligible.TeamBPlayers)
}

func TestEligiblePlayersCoachSlot(t *testing.T) {
	store := newLoadedStore(t, nil, "teamB")
	ctx := context.Background()

	eligible := store.EligiblePlayersForSlot(CoachSlotKey)
	require.Len(t, eligible.TeamAPlayers, 1)
	assert.Equal(t, OccupantCoach, eligible.TeamAPlayers[0].Kind)
	require.Len(t, eligible.TeamBPlayers, 1)

	require.NoError(t, store.AssignCoach(ctx, "teamA"))

	// The assigned coach stays eligible for the slot it occupies.
	eligible = store.EligiblePlayersForSlot(CoachSlotKey)
	assert.Len(t, eligible.TeamAPlayers, 1)
	assert.Len(t, eligible.TeamBPlayers, 1)
}

func TestEligiblePlayersOwnSlotOccupantStaysEligible(t *testing.T) {
	store := newLoadedStore(t, nil, "")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
	eligible := store.EligiblePlayersForSlot("GK")
	require.Len(t, eligible.TeamAPlayers, 1)
	assert.Equal(t, "A01", eligible.TeamAPlayers[0].ID())
}

func TestPlayerCounts(t *testing.T) {
	store := newLoadedStore(t, nil, "teamB")
	ctx := context.Background()

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
	require.NoError(t, store.AssignPlayer(ctx, "SUB_1", "teamA", "A04"))
	require.NoError(t, store.AssignPlayer(ctx, "LS", "teamB", "B02"))
	require.NoError(t, store.AssignCoach(ctx, "teamB"))

	counts := store.PlayerCounts()
	assert.Equal(t, 2, counts.TeamACount)
	assert.Equal(t, 2, counts.TeamBCount)
	assert.Equal(t, 4, counts.TotalCount)
	assert.Empty(t, counts.WinnerTeamID)

	require.NoError(t, store.AssignPlayer(ctx, "RS", "teamA", "A04"))
	counts = store.PlayerCounts()
	assert.Equal(t, "teamA", counts.WinnerTeamID)
}

func TestPersistAndHydrateRoundTrip(t *testing.T) {
	snapshots := newMemorySnapshots()
	ctx := context.Background()

	first := newLoadedStore(t, snapshots, "teamB")
	require.NoError(t, first.SetFormation(ctx, "4-3-3"))
	require.NoError(t, first.AssignPlayer(ctx, "GK", "teamA", "A01"))
	require.NoError(t, first.AssignPlayer(ctx, "ST", "teamB", "B02"))
	require.NoError(t, first.AssignCoach(ctx, "teamA"))
	_, err := first.ToggleBenchVisibility(ctx)
	require.NoError(t, err)

	// A fresh store loading the reversed pair resumes the same session.
	second := NewStore(testTeams(), snapshots, nil, nil)
	require.NoError(t, second.LoadTeams(ctx, "teamB", "teamA"))

	state := second.State()
	assert.Equal(t, "4-3-3", state.SelectedFormationKey)
	assert.False(t, state.BenchVisible)
	require.Len(t, state.Assignments, 3)
	assert.Equal(t, "A01", state.Assignments["GK"].ID())
	assert.Equal(t, "B02", state.Assignments["ST"].ID())
	assert.Equal(t, "coach_teamA", state.Assignments[CoachSlotKey].ID())
}

func TestHydrateUnknownFormationFallsBack(t *testing.T) {
	snapshots := newMemorySnapshots()
	key := SnapshotKey("teamA", "")
	raw, err := json.Marshal(snapshotPayload{
		SelectedFormationKey: "2-2-2",
		IdealLineup: map[string]Occupant{
			"GK": PlayerOccupant(player("A01", "teamA", models.PositionGoalkeeper)),
		},
		IsBenchVisible: false,
	})
	require.NoError(t, err)
	snapshots.data[key] = raw

	store := newLoadedStore(t, snapshots, "")
	state := store.State()
	assert.Equal(t, formations.Default().Key, state.SelectedFormationKey)
	assert.Empty(t, state.Assignments)
	assert.False(t, state.BenchVisible)
}

func TestHydrateCorruptSnapshotDiscarded(t *testing.T) {
	snapshots := newMemorySnapshots()
	key := SnapshotKey("teamA", "")
	snapshots.data[key] = []byte("{not json")

	store := newLoadedStore(t, snapshots, "")
	state := store.State()
	assert.Equal(t, formations.Default().Key, state.SelectedFormationKey)
	assert.Empty(t, state.Assignments)
	assert.True(t, state.BenchVisible)

	_, ok := snapshots.data[key]
	assert.False(t, ok, "corrupted snapshot should be deleted from storage")
}

func TestHydrateDropsOccupantsFromUnloadedTeams(t *testing.T) {
	snapshots := newMemorySnapshots()
	key := SnapshotKey("teamA", "")
	raw, err := json.Marshal(snapshotPayload{
		SelectedFormationKey: "4-4-2",
		IdealLineup: map[string]Occupant{
			"GK":    PlayerOccupant(player("A01", "teamA", models.PositionGoalkeeper)),
			"LS":    PlayerOccupant(player("B02", "teamB", models.PositionForward)),
			"SUB_1": PlayerOccupant(player("C01", "teamC", models.PositionDefender)),
		},
		IsBenchVisible: true,
	})
	require.NoError(t, err)
	snapshots.data[key] = raw

	store := newLoadedStore(t, snapshots, "")
	state := store.State()
	require.Len(t, state.Assignments, 1)
	assert.Equal(t, "A01", state.Assignments["GK"].ID())
}

func TestMutationsNotifySubscribers(t *testing.T) {
	notifier := &recordingNotifier{}
	store := NewStore(testTeams(), newMemorySnapshots(), notifier, nil)
	ctx := context.Background()
	require.NoError(t, store.LoadTeams(ctx, "teamA", "teamB"))

	require.NoError(t, store.AssignPlayer(ctx, "GK", "teamA", "A01"))
	require.NoError(t, store.ClearSlot(ctx, "GK"))

	wantKey := SnapshotKey("teamA", "teamB")
	require.Len(t, notifier.keys, 2)
	for _, key := range notifier.keys {
		assert.Equal(t, wantKey, key)
	}
}

func TestFullLineupScenario(t *testing.T) {
	ctx := context.Background()
	rosters := testTeams()
	full := rosters.teams["teamA"]

	// Extend the roster so every 4-4-2 slot can be filled.
	extra := []models.Player{
		player("A05", "teamA", models.PositionDefender),
		player("A06", "teamA", models.PositionDefender),
		player("A07", "teamA", models.PositionDefender),
		player("A08", "teamA", models.PositionMidfielder),
		player("A09", "teamA", models.PositionMidfielder),
		player("A10", "teamA", models.PositionMidfielder),
		player("A11", "teamA", models.PositionForward),
	}
	full.Players = append(full.Players, extra...)
	store := NewStore(rosters, newMemorySnapshots(), nil, nil)
	require.NoError(t, store.LoadTeams(ctx, "teamA", ""))

	assignments := map[string]string{
		"GK": "A01",
		"LB": "A02", "LCB": "A05", "RCB": "A06", "RB": "A07",
		"LM": "A03", "LCM": "A08", "RCM": "A09", "RM": "A10",
		"LS": "A04", "RS": "A11",
	}
	for slotKey, playerID := range assignments {
		require.NoError(t, store.AssignPlayer(ctx, slotKey, "teamA", playerID), "slot %s", slotKey)
	}

	counts := store.PlayerCounts()
	assert.Equal(t, 11, counts.TeamACount)
	assert.Equal(t, 11, counts.TotalCount)
}
