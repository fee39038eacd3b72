// Package lineup implements the lineup assignment store: formation
// selection, slot assignment with eligibility rules, and durable snapshots
// keyed by the team combination being edited.
package lineup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jdvalencia/lineup-showdown/formations"
	"github.com/jdvalencia/lineup-showdown/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTeamNotLoaded         = errors.New("team is not loaded in this session")
	ErrPlayerNotFound        = errors.New("player not found on the team roster")
	ErrUnknownSlot           = errors.New("unknown position slot")
	ErrNoFormationSelected   = errors.New("no formation selected")
	ErrPlayerIneligible      = errors.New("player position does not match the slot type")
	ErrPlayerAlreadyAssigned = errors.New("player is already assigned to another slot")
	ErrCoachSlotOnly         = errors.New("the coach can only occupy the coach slot")
	ErrSlotNotCoach          = errors.New("only the coach slot accepts a coach")
)

// RosterProvider supplies team documents by id.
type RosterProvider interface {
	GetTeam(ctx context.Context, id string) (*models.Team, error)
}

// Notifier is told about every persisted snapshot so interested clients
// (websocket rooms) can re-render.
type Notifier interface {
	SnapshotUpdated(key string, snapshot []byte)
}

// Store holds one team combination's in-progress lineup. All methods are
// safe for concurrent use; mutations persist before returning, so a reader
// immediately after a call observes the new state.
type Store struct {
	rosters   RosterProvider
	snapshots SnapshotStore
	notifier  Notifier
	logger    *slog.Logger

	mu             sync.RWMutex
	key            string
	teamA          *models.Team
	teamB          *models.Team
	comparisonMode bool
	formationKey   string
	assignments    map[string]Occupant
	benchVisible   bool
}

func NewStore(rosters RosterProvider, snapshots SnapshotStore, notifier Notifier, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		rosters:      rosters,
		snapshots:    snapshots,
		notifier:     notifier,
		logger:       logger,
		assignments:  make(map[string]Occupant),
		benchVisible: true,
	}
}

// LoadTeams fetches the team documents (in parallel when comparing),
// switches the store to the combination's snapshot key and hydrates any
// previously persisted session for that key.
func (s *Store) LoadTeams(ctx context.Context, teamAID, teamBID string) error {
	var teamA, teamB *models.Team

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.rosters.GetTeam(gctx, teamAID)
		if err != nil {
			return fmt.Errorf("load team %q: %w", teamAID, err)
		}
		teamA = t
		return nil
	})
	if teamBID != "" {
		g.Go(func() error {
			t, err := s.rosters.GetTeam(gctx, teamBID)
			if err != nil {
				return fmt.Errorf("load team %q: %w", teamBID, err)
			}
			teamB = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teamA = teamA
	s.teamB = teamB
	s.comparisonMode = teamB != nil
	s.key = SnapshotKey(teamAID, teamBID)
	s.formationKey = formations.Default().Key
	s.assignments = make(map[string]Occupant)
	s.benchVisible = true

	s.hydrateLocked(ctx)
	return nil
}

// hydrateLocked restores persisted state for the current key. A snapshot
// referencing a formation that left the catalog falls back to the default
// formation with an empty map; unparseable JSON is discarded from storage
// and the defaults stand. Never returns an error to the caller.
func (s *Store) hydrateLocked(ctx context.Context) {
	raw, ok, err := s.snapshots.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("lineup snapshot read failed", slog.String("key", s.key), slog.Any("error", err))
		return
	}
	if !ok {
		return
	}

	var payload snapshotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.logger.Warn("discarding corrupted lineup snapshot", slog.String("key", s.key), slog.Any("error", err))
		if delErr := s.snapshots.Delete(ctx, s.key); delErr != nil {
			s.logger.Warn("failed to delete corrupted lineup snapshot", slog.String("key", s.key), slog.Any("error", delErr))
		}
		return
	}

	if _, err := formations.Lookup(payload.SelectedFormationKey); err != nil {
		s.formationKey = formations.Default().Key
		s.assignments = make(map[string]Occupant)
		s.benchVisible = payload.IsBenchVisible
		return
	}

	s.formationKey = payload.SelectedFormationKey
	s.benchVisible = payload.IsBenchVisible
	s.assignments = make(map[string]Occupant, len(payload.IdealLineup))
	for slotKey, occ := range payload.IdealLineup {
		if !occ.valid() || !s.slotKeyKnownLocked(slotKey) {
			continue
		}
		// Occupants from teams outside the loaded pair cannot be
		// rendered or counted; drop them.
		if !s.teamLoadedLocked(occ.OwnerTeamID()) {
			continue
		}
		s.assignments[slotKey] = occ
	}
}

func (s *Store) slotKeyKnownLocked(slotKey string) bool {
	if slotKey == CoachSlotKey || IsBenchSlot(slotKey) {
		return true
	}
	f, err := formations.Lookup(s.formationKey)
	if err != nil {
		return false
	}
	return f.Slot(slotKey) != nil
}

func (s *Store) teamLoadedLocked(teamID string) bool {
	if s.teamA != nil && s.teamA.ID == teamID {
		return true
	}
	return s.teamB != nil && s.teamB.ID == teamID
}

func (s *Store) teamByIDLocked(teamID string) *models.Team {
	if s.teamA != nil && s.teamA.ID == teamID {
		return s.teamA
	}
	if s.teamB != nil && s.teamB.ID == teamID {
		return s.teamB
	}
	return nil
}

// persistLocked writes the snapshot for the current key and notifies
// subscribers. Mutation and persistence are sequenced under the lock.
func (s *Store) persistLocked(ctx context.Context) error {
	payload := snapshotPayload{
		SelectedFormationKey: s.formationKey,
		IdealLineup:          s.assignments,
		IsBenchVisible:       s.benchVisible,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode lineup snapshot: %w", err)
	}
	if err := s.snapshots.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist lineup snapshot %q: %w", s.key, err)
	}
	if s.notifier != nil {
		s.notifier.SnapshotUpdated(s.key, raw)
	}
	return nil
}

// SetFormation selects a formation from the catalog. Changing formation
// invalidates every slot assignment, so the map is cleared.
func (s *Store) SetFormation(ctx context.Context, key string) error {
	if _, err := formations.Lookup(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.formationKey = key
	s.assignments = make(map[string]Occupant)
	return s.persistLocked(ctx)
}

// AssignPlayer places a roster player into a slot. The store enforces the
// exclusion rule itself: a player already occupying a different slot is
// rejected, as is a position/type mismatch on formation slots. Bench slots
// accept any position; the coach slot accepts no player at all.
func (s *Store) AssignPlayer(ctx context.Context, slotKey, teamID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.teamByIDLocked(teamID)
	if team == nil {
		return ErrTeamNotLoaded
	}
	player := team.FindPlayer(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}

	switch {
	case slotKey == CoachSlotKey:
		return ErrSlotNotCoach
	case IsBenchSlot(slotKey):
		// Any position may sit on the bench.
	default:
		if s.formationKey == "" {
			return ErrNoFormationSelected
		}
		f, err := formations.Lookup(s.formationKey)
		if err != nil {
			return ErrNoFormationSelected
		}
		slot := f.Slot(slotKey)
		if slot == nil {
			return ErrUnknownSlot
		}
		if player.Position != slot.Type {
			return ErrPlayerIneligible
		}
	}

	occ := PlayerOccupant(*player)
	for key, existing := range s.assignments {
		if key != slotKey && existing.ID() == occ.ID() {
			return ErrPlayerAlreadyAssigned
		}
	}

	s.assignments[slotKey] = occ
	return s.persistLocked(ctx)
}

// AssignCoach places a loaded team's coach into the coach slot.
func (s *Store) AssignCoach(ctx context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.teamByIDLocked(teamID)
	if team == nil {
		return ErrTeamNotLoaded
	}
	s.assignments[CoachSlotKey] = NewCoachOccupant(team.ID, team.Coach)
	return s.persistLocked(ctx)
}

// ClearSlot removes a slot's entry entirely. Clearing an empty slot is a
// no-op that still persists, which keeps the call idempotent.
func (s *Store) ClearSlot(ctx context.Context, slotKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, slotKey)
	return s.persistLocked(ctx)
}

// ResetLineup empties the assignment map and restores the bench default.
func (s *Store) ResetLineup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = make(map[string]Occupant)
	s.benchVisible = true
	return s.persistLocked(ctx)
}

// ToggleBenchVisibility flips the bench flag and returns the new value.
func (s *Store) ToggleBenchVisibility(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benchVisible = !s.benchVisible
	return s.benchVisible, s.persistLocked(ctx)
}

// EligiblePlayers carries per-team candidate lists in roster order.
type EligiblePlayers struct {
	TeamAPlayers []Occupant `json:"teamAPlayers"`
	TeamBPlayers []Occupant `json:"teamBPlayers"`
}

// EligiblePlayersForSlot computes which occupants may legally fill a slot:
//   - coach slot: each team contributes at most its coach, omitted when
//     that coach is already placed elsewhere;
//   - bench slots: any player not already assigned to another slot,
//     irrespective of position;
//   - formation slots: position must equal the slot type and the player
//     must not occupy another slot.
//
// The queried slot's own occupant stays eligible, so re-picking it is
// legal. With no formation selected the formation slots yield empty lists.
func (s *Store) EligiblePlayersForSlot(slotKey string) EligiblePlayers {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]bool, len(s.assignments))
	for key, occ := range s.assignments {
		if key != slotKey {
			excluded[occ.ID()] = true
		}
	}

	var result EligiblePlayers
	result.TeamAPlayers = s.eligibleFromTeamLocked(s.teamA, slotKey, excluded)
	result.TeamBPlayers = s.eligibleFromTeamLocked(s.teamB, slotKey, excluded)
	return result
}

func (s *Store) eligibleFromTeamLocked(team *models.Team, slotKey string, excluded map[string]bool) []Occupant {
	if team == nil {
		return []Occupant{}
	}

	if slotKey == CoachSlotKey {
		if team.Coach.Name == "" {
			return []Occupant{}
		}
		occ := NewCoachOccupant(team.ID, team.Coach)
		if excluded[occ.ID()] {
			return []Occupant{}
		}
		return []Occupant{occ}
	}

	var slotType models.Position
	if !IsBenchSlot(slotKey) {
		f, err := formations.Lookup(s.formationKey)
		if err != nil {
			return []Occupant{}
		}
		slot := f.Slot(slotKey)
		if slot == nil {
			return []Occupant{}
		}
		slotType = slot.Type
	}

	candidates := make([]Occupant, 0, len(team.Players))
	for _, p := range team.Players {
		if excluded[p.ID] {
			continue
		}
		if slotType != "" && p.Position != slotType {
			continue
		}
		candidates = append(candidates, PlayerOccupant(p))
	}
	return candidates
}

// Counts is the comparison summary derived from the assignment map.
type Counts struct {
	TeamACount   int    `json:"teamACount"`
	TeamBCount   int    `json:"teamBCount"`
	TotalCount   int    `json:"totalCount"`
	WinnerTeamID string `json:"winnerTeamId,omitempty"`
}

// PlayerCounts tallies non-empty assignment entries by owning team. The
// winner is the team with more assigned slots; a tie has no winner.
func (s *Store) PlayerCounts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	for _, occ := range s.assignments {
		c.TotalCount++
		switch {
		case s.teamA != nil && occ.OwnerTeamID() == s.teamA.ID:
			c.TeamACount++
		case s.teamB != nil && occ.OwnerTeamID() == s.teamB.ID:
			c.TeamBCount++
		}
	}
	switch {
	case c.TeamACount > c.TeamBCount && s.teamA != nil:
		c.WinnerTeamID = s.teamA.ID
	case c.TeamBCount > c.TeamACount && s.teamB != nil:
		c.WinnerTeamID = s.teamB.ID
	}
	return c
}

// State is a read-only copy of the session for rendering.
type State struct {
	Key                  string              `json:"key"`
	TeamA                *models.Team        `json:"teamA,omitempty"`
	TeamB                *models.Team        `json:"teamB,omitempty"`
	ComparisonMode       bool                `json:"comparisonMode"`
	SelectedFormationKey string              `json:"selectedFormationKey"`
	Assignments          map[string]Occupant `json:"assignments"`
	BenchVisible         bool                `json:"benchVisible"`
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := make(map[string]Occupant, len(s.assignments))
	for k, v := range s.assignments {
		assignments[k] = v
	}
	return State{
		Key:                  s.key,
		TeamA:                s.teamA,
		TeamB:                s.teamB,
		ComparisonMode:       s.comparisonMode,
		SelectedFormationKey: s.formationKey,
		Assignments:          assignments,
		BenchVisible:         s.benchVisible,
	}
}
