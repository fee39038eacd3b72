package lineup

import (
	"context"
	"log/slog"
	"sync"
)

// Manager hands out one store per team combination, so every client of the
// same pair shares a single in-memory session. Sessions are created on
// first load and kept for the life of the process; their durable state
// lives in the snapshot store.
type Manager struct {
	rosters   RosterProvider
	snapshots SnapshotStore
	notifier  Notifier
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Store
}

func NewManager(rosters RosterProvider, snapshots SnapshotStore, notifier Notifier, logger *slog.Logger) *Manager {
	return &Manager{
		rosters:   rosters,
		snapshots: snapshots,
		notifier:  notifier,
		logger:    logger,
		sessions:  make(map[string]*Store),
	}
}

// Session returns the store for a team combination, creating and loading
// it on first use. The key derivation makes (B, A) resolve to the (A, B)
// session.
func (m *Manager) Session(ctx context.Context, teamAID, teamBID string) (*Store, error) {
	key := SnapshotKey(teamAID, teamBID)

	m.mu.Lock()
	store, ok := m.sessions[key]
	m.mu.Unlock()
	if ok {
		return store, nil
	}

	store = NewStore(m.rosters, m.snapshots, m.notifier, m.logger)
	if err := store.LoadTeams(ctx, teamAID, teamBID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have loaded the same pair concurrently; the
	// first cached session wins so everyone shares it.
	if existing, ok := m.sessions[key]; ok {
		return existing, nil
	}
	m.sessions[key] = store
	return store, nil
}

// InvalidateAll drops every cached session. Used after a backup import,
// which may rewrite any number of team documents.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Store)
}

// Invalidate drops a cached session, forcing the next request to reload
// team documents. Called after admin writes to either team.
func (m *Manager) Invalidate(teamID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, store := range m.sessions {
		state := store.State()
		if (state.TeamA != nil && state.TeamA.ID == teamID) ||
			(state.TeamB != nil && state.TeamB.ID == teamID) {
			delete(m.sessions, key)
		}
	}
}
