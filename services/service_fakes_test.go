package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/jdvalencia/lineup-showdown/repositories"
	"github.com/jdvalencia/lineup-showdown/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTeamRepo keeps team documents in memory. Every read hands out a deep
// copy, mirroring how the real repository decodes a fresh struct per row.
type fakeTeamRepo struct {
	teams map[string]*models.Team

	failUpdate map[string]error
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{
		teams:      make(map[string]*models.Team),
		failUpdate: make(map[string]error),
	}
	for _, team := range teams {
		repo.teams[team.ID] = copyTeam(team)
	}
	return repo
}

func copyTeam(team *models.Team) *models.Team {
	raw, err := json.Marshal(team)
	if err != nil {
		panic(err)
	}
	var copied models.Team
	if err := json.Unmarshal(raw, &copied); err != nil {
		panic(err)
	}
	return &copied
}

func (r *fakeTeamRepo) List(context.Context) ([]models.Team, error) {
	out := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		out = append(out, *copyTeam(team))
	}
	return out, nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return copyTeam(team), nil
}

func (r *fakeTeamRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Team, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; ok {
		return repositories.ErrTeamConflict
	}
	r.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	if err, ok := r.failUpdate[team.ID]; ok {
		return err
	}
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	r.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *fakeTeamRepo) Upsert(_ context.Context, team *models.Team) error {
	r.teams[team.ID] = copyTeam(team)
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

// fakeTxRunner snapshots the fake repo before the closure and restores it
// when the closure fails, matching real rollback semantics.
type fakeTxRunner struct {
	repo *fakeTeamRepo
}

func (t *fakeTxRunner) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	backup := make(map[string]*models.Team, len(t.repo.teams))
	for id, team := range t.repo.teams {
		backup[id] = copyTeam(team)
	}
	if err := fn(nil); err != nil {
		t.repo.teams = backup
		return err
	}
	return nil
}

// fakeUploader records storage operations and can be told to fail.
type fakeUploader struct {
	uploads []string
	deletes []string
	moves   [][2]string

	failDelete error
	failMove   error
	failUpload error
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	if u.failUpload != nil {
		return nil, u.failUpload
	}
	u.uploads = append(u.uploads, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	if u.failDelete != nil {
		return u.failDelete
	}
	u.deletes = append(u.deletes, key)
	return nil
}

func (u *fakeUploader) Move(_ context.Context, sourceKey, destinationKey string) (*storage.UploadResult, error) {
	if u.failMove != nil {
		return nil, u.failMove
	}
	u.moves = append(u.moves, [2]string{sourceKey, destinationKey})
	return &storage.UploadResult{Key: destinationKey, Location: "https://cdn.example.com/" + destinationKey}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// fakeUserRepo backs the auth service tests.
type fakeUserRepo struct {
	users  []*models.User
	nextID int
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Count(context.Context) (int, error) {
	return len(r.users), nil
}

var errStorageDown = errors.New("storage unavailable")

func rosterTeam(id string, playerIDs ...string) *models.Team {
	team := &models.Team{
		ID:      id,
		Name:    "Team " + id,
		Coach:   models.Coach{Name: "Coach " + id},
		Players: []models.Player{},
	}
	for _, pid := range playerIDs {
		team.Players = append(team.Players, models.Player{
			ID:           pid,
			Name:         fmt.Sprintf("Player %s", pid),
			Position:     models.PositionMidfielder,
			TeamID:       id,
			RosterStatus: models.RosterStatusInRoster,
		})
	}
	return team
}
