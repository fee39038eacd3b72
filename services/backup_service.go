package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/jdvalencia/lineup-showdown/repositories"
)

type BackupService interface {
	Export(ctx context.Context) (*models.Backup, error)
	ExportTeam(ctx context.Context, teamID string) (*models.Backup, error)
	Import(ctx context.Context, backup models.Backup) (int, error)
}

type backupService struct {
	teamRepo repositories.TeamRepository
}

func NewBackupService(teamRepo repositories.TeamRepository) BackupService {
	return &backupService{teamRepo: teamRepo}
}

// Export produces a full backup of every team document.
func (s *backupService) Export(ctx context.Context) (*models.Backup, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Backup{
		Version:   models.BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Data:      models.BackupData{Teams: teams},
	}, nil
}

// ExportTeam produces the single-team variant ({data: {team}}).
func (s *backupService) ExportTeam(ctx context.Context, teamID string) (*models.Backup, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &models.Backup{
		Version:   models.BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Data:      models.BackupData{Team: team},
	}, nil
}

// Import validates the payload shape and overwrites matching documents by
// id. Returns how many teams were written. Either data.teams or data.team
// must be present; every document needs an id and a name.
func (s *backupService) Import(ctx context.Context, backup models.Backup) (int, error) {
	teams := backup.Data.Teams
	if backup.Data.Team != nil {
		teams = append(teams, *backup.Data.Team)
	}
	if len(teams) == 0 {
		return 0, fmt.Errorf("%w: no teams in payload", ErrBackupInvalid)
	}

	for i := range teams {
		if teams[i].ID == "" || teams[i].Name == "" {
			return 0, fmt.Errorf("%w: team at index %d is missing id or name", ErrBackupInvalid, i)
		}
		normalizeTeam(&teams[i])
	}

	for i := range teams {
		if err := s.teamRepo.Upsert(ctx, &teams[i]); err != nil {
			return i, err
		}
	}
	return len(teams), nil
}

// normalizeTeam fills defaults older exports may lack: player team ids,
// roster status, and a non-nil roster.
func normalizeTeam(team *models.Team) {
	if team.Players == nil {
		team.Players = []models.Player{}
	}
	for i := range team.Players {
		p := &team.Players[i]
		if p.TeamID == "" {
			p.TeamID = team.ID
		}
		if p.RosterStatus == "" {
			p.RosterStatus = models.RosterStatusInRoster
		}
	}
}
