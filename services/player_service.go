package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/jdvalencia/lineup-showdown/repositories"
	"github.com/jdvalencia/lineup-showdown/storage"
)

type PlayerInput struct {
	Name         string              `json:"name" validate:"required,min=2,max=60"`
	JerseyNumber int                 `json:"jerseyNumber" validate:"gte=0,lte=99"`
	Position     models.Position     `json:"position" validate:"required"`
	Nationality  string              `json:"nationality" validate:"omitempty,len=2"`
	BirthDate    string              `json:"birthDate" validate:"omitempty,datetime=02/01/2006"`
	Value        int64               `json:"value" validate:"gte=0"`
	RosterStatus models.RosterStatus `json:"rosterStatus"`
	Stats        models.PlayerStats  `json:"stats"`
	Image        *ImageUpload        `json:"image,omitempty"`
	RemoveImage  bool                `json:"removeImage,omitempty"`
}

type MovePlayerInput struct {
	FromTeamID   string `json:"-"`
	PlayerID     string `json:"-"`
	ToTeamID     string `json:"toTeamId" validate:"required"`
	KeepPhoto    bool   `json:"keepPhoto"`
	MarkAsLoaned bool   `json:"markAsLoaned"`
}

// DeletePlayerResult reports a completed deletion. ImageCleanupWarning is
// set when the record was removed but the stored image could not be.
type DeletePlayerResult struct {
	ImageCleanupWarning string `json:"imageCleanupWarning,omitempty"`
}

type PlayerService interface {
	AddPlayer(ctx context.Context, teamID string, input PlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, teamID, playerID string, input PlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, teamID, playerID string) (*DeletePlayerResult, error)
	MovePlayer(ctx context.Context, input MovePlayerInput) (*models.Player, error)
	EndLoan(ctx context.Context, teamID, playerID string) error
	ClearStats(ctx context.Context, teamID string) error
}

type playerService struct {
	teamRepo repositories.TeamRepository
	tx       repositories.TxRunner
	uploader storage.FileUploader
	validate *validator.Validate
	logger   *slog.Logger
}

func NewPlayerService(teamRepo repositories.TeamRepository, tx repositories.TxRunner, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{
		teamRepo: teamRepo,
		tx:       tx,
		uploader: uploader,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (s *playerService) validateInput(input PlayerInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if !input.Position.Valid() {
		return fmt.Errorf("%w: unknown position %q", ErrValidationFailed, input.Position)
	}
	if input.RosterStatus != "" && !input.RosterStatus.Valid() {
		return fmt.Errorf("%w: unknown roster status %q", ErrValidationFailed, input.RosterStatus)
	}
	return nil
}

// AddPlayer appends a new roster entry with the lowest unused team-scoped
// id. A player without an image is flagged needsPhotoUpdate.
func (s *playerService) AddPlayer(ctx context.Context, teamID string, input PlayerInput) (*models.Player, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	player := models.Player{
		ID:           nextPlayerID(teamID, team.Players),
		Name:         input.Name,
		JerseyNumber: input.JerseyNumber,
		Position:     input.Position,
		Nationality:  input.Nationality,
		BirthDate:    input.BirthDate,
		Value:        input.Value,
		TeamID:       teamID,
		RosterStatus: input.RosterStatus,
		Stats:        input.Stats,
	}
	if player.RosterStatus == "" {
		player.RosterStatus = models.RosterStatusInRoster
	}

	if input.Image != nil {
		result, err := s.uploadPlayerImage(ctx, teamID, player.ID, player.Name, *input.Image)
		if err != nil {
			return nil, err
		}
		player.ImageURL = result.Location
		player.ImageFileID = result.Key
	}
	player.NeedsPhotoUpdate = player.ImageURL == ""

	team.Players = append(team.Players, player)
	if err := s.updateTeam(ctx, team); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, teamID, playerID string, input PlayerInput) (*models.Player, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	player := team.FindPlayer(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	player.Name = input.Name
	player.JerseyNumber = input.JerseyNumber
	player.Position = input.Position
	player.Nationality = input.Nationality
	player.BirthDate = input.BirthDate
	player.Value = input.Value
	player.Stats = input.Stats
	if input.RosterStatus != "" {
		player.RosterStatus = input.RosterStatus
	}

	switch {
	case input.Image != nil:
		s.deleteImageBestEffort(ctx, player.ImageFileID)
		result, err := s.uploadPlayerImage(ctx, teamID, player.ID, player.Name, *input.Image)
		if err != nil {
			return nil, err
		}
		player.ImageURL = result.Location
		player.ImageFileID = result.Key
		player.NeedsPhotoUpdate = false
	case input.RemoveImage:
		s.deleteImageBestEffort(ctx, player.ImageFileID)
		player.ImageURL = ""
		player.ImageFileID = ""
		player.NeedsPhotoUpdate = true
	}

	updated := *player
	if err := s.updateTeam(ctx, team); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePlayer removes the roster entry. Image cleanup runs first but its
// failure never blocks the deletion; it is reported back as a warning.
func (s *playerService) DeletePlayer(ctx context.Context, teamID, playerID string) (*DeletePlayerResult, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	player := team.FindPlayer(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	result := &DeletePlayerResult{}
	if player.ImageFileID != "" {
		if err := s.uploader.Delete(ctx, player.ImageFileID); err != nil {
			result.ImageCleanupWarning = fmt.Sprintf("player record deleted, image cleanup failed: %v", err)
			s.logger.Warn("player image cleanup failed",
				slog.String("player_id", playerID),
				slog.Any("error", err))
		}
	}

	kept := team.Players[:0]
	for _, p := range team.Players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	team.Players = kept

	if err := s.updateTeam(ctx, team); err != nil {
		return nil, err
	}
	return result, nil
}

// MovePlayer transfers a player between two team documents inside one
// database transaction, so a failed destination write leaves the source
// roster untouched. The image is either relocated under the new id
// (failure there downgrades to a photo-less move with needsPhotoUpdate) or
// deleted. The source entry is removed, or kept and marked loaned.
func (s *playerService) MovePlayer(ctx context.Context, input MovePlayerInput) (*models.Player, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if input.FromTeamID == input.ToTeamID {
		return nil, ErrSameTeamMove
	}

	var moved models.Player
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		// Lock in a stable order to keep concurrent opposite-direction
		// moves from deadlocking.
		firstID, secondID := input.FromTeamID, input.ToTeamID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.teamRepo.GetByIDForUpdate(ctx, exec, firstID)
		if err != nil {
			return s.mapTeamErr(err)
		}
		second, err := s.teamRepo.GetByIDForUpdate(ctx, exec, secondID)
		if err != nil {
			return s.mapTeamErr(err)
		}

		source, dest := first, second
		if source.ID != input.FromTeamID {
			source, dest = second, first
		}

		player := source.FindPlayer(input.PlayerID)
		if player == nil {
			return ErrPlayerNotFound
		}

		moved = *player
		moved.ID = nextPlayerID(dest.ID, dest.Players)
		moved.TeamID = dest.ID
		moved.RosterStatus = models.RosterStatusInRoster
		s.relocateImage(ctx, &moved, player.ImageFileID, input.KeepPhoto, dest.ID)

		dest.Players = append(dest.Players, moved)

		if input.MarkAsLoaned {
			for i := range source.Players {
				if source.Players[i].ID == input.PlayerID {
					source.Players[i].RosterStatus = models.RosterStatusLoaned
				}
			}
		} else {
			kept := source.Players[:0]
			for _, p := range source.Players {
				if p.ID != input.PlayerID {
					kept = append(kept, p)
				}
			}
			source.Players = kept
		}

		if err := s.teamRepo.Update(ctx, exec, source); err != nil {
			return s.mapTeamErr(err)
		}
		if err := s.teamRepo.Update(ctx, exec, dest); err != nil {
			return s.mapTeamErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// relocateImage rewrites the moved player's image fields. A failed move
// never aborts the transfer: the player arrives without a photo and gets
// flagged for follow-up instead.
func (s *playerService) relocateImage(ctx context.Context, moved *models.Player, sourceFileID string, keepPhoto bool, destTeamID string) {
	if sourceFileID == "" {
		moved.NeedsPhotoUpdate = true
		return
	}

	if !keepPhoto {
		s.deleteImageBestEffort(ctx, sourceFileID)
		moved.ImageURL = ""
		moved.ImageFileID = ""
		moved.NeedsPhotoUpdate = true
		return
	}

	destKey := fmt.Sprintf("%s/%s_%s.png", destTeamID, moved.ID, strings.ReplaceAll(moved.Name, " ", "_"))
	result, err := s.uploader.Move(ctx, sourceFileID, destKey)
	if err != nil {
		s.logger.Warn("player image move failed, transferring without photo",
			slog.String("player_id", moved.ID),
			slog.Any("error", err))
		moved.ImageURL = ""
		moved.ImageFileID = ""
		moved.NeedsPhotoUpdate = true
		return
	}
	moved.ImageURL = result.Location
	moved.ImageFileID = result.Key
	moved.NeedsPhotoUpdate = false
}

// EndLoan returns a loaned-out player to the active squad.
func (s *playerService) EndLoan(ctx context.Context, teamID, playerID string) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	player := team.FindPlayer(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}
	if player.RosterStatus != models.RosterStatusLoaned {
		return ErrPlayerNotLoaned
	}
	player.RosterStatus = models.RosterStatusInRoster
	return s.updateTeam(ctx, team)
}

// ClearStats zeroes every player's stats block on one team.
func (s *playerService) ClearStats(ctx context.Context, teamID string) error {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return err
	}
	for i := range team.Players {
		team.Players[i].Stats = models.PlayerStats{}
	}
	return s.updateTeam(ctx, team)
}

func (s *playerService) getTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		return nil, s.mapTeamErr(err)
	}
	return team, nil
}

func (s *playerService) updateTeam(ctx context.Context, team *models.Team) error {
	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		return s.mapTeamErr(err)
	}
	return nil
}

func (s *playerService) mapTeamErr(err error) error {
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrTeamNotFound
	}
	return err
}

func (s *playerService) uploadPlayerImage(ctx context.Context, teamID, playerID, playerName string, upload ImageUpload) (*storage.UploadResult, error) {
	raw, contentType, err := upload.decode()
	if err != nil {
		return nil, err
	}
	filename := fmt.Sprintf("%s_%s.png", playerID, strings.ReplaceAll(playerName, " ", "_"))
	key := storage.ObjectKey(teamID, filename)
	return s.uploader.Upload(ctx, key, contentType, bytes.NewReader(raw))
}

func (s *playerService) deleteImageBestEffort(ctx context.Context, fileID string) {
	if fileID == "" {
		return
	}
	if err := s.uploader.Delete(ctx, fileID); err != nil {
		s.logger.Warn("image cleanup failed", slog.String("file_id", fileID), slog.Any("error", err))
	}
}

// nextPlayerID returns the destination team's lowest unused sequential id:
// the team prefix (team id minus a leading "team") followed by a
// zero-padded ordinal.
func nextPlayerID(teamID string, players []models.Player) string {
	prefix := strings.TrimPrefix(teamID, "team")
	used := make(map[int]bool, len(players))
	for _, p := range players {
		if !strings.HasPrefix(p.ID, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(p.ID, prefix)); err == nil {
			used[n] = true
		}
	}

	next := 1
	for used[next] {
		next++
	}
	return fmt.Sprintf("%s%02d", prefix, next)
}
