package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/jdvalencia/lineup-showdown/models"
	"github.com/jdvalencia/lineup-showdown/repositories"
	"github.com/jdvalencia/lineup-showdown/storage"
)

// placeholderCoachName seeds new teams until an admin fills the real one in.
const placeholderCoachName = "Por definir"

type CreateTeamInput struct {
	ID             string        `json:"id" validate:"omitempty,min=2,max=40"`
	Name           string        `json:"name" validate:"required,min=2,max=60"`
	PrimaryColor   string        `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string        `json:"secondaryColor" validate:"omitempty,hexcolor"`
	Logo           *ImageUpload  `json:"logo,omitempty"`
}

type UpdateTeamInput struct {
	Name           string       `json:"name" validate:"required,min=2,max=60"`
	PrimaryColor   string       `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string       `json:"secondaryColor" validate:"omitempty,hexcolor"`
	Logo           *ImageUpload `json:"logo,omitempty"`
}

type CoachInput struct {
	Name        string       `json:"name" validate:"required,min=2,max=60"`
	Nationality string       `json:"nationality" validate:"omitempty,len=2"`
	Image       *ImageUpload `json:"image,omitempty"`
	RemoveImage bool         `json:"removeImage,omitempty"`
}

type TeamService interface {
	ListTeams(ctx context.Context) ([]models.TeamInfo, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	UpdateCoach(ctx context.Context, teamID string, input CoachInput) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	validate *validator.Validate
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.TeamInfo, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]models.TeamInfo, 0, len(teams))
	for i := range teams {
		infos = append(infos, teams[i].Info())
	}
	return infos, nil
}

func (s *teamService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	return team, err
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	id := input.ID
	if id == "" {
		id = slugify(input.Name)
	}
	if id == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		ID:             id,
		Name:           input.Name,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		Coach:          models.Coach{Name: placeholderCoachName},
		Players:        []models.Player{},
	}

	if input.Logo != nil {
		result, err := s.uploadImage(ctx, team.ID, *input.Logo)
		if err != nil {
			return nil, err
		}
		team.LogoURL = result.Location
		team.LogoFileID = result.Key
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamConflict) {
			// The document was never written; clean the orphaned logo up.
			s.deleteImageBestEffort(ctx, team.LogoFileID, "team logo")
			return nil, ErrTeamConflict
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	team.Name = input.Name
	team.PrimaryColor = input.PrimaryColor
	team.SecondaryColor = input.SecondaryColor

	if input.Logo != nil {
		s.deleteImageBestEffort(ctx, team.LogoFileID, "team logo")
		result, err := s.uploadImage(ctx, team.ID, *input.Logo)
		if err != nil {
			return nil, err
		}
		team.LogoURL = result.Location
		team.LogoFileID = result.Key
	}

	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes the document and then cleans every stored image up.
// Image cleanup failures are logged, never fatal: the document is already
// gone and a retry would not bring it back.
func (s *teamService) DeleteTeam(ctx context.Context, id string) error {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	s.deleteImageBestEffort(ctx, team.LogoFileID, "team logo")
	s.deleteImageBestEffort(ctx, team.Coach.ImageFileID, "coach image")
	for _, p := range team.Players {
		s.deleteImageBestEffort(ctx, p.ImageFileID, "player image")
	}
	return nil
}

func (s *teamService) UpdateCoach(ctx context.Context, teamID string, input CoachInput) (*models.Team, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	team.Coach.Name = input.Name
	team.Coach.Nationality = input.Nationality

	switch {
	case input.Image != nil:
		s.deleteImageBestEffort(ctx, team.Coach.ImageFileID, "coach image")
		result, err := s.uploadImage(ctx, team.ID, *input.Image)
		if err != nil {
			return nil, err
		}
		team.Coach.ImageURL = result.Location
		team.Coach.ImageFileID = result.Key
	case input.RemoveImage:
		s.deleteImageBestEffort(ctx, team.Coach.ImageFileID, "coach image")
		team.Coach.ImageURL = ""
		team.Coach.ImageFileID = ""
	}

	if err := s.teamRepo.Update(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) uploadImage(ctx context.Context, teamID string, upload ImageUpload) (*storage.UploadResult, error) {
	raw, contentType, err := upload.decode()
	if err != nil {
		return nil, err
	}
	key := storage.ObjectKey(teamID, upload.Filename)
	return s.uploader.Upload(ctx, key, contentType, bytes.NewReader(raw))
}

func (s *teamService) deleteImageBestEffort(ctx context.Context, fileID, kind string) {
	if fileID == "" {
		return
	}
	if err := s.uploader.Delete(ctx, fileID); err != nil {
		s.logger.Warn("image cleanup failed",
			slog.String("kind", kind),
			slog.String("file_id", fileID),
			slog.Any("error", err))
	}
}

// slugify turns a display name into a document id: lowercase, spaces and
// punctuation collapsed away.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
