package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses in the handlers.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamConflict     = errors.New("team id is already in use")
	ErrTeamNameRequired = errors.New("team name is required")

	ErrPlayerNotFound  = errors.New("player not found")
	ErrSameTeamMove    = errors.New("source and destination team are the same")
	ErrPlayerNotLoaned = errors.New("player is not on loan")

	ErrInvalidImagePayload = errors.New("image payload is not valid base64")
	ErrBackupInvalid       = errors.New("backup payload has an invalid shape")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
)
