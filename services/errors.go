package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed   = errors.New("validation failed")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrMatchNameRequired  = errors.New("match name is required")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrActionKeyRequired  = errors.New("action key is required")
	ErrDelayNotNegative   = errors.New("delay offset must not be negative")
	ErrPlayerNotInRoster  = errors.New("player is not part of the match roster")
	ErrUnknownLineupList  = errors.New("unknown lineup list")
	ErrEventAlreadyHidden = errors.New("event is already hidden")
	ErrPasswordTooShort   = errors.New("password is too short")

	// Ошибки конфликтов
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrActionKeyConflict = errors.New("action key is already defined for this team")
	ErrUsernameConflict  = errors.New("username is already taken")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
	ErrAuthInvalidToken       = errors.New("invalid or expired token")

	// Ошибки, специфичные для сущностей
	ErrClubNotFound      = errors.New("club not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrActionNotFound    = errors.New("action not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrMatchInfoNotFound = errors.New("match info not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrMatchHasNoVideo   = errors.New("match has no video attached")
)
