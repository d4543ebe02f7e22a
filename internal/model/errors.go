package model

import "errors"

// Common errors used across the application
var (
	// Directory errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrInvalidPosition = errors.New("invalid position")

	// Season errors
	ErrWeekNotFound     = errors.New("game week not found")
	ErrNoCurrentWeek    = errors.New("no current game week")
	ErrMatchupNotFound  = errors.New("matchup not found")
	ErrOddTeamCount     = errors.New("round-robin schedule requires an even number of teams")
	ErrInvalidDateRange = errors.New("invalid date range")

	// Stat errors
	ErrDuplicateStatRecord = errors.New("stat record already exists for player and game")
	ErrInvalidStatLine     = errors.New("invalid stat line")
	ErrGameNotFinal        = errors.New("game has not finished")

	// Provider errors
	ErrExternalFetch = errors.New("external data fetch failed")
)
