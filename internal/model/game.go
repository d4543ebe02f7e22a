package model

import "time"

// GameID is the data provider's identifier for a real-world game
type GameID int64

// GameState is the provider's lifecycle state for a real-world game
type GameState string

const (
	GameStateFuture    GameState = "FUT"   // Scheduled
	GameStatePregame   GameState = "PRE"   // Warmups
	GameStateLive      GameState = "LIVE"  // In progress
	GameStateCritical  GameState = "CRIT"  // Final minutes
	GameStateFinal     GameState = "FINAL" // Ended, stats pending
	GameStateOfficial  GameState = "OFF"   // Ended, stats official
	GameStatePostponed GameState = "PPD"
)

// IsOver reports whether the game has ended
func (s GameState) IsOver() bool {
	return s == GameStateFinal || s == GameStateOfficial
}

// ScheduledGame is one real-world game in a daily schedule
type ScheduledGame struct {
	ID           GameID
	StartTimeUTC string // raw provider timestamp, parsed lazily
	State        GameState
	HomeTeam     string
	AwayTeam     string
	HomeScore    int
	AwayScore    int
}

// StartTime parses the provider's start timestamp
func (g *ScheduledGame) StartTime() (time.Time, error) {
	return time.Parse(time.RFC3339, g.StartTimeUTC)
}
