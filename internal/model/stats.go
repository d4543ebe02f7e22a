package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// StatRecord is the immutable per-player, per-game stat row.
// At most one exists for any (PlayerID, GameID) pair.
type StatRecord struct {
	PlayerID PlayerID
	GameID   GameID
	Date     civil.Date
	Goalie   bool

	// Skater line
	Goals          int
	Assists        int
	PlusMinus      int
	Shots          int
	Blocks         int
	Hits           int
	PenaltyMinutes int

	// Goalie line
	Saves        int
	ShotsAgainst int
	GoalsAgainst int
	Win          bool

	FantasyPoints int
	RecordedAt    time.Time
}

// SkaterLine is one skater's raw stats for one game
type SkaterLine struct {
	PlayerID       PlayerID
	GameID         GameID
	Date           civil.Date
	Goals          int
	Assists        int
	PlusMinus      int
	Shots          int
	Blocks         int
	Hits           int
	PenaltyMinutes int
}

// GoalieLine is one goaltender's raw stats for one game
type GoalieLine struct {
	PlayerID     PlayerID
	GameID       GameID
	Date         civil.Date
	Saves        int
	ShotsAgainst int
	Win          bool
}

// GoalsAgainst derives goals allowed from shots and saves
func (g GoalieLine) GoalsAgainst() int {
	return g.ShotsAgainst - g.Saves
}
