package model

import "slices"

// TeamID identifies a fantasy team
type TeamID string

// League points awarded per outcome
const (
	PointsWin    = 3
	PointsOTWin  = 2
	PointsOTLoss = 1
)

// Team is a member-owned fantasy team with its cumulative season record.
// The record counters are derived state, rebuilt by the standings engine.
type Team struct {
	ID        TeamID
	Name      string
	OwnerName string
	PlayerIDs []PlayerID

	Wins         int
	Losses       int
	OTWins       int
	OTLosses     int
	LeaguePoints int
}

// HasPlayer reports whether the player is on the team's current roster
func (t *Team) HasPlayer(id PlayerID) bool {
	return slices.Contains(t.PlayerIDs, id)
}

// ResetRecord zeroes every season counter
func (t *Team) ResetRecord() {
	t.Wins = 0
	t.Losses = 0
	t.OTWins = 0
	t.OTLosses = 0
	t.LeaguePoints = 0
}

// RecordWin applies a regulation win
func (t *Team) RecordWin() {
	t.Wins++
	t.LeaguePoints += PointsWin
}

// RecordLoss applies a regulation loss
func (t *Team) RecordLoss() {
	t.Losses++
}

// RecordOTWin applies a tie-break win
func (t *Team) RecordOTWin() {
	t.OTWins++
	t.LeaguePoints += PointsOTWin
}

// RecordOTLoss applies a tie-break loss
func (t *Team) RecordOTLoss() {
	t.OTLosses++
	t.LeaguePoints += PointsOTLoss
}

// ExpectedLeaguePoints derives league points from the outcome counters
func (t *Team) ExpectedLeaguePoints() int {
	return PointsWin*t.Wins + PointsOTWin*t.OTWins + PointsOTLoss*t.OTLosses
}

// GamesPlayed returns the number of matchups folded into the record
func (t *Team) GamesPlayed() int {
	return t.Wins + t.Losses + t.OTWins + t.OTLosses
}

// Clone returns a deep copy of the team
func (t *Team) Clone() *Team {
	c := *t
	c.PlayerIDs = slices.Clone(t.PlayerIDs)
	return &c
}
