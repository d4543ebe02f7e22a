package model

// MatchupID identifies a weekly head-to-head matchup
type MatchupID string

// MatchupStatus tracks whether a matchup's result is frozen
type MatchupStatus string

const (
	MatchupStatusPending  MatchupStatus = "pending"  // Scores may still change
	MatchupStatusResolved MatchupStatus = "resolved" // Week completed, result frozen
)

// Matchup pairs two teams for one game week
type Matchup struct {
	ID         MatchupID
	WeekNumber int
	HomeTeamID TeamID
	AwayTeamID TeamID
	HomeScore  int
	AwayScore  int
	Winner     *TeamID // nil until resolved
	Overtime   bool    // result decided by best-player tie-break
	Status     MatchupStatus
}

// IsResolved reports whether the result is frozen
func (m *Matchup) IsResolved() bool {
	return m.Status == MatchupStatusResolved
}

// Involves reports whether the team plays in this matchup
func (m *Matchup) Involves(id TeamID) bool {
	return m.HomeTeamID == id || m.AwayTeamID == id
}

// Resolve freezes the result with the given winner
func (m *Matchup) Resolve(winner TeamID, overtime bool) {
	w := winner
	m.Winner = &w
	m.Overtime = overtime
	m.Status = MatchupStatusResolved
}

// Clone returns a deep copy of the matchup
func (m *Matchup) Clone() *Matchup {
	c := *m
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	return &c
}
