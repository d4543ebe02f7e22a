package response

import (
	"slices"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/services/aggregate"
	"github.com/mcoot/fantasyhockey/internal/services/ingest"
	"github.com/mcoot/fantasyhockey/internal/services/schedule"
	"github.com/mcoot/fantasyhockey/internal/services/standings"
)

// Week represents a game week in API responses
type Week struct {
	Number      int        `json:"number"`
	StartDate   civil.Date `json:"start_date"`
	EndDate     civil.Date `json:"end_date"`
	IsCurrent   bool       `json:"is_current"`
	IsCompleted bool       `json:"is_completed"`
}

// WeekFromModel converts a model.GameWeek to a response Week
func WeekFromModel(w *model.GameWeek) Week {
	return Week{
		Number:      w.Number,
		StartDate:   w.StartDate,
		EndDate:     w.EndDate,
		IsCurrent:   w.IsCurrent,
		IsCompleted: w.IsCompleted,
	}
}

// Matchup represents a weekly head-to-head matchup
type Matchup struct {
	ID         string  `json:"id"`
	WeekNumber int     `json:"week_number"`
	HomeTeamID string  `json:"home_team_id"`
	AwayTeamID string  `json:"away_team_id"`
	HomeScore  int     `json:"home_score"`
	AwayScore  int     `json:"away_score"`
	Winner     *string `json:"winner"`
	Overtime   bool    `json:"overtime"`
	Status     string  `json:"status"`
}

// MatchupFromModel converts a model.Matchup
func MatchupFromModel(m *model.Matchup) Matchup {
	var winner *string
	if m.Winner != nil {
		w := string(*m.Winner)
		winner = &w
	}
	return Matchup{
		ID:         string(m.ID),
		WeekNumber: m.WeekNumber,
		HomeTeamID: string(m.HomeTeamID),
		AwayTeamID: string(m.AwayTeamID),
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Winner:     winner,
		Overtime:   m.Overtime,
		Status:     string(m.Status),
	}
}

// MatchupsFromModel converts a slice of matchups
func MatchupsFromModel(ms []*model.Matchup) []Matchup {
	out := make([]Matchup, 0, len(ms))
	for _, m := range ms {
		out = append(out, MatchupFromModel(m))
	}
	return out
}

// WeekMatchups is the response for a week's matchups
type WeekMatchups struct {
	Week     Week      `json:"week"`
	Matchups []Matchup `json:"matchups"`
}

// Standing is one row of the league table
type Standing struct {
	Rank         int    `json:"rank"`
	TeamID       string `json:"team_id"`
	Name         string `json:"name"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	OTWins       int    `json:"ot_wins"`
	OTLosses     int    `json:"ot_losses"`
	LeaguePoints int    `json:"league_points"`
}

// StandingsFromModel converts teams already in table order
func StandingsFromModel(teams []*model.Team) []Standing {
	out := make([]Standing, 0, len(teams))
	for i, t := range teams {
		out = append(out, Standing{
			Rank:         i + 1,
			TeamID:       string(t.ID),
			Name:         t.Name,
			Wins:         t.Wins,
			Losses:       t.Losses,
			OTWins:       t.OTWins,
			OTLosses:     t.OTLosses,
			LeaguePoints: t.LeaguePoints,
		})
	}
	return out
}

// PlayerScore is one player's contribution to a matchup
type PlayerScore struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	NHLTeam  string `json:"nhl_team"`
	Injured  bool   `json:"injured"`
	Points   int    `json:"points"`
	Games    int    `json:"games"`
}

func playerScoresFromModel(scores []aggregate.PlayerScore) []PlayerScore {
	out := make([]PlayerScore, 0, len(scores))
	for _, s := range scores {
		out = append(out, PlayerScore{
			PlayerID: int64(s.Player.ID),
			Name:     s.Player.FullName(),
			Position: string(s.Player.Position),
			NHLTeam:  s.Player.NHLTeam,
			Injured:  s.Player.Injured,
			Points:   s.Points,
			Games:    s.Games,
		})
	}
	return out
}

// TeamSide is one team of a matchup with its player breakdown
type TeamSide struct {
	TeamID  string        `json:"team_id"`
	Name    string        `json:"name"`
	Score   int           `json:"score"`
	Players []PlayerScore `json:"players"`
}

// MatchupDetail is the response for a single matchup
type MatchupDetail struct {
	Matchup Matchup  `json:"matchup"`
	Week    Week     `json:"week"`
	Home    TeamSide `json:"home"`
	Away    TeamSide `json:"away"`
}

// MatchupDetailFromModel converts a standings.MatchupDetail
func MatchupDetailFromModel(d *standings.MatchupDetail) MatchupDetail {
	return MatchupDetail{
		Matchup: MatchupFromModel(d.Matchup),
		Week:    WeekFromModel(d.Week),
		Home: TeamSide{
			TeamID:  string(d.HomeTeam.ID),
			Name:    d.HomeTeam.Name,
			Score:   d.Matchup.HomeScore,
			Players: playerScoresFromModel(d.HomePlayers),
		},
		Away: TeamSide{
			TeamID:  string(d.AwayTeam.ID),
			Name:    d.AwayTeam.Name,
			Score:   d.Matchup.AwayScore,
			Players: playerScoresFromModel(d.AwayPlayers),
		},
	}
}

// SeasonInit is the response for initializing the season
type SeasonInit struct {
	Outcome  string `json:"outcome"`
	Weeks    int    `json:"weeks"`
	Matchups int    `json:"matchups"`
}

// SeasonInitFromResult converts a schedule.InitResult
func SeasonInitFromResult(r *schedule.InitResult) SeasonInit {
	return SeasonInit{
		Outcome:  string(r.Outcome),
		Weeks:    r.Weeks,
		Matchups: r.Matchups,
	}
}

// GameIngest is the response for ingesting one game
type GameIngest struct {
	GameID     int64 `json:"game_id"`
	Recorded   int   `json:"recorded"`
	Duplicates int   `json:"duplicates"`
	Unknown    int   `json:"unknown"`
	Failed     int   `json:"failed"`
}

// GameIngestFromResult converts an ingest.GameResult
func GameIngestFromResult(r *ingest.GameResult) GameIngest {
	return GameIngest{
		GameID:     int64(r.GameID),
		Recorded:   r.Recorded,
		Duplicates: r.Duplicates,
		Unknown:    r.Unknown,
		Failed:     r.Failed,
	}
}

// RangeIngest is the response for a date range sweep
type RangeIngest struct {
	Start        civil.Date `json:"start"`
	End          civil.Date `json:"end"`
	Days         int        `json:"days"`
	FailedDays   int        `json:"failed_days"`
	Games        int        `json:"games"`
	SkippedGames int        `json:"skipped_games"`
	FailedGames  int        `json:"failed_games"`
	Recorded     int        `json:"recorded"`
	Duplicates   int        `json:"duplicates"`
	Unknown      int        `json:"unknown"`
	FailedLines  int        `json:"failed_lines"`
}

// RangeIngestFromResult converts an ingest.RangeResult
func RangeIngestFromResult(r *ingest.RangeResult) RangeIngest {
	return RangeIngest{
		Start:        r.Start,
		End:          r.End,
		Days:         r.Days,
		FailedDays:   r.FailedDays,
		Games:        r.Games,
		SkippedGames: r.SkippedGames,
		FailedGames:  r.FailedGames,
		Recorded:     r.Lines.Recorded,
		Duplicates:   r.Lines.Duplicates,
		Unknown:      r.Lines.Unknown,
		FailedLines:  r.Lines.Failed,
	}
}

// RosterImport is the response for a roster import
type RosterImport struct {
	Teams       int `json:"teams"`
	FailedTeams int `json:"failed_teams"`
	Players     int `json:"players"`
	Skipped     int `json:"skipped"`
}

// RosterImportFromResult converts an ingest.RosterResult
func RosterImportFromResult(r *ingest.RosterResult) RosterImport {
	return RosterImport{
		Teams:       r.Teams,
		FailedTeams: r.FailedTeams,
		Players:     r.Players,
		Skipped:     r.Skipped,
	}
}

// InjuryUpdate is the response for an injury refresh
type InjuryUpdate struct {
	Injured int `json:"injured"`
}

// LiveScores is the response for refreshing the current week's scores
type LiveScores struct {
	Week     Week      `json:"week"`
	Matchups []Matchup `json:"matchups"`
}

// LockedTeams is the response for the teams whose game has started
type LockedTeams struct {
	Teams []string `json:"teams"`
}

// GameStatus is one team's game state today
type GameStatus struct {
	Team  string `json:"team"`
	State string `json:"state"`
}

// GameStatusesFromModel converts a team to state map, sorted by team
func GameStatusesFromModel(statuses map[string]model.GameState) []GameStatus {
	out := make([]GameStatus, 0, len(statuses))
	for team, state := range statuses {
		out = append(out, GameStatus{Team: team, State: string(state)})
	}
	slices.SortFunc(out, func(a, b GameStatus) int {
		return strings.Compare(a.Team, b.Team)
	})
	return out
}
