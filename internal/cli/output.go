package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/fantasyhockey/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case response.SeasonInit:
		fmt.Fprintf(o.w, "Season %s: %d weeks, %d matchups\n", v.Outcome, v.Weeks, v.Matchups)
	case response.Week:
		o.printWeek(v)
	case response.WeekMatchups:
		o.printWeek(v.Week)
		o.printMatchups(v.Matchups)
	case response.MatchupDetail:
		o.printMatchupDetail(v)
	case response.LiveScores:
		o.printWeek(v.Week)
		o.printMatchups(v.Matchups)
	case Table:
		o.printTable(v)
	case response.GameIngest:
		fmt.Fprintf(o.w, "Game %d: %d recorded, %d duplicates, %d unknown players, %d failed\n",
			v.GameID, v.Recorded, v.Duplicates, v.Unknown, v.Failed)
	case response.RangeIngest:
		o.printRangeIngest(v)
	case response.RosterImport:
		fmt.Fprintf(o.w, "Rosters: %d teams (%d failed), %d players, %d skipped\n",
			v.Teams, v.FailedTeams, v.Players, v.Skipped)
	case response.InjuryUpdate:
		fmt.Fprintf(o.w, "Injured players: %d\n", v.Injured)
	case response.LockedTeams:
		if len(v.Teams) == 0 {
			fmt.Fprintln(o.w, "No teams locked")
			return
		}
		fmt.Fprintf(o.w, "Locked: %s\n", strings.Join(v.Teams, ", "))
	case GameStatuses:
		if len(v) == 0 {
			fmt.Fprintln(o.w, "No games today")
			return
		}
		for _, s := range v {
			fmt.Fprintf(o.w, "%-4s %s\n", s.Team, s.State)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printWeek(w response.Week) {
	status := "upcoming"
	switch {
	case w.IsCompleted:
		status = "completed"
	case w.IsCurrent:
		status = "current"
	}
	fmt.Fprintf(o.w, "Week %d: %s to %s (%s)\n", w.Number, w.StartDate, w.EndDate, status)
}

func (o *Output) printMatchups(ms []response.Matchup) {
	for _, m := range ms {
		result := m.Status
		if m.Winner != nil {
			result = "winner " + *m.Winner
			if m.Overtime {
				result += " (OT)"
			}
		}
		fmt.Fprintf(o.w, "  %s  %s %d - %d %s  [%s]\n",
			m.ID, m.HomeTeamID, m.HomeScore, m.AwayScore, m.AwayTeamID, result)
	}
}

func (o *Output) printMatchupDetail(d response.MatchupDetail) {
	o.printWeek(d.Week)
	o.printMatchups([]response.Matchup{d.Matchup})
	for _, side := range []response.TeamSide{d.Home, d.Away} {
		fmt.Fprintf(o.w, "\n%s (%s): %d\n", side.Name, side.TeamID, side.Score)
		tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
		for _, p := range side.Players {
			injured := ""
			if p.Injured {
				injured = "IR"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d pts\t%d gp\t%s\n", p.Name, p.Position, p.NHLTeam, p.Points, p.Games, injured)
		}
		_ = tw.Flush()
	}
}

func (o *Output) printTable(t Table) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTeam\tW\tL\tOTW\tOTL\tPts")
	for _, s := range t {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			s.Rank, s.Name, s.Wins, s.Losses, s.OTWins, s.OTLosses, s.LeaguePoints)
	}
	_ = tw.Flush()
}

func (o *Output) printRangeIngest(r response.RangeIngest) {
	fmt.Fprintf(o.w, "Swept %s to %s: %d days (%d failed)\n", r.Start, r.End, r.Days, r.FailedDays)
	fmt.Fprintf(o.w, "Games: %d ingested, %d unfinished, %d failed\n", r.Games, r.SkippedGames, r.FailedGames)
	fmt.Fprintf(o.w, "Lines: %d recorded, %d duplicates, %d unknown players, %d failed\n",
		r.Recorded, r.Duplicates, r.Unknown, r.FailedLines)
}
