package nhl

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// Wire formats of the public NHL web API (api-web.nhle.com)

type localizedName struct {
	Default string `json:"default"`
}

type scheduleResponse struct {
	GameWeek []scheduleDay `json:"gameWeek"`
}

type scheduleDay struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	ID           int64        `json:"id"`
	StartTimeUTC string       `json:"startTimeUTC"`
	GameState    string       `json:"gameState"`
	AwayTeam     scheduleTeam `json:"awayTeam"`
	HomeTeam     scheduleTeam `json:"homeTeam"`
}

type scheduleTeam struct {
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

func (g scheduleGame) toModel() model.ScheduledGame {
	return model.ScheduledGame{
		ID:           model.GameID(g.ID),
		StartTimeUTC: g.StartTimeUTC,
		State:        model.GameState(g.GameState),
		HomeTeam:     g.HomeTeam.Abbrev,
		AwayTeam:     g.AwayTeam.Abbrev,
		HomeScore:    g.HomeTeam.Score,
		AwayScore:    g.AwayTeam.Score,
	}
}

type boxscoreResponse struct {
	ID                int64             `json:"id"`
	GameDate          string            `json:"gameDate"`
	GameState         string            `json:"gameState"`
	AwayTeam          scheduleTeam      `json:"awayTeam"`
	HomeTeam          scheduleTeam      `json:"homeTeam"`
	PlayerByGameStats playerByGameStats `json:"playerByGameStats"`
}

type playerByGameStats struct {
	AwayTeam teamPlayerStats `json:"awayTeam"`
	HomeTeam teamPlayerStats `json:"homeTeam"`
}

type teamPlayerStats struct {
	Forwards []skaterLine
	Defense  []skaterLine
	Goalies  []goalieLine
}

// UnmarshalJSON accepts every spelling the API has used for the defense group
func (t *teamPlayerStats) UnmarshalJSON(data []byte) error {
	var raw struct {
		Forwards   []skaterLine `json:"forwards"`
		Defense    []skaterLine `json:"defense"`
		Defensemen []skaterLine `json:"defensemen"`
		Defencemen []skaterLine `json:"defencemen"`
		Goalies    []goalieLine `json:"goalies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Forwards = raw.Forwards
	t.Defense = append(append(raw.Defense, raw.Defensemen...), raw.Defencemen...)
	t.Goalies = raw.Goalies
	return nil
}

type skaterLine struct {
	PlayerID     int64         `json:"playerId"`
	Name         localizedName `json:"name"`
	Position     string        `json:"position"`
	Goals        int           `json:"goals"`
	Assists      int           `json:"assists"`
	PlusMinus    int           `json:"plusMinus"`
	PIM          int           `json:"pim"`
	Hits         int           `json:"hits"`
	SOG          int           `json:"sog"`
	BlockedShots int           `json:"blockedShots"`
}

type goalieLine struct {
	PlayerID         int64         `json:"playerId"`
	Name             localizedName `json:"name"`
	Saves            int           `json:"saves"`
	ShotsAgainst     int           `json:"shotsAgainst"`
	SaveShotsAgainst string        `json:"saveShotsAgainst"` // "28/30"
	Decision         string        `json:"decision"`
}

// counts returns saves and shots against, falling back to the "saves/shots" summary
func (g goalieLine) counts() (saves, shotsAgainst int) {
	if g.Saves != 0 || g.ShotsAgainst != 0 || g.SaveShotsAgainst == "" {
		return g.Saves, g.ShotsAgainst
	}
	left, right, ok := strings.Cut(g.SaveShotsAgainst, "/")
	if !ok {
		return 0, 0
	}
	sv, err1 := strconv.Atoi(strings.TrimSpace(left))
	sa, err2 := strconv.Atoi(strings.TrimSpace(right))
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return sv, sa
}

type rosterResponse struct {
	Forwards   []rosterPlayer `json:"forwards"`
	Defensemen []rosterPlayer `json:"defensemen"`
	Goalies    []rosterPlayer `json:"goalies"`
}

type rosterPlayer struct {
	ID           int64         `json:"id"`
	FirstName    localizedName `json:"firstName"`
	LastName     localizedName `json:"lastName"`
	PositionCode string        `json:"positionCode"`
}

// Domain-facing results

// Boxscore is the per-player stat sheet of one finished game
type Boxscore struct {
	GameID    model.GameID
	GameDate  string
	State     model.GameState
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Home      TeamLines
	Away      TeamLines
}

// TeamLines holds one side's skater and goalie lines
type TeamLines struct {
	Skaters []SkaterStats
	Goalies []GoalieStats
}

// SkaterStats is one skater's line in a boxscore
type SkaterStats struct {
	PlayerID       model.PlayerID
	Name           string
	Goals          int
	Assists        int
	PlusMinus      int
	Shots          int
	Blocks         int
	Hits           int
	PenaltyMinutes int
}

// GoalieStats is one goaltender's line in a boxscore
type GoalieStats struct {
	PlayerID     model.PlayerID
	Name         string
	Saves        int
	ShotsAgainst int
}

// RosterPlayer is one entry of a real-world team's current roster
type RosterPlayer struct {
	ID        model.PlayerID
	FirstName string
	LastName  string
	Position  string
}

func (b boxscoreResponse) toModel() *Boxscore {
	return &Boxscore{
		GameID:    model.GameID(b.ID),
		GameDate:  b.GameDate,
		State:     model.GameState(b.GameState),
		HomeTeam:  b.HomeTeam.Abbrev,
		AwayTeam:  b.AwayTeam.Abbrev,
		HomeScore: b.HomeTeam.Score,
		AwayScore: b.AwayTeam.Score,
		Home:      b.PlayerByGameStats.HomeTeam.toModel(),
		Away:      b.PlayerByGameStats.AwayTeam.toModel(),
	}
}

func (t teamPlayerStats) toModel() TeamLines {
	lines := TeamLines{
		Skaters: make([]SkaterStats, 0, len(t.Forwards)+len(t.Defense)),
		Goalies: make([]GoalieStats, 0, len(t.Goalies)),
	}
	for _, group := range [][]skaterLine{t.Forwards, t.Defense} {
		for _, s := range group {
			lines.Skaters = append(lines.Skaters, SkaterStats{
				PlayerID:       model.PlayerID(s.PlayerID),
				Name:           s.Name.Default,
				Goals:          s.Goals,
				Assists:        s.Assists,
				PlusMinus:      s.PlusMinus,
				Shots:          s.SOG,
				Blocks:         s.BlockedShots,
				Hits:           s.Hits,
				PenaltyMinutes: s.PIM,
			})
		}
	}
	for _, g := range t.Goalies {
		saves, shots := g.counts()
		lines.Goalies = append(lines.Goalies, GoalieStats{
			PlayerID:     model.PlayerID(g.PlayerID),
			Name:         g.Name.Default,
			Saves:        saves,
			ShotsAgainst: shots,
		})
	}
	return lines
}

func (r rosterResponse) toModel() []RosterPlayer {
	all := make([]RosterPlayer, 0, len(r.Forwards)+len(r.Defensemen)+len(r.Goalies))
	for _, group := range [][]rosterPlayer{r.Forwards, r.Defensemen, r.Goalies} {
		for _, p := range group {
			all = append(all, RosterPlayer{
				ID:        model.PlayerID(p.ID),
				FirstName: p.FirstName.Default,
				LastName:  p.LastName.Default,
				Position:  p.PositionCode,
			})
		}
	}
	return all
}
