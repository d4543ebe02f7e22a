// Package nhltest provides an in-process fake of the NHL web API.
package nhltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
)

// Game is a scheduled game served by the fake schedule endpoint
type Game struct {
	ID           int64
	StartTimeUTC string
	GameState    string
	HomeTeam     string
	AwayTeam     string
	HomeScore    int
	AwayScore    int
}

// Skater is one skater line served in a fake boxscore
type Skater struct {
	PlayerID  int64
	Goals     int
	Assists   int
	PlusMinus int
	Shots     int
	Blocks    int
	Hits      int
	PIM       int
}

// Goalie is one goalie line served in a fake boxscore
type Goalie struct {
	PlayerID     int64
	Saves        int
	ShotsAgainst int
}

// Boxscore is a fake game stat sheet
type Boxscore struct {
	GameDate    string
	HomeTeam    string
	AwayTeam    string
	HomeScore   int
	AwayScore   int
	HomeSkaters []Skater
	AwaySkaters []Skater
	HomeGoalies []Goalie
	AwayGoalies []Goalie
}

// RosterPlayer is one entry of a fake team roster
type RosterPlayer struct {
	ID        int64
	FirstName string
	LastName  string
	Position  string
}

// FakeServer serves schedules, boxscores and rosters from memory
type FakeServer struct {
	s *httptest.Server

	mu        sync.Mutex
	schedules map[string][]Game
	boxscores map[int64]Boxscore
	rosters   map[string][]RosterPlayer
	failing   map[string]bool
}

// NewFakeServer starts a fake NHL API server
func NewFakeServer() *FakeServer {
	f := &FakeServer{
		schedules: make(map[string][]Game),
		boxscores: make(map[int64]Boxscore),
		rosters:   make(map[string][]RosterPlayer),
		failing:   make(map[string]bool),
	}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/schedule/{date}", f.scheduleHandler).Methods(http.MethodGet)
	v1.HandleFunc("/gamecenter/{id}/boxscore", f.boxscoreHandler).Methods(http.MethodGet)
	v1.HandleFunc("/roster/{team}/current", f.rosterHandler).Methods(http.MethodGet)

	f.s = httptest.NewServer(r)
	return f
}

// Close shuts the server down
func (f *FakeServer) Close() {
	f.s.Close()
}

// URL returns the server's base URL
func (f *FakeServer) URL() string {
	return f.s.URL
}

// SetGames sets the games played on a date (YYYY-MM-DD)
func (f *FakeServer) SetGames(date string, games ...Game) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[date] = games
}

// SetBoxscore sets the boxscore for a game
func (f *FakeServer) SetBoxscore(gameID int64, box Boxscore) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boxscores[gameID] = box
}

// SetRoster sets the current roster of a team
func (f *FakeServer) SetRoster(team string, players ...RosterPlayer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosters[team] = players
}

// FailPath makes requests to the exact path answer 500
func (f *FakeServer) FailPath(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = true
}

func (f *FakeServer) fail(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[r.URL.Path] {
		w.WriteHeader(http.StatusInternalServerError)
		return true
	}
	return false
}

func (f *FakeServer) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	date := mux.Vars(r)["date"]

	f.mu.Lock()
	games := f.schedules[date]
	f.mu.Unlock()

	out := make([]map[string]any, 0, len(games))
	for _, g := range games {
		out = append(out, map[string]any{
			"id":           g.ID,
			"startTimeUTC": g.StartTimeUTC,
			"gameState":    g.GameState,
			"homeTeam":     map[string]any{"abbrev": g.HomeTeam, "score": g.HomeScore},
			"awayTeam":     map[string]any{"abbrev": g.AwayTeam, "score": g.AwayScore},
		})
	}
	writeJSON(w, map[string]any{
		"gameWeek": []map[string]any{{"date": date, "games": out}},
	})
}

func (f *FakeServer) boxscoreHandler(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	box, ok := f.boxscores[id]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"id":       id,
		"gameDate": box.GameDate,
		"homeTeam": map[string]any{"abbrev": box.HomeTeam, "score": box.HomeScore},
		"awayTeam": map[string]any{"abbrev": box.AwayTeam, "score": box.AwayScore},
		"playerByGameStats": map[string]any{
			"homeTeam": teamStats(box.HomeSkaters, box.HomeGoalies),
			"awayTeam": teamStats(box.AwaySkaters, box.AwayGoalies),
		},
	})
}

func (f *FakeServer) rosterHandler(w http.ResponseWriter, r *http.Request) {
	if f.fail(w, r) {
		return
	}
	team := mux.Vars(r)["team"]

	f.mu.Lock()
	players, ok := f.rosters[team]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	groups := map[string][]map[string]any{"forwards": {}, "defensemen": {}, "goalies": {}}
	for _, p := range players {
		entry := map[string]any{
			"id":           p.ID,
			"firstName":    map[string]string{"default": p.FirstName},
			"lastName":     map[string]string{"default": p.LastName},
			"positionCode": p.Position,
		}
		switch p.Position {
		case "D":
			groups["defensemen"] = append(groups["defensemen"], entry)
		case "G":
			groups["goalies"] = append(groups["goalies"], entry)
		default:
			groups["forwards"] = append(groups["forwards"], entry)
		}
	}
	writeJSON(w, groups)
}

func teamStats(skaters []Skater, goalies []Goalie) map[string]any {
	forwards := make([]map[string]any, 0, len(skaters))
	for _, s := range skaters {
		forwards = append(forwards, map[string]any{
			"playerId":     s.PlayerID,
			"name":         map[string]string{"default": fmt.Sprintf("Player %d", s.PlayerID)},
			"goals":        s.Goals,
			"assists":      s.Assists,
			"plusMinus":    s.PlusMinus,
			"sog":          s.Shots,
			"blockedShots": s.Blocks,
			"hits":         s.Hits,
			"pim":          s.PIM,
		})
	}
	gs := make([]map[string]any, 0, len(goalies))
	for _, g := range goalies {
		gs = append(gs, map[string]any{
			"playerId":     g.PlayerID,
			"name":         map[string]string{"default": fmt.Sprintf("Player %d", g.PlayerID)},
			"saves":        g.Saves,
			"shotsAgainst": g.ShotsAgainst,
		})
	}
	return map[string]any{"forwards": forwards, "defense": []any{}, "goalies": gs}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
