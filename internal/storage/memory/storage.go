package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	teams    map[model.TeamID]*model.Team
	players  map[model.PlayerID]*model.Player
	stats    map[statKey]*model.StatRecord
	weeks    map[int]*model.GameWeek
	matchups map[model.MatchupID]*model.Matchup
}

type statKey struct {
	playerID model.PlayerID
	gameID   model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		teams:    make(map[model.TeamID]*model.Team),
		players:  make(map[model.PlayerID]*model.Player),
		stats:    make(map[statKey]*model.StatRecord),
		weeks:    make(map[int]*model.GameWeek),
		matchups: make(map[model.MatchupID]*model.Matchup),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = team.Clone()
	return nil
}

func (s *Storage) SaveTeams(ctx context.Context, teams []*model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range teams {
		s.teams[team.ID] = team.Clone()
	}
	return nil
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return nil, model.ErrTeamNotFound
	}
	return team.Clone(), nil
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]*model.Team, 0, len(s.teams))
	for _, team := range s.teams {
		teams = append(teams, team.Clone())
	}
	slices.SortFunc(teams, func(a, b *model.Team) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return teams, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		p := *player
		players = append(players, &p)
	}
	slices.SortFunc(players, func(a, b *model.Player) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return players, nil
}

// Stat record operations

func (s *Storage) InsertStatRecord(ctx context.Context, record *model.StatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statKey{record.PlayerID, record.GameID}
	if _, exists := s.stats[key]; exists {
		return model.ErrDuplicateStatRecord
	}
	r := *record
	s.stats[key] = &r
	return nil
}

func (s *Storage) StatRecordExists(ctx context.Context, playerID model.PlayerID, gameID model.GameID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.stats[statKey{playerID, gameID}]
	return exists, nil
}

func (s *Storage) ListStatRecords(ctx context.Context, playerID model.PlayerID, start, end civil.Date) ([]*model.StatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []*model.StatRecord
	for key, record := range s.stats {
		if key.playerID != playerID || record.Date.Before(start) || record.Date.After(end) {
			continue
		}
		r := *record
		records = append(records, &r)
	}
	slices.SortFunc(records, storage.CompareStatRecords)
	return records, nil
}

func (s *Storage) DeleteAllStatRecords(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[statKey]*model.StatRecord)
	return nil
}

// Game week operations

func (s *Storage) SaveGameWeek(ctx context.Context, week *model.GameWeek) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := *week
	s.weeks[week.Number] = &w
	return nil
}

func (s *Storage) GetGameWeek(ctx context.Context, number int) (*model.GameWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	week, ok := s.weeks[number]
	if !ok {
		return nil, model.ErrWeekNotFound
	}
	w := *week
	return &w, nil
}

func (s *Storage) ListGameWeeks(ctx context.Context) ([]*model.GameWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	weeks := make([]*model.GameWeek, 0, len(s.weeks))
	for _, week := range s.weeks {
		w := *week
		weeks = append(weeks, &w)
	}
	slices.SortFunc(weeks, func(a, b *model.GameWeek) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return weeks, nil
}

// Matchup operations

func (s *Storage) SaveMatchup(ctx context.Context, matchup *model.Matchup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matchups[matchup.ID] = matchup.Clone()
	return nil
}

func (s *Storage) GetMatchup(ctx context.Context, id model.MatchupID) (*model.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matchup, ok := s.matchups[id]
	if !ok {
		return nil, model.ErrMatchupNotFound
	}
	return matchup.Clone(), nil
}

func (s *Storage) ListMatchups(ctx context.Context) ([]*model.Matchup, error) {
	return s.listMatchups(func(*model.Matchup) bool { return true }), nil
}

func (s *Storage) ListMatchupsForWeek(ctx context.Context, weekNumber int) ([]*model.Matchup, error) {
	return s.listMatchups(func(m *model.Matchup) bool { return m.WeekNumber == weekNumber }), nil
}

func (s *Storage) listMatchups(include func(*model.Matchup) bool) []*model.Matchup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matchups := make([]*model.Matchup, 0, len(s.matchups))
	for _, m := range s.matchups {
		if include(m) {
			matchups = append(matchups, m.Clone())
		}
	}
	slices.SortFunc(matchups, storage.CompareMatchups)
	return matchups
}

func (s *Storage) DeleteSchedule(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weeks = make(map[int]*model.GameWeek)
	s.matchups = make(map[model.MatchupID]*model.Matchup)
	return nil
}
