// Package gate reports which real-world teams have started today's game,
// so lineup edits involving their players can be blocked.
package gate

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/model"
)

// cacheSize bounds the number of cached days
const cacheSize = 8

// Schedule supplies the games played on a date
type Schedule interface {
	GamesOn(ctx context.Context, date civil.Date) ([]model.ScheduledGame, error)
}

// Config holds gate settings
type Config struct {
	Location *time.Location
	// CacheTTL keeps a fetched schedule for this long; zero disables caching
	CacheTTL time.Duration
}

// DefaultConfig returns sensible defaults for the gate
func DefaultConfig() Config {
	return Config{
		Location: time.UTC,
		CacheTTL: 30 * time.Second,
	}
}

// Service computes roster locks from today's schedule
type Service struct {
	schedule Schedule
	clock    clock.Clock
	location *time.Location
	cache    *expirable.LRU[civil.Date, []model.ScheduledGame]
	logger   *slog.Logger
}

// New creates a new gate Service
func New(schedule Schedule, clock clock.Clock, config Config, logger *slog.Logger) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	s := &Service{
		schedule: schedule,
		clock:    clock,
		location: config.Location,
		logger:   logger.With(slog.String("component", "gate")),
	}
	if config.CacheTTL > 0 {
		s.cache = expirable.NewLRU[civil.Date, []model.ScheduledGame](cacheSize, nil, config.CacheTTL)
	}
	return s
}

// LockedTeams returns, sorted, the abbreviations of both teams in every game
// dated today whose start time is at or before now. Games with an unreadable
// start time are left unlocked. A schedule fetch failure is returned.
func (s *Service) LockedTeams(ctx context.Context) ([]string, error) {
	now := s.clock.Now()
	games, err := s.gamesToday(ctx, now)
	if err != nil {
		return nil, err
	}

	locked := []string{}
	for _, g := range games {
		start, err := g.StartTime()
		if err != nil {
			s.logger.Warn("unreadable game start time",
				slog.Int64("game_id", int64(g.ID)),
				slog.String("start_time_utc", g.StartTimeUTC),
			)
			continue
		}
		if start.After(now) {
			continue
		}
		locked = append(locked, g.HomeTeam, g.AwayTeam)
	}

	slices.Sort(locked)
	return slices.Compact(locked), nil
}

// IsLocked reports whether a team's game today has started
func (s *Service) IsLocked(ctx context.Context, teamAbbrev string) (bool, error) {
	locked, err := s.LockedTeams(ctx)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(locked, teamAbbrev)
	return found, nil
}

// TeamGameStatuses returns the game state of every team playing today
func (s *Service) TeamGameStatuses(ctx context.Context) (map[string]model.GameState, error) {
	games, err := s.gamesToday(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]model.GameState, 2*len(games))
	for _, g := range games {
		statuses[g.HomeTeam] = g.State
		statuses[g.AwayTeam] = g.State
	}
	return statuses, nil
}

func (s *Service) gamesToday(ctx context.Context, now time.Time) ([]model.ScheduledGame, error) {
	today := civil.DateOf(now.In(s.location))
	if s.cache != nil {
		if games, ok := s.cache.Get(today); ok {
			return games, nil
		}
	}

	games, err := s.schedule.GamesOn(ctx, today)
	if err != nil {
		s.logger.Error("failed to fetch today's schedule",
			slog.String("date", today.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(today, games)
	}
	return games, nil
}
