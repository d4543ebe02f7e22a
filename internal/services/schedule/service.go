// Package schedule frames the season into game weeks and fills them with
// round-robin matchups.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/singleflight"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/dependencies/random"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

const daysPerWeek = 7

// Config frames the season
type Config struct {
	SeasonStart civil.Date
	Week1End    civil.Date
	TotalWeeks  int
	Location    *time.Location
}

// DefaultConfig returns the 2025-26 season framing
func DefaultConfig() Config {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return Config{
		SeasonStart: civil.Date{Year: 2025, Month: time.October, Day: 7},
		Week1End:    civil.Date{Year: 2025, Month: time.October, Day: 12},
		TotalWeeks:  20,
		Location:    loc,
	}
}

// Validate checks the season framing is usable
func (c Config) Validate() error {
	if !c.SeasonStart.IsValid() || !c.Week1End.IsValid() {
		return fmt.Errorf("%w: invalid season dates", model.ErrInvalidDateRange)
	}
	if c.Week1End.Before(c.SeasonStart) {
		return fmt.Errorf("%w: week 1 ends %s before the season starts %s",
			model.ErrInvalidDateRange, c.Week1End, c.SeasonStart)
	}
	if c.TotalWeeks < 1 {
		return fmt.Errorf("%w: season needs at least one week", model.ErrInvalidDateRange)
	}
	return nil
}

// InitOutcome describes what InitializeSeason did
type InitOutcome string

const (
	InitSkipped     InitOutcome = "skipped"     // Correctly dated schedule already present
	InitCreated     InitOutcome = "created"     // No schedule existed
	InitRegenerated InitOutcome = "regenerated" // Stale schedule deleted and rebuilt
	InitReset       InitOutcome = "reset"       // Schedule, stats and records wiped and rebuilt
)

// InitResult summarizes a season initialization
type InitResult struct {
	Outcome  InitOutcome
	Weeks    int
	Matchups int
}

// Service manages game weeks and matchups
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	config  Config
	logger  *slog.Logger

	group singleflight.Group
	mu    sync.Mutex
}

// New creates a new schedule Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, config Config, logger *slog.Logger) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		config:  config,
		logger:  logger.With(slog.String("component", "schedule")),
	}
}

// Config returns the season framing
func (s *Service) Config() Config {
	return s.config
}

// Today returns the current date in the league time zone
func (s *Service) Today() civil.Date {
	return clock.Today(s.clock, s.config.Location)
}

// WeekDates returns the framing of every week of the season
func (s *Service) WeekDates() []model.GameWeek {
	weeks := make([]model.GameWeek, 0, s.config.TotalWeeks)
	start := s.config.SeasonStart
	for n := 1; n <= s.config.TotalWeeks; n++ {
		end := start.AddDays(daysPerWeek - 1)
		if n == 1 {
			end = s.config.Week1End
		}
		weeks = append(weeks, model.GameWeek{Number: n, StartDate: start, EndDate: end})
		start = end.AddDays(1)
	}
	return weeks
}

// InitializeSeason creates the season's weeks and matchups unless a correctly
// dated week 1 already exists. A week 1 with a different start date causes the
// whole schedule to be deleted and rebuilt. Concurrent calls share one run.
func (s *Service) InitializeSeason(ctx context.Context) (*InitResult, error) {
	key := s.config.SeasonStart.String()
	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.initialize(ctx)
	})
	if err != nil {
		return nil, err
	}
	result := *v.(*InitResult)
	return &result, nil
}

// ResetSeason wipes the schedule, every stat record and every team's season
// record, then builds a fresh schedule. Rosters and players are kept.
func (s *Service) ResetSeason(ctx context.Context) (*InitResult, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.DeleteSchedule(ctx); err != nil {
		return nil, fmt.Errorf("delete schedule: %w", err)
	}
	if err := s.storage.DeleteAllStatRecords(ctx); err != nil {
		return nil, fmt.Errorf("delete stat records: %w", err)
	}
	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		t.ResetRecord()
	}
	if err := s.storage.SaveTeams(ctx, teams); err != nil {
		return nil, err
	}
	s.logger.Warn("season reset, schedule and stats deleted",
		slog.String("season_start", s.config.SeasonStart.String()),
		slog.Int("teams", len(teams)),
	)

	result, err := s.initialize(ctx)
	if err != nil {
		return nil, err
	}
	result.Outcome = InitReset
	return result, nil
}

func (s *Service) initialize(ctx context.Context) (*InitResult, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	outcome := InitCreated
	week1, err := s.storage.GetGameWeek(ctx, 1)
	switch {
	case err == nil && week1.StartDate == s.config.SeasonStart:
		s.logger.Info("season already initialized",
			slog.String("season_start", s.config.SeasonStart.String()),
		)
		return &InitResult{Outcome: InitSkipped}, nil
	case err == nil:
		s.logger.Warn("season start changed, resetting schedule",
			slog.String("stored_start", week1.StartDate.String()),
			slog.String("season_start", s.config.SeasonStart.String()),
		)
		if err := s.storage.DeleteSchedule(ctx); err != nil {
			return nil, err
		}
		outcome = InitRegenerated
	case !errors.Is(err, model.ErrWeekNotFound):
		return nil, err
	}

	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	teamIDs := make([]model.TeamID, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}
	if len(teamIDs)%2 != 0 {
		return nil, fmt.Errorf("%w: %d teams", model.ErrOddTeamCount, len(teamIDs))
	}

	today := s.Today()
	weeks := s.WeekDates()
	applyInitialStatuses(weeks, today)

	matchups := 0
	for i := range weeks {
		week := &weeks[i]
		if err := s.storage.SaveGameWeek(ctx, week); err != nil {
			return nil, err
		}

		pairs, err := Pairings(teamIDs, week.Number-1)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			m := &model.Matchup{
				ID:         model.MatchupID(random.NewID(s.random)),
				WeekNumber: week.Number,
				HomeTeamID: p.Home,
				AwayTeamID: p.Away,
				Status:     model.MatchupStatusPending,
			}
			if err := s.storage.SaveMatchup(ctx, m); err != nil {
				return nil, err
			}
			matchups++
		}
	}

	s.logger.Info("season initialized",
		slog.String("outcome", string(outcome)),
		slog.String("season_start", s.config.SeasonStart.String()),
		slog.Int("weeks", len(weeks)),
		slog.Int("teams", len(teamIDs)),
		slog.Int("matchups", matchups),
	)
	return &InitResult{Outcome: outcome, Weeks: len(weeks), Matchups: matchups}, nil
}

// applyInitialStatuses flags weeks against today; before the season starts
// week 1 is current
func applyInitialStatuses(weeks []model.GameWeek, today civil.Date) {
	anyCurrent := false
	for i := range weeks {
		weeks[i].IsCompleted = weeks[i].HasEnded(today)
		weeks[i].IsCurrent = !weeks[i].IsCompleted && !weeks[i].StartDate.After(today)
		anyCurrent = anyCurrent || weeks[i].IsCurrent
	}
	if !anyCurrent && len(weeks) > 0 && today.Before(weeks[0].StartDate) {
		weeks[0].IsCurrent = true
	}
}

// RefreshWeekStatuses moves week flags forward to match today.
// A completed week never reverts, and week 1 stays current until the season starts.
func (s *Service) RefreshWeekStatuses(ctx context.Context) error {
	weeks, err := s.storage.ListGameWeeks(ctx)
	if err != nil {
		return err
	}
	today := s.Today()

	for _, week := range weeks {
		completed := week.IsCompleted || week.HasEnded(today)
		current := !completed && !week.StartDate.After(today)
		if week.Number == 1 && today.Before(week.StartDate) {
			current = true
		}
		if completed == week.IsCompleted && current == week.IsCurrent {
			continue
		}

		if current && !week.IsCurrent {
			s.logger.Info("week is now current",
				slog.Int("week", week.Number),
				slog.String("start", week.StartDate.String()),
				slog.String("end", week.EndDate.String()),
			)
		}
		if completed && !week.IsCompleted {
			s.logger.Info("week completed", slog.Int("week", week.Number))
		}

		week.IsCompleted = completed
		week.IsCurrent = current
		if err := s.storage.SaveGameWeek(ctx, week); err != nil {
			return err
		}
	}
	return nil
}

// CurrentWeek returns the week flagged current
func (s *Service) CurrentWeek(ctx context.Context) (*model.GameWeek, error) {
	weeks, err := s.storage.ListGameWeeks(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range weeks {
		if w.IsCurrent {
			return w, nil
		}
	}
	return nil, model.ErrNoCurrentWeek
}

// WeekByNumber returns a week by its number
func (s *Service) WeekByNumber(ctx context.Context, number int) (*model.GameWeek, error) {
	return s.storage.GetGameWeek(ctx, number)
}

// MatchupsForWeek returns the matchups of a week
func (s *Service) MatchupsForWeek(ctx context.Context, number int) ([]*model.Matchup, error) {
	if _, err := s.storage.GetGameWeek(ctx, number); err != nil {
		return nil, err
	}
	return s.storage.ListMatchupsForWeek(ctx, number)
}
