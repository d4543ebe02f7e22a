// Package standings settles weekly matchups and rebuilds league standings.
package standings

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/services/aggregate"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// Calendar supplies the league's current date and week
type Calendar interface {
	Today() civil.Date
	CurrentWeek(ctx context.Context) (*model.GameWeek, error)
}

// MatchupDetail is a matchup with both rosters' point breakdowns
type MatchupDetail struct {
	Matchup     *model.Matchup
	Week        *model.GameWeek
	HomeTeam    *model.Team
	AwayTeam    *model.Team
	HomePlayers []aggregate.PlayerScore
	AwayPlayers []aggregate.PlayerScore
}

// Service computes matchup results and team records
type Service struct {
	storage   storage.Storage
	aggregate *aggregate.Service
	calendar  Calendar
	logger    *slog.Logger

	mu sync.Mutex
}

// New creates a new standings Service
func New(storage storage.Storage, aggregate *aggregate.Service, calendar Calendar, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		aggregate: aggregate,
		calendar:  calendar,
		logger:    logger.With(slog.String("component", "standings")),
	}
}

// RecomputeStandings rebuilds every team's record from scratch.
//
// Only matchups of weeks that are completed or already over count. A pending
// matchup of a completed week is scored once and resolved; resolved matchups
// keep their stored result. Matchups of weeks that are over but not yet
// flagged completed are rescored and counted while staying pending.
func (s *Service) RecomputeStandings(ctx context.Context) ([]*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[model.TeamID]*model.Team, len(teams))
	for _, t := range teams {
		t.ResetRecord()
		byID[t.ID] = t
	}

	weeks, err := s.storage.ListGameWeeks(ctx)
	if err != nil {
		return nil, err
	}

	today := s.calendar.Today()
	folded, resolved := 0, 0
	for _, week := range weeks {
		if !week.IsFinal(today) {
			continue
		}
		matchups, err := s.storage.ListMatchupsForWeek(ctx, week.Number)
		if err != nil {
			return nil, err
		}

		for _, m := range matchups {
			// Skipped before scoring; the aggregator would fail on the missing team
			home, away := byID[m.HomeTeamID], byID[m.AwayTeamID]
			if home == nil || away == nil {
				s.logger.Warn("matchup references unknown team",
					slog.String("matchup_id", string(m.ID)),
					slog.String("home_team_id", string(m.HomeTeamID)),
					slog.String("away_team_id", string(m.AwayTeamID)),
				)
				continue
			}

			o, newlyResolved, err := s.settle(ctx, week, m)
			if err != nil {
				return nil, err
			}
			if newlyResolved {
				resolved++
			}
			o.apply(home, away)
			folded++
		}
	}

	if err := s.storage.SaveTeams(ctx, teams); err != nil {
		return nil, err
	}

	s.logger.Info("standings recomputed",
		slog.Int("teams", len(teams)),
		slog.Int("matchups_counted", folded),
		slog.Int("matchups_resolved", resolved),
	)
	sortStandings(teams)
	return teams, nil
}

// settle returns the outcome of a matchup in a finished week, scoring and
// saving it when it is still pending
func (s *Service) settle(ctx context.Context, week *model.GameWeek, m *model.Matchup) (outcome, bool, error) {
	if m.IsResolved() {
		o, ok := storedOutcome(m)
		if !ok {
			return outcome{}, false, fmt.Errorf("resolved matchup %s has no winner", m.ID)
		}
		return o, false, nil
	}

	if err := s.score(ctx, week, m); err != nil {
		return outcome{}, false, err
	}
	o, err := decide(m.HomeScore, m.AwayScore, func() (int, int, error) {
		return s.bestScores(ctx, week, m)
	})
	if err != nil {
		return outcome{}, false, err
	}

	if week.IsCompleted {
		m.Resolve(o.winner(m), o.overtime)
	}
	if err := s.storage.SaveMatchup(ctx, m); err != nil {
		return outcome{}, false, err
	}

	if m.IsResolved() {
		s.logger.Info("matchup resolved",
			slog.String("matchup_id", string(m.ID)),
			slog.Int("week", week.Number),
			slog.String("winner", string(*m.Winner)),
			slog.Bool("overtime", m.Overtime),
		)
	}
	return o, m.IsResolved(), nil
}

// score recalculates both sides' totals for the week
func (s *Service) score(ctx context.Context, week *model.GameWeek, m *model.Matchup) error {
	home, err := s.aggregate.TeamScoreForPeriod(ctx, m.HomeTeamID, week.StartDate, week.EndDate)
	if err != nil {
		return err
	}
	away, err := s.aggregate.TeamScoreForPeriod(ctx, m.AwayTeamID, week.StartDate, week.EndDate)
	if err != nil {
		return err
	}
	m.HomeScore, m.AwayScore = home, away
	return nil
}

func (s *Service) bestScores(ctx context.Context, week *model.GameWeek, m *model.Matchup) (int, int, error) {
	home, err := s.aggregate.BestPlayerScoreForPeriod(ctx, m.HomeTeamID, week.StartDate, week.EndDate)
	if err != nil {
		return 0, 0, err
	}
	away, err := s.aggregate.BestPlayerScoreForPeriod(ctx, m.AwayTeamID, week.StartDate, week.EndDate)
	if err != nil {
		return 0, 0, err
	}
	return home, away, nil
}

// RefreshLiveScores rescores the current week's pending matchups
func (s *Service) RefreshLiveScores(ctx context.Context) (*model.GameWeek, []*model.Matchup, error) {
	week, err := s.calendar.CurrentWeek(ctx)
	if err != nil {
		return nil, nil, err
	}
	matchups, err := s.storage.ListMatchupsForWeek(ctx, week.Number)
	if err != nil {
		return nil, nil, err
	}

	for _, m := range matchups {
		if m.IsResolved() {
			continue
		}
		if err := s.score(ctx, week, m); err != nil {
			return nil, nil, err
		}
		if err := s.storage.SaveMatchup(ctx, m); err != nil {
			return nil, nil, err
		}
	}

	s.logger.Info("live scores refreshed",
		slog.Int("week", week.Number),
		slog.Int("matchups", len(matchups)),
	)
	return week, matchups, nil
}

// Standings returns the teams in table order
func (s *Service) Standings(ctx context.Context) ([]*model.Team, error) {
	teams, err := s.storage.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	sortStandings(teams)
	return teams, nil
}

// sortStandings orders by league points, wins, OT wins, then name
func sortStandings(teams []*model.Team) {
	slices.SortStableFunc(teams, func(a, b *model.Team) int {
		if c := cmp.Compare(b.LeaguePoints, a.LeaguePoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(b.OTWins, a.OTWins); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// MatchupDetail returns a matchup with per-player breakdowns for both teams
func (s *Service) MatchupDetail(ctx context.Context, id model.MatchupID) (*MatchupDetail, error) {
	m, err := s.storage.GetMatchup(ctx, id)
	if err != nil {
		return nil, err
	}
	week, err := s.storage.GetGameWeek(ctx, m.WeekNumber)
	if err != nil {
		return nil, err
	}
	home, err := s.storage.GetTeam(ctx, m.HomeTeamID)
	if err != nil {
		return nil, err
	}
	away, err := s.storage.GetTeam(ctx, m.AwayTeamID)
	if err != nil {
		return nil, err
	}

	homePlayers, err := s.aggregate.PlayerScoresForPeriod(ctx, home.ID, week.StartDate, week.EndDate)
	if err != nil {
		return nil, err
	}
	awayPlayers, err := s.aggregate.PlayerScoresForPeriod(ctx, away.ID, week.StartDate, week.EndDate)
	if err != nil {
		return nil, err
	}

	return &MatchupDetail{
		Matchup:     m,
		Week:        week,
		HomeTeam:    home,
		AwayTeam:    away,
		HomePlayers: homePlayers,
		AwayPlayers: awayPlayers,
	}, nil
}
