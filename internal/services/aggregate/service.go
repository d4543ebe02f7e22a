// Package aggregate sums fantasy points of a team's roster over a date window.
package aggregate

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// PlayerScore is one roster player's point total for a window
type PlayerScore struct {
	Player *model.Player
	Points int
	Games  int
}

// Service aggregates stat records per team.
// Aggregation uses each team's current roster, not the roster at game time.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new aggregate Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "aggregate")),
	}
}

// TeamScoreForPeriod sums the points of every roster player dated in [start, end]
func (s *Service) TeamScoreForPeriod(ctx context.Context, teamID model.TeamID, start, end civil.Date) (int, error) {
	scores, err := s.PlayerScoresForPeriod(ctx, teamID, start, end)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, ps := range scores {
		total += ps.Points
	}
	return total, nil
}

// BestPlayerScoreForPeriod returns the highest single-player total in the
// window, or 0 for an empty roster
func (s *Service) BestPlayerScoreForPeriod(ctx context.Context, teamID model.TeamID, start, end civil.Date) (int, error) {
	scores, err := s.PlayerScoresForPeriod(ctx, teamID, start, end)
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, nil
	}
	return scores[0].Points, nil
}

// PlayerScoresForPeriod returns every roster player's total in the window,
// highest first. Ties are ordered by player ID.
func (s *Service) PlayerScoresForPeriod(ctx context.Context, teamID model.TeamID, start, end civil.Date) ([]PlayerScore, error) {
	if end.Before(start) {
		return nil, model.ErrInvalidDateRange
	}

	team, err := s.storage.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	scores := make([]PlayerScore, 0, len(team.PlayerIDs))
	for _, playerID := range team.PlayerIDs {
		player, err := s.storage.GetPlayer(ctx, playerID)
		if err != nil {
			s.logger.Warn("roster player missing from directory",
				slog.String("team_id", string(teamID)),
				slog.Int64("player_id", int64(playerID)),
			)
			player = &model.Player{ID: playerID}
		}

		records, err := s.storage.ListStatRecords(ctx, playerID, start, end)
		if err != nil {
			return nil, err
		}
		ps := PlayerScore{Player: player, Games: len(records)}
		for _, r := range records {
			ps.Points += r.FantasyPoints
		}
		scores = append(scores, ps)
	}

	slices.SortStableFunc(scores, func(a, b PlayerScore) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.Player.ID, b.Player.ID)
	})
	return scores, nil
}
