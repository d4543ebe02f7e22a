package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// Scoring weights, in tenths of a fantasy point
const (
	tenthsPerGoal          = 30
	tenthsPerAssist        = 30
	tenthsPerPlusMinus     = 10
	tenthsPerShot          = 5
	tenthsPerBlock         = 10
	tenthsPerHit           = 5
	tenthsPerPenaltyMinute = -1
	tenthsHatTrickBonus    = 30

	tenthsPerSave        = 2
	tenthsPerGoalAgainst = -10
	tenthsShutoutBonus   = 30

	hatTrickGoals = 3
)

// SkaterPoints returns the fantasy points of a skater line, rounded half up
func SkaterPoints(line model.SkaterLine) int {
	tenths := tenthsPerGoal*line.Goals +
		tenthsPerAssist*line.Assists +
		tenthsPerPlusMinus*line.PlusMinus +
		tenthsPerShot*line.Shots +
		tenthsPerBlock*line.Blocks +
		tenthsPerHit*line.Hits +
		tenthsPerPenaltyMinute*line.PenaltyMinutes
	if line.Goals >= hatTrickGoals {
		tenths += tenthsHatTrickBonus
	}
	return roundTenths(tenths)
}

// GoaliePoints returns the fantasy points of a goalie line, rounded half up.
// The win flag carries no points.
func GoaliePoints(line model.GoalieLine) int {
	tenths := tenthsPerSave*line.Saves + tenthsPerGoalAgainst*line.GoalsAgainst()
	if IsShutout(line) {
		tenths += tenthsShutoutBonus
	}
	return roundTenths(tenths)
}

// IsShutout reports whether the goalie faced shots and allowed none
func IsShutout(line model.GoalieLine) bool {
	return line.ShotsAgainst > 0 && line.GoalsAgainst() == 0
}

// roundTenths rounds a tenths value half up, toward positive infinity
func roundTenths(tenths int) int {
	n := tenths + 5
	q := n / 10
	if n%10 != 0 && n < 0 {
		q--
	}
	return q
}

func validateSkater(line model.SkaterLine) error {
	for _, v := range []int{line.Goals, line.Assists, line.Shots, line.Blocks, line.Hits, line.PenaltyMinutes} {
		if v < 0 {
			return fmt.Errorf("%w: negative skater stat for player %d", model.ErrInvalidStatLine, line.PlayerID)
		}
	}
	return nil
}

func validateGoalie(line model.GoalieLine) error {
	if line.Saves < 0 || line.ShotsAgainst < 0 {
		return fmt.Errorf("%w: negative goalie stat for player %d", model.ErrInvalidStatLine, line.PlayerID)
	}
	if line.Saves > line.ShotsAgainst {
		return fmt.Errorf("%w: %d saves on %d shots for player %d",
			model.ErrInvalidStatLine, line.Saves, line.ShotsAgainst, line.PlayerID)
	}
	return nil
}

// Service records per-game stat lines as fantasy point records
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new scoring Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "scoring")),
	}
}

// RecordSkaterGame scores and persists one skater line. It reports false
// without error when the game was already recorded for the player.
func (s *Service) RecordSkaterGame(ctx context.Context, line model.SkaterLine) (bool, error) {
	if done, err := s.alreadyRecorded(ctx, line.PlayerID, line.GameID); done || err != nil {
		return false, err
	}
	if err := validateSkater(line); err != nil {
		return false, err
	}
	record := &model.StatRecord{
		PlayerID:       line.PlayerID,
		GameID:         line.GameID,
		Date:           line.Date,
		Goals:          line.Goals,
		Assists:        line.Assists,
		PlusMinus:      line.PlusMinus,
		Shots:          line.Shots,
		Blocks:         line.Blocks,
		Hits:           line.Hits,
		PenaltyMinutes: line.PenaltyMinutes,
		FantasyPoints:  SkaterPoints(line),
	}
	return s.record(ctx, record)
}

// RecordGoalieGame scores and persists one goalie line. It reports false
// without error when the game was already recorded for the player.
func (s *Service) RecordGoalieGame(ctx context.Context, line model.GoalieLine) (bool, error) {
	if done, err := s.alreadyRecorded(ctx, line.PlayerID, line.GameID); done || err != nil {
		return false, err
	}
	if err := validateGoalie(line); err != nil {
		return false, err
	}
	record := &model.StatRecord{
		PlayerID:      line.PlayerID,
		GameID:        line.GameID,
		Date:          line.Date,
		Goalie:        true,
		Saves:         line.Saves,
		ShotsAgainst:  line.ShotsAgainst,
		GoalsAgainst:  line.GoalsAgainst(),
		Win:           line.Win,
		FantasyPoints: GoaliePoints(line),
	}
	return s.record(ctx, record)
}

// alreadyRecorded is checked before any line is validated or scored, so a
// re-ingested game is a no-op whatever its current content
func (s *Service) alreadyRecorded(ctx context.Context, playerID model.PlayerID, gameID model.GameID) (bool, error) {
	exists, err := s.storage.StatRecordExists(ctx, playerID, gameID)
	if err != nil {
		return false, err
	}
	if exists {
		s.logger.Debug("stat record already exists",
			slog.Int64("player_id", int64(playerID)),
			slog.Int64("game_id", int64(gameID)),
		)
	}
	return exists, nil
}

func (s *Service) record(ctx context.Context, record *model.StatRecord) (bool, error) {
	if _, err := s.storage.GetPlayer(ctx, record.PlayerID); err != nil {
		return false, err
	}

	record.RecordedAt = s.clock.Now()
	if err := s.storage.InsertStatRecord(ctx, record); err != nil {
		if errors.Is(err, model.ErrDuplicateStatRecord) {
			return false, nil
		}
		s.logger.Error("failed to save stat record",
			slog.Int64("player_id", int64(record.PlayerID)),
			slog.Int64("game_id", int64(record.GameID)),
			slog.String("error", err.Error()),
		)
		return false, err
	}

	s.logger.Info("stat record saved",
		slog.Int64("player_id", int64(record.PlayerID)),
		slog.Int64("game_id", int64(record.GameID)),
		slog.String("date", record.Date.String()),
		slog.Int("fantasy_points", record.FantasyPoints),
	)
	return true, nil
}
