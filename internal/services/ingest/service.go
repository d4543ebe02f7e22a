// Package ingest pulls schedules, boxscores, rosters and injuries from the
// external providers into the league.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/time/rate"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/nhl"
	"github.com/mcoot/fantasyhockey/internal/services/scoring"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// Provider supplies schedules, boxscores and rosters
type Provider interface {
	GamesOn(ctx context.Context, date civil.Date) ([]model.ScheduledGame, error)
	Boxscore(ctx context.Context, gameID model.GameID) (*nhl.Boxscore, error)
	Roster(ctx context.Context, teamAbbrev string) ([]nhl.RosterPlayer, error)
}

// InjuryReport lists players currently out, keyed by "First Last"
type InjuryReport interface {
	InjuredPlayers(ctx context.Context) (map[string]string, error)
}

// Config holds ingestion settings
type Config struct {
	// SweepDelay is the minimum gap between provider calls in a sweep
	SweepDelay time.Duration
	// Teams are the real-world clubs whose rosters are imported
	Teams    []string
	Location *time.Location
}

// DefaultConfig returns sensible defaults for ingestion
func DefaultConfig() Config {
	return Config{
		SweepDelay: 300 * time.Millisecond,
		Teams:      nhl.Teams,
		Location:   time.UTC,
	}
}

// GameResult counts what happened to each stat line of a game
type GameResult struct {
	GameID     model.GameID
	Recorded   int
	Duplicates int
	Unknown    int
	Failed     int
}

func (r *GameResult) add(other *GameResult) {
	r.Recorded += other.Recorded
	r.Duplicates += other.Duplicates
	r.Unknown += other.Unknown
	r.Failed += other.Failed
}

// RangeResult summarizes a sweep over a date range
type RangeResult struct {
	Start        civil.Date
	End          civil.Date
	Days         int
	FailedDays   int
	Games        int
	SkippedGames int
	FailedGames  int
	Lines        GameResult
}

// RosterResult summarizes a roster import
type RosterResult struct {
	Teams       int
	FailedTeams int
	Players     int
	Skipped     int
}

// Service ingests external data
type Service struct {
	storage  storage.Storage
	scoring  *scoring.Service
	provider Provider
	injuries InjuryReport
	clock    clock.Clock
	config   Config
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a new ingest Service
func New(
	storage storage.Storage,
	scoring *scoring.Service,
	provider Provider,
	injuries InjuryReport,
	clock clock.Clock,
	config Config,
	logger *slog.Logger,
) *Service {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.Teams == nil {
		config.Teams = nhl.Teams
	}
	limit := rate.Inf
	if config.SweepDelay > 0 {
		limit = rate.Every(config.SweepDelay)
	}
	return &Service{
		storage:  storage,
		scoring:  scoring,
		provider: provider,
		injuries: injuries,
		clock:    clock,
		config:   config,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With(slog.String("component", "ingest")),
	}
}

// IngestGame records every player line of a finished game, dated on the
// given day. Lines that fail are logged and skipped.
func (s *Service) IngestGame(ctx context.Context, gameID model.GameID, date civil.Date) (*GameResult, error) {
	box, err := s.provider.Boxscore(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if box.State != "" && !box.State.IsOver() {
		return nil, fmt.Errorf("%w: game %d is %s", model.ErrGameNotFinal, gameID, box.State)
	}

	result := &GameResult{GameID: gameID}
	s.ingestSide(ctx, result, gameID, date, box.Home, box.HomeScore > box.AwayScore)
	s.ingestSide(ctx, result, gameID, date, box.Away, box.AwayScore > box.HomeScore)

	s.logger.Info("game ingested",
		slog.Int64("game_id", int64(gameID)),
		slog.String("date", date.String()),
		slog.Int("recorded", result.Recorded),
		slog.Int("duplicates", result.Duplicates),
		slog.Int("unknown", result.Unknown),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) ingestSide(ctx context.Context, result *GameResult, gameID model.GameID, date civil.Date, lines nhl.TeamLines, won bool) {
	for _, sk := range lines.Skaters {
		created, err := s.scoring.RecordSkaterGame(ctx, model.SkaterLine{
			PlayerID:       sk.PlayerID,
			GameID:         gameID,
			Date:           date,
			Goals:          sk.Goals,
			Assists:        sk.Assists,
			PlusMinus:      sk.PlusMinus,
			Shots:          sk.Shots,
			Blocks:         sk.Blocks,
			Hits:           sk.Hits,
			PenaltyMinutes: sk.PenaltyMinutes,
		})
		s.tally(result, gameID, sk.PlayerID, created, err)
	}
	for _, g := range lines.Goalies {
		created, err := s.scoring.RecordGoalieGame(ctx, model.GoalieLine{
			PlayerID:     g.PlayerID,
			GameID:       gameID,
			Date:         date,
			Saves:        g.Saves,
			ShotsAgainst: g.ShotsAgainst,
			Win:          won,
		})
		s.tally(result, gameID, g.PlayerID, created, err)
	}
}

func (s *Service) tally(result *GameResult, gameID model.GameID, playerID model.PlayerID, created bool, err error) {
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		result.Unknown++
	case err != nil:
		result.Failed++
		s.logger.Warn("failed to record stat line",
			slog.Int64("game_id", int64(gameID)),
			slog.Int64("player_id", int64(playerID)),
			slog.String("error", err.Error()),
		)
	case created:
		result.Recorded++
	default:
		result.Duplicates++
	}
}

// IngestDateRange ingests every finished game from start to end inclusive,
// one provider call at a time. The sweep runs to completion even if the
// caller's context is cancelled; failed days and games are logged and skipped.
func (s *Service) IngestDateRange(ctx context.Context, start, end civil.Date) (*RangeResult, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", model.ErrInvalidDateRange, end, start)
	}
	ctx = context.WithoutCancel(ctx)

	s.logger.Info("date range sweep started",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
	)

	result := &RangeResult{Start: start, End: end}
	for day := start; !day.After(end); day = day.AddDays(1) {
		result.Days++
		s.ingestDay(ctx, result, day)
	}

	s.logger.Info("date range sweep finished",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("games", result.Games),
		slog.Int("failed_days", result.FailedDays),
		slog.Int("failed_games", result.FailedGames),
		slog.Int("recorded", result.Lines.Recorded),
	)
	return result, nil
}

func (s *Service) ingestDay(ctx context.Context, result *RangeResult, day civil.Date) {
	if err := s.limiter.Wait(ctx); err != nil {
		result.FailedDays++
		return
	}
	games, err := s.provider.GamesOn(ctx, day)
	if err != nil {
		result.FailedDays++
		s.logger.Error("failed to fetch schedule",
			slog.String("date", day.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, g := range games {
		if !g.State.IsOver() {
			result.SkippedGames++
			s.logger.Debug("skipping unfinished game",
				slog.Int64("game_id", int64(g.ID)),
				slog.String("state", string(g.State)),
			)
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			result.FailedGames++
			continue
		}
		gr, err := s.IngestGame(ctx, g.ID, day)
		if err != nil {
			result.FailedGames++
			s.logger.Error("failed to ingest game",
				slog.Int64("game_id", int64(g.ID)),
				slog.String("date", day.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Games++
		result.Lines.add(gr)
	}
}

// IngestYesterday ingests the games played yesterday in the league time zone
func (s *Service) IngestYesterday(ctx context.Context) (*RangeResult, error) {
	yesterday := clock.Today(s.clock, s.config.Location).AddDays(-1)
	return s.IngestDateRange(ctx, yesterday, yesterday)
}

// ImportRosters upserts every player on the configured clubs' current rosters.
// Injury flags of known players are kept.
func (s *Service) ImportRosters(ctx context.Context) (*RosterResult, error) {
	ctx = context.WithoutCancel(ctx)
	result := &RosterResult{}

	for _, team := range s.config.Teams {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		roster, err := s.provider.Roster(ctx, team)
		if err != nil {
			result.FailedTeams++
			s.logger.Error("failed to fetch roster",
				slog.String("team", team),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Teams++

		for _, rp := range roster {
			if err := s.upsertPlayer(ctx, team, rp); err != nil {
				result.Skipped++
				s.logger.Warn("skipping roster player",
					slog.String("team", team),
					slog.Int64("player_id", int64(rp.ID)),
					slog.String("error", err.Error()),
				)
				continue
			}
			result.Players++
		}
	}

	s.logger.Info("rosters imported",
		slog.Int("teams", result.Teams),
		slog.Int("failed_teams", result.FailedTeams),
		slog.Int("players", result.Players),
	)
	return result, nil
}

func (s *Service) upsertPlayer(ctx context.Context, team string, rp nhl.RosterPlayer) error {
	pos, err := model.ParsePosition(rp.Position)
	if err != nil {
		return err
	}

	player := &model.Player{ID: rp.ID}
	existing, err := s.storage.GetPlayer(ctx, rp.ID)
	switch {
	case err == nil:
		player = existing
	case !errors.Is(err, model.ErrPlayerNotFound):
		return err
	}

	player.FirstName = rp.FirstName
	player.LastName = rp.LastName
	player.Position = pos
	player.NHLTeam = team
	return s.storage.SavePlayer(ctx, player)
}

// UpdateInjuries sets every known player's injury flag from the injury
// report and returns how many players are flagged
func (s *Service) UpdateInjuries(ctx context.Context) (int, error) {
	report, err := s.injuries.InjuredPlayers(ctx)
	if err != nil {
		return 0, err
	}
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return 0, err
	}

	injured, changed := 0, 0
	for _, p := range players {
		_, out := report[p.FullName()]
		if out {
			injured++
		}
		if p.Injured == out {
			continue
		}
		p.Injured = out
		if err := s.storage.SavePlayer(ctx, p); err != nil {
			return 0, err
		}
		changed++
	}

	s.logger.Info("injury statuses updated",
		slog.Int("reported", len(report)),
		slog.Int("injured", injured),
		slog.Int("changed", changed),
	)
	return injured, nil
}
