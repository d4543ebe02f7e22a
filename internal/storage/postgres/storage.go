package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// Config holds PostgreSQL connection settings
type Config struct {
	// ConnString is a libpq-style connection string or URL
	ConnString string
	// MaxConns caps the pool size; zero keeps the pgxpool default
	MaxConns int32
}

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

// New connects to PostgreSQL, verifies the connection and applies the schema
func New(ctx context.Context, cfg Config, clk clock.Clock) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("error parsing connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &Storage{pool: pool, clock: clk}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the idempotent schema
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func toTime(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// Team operations

const upsertTeam = `INSERT INTO teams (id, name, owner_name, player_ids, wins, losses, ot_wins, ot_losses, league_points)
	VALUES (@id, @name, @ownerName, @playerIDs, @wins, @losses, @otWins, @otLosses, @leaguePoints)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		owner_name = EXCLUDED.owner_name,
		player_ids = EXCLUDED.player_ids,
		wins = EXCLUDED.wins,
		losses = EXCLUDED.losses,
		ot_wins = EXCLUDED.ot_wins,
		ot_losses = EXCLUDED.ot_losses,
		league_points = EXCLUDED.league_points`

func namedArgsForTeam(t *model.Team) pgx.NamedArgs {
	playerIDs := make([]int64, len(t.PlayerIDs))
	for i, id := range t.PlayerIDs {
		playerIDs[i] = int64(id)
	}
	return pgx.NamedArgs{
		"id":           string(t.ID),
		"name":         t.Name,
		"ownerName":    t.OwnerName,
		"playerIDs":    playerIDs,
		"wins":         t.Wins,
		"losses":       t.Losses,
		"otWins":       t.OTWins,
		"otLosses":     t.OTLosses,
		"leaguePoints": t.LeaguePoints,
	}
}

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	_, err := s.pool.Exec(ctx, upsertTeam, namedArgsForTeam(team))
	return err
}

func (s *Storage) SaveTeams(ctx context.Context, teams []*model.Team) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, team := range teams {
		if _, err := tx.Exec(ctx, upsertTeam, namedArgsForTeam(team)); err != nil {
			return fmt.Errorf("error saving team %s: %w", team.ID, err)
		}
	}
	return tx.Commit(ctx)
}

const selectTeams = `SELECT id, name, owner_name, player_ids, wins, losses, ot_wins, ot_losses, league_points FROM teams`

func scanTeam(row pgx.Row) (*model.Team, error) {
	var (
		t         model.Team
		id        string
		playerIDs []int64
	)
	if err := row.Scan(&id, &t.Name, &t.OwnerName, &playerIDs, &t.Wins, &t.Losses, &t.OTWins, &t.OTLosses, &t.LeaguePoints); err != nil {
		return nil, err
	}
	t.ID = model.TeamID(id)
	t.PlayerIDs = make([]model.PlayerID, len(playerIDs))
	for i, pid := range playerIDs {
		t.PlayerIDs[i] = model.PlayerID(pid)
	}
	return &t, nil
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	row := s.pool.QueryRow(ctx, selectTeams+` WHERE id = @id`, pgx.NamedArgs{"id": string(id)})
	team, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Team, error) {
	rows, err := s.pool.Query(ctx, selectTeams+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Team, error) {
		return scanTeam(row)
	})
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	const query = `INSERT INTO players (id, first_name, last_name, position, nhl_team, injured)
		VALUES (@id, @firstName, @lastName, @position, @nhlTeam, @injured)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			position = EXCLUDED.position,
			nhl_team = EXCLUDED.nhl_team,
			injured = EXCLUDED.injured`

	_, err := s.pool.Exec(ctx, query, pgx.NamedArgs{
		"id":        int64(player.ID),
		"firstName": player.FirstName,
		"lastName":  player.LastName,
		"position":  string(player.Position),
		"nhlTeam":   player.NHLTeam,
		"injured":   player.Injured,
	})
	return err
}

const selectPlayers = `SELECT id, first_name, last_name, position, nhl_team, injured FROM players`

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var (
		p        model.Player
		id       int64
		position string
	)
	if err := row.Scan(&id, &p.FirstName, &p.LastName, &position, &p.NHLTeam, &p.Injured); err != nil {
		return nil, err
	}
	p.ID = model.PlayerID(id)
	p.Position = model.Position(position)
	return &p, nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.pool.QueryRow(ctx, selectPlayers+` WHERE id = @id`, pgx.NamedArgs{"id": int64(id)})
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.pool.Query(ctx, selectPlayers+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Player, error) {
		return scanPlayer(row)
	})
}

// Stat record operations

func (s *Storage) InsertStatRecord(ctx context.Context, record *model.StatRecord) error {
	const query = `INSERT INTO stat_records (player_id, game_id, game_date, goalie,
			goals, assists, plus_minus, shots, blocks, hits, penalty_minutes,
			saves, shots_against, goals_against, win, fantasy_points, recorded_at)
		VALUES (@playerID, @gameID, @gameDate, @goalie,
			@goals, @assists, @plusMinus, @shots, @blocks, @hits, @pim,
			@saves, @shotsAgainst, @goalsAgainst, @win, @fantasyPoints, @recordedAt)`

	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.clock.Now()
	}

	_, err := s.pool.Exec(ctx, query, pgx.NamedArgs{
		"playerID":      int64(record.PlayerID),
		"gameID":        int64(record.GameID),
		"gameDate":      toTime(record.Date),
		"goalie":        record.Goalie,
		"goals":         record.Goals,
		"assists":       record.Assists,
		"plusMinus":     record.PlusMinus,
		"shots":         record.Shots,
		"blocks":        record.Blocks,
		"hits":          record.Hits,
		"pim":           record.PenaltyMinutes,
		"saves":         record.Saves,
		"shotsAgainst":  record.ShotsAgainst,
		"goalsAgainst":  record.GoalsAgainst,
		"win":           record.Win,
		"fantasyPoints": record.FantasyPoints,
		"recordedAt":    recordedAt.UTC(),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrDuplicateStatRecord
		}
		return err
	}
	return nil
}

func (s *Storage) StatRecordExists(ctx context.Context, playerID model.PlayerID, gameID model.GameID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM stat_records WHERE player_id = @playerID AND game_id = @gameID)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, pgx.NamedArgs{
		"playerID": int64(playerID),
		"gameID":   int64(gameID),
	}).Scan(&exists)
	return exists, err
}

func (s *Storage) ListStatRecords(ctx context.Context, playerID model.PlayerID, start, end civil.Date) ([]*model.StatRecord, error) {
	const query = `SELECT player_id, game_id, game_date, goalie,
			goals, assists, plus_minus, shots, blocks, hits, penalty_minutes,
			saves, shots_against, goals_against, win, fantasy_points, recorded_at
		FROM stat_records
		WHERE player_id = @playerID AND game_date BETWEEN @start AND @end
		ORDER BY game_date, game_id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{
		"playerID": int64(playerID),
		"start":    toTime(start),
		"end":      toTime(end),
	})
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.StatRecord, error) {
		var (
			r        model.StatRecord
			pid, gid int64
			gameDate time.Time
		)
		err := row.Scan(&pid, &gid, &gameDate, &r.Goalie,
			&r.Goals, &r.Assists, &r.PlusMinus, &r.Shots, &r.Blocks, &r.Hits, &r.PenaltyMinutes,
			&r.Saves, &r.ShotsAgainst, &r.GoalsAgainst, &r.Win, &r.FantasyPoints, &r.RecordedAt)
		if err != nil {
			return nil, err
		}
		r.PlayerID = model.PlayerID(pid)
		r.GameID = model.GameID(gid)
		r.Date = civil.DateOf(gameDate)
		return &r, nil
	})
}

func (s *Storage) DeleteAllStatRecords(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE stat_records`)
	return err
}

// Game week operations

func (s *Storage) SaveGameWeek(ctx context.Context, week *model.GameWeek) error {
	const query = `INSERT INTO game_weeks (number, start_date, end_date, is_current, is_completed)
		VALUES (@number, @startDate, @endDate, @isCurrent, @isCompleted)
		ON CONFLICT (number) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			is_current = EXCLUDED.is_current,
			is_completed = EXCLUDED.is_completed`

	_, err := s.pool.Exec(ctx, query, pgx.NamedArgs{
		"number":      week.Number,
		"startDate":   toTime(week.StartDate),
		"endDate":     toTime(week.EndDate),
		"isCurrent":   week.IsCurrent,
		"isCompleted": week.IsCompleted,
	})
	return err
}

const selectWeeks = `SELECT number, start_date, end_date, is_current, is_completed FROM game_weeks`

func scanWeek(row pgx.Row) (*model.GameWeek, error) {
	var (
		w          model.GameWeek
		start, end time.Time
	)
	if err := row.Scan(&w.Number, &start, &end, &w.IsCurrent, &w.IsCompleted); err != nil {
		return nil, err
	}
	w.StartDate = civil.DateOf(start)
	w.EndDate = civil.DateOf(end)
	return &w, nil
}

func (s *Storage) GetGameWeek(ctx context.Context, number int) (*model.GameWeek, error) {
	row := s.pool.QueryRow(ctx, selectWeeks+` WHERE number = @number`, pgx.NamedArgs{"number": number})
	week, err := scanWeek(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWeekNotFound
		}
		return nil, err
	}
	return week, nil
}

func (s *Storage) ListGameWeeks(ctx context.Context) ([]*model.GameWeek, error) {
	rows, err := s.pool.Query(ctx, selectWeeks+` ORDER BY number`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.GameWeek, error) {
		return scanWeek(row)
	})
}

// Matchup operations

func (s *Storage) SaveMatchup(ctx context.Context, matchup *model.Matchup) error {
	const query = `INSERT INTO matchups (id, week_number, home_team_id, away_team_id, home_score, away_score, winner_id, overtime, status)
		VALUES (@id, @weekNumber, @homeTeamID, @awayTeamID, @homeScore, @awayScore, @winnerID, @overtime, @status)
		ON CONFLICT (id) DO UPDATE SET
			week_number = EXCLUDED.week_number,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			winner_id = EXCLUDED.winner_id,
			overtime = EXCLUDED.overtime,
			status = EXCLUDED.status`

	var winner *string
	if matchup.Winner != nil {
		w := string(*matchup.Winner)
		winner = &w
	}
	status := matchup.Status
	if status == "" {
		status = model.MatchupStatusPending
	}

	_, err := s.pool.Exec(ctx, query, pgx.NamedArgs{
		"id":         string(matchup.ID),
		"weekNumber": matchup.WeekNumber,
		"homeTeamID": string(matchup.HomeTeamID),
		"awayTeamID": string(matchup.AwayTeamID),
		"homeScore":  matchup.HomeScore,
		"awayScore":  matchup.AwayScore,
		"winnerID":   winner,
		"overtime":   matchup.Overtime,
		"status":     string(status),
	})
	return err
}

const selectMatchups = `SELECT id, week_number, home_team_id, away_team_id, home_score, away_score, winner_id, overtime, status FROM matchups`

func scanMatchup(row pgx.Row) (*model.Matchup, error) {
	var (
		m                    model.Matchup
		id, home, away, stat string
		winner               *string
	)
	if err := row.Scan(&id, &m.WeekNumber, &home, &away, &m.HomeScore, &m.AwayScore, &winner, &m.Overtime, &stat); err != nil {
		return nil, err
	}
	m.ID = model.MatchupID(id)
	m.HomeTeamID = model.TeamID(home)
	m.AwayTeamID = model.TeamID(away)
	m.Status = model.MatchupStatus(stat)
	if winner != nil {
		w := model.TeamID(*winner)
		m.Winner = &w
	}
	return &m, nil
}

func (s *Storage) GetMatchup(ctx context.Context, id model.MatchupID) (*model.Matchup, error) {
	row := s.pool.QueryRow(ctx, selectMatchups+` WHERE id = @id`, pgx.NamedArgs{"id": string(id)})
	matchup, err := scanMatchup(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMatchupNotFound
		}
		return nil, err
	}
	return matchup, nil
}

func (s *Storage) ListMatchups(ctx context.Context) ([]*model.Matchup, error) {
	return s.queryMatchups(ctx, selectMatchups+` ORDER BY week_number, id`, nil)
}

func (s *Storage) ListMatchupsForWeek(ctx context.Context, weekNumber int) ([]*model.Matchup, error) {
	return s.queryMatchups(ctx, selectMatchups+` WHERE week_number = @weekNumber ORDER BY id`,
		pgx.NamedArgs{"weekNumber": weekNumber})
}

func (s *Storage) queryMatchups(ctx context.Context, query string, args pgx.NamedArgs) ([]*model.Matchup, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = s.pool.Query(ctx, query)
	} else {
		rows, err = s.pool.Query(ctx, query, args)
	}
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Matchup, error) {
		return scanMatchup(row)
	})
}

func (s *Storage) DeleteSchedule(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM matchups`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM game_weeks`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
