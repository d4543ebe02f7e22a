package storage

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// Storage defines the interface for data persistence.
// List operations return results in a stable order: teams and players by ID,
// weeks by number, matchups by week then ID, stat records by date then game.
type Storage interface {
	// Team operations
	SaveTeam(ctx context.Context, team *model.Team) error
	SaveTeams(ctx context.Context, teams []*model.Team) error
	GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error)
	ListTeams(ctx context.Context) ([]*model.Team, error)

	// Player directory operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Stat record operations. InsertStatRecord returns
	// model.ErrDuplicateStatRecord when the (player, game) pair exists.
	InsertStatRecord(ctx context.Context, record *model.StatRecord) error
	StatRecordExists(ctx context.Context, playerID model.PlayerID, gameID model.GameID) (bool, error)
	ListStatRecords(ctx context.Context, playerID model.PlayerID, start, end civil.Date) ([]*model.StatRecord, error)
	DeleteAllStatRecords(ctx context.Context) error

	// Game week operations
	SaveGameWeek(ctx context.Context, week *model.GameWeek) error
	GetGameWeek(ctx context.Context, number int) (*model.GameWeek, error)
	ListGameWeeks(ctx context.Context) ([]*model.GameWeek, error)

	// Matchup operations
	SaveMatchup(ctx context.Context, matchup *model.Matchup) error
	GetMatchup(ctx context.Context, id model.MatchupID) (*model.Matchup, error)
	ListMatchups(ctx context.Context) ([]*model.Matchup, error)
	ListMatchupsForWeek(ctx context.Context, weekNumber int) ([]*model.Matchup, error)

	// DeleteSchedule removes every game week and matchup
	DeleteSchedule(ctx context.Context) error
}
