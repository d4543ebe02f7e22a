package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/fantasyhockey/internal/dependencies/clock"
	"github.com/mcoot/fantasyhockey/internal/dependencies/random"
	"github.com/mcoot/fantasyhockey/internal/espn"
	"github.com/mcoot/fantasyhockey/internal/nhl"
	"github.com/mcoot/fantasyhockey/internal/services/aggregate"
	"github.com/mcoot/fantasyhockey/internal/services/daily"
	"github.com/mcoot/fantasyhockey/internal/services/gate"
	"github.com/mcoot/fantasyhockey/internal/services/ingest"
	"github.com/mcoot/fantasyhockey/internal/services/schedule"
	"github.com/mcoot/fantasyhockey/internal/services/scoring"
	"github.com/mcoot/fantasyhockey/internal/services/standings"
	"github.com/mcoot/fantasyhockey/internal/storage"
	"github.com/mcoot/fantasyhockey/internal/storage/memory"
	"github.com/mcoot/fantasyhockey/internal/storage/postgres"
	redisstorage "github.com/mcoot/fantasyhockey/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// Compile-time checks that the real providers satisfy the service contracts
var (
	_ ingest.Provider     = (*nhl.Client)(nil)
	_ ingest.InjuryReport = (*espn.Client)(nil)
	_ gate.Schedule       = (*nhl.Client)(nil)
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService   *scoring.Service
	AggregateService *aggregate.Service
	ScheduleService  *schedule.Service
	StandingsService *standings.Service
	IngestService    *ingest.Service
	GateService      *gate.Service
	DailyRunner      *daily.Runner

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config

	Season   schedule.Config
	NHL      nhl.Config
	Injuries espn.Config
	Ingest   ingest.Config
	Gate     gate.Config
}

// DefaultConfig returns a memory-backed configuration talking to the
// production providers
func DefaultConfig() Config {
	return Config{
		StorageType: StorageTypeMemory,
		Season:      schedule.DefaultConfig(),
		NHL:         nhl.DefaultConfig(),
		Injuries:    espn.DefaultConfig(),
		Ingest:      ingest.DefaultConfig(),
		Gate:        gate.DefaultConfig(),
	}
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	var closer io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store, closer = redisStore, redisStore
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgres.New(ctx, *cfg.PostgresConfig, clk)
		if err != nil {
			return nil, err
		}
		store, closer = pgStore, pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	provider := nhl.New(cfg.NHL, logger)
	injuries := espn.New(cfg.Injuries, logger)

	app := newWithDependencies(store, clk, rnd, provider, injuries, cfg, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	provider ingest.Provider,
	injuries ingest.InjuryReport,
	cfg Config,
	logger *slog.Logger,
) *App {
	// The league time zone is shared by every date-aware service
	loc := cfg.Season.Location
	cfg.Ingest.Location = loc
	cfg.Gate.Location = loc

	// Create services
	scoringService := scoring.New(store, clk, logger)
	aggregateService := aggregate.New(store, logger)
	scheduleService := schedule.New(store, clk, rnd, cfg.Season, logger)
	standingsService := standings.New(store, aggregateService, scheduleService, logger)
	ingestService := ingest.New(store, scoringService, provider, injuries, clk, cfg.Ingest, logger)
	gateService := gate.New(provider, clk, cfg.Gate, logger)
	dailyRunner := daily.New(scheduleService, ingestService, standingsService, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		ScoringService:   scoringService,
		AggregateService: aggregateService,
		ScheduleService:  scheduleService,
		StandingsService: standingsService,
		IngestService:    ingestService,
		GateService:      gateService,
		DailyRunner:      dailyRunner,
	}
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
