// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"

	"github.com/mcoot/fantasyhockey/internal/espn"
	"github.com/mcoot/fantasyhockey/internal/nhl"
)

// Environment variable names
const (
	EnvStorageType         = "STORAGE_TYPE"
	EnvRedisURL            = "REDIS_URL"
	EnvPostgresConnString  = "POSTGRES_CONN_STR"
	EnvPort                = "PORT"
	EnvAdminToken          = "ADMIN_TOKEN"
	EnvSeasonStart         = "SEASON_START"
	EnvWeek1End            = "WEEK1_END"
	EnvTotalWeeks          = "TOTAL_WEEKS"
	EnvLeagueTimezone      = "LEAGUE_TIMEZONE"
	EnvNHLAPIURL           = "NHL_API_URL"
	EnvInjuryReportURL     = "INJURY_REPORT_URL"
	EnvSweepDelay          = "SWEEP_DELAY"
	EnvLockCacheTTL        = "LOCK_CACHE_TTL"
	EnvDailyUpdateInterval = "DAILY_UPDATE_INTERVAL"
	EnvLogLevel            = "LOG_LEVEL"
)

// Config holds every server setting
type Config struct {
	StorageType        string
	RedisURL           string
	PostgresConnString string
	Port               string
	AdminToken         string

	SeasonStart civil.Date
	Week1End    civil.Date
	TotalWeeks  int
	Location    *time.Location

	NHLAPIURL       string
	InjuryReportURL string

	SweepDelay          time.Duration
	LockCacheTTL        time.Duration
	DailyUpdateInterval time.Duration // zero disables the daily job

	LogLevel slog.Level
}

// Default returns the configuration used when no variables are set
func Default() Config {
	return Config{
		StorageType:         "memory",
		Port:                "8080",
		SeasonStart:         civil.Date{Year: 2025, Month: time.October, Day: 7},
		Week1End:            civil.Date{Year: 2025, Month: time.October, Day: 12},
		TotalWeeks:          20,
		Location:            locationOrUTC("America/New_York"),
		NHLAPIURL:           nhl.DefaultBaseURL,
		InjuryReportURL:     espn.DefaultInjuryReportURL,
		SweepDelay:          300 * time.Millisecond,
		LockCacheTTL:        30 * time.Second,
		DailyUpdateInterval: 24 * time.Hour,
		LogLevel:            slog.LevelInfo,
	}
}

func locationOrUTC(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads a .env file from the working directory when present, then
// builds the configuration from the process environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a variable lookup function
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	p := parser{getenv: getenv}

	p.str(EnvStorageType, &cfg.StorageType)
	p.str(EnvRedisURL, &cfg.RedisURL)
	p.str(EnvPostgresConnString, &cfg.PostgresConnString)
	p.str(EnvPort, &cfg.Port)
	p.str(EnvAdminToken, &cfg.AdminToken)
	p.date(EnvSeasonStart, &cfg.SeasonStart)
	p.date(EnvWeek1End, &cfg.Week1End)
	p.integer(EnvTotalWeeks, &cfg.TotalWeeks)
	p.location(EnvLeagueTimezone, &cfg.Location)
	p.str(EnvNHLAPIURL, &cfg.NHLAPIURL)
	p.str(EnvInjuryReportURL, &cfg.InjuryReportURL)
	p.duration(EnvSweepDelay, &cfg.SweepDelay)
	p.duration(EnvLockCacheTTL, &cfg.LockCacheTTL)
	p.duration(EnvDailyUpdateInterval, &cfg.DailyUpdateInterval)
	p.level(EnvLogLevel, &cfg.LogLevel)

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c Config) Validate() error {
	switch c.StorageType {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("%s required when %s=redis", EnvRedisURL, EnvStorageType)
		}
	case "postgres":
		if c.PostgresConnString == "" {
			return fmt.Errorf("%s required when %s=postgres", EnvPostgresConnString, EnvStorageType)
		}
	default:
		return fmt.Errorf("invalid %s %q: must be memory, redis or postgres", EnvStorageType, c.StorageType)
	}
	if c.Week1End.Before(c.SeasonStart) {
		return fmt.Errorf("%s %s is before %s %s", EnvWeek1End, c.Week1End, EnvSeasonStart, c.SeasonStart)
	}
	if c.TotalWeeks < 1 {
		return fmt.Errorf("%s must be at least 1", EnvTotalWeeks)
	}
	return nil
}

// parser records the first error met while reading variables
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v := p.getenv(key)
	return v, v != ""
}

func (p *parser) fail(key, value string, err error) {
	p.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.lookup(key); ok {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = n
}

func (p *parser) date(key string, dst *civil.Date) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	d, err := civil.ParseDate(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = d
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = d
}

func (p *parser) location(key string, dst **time.Location) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}
	*dst = loc
}

func (p *parser) level(key string, dst *slog.Level) {
	v, ok := p.lookup(key)
	if !ok {
		return
	}
	if err := dst.UnmarshalText([]byte(v)); err != nil {
		p.fail(key, v, err)
	}
}
