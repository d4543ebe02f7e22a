// Package nhl is a read-only client for the public NHL web API, which
// supplies daily schedules, per-game boxscores and team rosters.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// DefaultBaseURL is the production NHL web API
const DefaultBaseURL = "https://api-web.nhle.com"

// Teams lists the abbreviations of every current NHL club
var Teams = []string{
	"ANA", "BOS", "BUF", "CGY", "CAR", "CHI", "COL", "CBJ", "DAL", "DET",
	"EDM", "FLA", "LAK", "MIN", "MTL", "NSH", "NJD", "NYI", "NYR", "OTT",
	"PHI", "PIT", "SJS", "SEA", "STL", "TBL", "TOR", "UTA", "VAN", "VGK",
	"WSH", "WPG",
}

// Config holds NHL API client settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults for the NHL API client
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: "fantasyhockey/1.0",
	}
}

// Client fetches data from the NHL web API
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new NHL API client
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With(slog.String("component", "nhl-client")),
	}
}

// GamesOn returns the games scheduled on the given date.
// The schedule endpoint answers with a whole week; only the requested day is kept.
func (c *Client) GamesOn(ctx context.Context, date civil.Date) ([]model.ScheduledGame, error) {
	var resp scheduleResponse
	if err := c.get(ctx, "/v1/schedule/"+date.String(), &resp); err != nil {
		return nil, err
	}

	want := date.String()
	games := []model.ScheduledGame{}
	for _, day := range resp.GameWeek {
		if day.Date != want {
			continue
		}
		for _, g := range day.Games {
			games = append(games, g.toModel())
		}
	}
	return games, nil
}

// Boxscore returns the per-player stat sheet for a game
func (c *Client) Boxscore(ctx context.Context, gameID model.GameID) (*Boxscore, error) {
	var resp boxscoreResponse
	if err := c.get(ctx, fmt.Sprintf("/v1/gamecenter/%d/boxscore", gameID), &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		resp.ID = int64(gameID)
	}
	return resp.toModel(), nil
}

// Roster returns the current roster of a real-world team
func (c *Client) Roster(ctx context.Context, teamAbbrev string) ([]RosterPlayer, error) {
	var resp rosterResponse
	if err := c.get(ctx, "/v1/roster/"+strings.ToUpper(teamAbbrev)+"/current", &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// get performs a GET request and decodes the JSON body.
// Every failure is reported as model.ErrExternalFetch.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: error creating request for %s: %w", model.ErrExternalFetch, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", model.ErrExternalFetch, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("nhl api request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: unexpected status code %d", model.ErrExternalFetch, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: error parsing response from %s: %w", model.ErrExternalFetch, path, err)
	}
	return nil
}
