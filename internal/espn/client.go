// Package espn scrapes the public ESPN NHL injury report.
package espn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// DefaultInjuryReportURL is the production injury report page
const DefaultInjuryReportURL = "https://www.espn.com/nhl/injuries"

// dayToDay marks an injury that does not keep a player out
const dayToDay = "Day-To-Day"

// Config holds scraper settings
type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults for the scraper
func DefaultConfig() Config {
	return Config{
		URL:       DefaultInjuryReportURL,
		Timeout:   30 * time.Second,
		UserAgent: "fantasyhockey/1.0",
	}
}

// Client reads the injury report
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new injury report scraper
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultInjuryReportURL
	}
	return &Client{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With(slog.String("component", "espn-scraper")),
	}
}

// InjuredPlayers returns the status of every player listed as out,
// keyed by "First Last". Day-to-day entries are left out.
func (c *Client) InjuredPlayers(ctx context.Context) (map[string]string, error) {
	doc, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	injured := make(map[string]string)
	doc.Find(".Table__TBODY tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		status := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" || strings.EqualFold(status, dayToDay) {
			return
		}
		injured[name] = status
	})

	c.logger.Info("scraped injury report", slog.Int("injured", len(injured)))
	return injured, nil
}

func (c *Client) fetch(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: error creating injury report request: %w", model.ErrExternalFetch, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", model.ErrExternalFetch, c.url, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: unexpected status code %d", model.ErrExternalFetch, c.url, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing injury report: %w", model.ErrExternalFetch, err)
	}
	return doc, nil
}
