// Package daily runs the league's once-a-day maintenance pass.
package daily

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/services/ingest"
)

// Weeks advances game week flags
type Weeks interface {
	RefreshWeekStatuses(ctx context.Context) error
}

// Ingester pulls injuries and results from the providers
type Ingester interface {
	UpdateInjuries(ctx context.Context) (int, error)
	IngestYesterday(ctx context.Context) (*ingest.RangeResult, error)
}

// Standings refreshes matchup scores and team records
type Standings interface {
	RefreshLiveScores(ctx context.Context) (*model.GameWeek, []*model.Matchup, error)
	RecomputeStandings(ctx context.Context) ([]*model.Team, error)
}

// Runner performs the daily update
type Runner struct {
	weeks     Weeks
	ingester  Ingester
	standings Standings
	logger    *slog.Logger
}

// New creates a new daily Runner
func New(weeks Weeks, ingester Ingester, standings Standings, logger *slog.Logger) *Runner {
	return &Runner{
		weeks:     weeks,
		ingester:  ingester,
		standings: standings,
		logger:    logger.With(slog.String("component", "daily")),
	}
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

func (r *Runner) steps() []step {
	return []step{
		{"refresh week statuses", r.weeks.RefreshWeekStatuses},
		{"update injuries", func(ctx context.Context) error {
			_, err := r.ingester.UpdateInjuries(ctx)
			return err
		}},
		{"ingest yesterday", func(ctx context.Context) error {
			_, err := r.ingester.IngestYesterday(ctx)
			return err
		}},
		{"refresh live scores", func(ctx context.Context) error {
			_, _, err := r.standings.RefreshLiveScores(ctx)
			if errors.Is(err, model.ErrNoCurrentWeek) {
				return nil
			}
			return err
		}},
		{"recompute standings", func(ctx context.Context) error {
			_, err := r.standings.RecomputeStandings(ctx)
			return err
		}},
	}
}

// RunOnce performs every step in order. A failed step is logged and the
// rest still run; the failures are returned joined.
func (r *Runner) RunOnce(ctx context.Context) error {
	start := time.Now()
	var errs []error
	for _, st := range r.steps() {
		if err := st.run(ctx); err != nil {
			r.logger.Error("daily update step failed",
				slog.String("step", st.name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
		}
	}

	r.logger.Info("daily update finished",
		slog.Int("failed_steps", len(errs)),
		slog.Duration("duration", time.Since(start)),
	)
	return errors.Join(errs...)
}

// Run performs the daily update every interval until ctx is cancelled
func (r *Runner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("daily updates scheduled", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("daily updates stopped")
			return
		case <-ticker.C:
			_ = r.RunOnce(ctx)
		}
	}
}
