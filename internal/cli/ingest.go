package cli

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/mcoot/fantasyhockey/internal/api/request"
	"github.com/mcoot/fantasyhockey/internal/api/response"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Stat, roster and injury ingestion commands",
	}

	cmd.AddCommand(newIngestGameCmd())
	cmd.AddCommand(newIngestRangeCmd())
	cmd.AddCommand(newIngestRostersCmd())
	cmd.AddCommand(newIngestInjuriesCmd())

	return cmd
}

// parseDateFlag validates a YYYY-MM-DD flag value
func parseDateFlag(name, value string) (civil.Date, error) {
	if value == "" {
		return civil.Date{}, fmt.Errorf("--%s is required", name)
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("--%s: expected YYYY-MM-DD: %w", name, err)
	}
	return d, nil
}

func newIngestGameCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "game <game-id>",
		Short: "Record every player line of a finished game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}

			var result response.GameIngest
			req := map[string]civil.Date{"date": d}
			if err := client.Post(fmt.Sprintf("/api/v1/ingest/games/%s", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date the game was played (YYYY-MM-DD)")

	return cmd
}

func newIngestRangeCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Ingest every finished game between two dates, inclusive",
		Long: fmt.Sprintf(`Ingest every finished game between two dates, inclusive.

The server sweeps the range synchronously, so a request may cover at most %d
days. Split a longer backfill into several ranges.`, request.MaxIngestRangeDays),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			e, err := parseDateFlag("end", end)
			if err != nil {
				return err
			}
			if e.Before(s) {
				return errors.New("--end is before --start")
			}
			if days := e.DaysSince(s) + 1; days > request.MaxIngestRangeDays {
				return fmt.Errorf("range covers %d days; at most %d per request", days, request.MaxIngestRangeDays)
			}

			var result response.RangeIngest
			req := map[string]civil.Date{"start": s, "end": e}
			if err := client.Post("/api/v1/ingest/range", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last date (YYYY-MM-DD)")

	return cmd
}

func newIngestRostersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rosters",
		Short: "Import every club's current roster into the player directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.RosterImport
			if err := client.Post("/api/v1/rosters/import", nil, &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newIngestInjuriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "injuries",
		Short: "Refresh player injury flags from the injury report",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.InjuryUpdate
			if err := client.Post("/api/v1/injuries/update", nil, &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
