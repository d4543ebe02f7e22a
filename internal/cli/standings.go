package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/fantasyhockey/internal/api/response"
)

// Table is the league table as printed by the CLI
type Table []response.Standing

func newStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "League table commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the league table",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Table
			if err := client.Get("/api/v1/standings", &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recompute",
		Short: "Rebuild every team's record from finished weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Table
			if err := client.Post("/api/v1/standings/recompute", nil, &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Matchup score commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "live",
		Short: "Rescore the current week's pending matchups",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.LiveScores
			if err := client.Post("/api/v1/scores/live", nil, &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
