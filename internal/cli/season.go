package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/fantasyhockey/internal/api/response"
)

func newSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Season lifecycle commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the season's weeks and matchups",
		Long: `Create every game week and round-robin matchup for the configured season.
Does nothing if the schedule already starts on the configured date; a schedule
for a different start date is deleted and rebuilt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SeasonInit
			if err := client.Post("/api/v1/season/init", nil, &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	var confirm bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the schedule and all stats, then rebuild the season",
		Long: `Delete every game week, matchup and stat record and zero every team's
record, then build a fresh schedule for the configured season. Rosters are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("season reset deletes all stats; pass --confirm to proceed")
			}
			var result response.SeasonInit
			if err := client.Post("/api/v1/season/reset", nil, &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
	resetCmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm deleting all season data")
	cmd.AddCommand(resetCmd)

	return cmd
}

func newWeeksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "Game week commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the current game week",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Week
			if err := client.Get("/api/v1/weeks/current", &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <number>",
		Short: "Show a game week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Week
			if err := client.Get(fmt.Sprintf("/api/v1/weeks/%s", args[0]), &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "matchups <number>",
		Short: "List a game week's matchups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.WeekMatchups
			if err := client.Get(fmt.Sprintf("/api/v1/weeks/%s/matchups", args[0]), &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func newMatchupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matchup <id>",
		Short: "Show a matchup with each player's points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.MatchupDetail
			if err := client.Get(fmt.Sprintf("/api/v1/matchups/%s", args[0]), &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
