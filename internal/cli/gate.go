package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/fantasyhockey/internal/api/response"
)

// GameStatuses is today's per-team game state as printed by the CLI
type GameStatuses []response.GameStatus

func newLockedTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locked-teams",
		Short: "List the NHL teams whose game today has started",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.LockedTeams
			if err := client.Get("/api/v1/locked-teams", &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "game-statuses",
		Short: "Show the game state of every NHL team playing today",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameStatuses
			if err := client.Get("/api/v1/game-statuses", &result); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
