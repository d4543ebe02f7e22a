package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "fhctl",
		Short: "Admin CLI for the fantasy hockey league server",
		Long: `fhctl drives the fantasy hockey league admin API.

It initializes the season, ingests NHL stats, recomputes standings and
reports weeks, matchups and which real-world teams are locked today.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cfg.Output {
			case "text", "json":
			default:
				return fmt.Errorf("unknown output format %q", cfg.Output)
			}
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: FHL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Admin token (env: FHL_ADMIN_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSeasonCmd())
	rootCmd.AddCommand(newWeeksCmd())
	rootCmd.AddCommand(newMatchupCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newStandingsCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newLockedTeamsCmd())
	rootCmd.AddCommand(newGameStatusesCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
