package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rob",
	Short: "Rescale all open brokerage positions by a uniform percentage",
	Long: `Rob adjusts every open equity position in a brokerage account up or
down by the same percentage, with a per-order review loop.

It provides tools for:
  - Viewing a portfolio snapshot (cash, positions, market values)
  - Planning and executing proportional buys or sells across all positions
  - Dry runs that show every order without submitting any
  - Automatic 2FA code generation from a TOTP secret
  - An SQLite audit journal of every run

Run with no arguments for the interactive mode.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var verbose bool

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to settings file (default ~/.config/rob/config.yaml)")

	cobra.OnInitialize(setupLogging)
}

var settingsPath string

func setupLogging() {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
}
