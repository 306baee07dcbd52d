package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/rob/portfolio"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Adjust all positions by a percentage",
	Long: `Adjust every open position up or down by the same percentage.

Each planned order is presented for review: ENTER executes it, 'skip'
passes, 'abort' stops the run. With --no-confirm every order executes
without prompting; with --dry-run nothing is submitted.

Examples:
  rob adjust --action increase --percentage 5
  rob adjust -a decrease -p 10 --dry-run
  rob adjust -a increase -p 2.5 --no-confirm`,
	RunE: runAdjust,
}

var (
	adjustAction     string
	adjustPercentage string
	adjustConfirm    bool
	adjustNoConfirm  bool
	adjustDryRun     bool
	adjustJournal    string
)

func init() {
	rootCmd.AddCommand(adjustCmd)

	adjustCmd.Flags().StringVarP(&adjustAction, "action", "a", "", "increase or decrease (required)")
	adjustCmd.Flags().StringVarP(&adjustPercentage, "percentage", "p", "", "percentage to adjust by, in (0,100] (required)")
	adjustCmd.Flags().BoolVar(&adjustConfirm, "confirm", true, "prompt before each order")
	adjustCmd.Flags().BoolVar(&adjustNoConfirm, "no-confirm", false, "execute every order without prompting")
	adjustCmd.Flags().BoolVar(&adjustDryRun, "dry-run", false, "show every order without submitting any")
	adjustCmd.Flags().StringVar(&adjustJournal, "journal", "", "journal database path (overrides settings)")
	adjustCmd.MarkFlagRequired("action")
	adjustCmd.MarkFlagRequired("percentage")
	adjustCmd.MarkFlagsMutuallyExclusive("confirm", "no-confirm")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	dir, err := portfolio.ParseDirection(adjustAction)
	if err != nil {
		return err
	}
	pct, err := portfolio.ParsePercentage(adjustPercentage)
	if err != nil {
		return err
	}
	if pct.GreaterThan(oneHundred) {
		return fmt.Errorf("percentage must be between 0 and 100, got %s", pct)
	}

	confirm := adjustConfirm && !adjustNoConfirm

	sess, settings, release, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer release()

	return runAdjustment(cmd, sess, settings, adjustOptions{
		direction:       dir,
		percentage:      pct,
		autoConfirm:     !confirm,
		dryRun:          adjustDryRun,
		journalPath:     adjustJournal,
		wholeRunConfirm: confirm && !adjustDryRun,
	})
}
