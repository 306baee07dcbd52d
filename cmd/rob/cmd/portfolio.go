package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/rob/portfolio"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the current portfolio snapshot",
	Long: `Print cash, total value, and every open position with its current
market price. No orders are placed.`,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	sess, _, release, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer release()

	fmt.Fprintln(cmd.OutOrStdout(), "Fetching portfolio information...")
	snap, err := portfolio.Capture(cmd.Context(), sess)
	if err != nil {
		return err
	}
	printSnapshot(cmd, snap)

	if len(snap.Positions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nNo positions found in your account.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\nCurrent Positions:")
	for _, p := range snap.Positions {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s shares @ $%s = $%s\n",
			p.Symbol, p.Quantity.StringFixed(2), p.Price.StringFixed(2),
			p.MarketValue().StringFixed(2))
	}
	return nil
}
