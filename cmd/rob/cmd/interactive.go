package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/rob/portfolio"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for direction and percentage, then adjust",
	Long: `Interactive mode walks through the whole flow: portfolio summary,
direction and percentage prompts, operation summary, and the per-order
review loop. Running rob with no arguments does the same thing.`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "         Position Manager")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	sess, settings, release, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer release()

	dir, done, err := promptDirection(in, out)
	if err != nil || done {
		return err
	}
	pct, err := promptPercentage(in, out, dir)
	if err != nil {
		return err
	}

	return runAdjustment(cmd, sess, settings, adjustOptions{
		direction:       dir,
		percentage:      pct,
		wholeRunConfirm: true,
	})
}

func promptDirection(in *bufio.Reader, out io.Writer) (portfolio.Direction, bool, error) {
	fmt.Fprintln(out, "\nWhat would you like to do?")
	fmt.Fprintln(out, "  1) Increase positions")
	fmt.Fprintln(out, "  2) Decrease positions")
	fmt.Fprintln(out, "  3) Exit")

	for {
		fmt.Fprint(out, "\nEnter your choice (1-3): ")
		line, err := in.ReadString('\n')
		if err != nil {
			return "", false, fmt.Errorf("read choice: %w", err)
		}
		switch strings.TrimSpace(line) {
		case "1":
			return portfolio.Increase, false, nil
		case "2":
			return portfolio.Decrease, false, nil
		case "3":
			fmt.Fprintln(out, "Exiting...")
			return "", true, nil
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

// promptPercentage reprompts until the input is a valid percentage in
// (0,100].
func promptPercentage(in *bufio.Reader, out io.Writer, dir portfolio.Direction) (pct decimal.Decimal, err error) {
	for {
		fmt.Fprintf(out, "\nEnter the percentage to %s positions by: ", dir)
		line, err := in.ReadString('\n')
		if err != nil {
			return decimal.Zero, fmt.Errorf("read percentage: %w", err)
		}

		pct, err = portfolio.ParsePercentage(strings.TrimSpace(line))
		var invalid *portfolio.InvalidPercentageError
		if errors.As(err, &invalid) {
			fmt.Fprintln(out, "Please enter a valid number greater than 0.")
			continue
		}
		if err != nil {
			return decimal.Zero, err
		}
		if pct.GreaterThan(oneHundred) {
			fmt.Fprintln(out, "Please enter a percentage between 0 and 100.")
			continue
		}
		return pct, nil
	}
}
