package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rustyeddy/rob/broker"
	"github.com/rustyeddy/rob/broker/robinhood"
	"github.com/rustyeddy/rob/config"
	"github.com/rustyeddy/rob/journal"
	"github.com/rustyeddy/rob/pkg/id"
	"github.com/rustyeddy/rob/portfolio"
	"github.com/rustyeddy/rob/runner"
)

var oneHundred = decimal.NewFromInt(100)

// openSession loads settings and credentials, logs in, and hands back a
// live session plus a release func that must run on every exit path.
func openSession(cmd *cobra.Command) (broker.Session, *config.Settings, func(), error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	timeout, err := settings.API.ParseTimeout()
	if err != nil {
		return nil, nil, nil, err
	}

	creds := config.LoadCredentials()
	if !creds.Complete() {
		if err := promptCredentials(cmd, &creds); err != nil {
			return nil, nil, nil, err
		}
	}

	client := robinhood.New(robinhood.Config{
		BaseURL:   settings.API.BaseURL,
		Timeout:   timeout,
		CachePath: settings.Session.CachePath,
	})

	ctx := cmd.Context()
	if err := client.Login(ctx, creds); err != nil {
		return nil, nil, nil, err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Authenticated.")

	release := func() {
		if err := client.Logout(context.Background()); err != nil {
			log.Warn().Err(err).Msg("logout failed")
		}
	}
	return client, settings, release, nil
}

func promptCredentials(cmd *cobra.Command, creds *config.Credentials) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	if creds.Username == "" {
		fmt.Fprint(out, "Enter your brokerage username (email): ")
		line, err := in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		creds.Username = strings.TrimSpace(line)
	}
	if creds.Password == "" {
		fmt.Fprint(out, "Enter your brokerage password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		creds.Password = string(pw)
	}
	return nil
}

func printSnapshot(cmd *cobra.Command, snap portfolio.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nPortfolio Summary:")
	fmt.Fprintf(out, "  Total Portfolio Value: $%s\n", snap.TotalValue().StringFixed(2))
	fmt.Fprintf(out, "  Available Cash: $%s\n", snap.Cash.StringFixed(2))
	fmt.Fprintf(out, "  Positions Value: $%s\n", snap.PositionsValue().StringFixed(2))

	for _, ex := range snap.Excluded {
		fmt.Fprintf(out, "  Warning: %s excluded, no quote available (%s)\n", ex.Symbol, ex.Reason)
	}
}

type adjustOptions struct {
	direction   portfolio.Direction
	percentage  decimal.Decimal
	autoConfirm bool // execute every order without per-order prompts
	dryRun      bool
	journalPath string // overrides settings when set
	// wholeRunConfirm asks once before the loop, original behavior of
	// the interactive flow.
	wholeRunConfirm bool
}

// runAdjustment is the full pipeline: snapshot, plan, affordability
// gate, execution loop, journal.
func runAdjustment(cmd *cobra.Command, sess broker.Session, settings *config.Settings, opts adjustOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Fetching portfolio information...")
	snap, err := portfolio.Capture(ctx, sess)
	if err != nil {
		return err
	}
	printSnapshot(cmd, snap)

	increment, err := settings.Rounding.ParseIncrement()
	if err != nil {
		return err
	}
	plan, err := portfolio.BuildPlan(snap, opts.direction, opts.percentage, portfolio.Rounding{Increment: increment})
	if err != nil {
		return err
	}
	if len(plan.Orders) == 0 {
		fmt.Fprintln(out, "\nNo orders to place: no position produces a tradable delta.")
		return nil
	}

	fmt.Fprintln(out, "\nOperation Summary:")
	fmt.Fprintf(out, "  Action: %s positions by %s%%\n", strings.ToUpper(string(opts.direction)), plan.Percentage)
	if opts.direction == portfolio.Increase {
		cost := plan.EstimatedCost()
		fmt.Fprintf(out, "  Expected Total Cost: $%s\n", cost.StringFixed(2))
		fmt.Fprintf(out, "  Available Cash: $%s\n", snap.Cash.StringFixed(2))
		if err := portfolio.CheckAffordability(plan, snap.Cash); err != nil {
			fmt.Fprintf(out, "\nERROR: %v\n", err)
			fmt.Fprintln(out, "Try a smaller percentage or sell some positions first.")
			return nil
		}
		fmt.Fprintf(out, "  Remaining Cash After: $%s\n", snap.Cash.Sub(cost).StringFixed(2))
	} else {
		proceeds := plan.EstimatedProceeds()
		fmt.Fprintf(out, "  Expected Proceeds: $%s\n", proceeds.StringFixed(2))
		fmt.Fprintf(out, "  Cash After Selling: $%s\n", snap.Cash.Add(proceeds).StringFixed(2))
	}

	if opts.wholeRunConfirm && !opts.dryRun {
		if !confirm(cmd, fmt.Sprintf("\nProceed with %s of %d position(s)?", opts.direction, len(plan.Orders))) {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	mode := runner.Interactive
	switch {
	case opts.dryRun:
		mode = runner.DryRun
		fmt.Fprintln(out, "\nDRY RUN - no orders will be submitted")
	case opts.autoConfirm:
		mode = runner.AutoConfirm
	}
	fmt.Fprintln(out)

	loop := runner.Loop{
		Broker: sess,
		Prompt: runner.NewConsolePrompter(cmd.InOrStdin(), out),
		Mode:   mode,
		Out:    out,
		Pace:   time.Second,
	}
	res, runErr := loop.Run(ctx, plan)

	recordRun(settings, opts, snap, plan, res)
	printResult(cmd, res, opts.dryRun)
	return runErr
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (yes/no): ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// recordRun journals the audit record. Journal trouble is logged, never
// fatal: the orders already happened.
func recordRun(settings *config.Settings, opts adjustOptions, snap portfolio.Snapshot, plan portfolio.Plan, res runner.Result) {
	path := opts.journalPath
	if path == "" && settings.Journal.Enabled {
		path = settings.Journal.DBPath
	}
	if path == "" {
		return
	}

	j, err := journal.NewSQLite(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not open journal")
		return
	}
	defer j.Close()

	runID := id.New()
	err = j.RecordRun(journal.RunRecord{
		RunID:             runID,
		Started:           snap.Taken,
		Direction:         string(plan.Direction),
		Percentage:        plan.Percentage.String(),
		DryRun:            opts.dryRun,
		Cash:              snap.Cash.String(),
		EstimatedCost:     plan.EstimatedCost().String(),
		EstimatedProceeds: plan.EstimatedProceeds().String(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("could not record run")
		return
	}

	for _, o := range res.Outcomes {
		rec := journal.OrderRecord{
			OrderID:  id.New(),
			RunID:    runID,
			Symbol:   o.Order.Symbol,
			Side:     string(o.Order.Side),
			Quantity: o.Order.Quantity.String(),
			Price:    o.Order.Price.String(),
			Notional: o.Order.Notional.String(),
			Status:   string(o.Status),
		}
		if o.Fill != nil {
			rec.OrderID = o.Fill.OrderID
			rec.Detail = o.Fill.State
		}
		if o.Err != nil {
			rec.Detail = o.Err.Error()
		}
		if err := j.RecordOrder(rec); err != nil {
			log.Warn().Str("symbol", rec.Symbol).Err(err).Msg("could not record order outcome")
		}
	}
}

func printResult(cmd *cobra.Command, res runner.Result, dryRun bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	if dryRun {
		fmt.Fprintln(out, "Dry run complete. No orders were submitted.")
		return
	}

	fmt.Fprintf(out, "Run complete: %d executed, %d failed, %d skipped",
		res.Count(runner.Executed), res.Count(runner.Failed), res.Count(runner.Skipped))
	if res.Aborted {
		fmt.Fprintf(out, ", %d not reached (aborted)", res.Count(runner.NotReached))
	}
	fmt.Fprintln(out)
}
