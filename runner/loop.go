package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/rob/broker"
	"github.com/rustyeddy/rob/portfolio"
)

// Mode selects how order decisions are made. Dry-run and auto-confirm
// are parameter variants of the same state machine, not separate code
// paths.
type Mode int

const (
	// Interactive asks the Prompter about every order.
	Interactive Mode = iota
	// AutoConfirm executes every order without prompting.
	AutoConfirm
	// DryRun presents every order but never submits one.
	DryRun
)

// Decision is the operator's answer for one presented order.
type Decision int

const (
	Execute Decision = iota
	Skip
	Abort
)

// Prompter supplies the operator's decision for a presented order.
type Prompter interface {
	Decide(ctx context.Context, ord portfolio.PlannedOrder, index, total int) (Decision, error)
}

// Loop drives a plan through the per-order execution state machine:
//
//	ready -> presenting(i) -> executing(i) | skipping(i) -> presenting(i+1)
//	                       -> aborted
//
// terminating at complete when i passes the end of the plan. Already
// executed orders are never reversed; there is no undo.
type Loop struct {
	Broker broker.OrderPlacer
	Prompt Prompter
	Mode   Mode
	Out    io.Writer
	// Pace is an optional pause after each executed order, so
	// consecutive auto-confirmed submissions are not back to back.
	Pace time.Duration
}

type state int

const (
	stateReady state = iota
	statePresenting
	stateExecuting
	stateSkipping
	stateAborted
	stateComplete
)

// Run executes the plan. The returned Result always has one outcome per
// planned order, in plan order. A single order's failure does not stop
// the run; only an explicit abort (or prompter error) does, marking the
// remaining orders not reached.
func (l *Loop) Run(ctx context.Context, plan portfolio.Plan) (Result, error) {
	res := Result{Outcomes: make([]Outcome, len(plan.Orders))}
	for i := range res.Outcomes {
		res.Outcomes[i].Order = plan.Orders[i]
	}

	var (
		st      = stateReady
		i       int
		lastErr error
	)

	advance := func() state {
		i++
		if i >= len(plan.Orders) {
			return stateComplete
		}
		return statePresenting
	}

	for st != stateComplete && st != stateAborted {
		switch st {
		case stateReady:
			if len(plan.Orders) == 0 {
				st = stateComplete
				break
			}
			st = statePresenting

		case statePresenting:
			ord := plan.Orders[i]
			l.present(ord, i, len(plan.Orders))

			switch l.Mode {
			case DryRun:
				fmt.Fprintf(l.Out, "  DRY RUN: would %s %s shares of %s\n",
					ord.Side, ord.Quantity, ord.Symbol)
				res.Outcomes[i].Status = Simulated
				st = stateSkipping
			case AutoConfirm:
				st = stateExecuting
			default:
				dec, err := l.Prompt.Decide(ctx, ord, i, len(plan.Orders))
				if err != nil {
					lastErr = err
					st = stateAborted
					break
				}
				switch dec {
				case Execute:
					st = stateExecuting
				case Abort:
					st = stateAborted
				default:
					fmt.Fprintf(l.Out, "  Skipping %s\n", ord.Symbol)
					res.Outcomes[i].Status = Skipped
					st = stateSkipping
				}
			}

		case stateExecuting:
			res.Outcomes[i] = l.execute(ctx, plan.Orders[i])
			if res.Outcomes[i].Status == Executed && l.Pace > 0 && i < len(plan.Orders)-1 {
				time.Sleep(l.Pace)
			}
			st = advance()

		case stateSkipping:
			st = advance()
		}
	}

	if st == stateAborted {
		fmt.Fprintln(l.Out, "Aborting... no further orders will be submitted.")
		for j := i; j < len(plan.Orders); j++ {
			res.Outcomes[j].Status = NotReached
		}
		res.Aborted = true
	}

	return res, lastErr
}

func (l *Loop) present(ord portfolio.PlannedOrder, index, total int) {
	pos := ord.Position
	fmt.Fprintf(l.Out, "[%d/%d] %s\n", index+1, total, ord.Symbol)
	fmt.Fprintf(l.Out, "  Current position: %s shares @ $%s avg\n",
		pos.Quantity.StringFixed(2), pos.AvgCost.StringFixed(2))
	fmt.Fprintf(l.Out, "  Current price: $%s\n", pos.Price.StringFixed(2))
	verb := "BUY"
	if ord.Side == broker.Sell {
		verb = "SELL"
	}
	fmt.Fprintf(l.Out, "  -> %s %s shares for ~$%s\n",
		verb, ord.Quantity, ord.Notional.StringFixed(2))
}

func (l *Loop) execute(ctx context.Context, ord portfolio.PlannedOrder) Outcome {
	out := Outcome{Order: ord}

	fill, err := l.Broker.PlaceMarketOrder(ctx, broker.MarketOrderRequest{
		Symbol:   ord.Symbol,
		Side:     ord.Side,
		Quantity: ord.Quantity,
	})
	if err != nil {
		log.Error().Str("symbol", ord.Symbol).Err(err).Msg("order submission failed")
		fmt.Fprintf(l.Out, "  Order failed for %s: %v\n", ord.Symbol, err)
		out.Status = Failed
		out.Err = err
		return out
	}

	verb := "Bought"
	if ord.Side == broker.Sell {
		verb = "Sold"
	}
	fmt.Fprintf(l.Out, "  %s %s shares of %s\n", verb, fill.Quantity, fill.Symbol)

	out.Status = Executed
	out.Fill = &fill
	return out
}
