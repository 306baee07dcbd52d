package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/rob/broker"
)

// DataUnavailableError means the snapshot could not be captured at all
// (cash or the position list failed to load). No plan is built from a
// partial snapshot.
type DataUnavailableError struct {
	What string
	Err  error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("snapshot: %s unavailable: %v", e.What, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Capture pulls cash and all open positions in one pass, pricing every
// held symbol so later cost math uses consistent pricing. A symbol whose
// quote cannot be resolved is excluded with a warning, not a fatal error.
// Positions come back sorted by symbol for a stable presentation order.
func Capture(ctx context.Context, md broker.MarketData) (Snapshot, error) {
	cash, err := md.GetCashBalance(ctx)
	if err != nil {
		return Snapshot{}, &DataUnavailableError{What: "cash balance", Err: err}
	}

	holdings, err := md.GetPositions(ctx)
	if err != nil {
		return Snapshot{}, &DataUnavailableError{What: "positions", Err: err}
	}

	snap := Snapshot{
		Cash:  cash,
		Taken: time.Now(),
	}

	for _, h := range holdings {
		if !h.Quantity.IsPositive() {
			continue
		}
		q, err := md.GetQuote(ctx, h.Symbol)
		if err != nil {
			log.Warn().Str("symbol", h.Symbol).Err(err).Msg("quote unavailable, excluding position")
			snap.Excluded = append(snap.Excluded, Excluded{Symbol: h.Symbol, Reason: err.Error()})
			continue
		}
		snap.Positions = append(snap.Positions, Position{
			Symbol:   h.Symbol,
			Quantity: h.Quantity,
			AvgCost:  h.AvgCost,
			Price:    q.Price,
		})
	}

	sort.Slice(snap.Positions, func(i, j int) bool {
		return snap.Positions[i].Symbol < snap.Positions[j].Symbol
	})

	log.Debug().
		Int("positions", len(snap.Positions)).
		Int("excluded", len(snap.Excluded)).
		Str("cash", snap.Cash.StringFixed(2)).
		Msg("snapshot captured")

	return snap, nil
}
