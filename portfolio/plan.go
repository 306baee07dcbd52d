package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/rob/broker"
)

// Direction is what the adjustment does to every position.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// ParseDirection maps user input to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Increase, Decrease:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid action %q: must be %q or %q", s, Increase, Decrease)
}

// Side is the order side this direction implies.
func (d Direction) Side() broker.Side {
	if d == Decrease {
		return broker.Sell
	}
	return broker.Buy
}

// InvalidPercentageError means the requested percentage is not a usable
// positive number. It is raised before any network call.
type InvalidPercentageError struct {
	Raw string
}

func (e *InvalidPercentageError) Error() string {
	return fmt.Sprintf("invalid percentage %q: must be a number greater than 0", e.Raw)
}

// ParsePercentage parses user input into a percentage value.
func ParsePercentage(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil || !p.IsPositive() {
		return decimal.Zero, &InvalidPercentageError{Raw: s}
	}
	return p, nil
}

// Rounding is the brokerage's minimum tradable unit. Deltas are always
// rounded down to a multiple of Increment so a BUY never overspends and
// a SELL never oversells.
type Rounding struct {
	Increment decimal.Decimal
}

// WholeShares is the default rounding for brokerages without fractional
// trading.
func WholeShares() Rounding {
	return Rounding{Increment: decimal.NewFromInt(1)}
}

// Floor rounds q down to the nearest multiple of the increment.
func (r Rounding) Floor(q decimal.Decimal) decimal.Decimal {
	inc := r.Increment
	if !inc.IsPositive() {
		inc = decimal.NewFromInt(1)
	}
	return q.Div(inc).Floor().Mul(inc)
}

// PlannedOrder is one position's share delta. It is created once by
// BuildPlan and consumed exactly once by the execution loop.
type PlannedOrder struct {
	Symbol   string
	Side     broker.Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Notional decimal.Decimal
	Position Position
}

// Plan is the ordered set of orders derived from one snapshot and a
// target percentage change.
type Plan struct {
	Direction  Direction
	Percentage decimal.Decimal
	Orders     []PlannedOrder
}

// EstimatedCost is the sum of every BUY order's notional.
func (p Plan) EstimatedCost() decimal.Decimal {
	total := decimal.Zero
	for _, o := range p.Orders {
		if o.Side == broker.Buy {
			total = total.Add(o.Notional)
		}
	}
	return total
}

// EstimatedProceeds is the sum of every SELL order's notional.
func (p Plan) EstimatedProceeds() decimal.Decimal {
	total := decimal.Zero
	for _, o := range p.Orders {
		if o.Side == broker.Sell {
			total = total.Add(o.Notional)
		}
	}
	return total
}

var oneHundred = decimal.NewFromInt(100)

// BuildPlan computes, per position with quantity > 0, the share delta a
// uniform percentage change implies.
//
// The raw delta is quantity * percentage / 100, rounded down to the
// tradable increment. A position whose delta rounds to zero produces no
// order. Decrease with percentage >= 100 liquidates the position: the
// delta is capped at the held quantity exactly, never going short.
func BuildPlan(snap Snapshot, dir Direction, pct decimal.Decimal, r Rounding) (Plan, error) {
	if !pct.IsPositive() {
		return Plan{}, &InvalidPercentageError{Raw: pct.String()}
	}

	plan := Plan{Direction: dir, Percentage: pct}
	for _, pos := range snap.Positions {
		if !pos.Quantity.IsPositive() {
			continue
		}

		raw := pos.Quantity.Mul(pct).Div(oneHundred)

		var delta decimal.Decimal
		if dir == Decrease && raw.GreaterThanOrEqual(pos.Quantity) {
			delta = pos.Quantity
		} else {
			delta = r.Floor(raw)
		}
		if !delta.IsPositive() {
			continue
		}

		plan.Orders = append(plan.Orders, PlannedOrder{
			Symbol:   pos.Symbol,
			Side:     dir.Side(),
			Quantity: delta,
			Price:    pos.Price,
			Notional: delta.Mul(pos.Price),
			Position: pos,
		})
	}

	return plan, nil
}
