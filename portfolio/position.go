package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a held quantity of a single symbol plus its cost basis and
// the market price captured with the snapshot.
type Position struct {
	Symbol   string
	Quantity decimal.Decimal
	AvgCost  decimal.Decimal
	Price    decimal.Decimal
}

// MarketValue is quantity times the snapshot price.
func (p Position) MarketValue() decimal.Decimal {
	return p.Quantity.Mul(p.Price)
}

// Excluded is a held symbol that could not be priced during capture. It
// carries no order; it is reported and otherwise ignored.
type Excluded struct {
	Symbol string
	Reason string
}

// Snapshot is a point-in-time capture of cash and all open positions.
// It is immutable once captured; if quantities may have changed (any
// executed order), a new snapshot must be taken.
type Snapshot struct {
	Cash      decimal.Decimal
	Positions []Position
	Excluded  []Excluded
	Taken     time.Time
}

// PositionsValue is the sum of all position market values.
func (s Snapshot) PositionsValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Positions {
		total = total.Add(p.MarketValue())
	}
	return total
}

// TotalValue is positions value plus cash.
func (s Snapshot) TotalValue() decimal.Decimal {
	return s.PositionsValue().Add(s.Cash)
}

// Find returns the position for symbol, if held.
func (s Snapshot) Find(symbol string) (Position, bool) {
	for _, p := range s.Positions {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return Position{}, false
}
