package broker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// MarketData reads account state from the brokerage.
type MarketData interface {
	GetPositions(ctx context.Context) ([]Holding, error)
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	GetCashBalance(ctx context.Context) (decimal.Decimal, error)
}

// OrderPlacer submits orders to the brokerage.
type OrderPlacer interface {
	PlaceMarketOrder(ctx context.Context, req MarketOrderRequest) (Fill, error)
}

// Session is an authenticated brokerage connection. It is held by exactly
// one run at a time and must be released with Logout on every exit path.
type Session interface {
	MarketData
	OrderPlacer
	Logout(ctx context.Context) error
}

// Holding is a raw position as the brokerage reports it, before a quote
// is attached.
type Holding struct {
	Symbol   string
	Quantity decimal.Decimal
	AvgCost  decimal.Decimal
}

type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

type MarketOrderRequest struct {
	Symbol   string
	Side     Side
	Quantity decimal.Decimal
}

// Fill is the brokerage's confirmation of a submitted market order. Price
// is the fill (or pending-fill estimate) price.
type Fill struct {
	OrderID  string
	Symbol   string
	Side     Side
	Quantity decimal.Decimal
	Price    decimal.Decimal
	State    string
}
