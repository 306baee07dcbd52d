package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/rob/broker"
	"github.com/rustyeddy/rob/pkg/id"
)

// Engine is an in-memory brokerage. It holds cash, positions and quotes,
// fills market orders instantly at the quoted price, and mutates the
// account the way a real fill would. Used by tests and the examples.
type Engine struct {
	mu        sync.Mutex
	cash      decimal.Decimal
	holdings  map[string]broker.Holding
	quotes    map[string]broker.Quote
	fills     []broker.Fill
	loggedOut bool

	quoteErrs map[string]error
	orderErrs map[string]error
	dataErr   error
}

func NewEngine(cash decimal.Decimal) *Engine {
	return &Engine{
		cash:      cash,
		holdings:  make(map[string]broker.Holding),
		quotes:    make(map[string]broker.Quote),
		quoteErrs: make(map[string]error),
		orderErrs: make(map[string]error),
	}
}

// SetHolding seeds or replaces a position.
func (e *Engine) SetHolding(symbol string, quantity, avgCost decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.holdings[symbol] = broker.Holding{Symbol: symbol, Quantity: quantity, AvgCost: avgCost}
}

// SetQuote seeds or replaces the market price for a symbol.
func (e *Engine) SetQuote(symbol string, price decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quotes[symbol] = broker.Quote{Symbol: symbol, Price: price, Time: time.Now()}
}

// FailQuote makes GetQuote for symbol return err.
func (e *Engine) FailQuote(symbol string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quoteErrs[symbol] = err
}

// FailOrder makes PlaceMarketOrder for symbol return an OrderError
// wrapping err.
func (e *Engine) FailOrder(symbol string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderErrs[symbol] = err
}

// FailData makes GetPositions and GetCashBalance return err.
func (e *Engine) FailData(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dataErr = err
}

// Fills returns every fill the engine has produced, in order.
func (e *Engine) Fills() []broker.Fill {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]broker.Fill, len(e.fills))
	copy(out, e.fills)
	return out
}

// LoggedOut reports whether Logout has been called.
func (e *Engine) LoggedOut() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loggedOut
}

func (e *Engine) GetPositions(ctx context.Context) ([]broker.Holding, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dataErr != nil {
		return nil, e.dataErr
	}
	out := make([]broker.Holding, 0, len(e.holdings))
	for _, h := range e.holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (e *Engine) GetQuote(ctx context.Context, symbol string) (broker.Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.quoteErrs[symbol]; err != nil {
		return broker.Quote{}, err
	}
	q, ok := e.quotes[symbol]
	if !ok {
		return broker.Quote{}, fmt.Errorf("no quote for %q", symbol)
	}
	return q, nil
}

func (e *Engine) GetCashBalance(ctx context.Context) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dataErr != nil {
		return decimal.Zero, e.dataErr
	}
	return e.cash, nil
}

func (e *Engine) PlaceMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.orderErrs[req.Symbol]; err != nil {
		return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side, Err: err}
	}
	if !req.Quantity.IsPositive() {
		return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side,
			Err: fmt.Errorf("quantity must be positive, got %s", req.Quantity)}
	}
	q, ok := e.quotes[req.Symbol]
	if !ok {
		return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side,
			Err: fmt.Errorf("no quote for %q", req.Symbol)}
	}

	h := e.holdings[req.Symbol]
	h.Symbol = req.Symbol
	notional := req.Quantity.Mul(q.Price)

	switch req.Side {
	case broker.Buy:
		if notional.GreaterThan(e.cash) {
			return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side,
				Err: fmt.Errorf("insufficient buying power")}
		}
		e.cash = e.cash.Sub(notional)
		h.Quantity = h.Quantity.Add(req.Quantity)
	case broker.Sell:
		if req.Quantity.GreaterThan(h.Quantity) {
			return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side,
				Err: fmt.Errorf("sell %s exceeds held %s", req.Quantity, h.Quantity)}
		}
		e.cash = e.cash.Add(notional)
		h.Quantity = h.Quantity.Sub(req.Quantity)
	default:
		return broker.Fill{}, &broker.OrderError{Symbol: req.Symbol, Side: req.Side,
			Err: fmt.Errorf("unknown side %q", req.Side)}
	}
	e.holdings[req.Symbol] = h

	fill := broker.Fill{
		OrderID:  id.New(),
		Symbol:   req.Symbol,
		Side:     req.Side,
		Quantity: req.Quantity,
		Price:    q.Price,
		State:    "filled",
	}
	e.fills = append(e.fills, fill)
	return fill, nil
}

func (e *Engine) Logout(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loggedOut = true
	return nil
}
