package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/rob/broker"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pos(symbol, qty, avg, price string) Position {
	return Position{Symbol: symbol, Quantity: dec(qty), AvgCost: dec(avg), Price: dec(price)}
}

func TestBuildPlanIncrease(t *testing.T) {
	t.Parallel()

	// 100 AAPL @ $175, increase 5% -> 5 shares, $875.
	snap := Snapshot{
		Cash:      dec("5000"),
		Positions: []Position{pos("AAPL", "100", "150", "175")},
	}

	plan, err := BuildPlan(snap, Increase, dec("5"), WholeShares())
	require.NoError(t, err)
	require.Len(t, plan.Orders, 1)

	ord := plan.Orders[0]
	assert.Equal(t, "AAPL", ord.Symbol)
	assert.Equal(t, broker.Buy, ord.Side)
	assert.Equal(t, "5", ord.Quantity.String())
	assert.Equal(t, "875", ord.Notional.String())
	assert.Equal(t, "875", plan.EstimatedCost().String())
	assert.True(t, plan.EstimatedProceeds().IsZero())
}

func TestBuildPlanDecrease(t *testing.T) {
	t.Parallel()

	// 50 TSLA @ $250, decrease 10% -> sell 5 shares for $1250.
	snap := Snapshot{Positions: []Position{pos("TSLA", "50", "250", "250")}}

	plan, err := BuildPlan(snap, Decrease, dec("10"), WholeShares())
	require.NoError(t, err)
	require.Len(t, plan.Orders, 1)

	ord := plan.Orders[0]
	assert.Equal(t, broker.Sell, ord.Side)
	assert.Equal(t, "5", ord.Quantity.String())
	assert.Equal(t, "1250", plan.EstimatedProceeds().String())
	assert.True(t, plan.EstimatedCost().IsZero())
}

func TestBuildPlanRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		qty       string
		pct       string
		dir       Direction
		increment string
		want      string // "" means no order
	}{
		{"floors buy", "100", "5.9", Increase, "1", "5"},
		{"floors sell", "33", "10", Decrease, "1", "3"},
		{"rounds to zero", "10", "5", Increase, "1", ""},
		{"fractional increment", "10", "5", Increase, "0.0001", "0.5"},
		{"fractional floors", "1", "3.33", Decrease, "0.01", "0.03"},
		{"exact multiple", "200", "25", Increase, "1", "50"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			snap := Snapshot{Positions: []Position{pos("X", tt.qty, "1", "1")}}
			r := Rounding{Increment: dec(tt.increment)}

			plan, err := BuildPlan(snap, tt.dir, dec(tt.pct), r)
			require.NoError(t, err)

			if tt.want == "" {
				assert.Empty(t, plan.Orders)
				return
			}
			require.Len(t, plan.Orders, 1)
			assert.Equal(t, tt.want, plan.Orders[0].Quantity.String())
		})
	}
}

func TestBuildPlanDeltaNeverExceedsRaw(t *testing.T) {
	t.Parallel()

	// Planned delta <= Q * P/100 for every rounding increment.
	snap := Snapshot{Positions: []Position{pos("X", "123.4567", "10", "10")}}
	raw := dec("123.4567").Mul(dec("7.5")).Div(dec("100"))

	for _, inc := range []string{"1", "0.1", "0.01", "0.0001"} {
		plan, err := BuildPlan(snap, Increase, dec("7.5"), Rounding{Increment: dec(inc)})
		require.NoError(t, err)
		for _, ord := range plan.Orders {
			assert.True(t, ord.Quantity.LessThanOrEqual(raw),
				"increment %s: delta %s exceeds raw %s", inc, ord.Quantity, raw)
		}
	}
}

func TestBuildPlanDecreaseFullLiquidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		qty  string
		pct  string
	}{
		{"exactly 100", "37.5", "100"},
		{"over 100", "37.5", "250"},
		{"whole shares over 100", "10", "150"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			snap := Snapshot{Positions: []Position{pos("X", tt.qty, "1", "1")}}

			plan, err := BuildPlan(snap, Decrease, dec(tt.pct), WholeShares())
			require.NoError(t, err)
			require.Len(t, plan.Orders, 1)

			// Delta is the held quantity exactly; never short.
			assert.Equal(t, dec(tt.qty).String(), plan.Orders[0].Quantity.String())
		})
	}
}

func TestBuildPlanSkipsEmptyPositions(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Positions: []Position{
		pos("A", "0", "10", "10"),
		pos("B", "100", "10", "10"),
	}}

	plan, err := BuildPlan(snap, Increase, dec("10"), WholeShares())
	require.NoError(t, err)
	require.Len(t, plan.Orders, 1)
	assert.Equal(t, "B", plan.Orders[0].Symbol)
}

func TestBuildPlanInvalidPercentage(t *testing.T) {
	t.Parallel()

	snap := Snapshot{Positions: []Position{pos("A", "10", "10", "10")}}

	for _, pct := range []string{"0", "-5"} {
		_, err := BuildPlan(snap, Increase, dec(pct), WholeShares())
		var invalid *InvalidPercentageError
		assert.ErrorAs(t, err, &invalid, "pct=%s", pct)
	}
}

func TestParsePercentage(t *testing.T) {
	t.Parallel()

	p, err := ParsePercentage("7.25")
	require.NoError(t, err)
	assert.Equal(t, "7.25", p.String())

	for _, raw := range []string{"", "abc", "0", "-1"} {
		_, err := ParsePercentage(raw)
		var invalid *InvalidPercentageError
		assert.ErrorAs(t, err, &invalid, "raw=%q", raw)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	dir, err := ParseDirection("increase")
	require.NoError(t, err)
	assert.Equal(t, Increase, dir)
	assert.Equal(t, broker.Buy, dir.Side())

	dir, err = ParseDirection("decrease")
	require.NoError(t, err)
	assert.Equal(t, broker.Sell, dir.Side())

	_, err = ParseDirection("rebalance")
	assert.Error(t, err)
}
