package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientFundsError blocks the whole run: the plan's aggregate buy
// cost exceeds available cash. Partial affordability is not attempted.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need $%s but only $%s available (short $%s)",
		e.Required.StringFixed(2), e.Available.StringFixed(2), e.Shortfall().StringFixed(2))
}

// Shortfall is how much cash is missing.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// CheckAffordability applies the all-or-nothing cash gate. It only
// considers the buy side; a plan with no estimated cost always passes.
func CheckAffordability(plan Plan, availableCash decimal.Decimal) error {
	cost := plan.EstimatedCost()
	if !cost.IsPositive() {
		return nil
	}
	if cost.GreaterThan(availableCash) {
		return &InsufficientFundsError{Required: cost, Available: availableCash}
	}
	return nil
}
