package broker

import "fmt"

// AuthError means the brokerage rejected our credentials or 2FA code.
// It is fatal: nothing else can be attempted against the session.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// OrderError is a single order submission failing. It is caught at the
// order boundary and never aborts the remaining orders.
type OrderError struct {
	Symbol string
	Side   Side
	Err    error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("order %s %s failed: %v", e.Side, e.Symbol, e.Err)
}

func (e *OrderError) Unwrap() error { return e.Err }
