package runner

import (
	"github.com/rustyeddy/rob/broker"
	"github.com/rustyeddy/rob/portfolio"
)

// Status is the terminal state of one planned order.
type Status string

const (
	// Executed means the order was submitted and the brokerage
	// confirmed it.
	Executed Status = "executed"
	// Failed means submission was attempted and rejected. The run
	// continues past a failed order.
	Failed Status = "failed"
	// Skipped means the operator (or unrecognized input) passed on
	// the order.
	Skipped Status = "skipped"
	// Simulated means dry-run mode presented the order but never
	// submitted it.
	Simulated Status = "simulated"
	// NotReached means the run aborted before this order came up.
	NotReached Status = "not_reached"
)

// Outcome is the audit record for one planned order.
type Outcome struct {
	Order  portfolio.PlannedOrder
	Status Status
	Fill   *broker.Fill
	Err    error
}

// Result is the full, ordered audit record of a run.
type Result struct {
	Outcomes []Outcome
	Aborted  bool
}

// Count returns how many outcomes ended with status s.
func (r Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
