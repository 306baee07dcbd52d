package journal

import "time"

// RunRecord is one adjustment run: what was asked for and what the
// snapshot looked like when the plan was built.
type RunRecord struct {
	RunID             string
	Started           time.Time
	Direction         string
	Percentage        string
	DryRun            bool
	Cash              string
	EstimatedCost     string
	EstimatedProceeds string
}

// OrderRecord is the outcome of one planned order within a run.
type OrderRecord struct {
	OrderID  string
	RunID    string
	Symbol   string
	Side     string
	Quantity string
	Price    string
	Notional string
	Status   string
	Detail   string
}

// Journal persists the audit record of runs. The adjustment core itself
// persists nothing; the command layer journals after the fact.
type Journal interface {
	RecordRun(RunRecord) error
	RecordOrder(OrderRecord) error
	Close() error
}
