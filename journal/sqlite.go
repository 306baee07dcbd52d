package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, started, direction, percentage, dry_run, cash, estimated_cost, estimated_proceeds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Started, r.Direction, r.Percentage, r.DryRun,
		r.Cash, r.EstimatedCost, r.EstimatedProceeds,
	)
	return err
}

func (j *SQLiteJournal) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, run_id, symbol, side, quantity, price, notional, status, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.RunID, o.Symbol, o.Side, o.Quantity,
		o.Price, o.Notional, o.Status, o.Detail,
	)
	return err
}

// OrdersByRun returns a run's order outcomes in insertion (ULID) order.
func (j *SQLiteJournal) OrdersByRun(runID string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, run_id, symbol, side, quantity, price, notional, status, detail
		FROM orders WHERE run_id = ? ORDER BY order_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var o OrderRecord
		if err := rows.Scan(&o.OrderID, &o.RunID, &o.Symbol, &o.Side,
			&o.Quantity, &o.Price, &o.Notional, &o.Status, &o.Detail); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
