package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started DATETIME NOT NULL,
	direction TEXT NOT NULL,
	percentage TEXT NOT NULL,
	dry_run INTEGER NOT NULL,
	cash TEXT NOT NULL,
	estimated_cost TEXT NOT NULL,
	estimated_proceeds TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	notional TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_orders_run ON orders(run_id);
`
