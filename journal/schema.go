package journal

// Schema is the SQLite layout of the two persisted tables. Money columns are
// TEXT so decimals round-trip without float conversion.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	initial_balance TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	pair TEXT NOT NULL,
	type TEXT NOT NULL,
	entry TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	stop_loss TEXT NOT NULL,
	lot_size TEXT NOT NULL,
	pnl TEXT NOT NULL,
	status TEXT NOT NULL,
	date TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]',
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id, id);
CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(user_id, date);
`

// PostgresSchema is the equivalent layout for the hosted Postgres backend.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	initial_balance NUMERIC NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trades (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	pair TEXT NOT NULL,
	type TEXT NOT NULL,
	entry NUMERIC NOT NULL,
	exit_price NUMERIC NOT NULL,
	stop_loss NUMERIC NOT NULL,
	lot_size NUMERIC NOT NULL,
	pnl NUMERIC NOT NULL,
	status TEXT NOT NULL,
	date DATE NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id, id);
`
