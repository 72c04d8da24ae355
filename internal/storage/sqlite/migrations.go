package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database.
// These run on startup to ensure tables exist.
// Monetary columns are TEXT holding decimal strings: REAL would
// reintroduce the floating-point drift the calculator avoids.
const schema = `
CREATE TABLE IF NOT EXISTS equipment_purchases (
    id TEXT PRIMARY KEY,
    racer TEXT NOT NULL,
    item TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    unit_price TEXT NOT NULL,
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS investor_incomes (
    id TEXT PRIMARY KEY,
    investor_name TEXT NOT NULL,
    amount TEXT NOT NULL,
    description TEXT,
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS racer_trades (
    id TEXT PRIMARY KEY,
    racer_name TEXT NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('buy', 'sell')),
    price TEXT NOT NULL,
    description TEXT,
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS share_links (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equipment_created_at ON equipment_purchases(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_incomes_created_at ON investor_incomes(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_trades_created_at ON racer_trades(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_share_links_token ON share_links(token);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
