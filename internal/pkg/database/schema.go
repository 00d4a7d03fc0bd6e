package database

import "context"

// There is no migration tooling; the schema is created at startup when absent.
// The unique index on (username, leave_date) backs duplicate detection at the
// storage layer so concurrent submissions cannot slip past the service check.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS leave_requests (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL,
	leave_date DATE NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (username, leave_date)
);
`

// EnsureSchema creates the application tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Exec(ctx, schemaDDL)
	return err
}
