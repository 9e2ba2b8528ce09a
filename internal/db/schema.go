package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    full_name     TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'staff' CHECK (role IN ('admin', 'staff')),
    is_active     INTEGER NOT NULL DEFAULT 1,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS locations (
    id       INTEGER PRIMARY KEY,
    building TEXT NOT NULL,
    room     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assets (
    id          INTEGER PRIMARY KEY,
    asset_tag   TEXT NOT NULL,
    name        TEXT NOT NULL,
    category_id INTEGER NOT NULL REFERENCES categories(id),
    location_id INTEGER NOT NULL REFERENCES locations(id),
    status      TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'in_use', 'repair', 'retired')),
    created_by  INTEGER REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_tag_active
    ON assets(asset_tag) WHERE deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category_id);
CREATE INDEX IF NOT EXISTS idx_assets_location ON assets(location_id);

CREATE TABLE IF NOT EXISTS checkouts (
    id            INTEGER PRIMARY KEY,
    asset_id      INTEGER NOT NULL REFERENCES assets(id),
    borrower_id   INTEGER NOT NULL REFERENCES users(id),
    checkout_date DATETIME NOT NULL,
    due_date      DATETIME,
    return_date   DATETIME,
    status        TEXT NOT NULL DEFAULT 'requested'
                  CHECK (status IN ('requested', 'approved', 'returned', 'rejected')),
    approved_by   INTEGER REFERENCES users(id),
    approved_at   DATETIME
);

-- At most one unresolved checkout per asset.
CREATE UNIQUE INDEX IF NOT EXISTS idx_checkouts_asset_active
    ON checkouts(asset_id) WHERE status IN ('requested', 'approved');

CREATE TABLE IF NOT EXISTS tickets (
    id           INTEGER PRIMARY KEY,
    asset_id     INTEGER NOT NULL REFERENCES assets(id),
    requester_id INTEGER NOT NULL REFERENCES users(id),
    problem      TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'open'
                 CHECK (status IN ('open', 'in_progress', 'resolved', 'closed')),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS ticket_logs (
    id         INTEGER PRIMARY KEY,
    ticket_id  INTEGER NOT NULL REFERENCES tickets(id),
    changed_by INTEGER REFERENCES users(id),
    old_status TEXT NOT NULL,
    new_status TEXT NOT NULL,
    note       TEXT,
    changed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ticket_logs_ticket ON ticket_logs(ticket_id);

CREATE TRIGGER IF NOT EXISTS trg_ticket_logs_no_update BEFORE UPDATE ON ticket_logs
BEGIN
    SELECT RAISE(ABORT, 'ticket_logs is append-only');
END;

CREATE TRIGGER IF NOT EXISTS trg_ticket_logs_no_delete BEFORE DELETE ON ticket_logs
BEGIN
    SELECT RAISE(ABORT, 'ticket_logs is append-only');
END;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
