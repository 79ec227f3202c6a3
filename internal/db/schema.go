package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id           TEXT PRIMARY KEY,
    email        TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL DEFAULT '',
    role         TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS credentials (
    account_id    TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id                 INTEGER PRIMARY KEY,
    title              TEXT NOT NULL,
    category           TEXT NOT NULL CHECK (category IN ('electronics', 'id_cards', 'books', 'accessories', 'others')),
    status             TEXT NOT NULL CHECK (status IN ('lost', 'found', 'returned')),
    date               TEXT NOT NULL,
    location           TEXT NOT NULL DEFAULT '',
    description        TEXT,
    media_locator      TEXT,
    contact_preference TEXT CHECK (contact_preference IN ('email', 'in_app')),
    owner_id           TEXT NOT NULL REFERENCES accounts(id),
    created_at         DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_media_locator ON items(media_locator);

CREATE TABLE IF NOT EXISTS media_uploads (
    locator    TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
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
