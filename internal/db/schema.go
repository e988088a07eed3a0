package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'gestor', 'coordinador', 'admin')),
    phone         TEXT,
    location      TEXT,
    bio           TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT,
    category    TEXT NOT NULL CHECK (category IN ('plastic', 'paper', 'glass', 'metal', 'textile', 'electronic', 'other')),
    lat         REAL NOT NULL,
    lng         REAL NOT NULL,
    address     TEXT,
    owner_id    INTEGER NOT NULL REFERENCES users(id),
    processing_state TEXT NOT NULL DEFAULT 'unprocessed'
        CHECK (processing_state IN ('unprocessed', 'in_process', 'baled', 'validated')),
    validated_by            INTEGER REFERENCES users(id),
    validation_checklist    TEXT,
    validation_observations TEXT,
    validation_date         DATETIME,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME,
    CHECK ((processing_state = 'validated') = (validated_by IS NOT NULL))
);

CREATE TABLE IF NOT EXISTS item_images (
    item_id  INTEGER NOT NULL REFERENCES items(id),
    position INTEGER NOT NULL CHECK (position BETWEEN 1 AND 5),
    data     BLOB NOT NULL,
    mime     TEXT NOT NULL,
    PRIMARY KEY (item_id, position)
);

CREATE TABLE IF NOT EXISTS ratings (
    id                  INTEGER PRIMARY KEY,
    item_id             INTEGER NOT NULL REFERENCES items(id),
    rater_id            INTEGER NOT NULL REFERENCES users(id),
    rated_id            INTEGER NOT NULL REFERENCES users(id),
    material_quality    INTEGER NOT NULL CHECK (material_quality BETWEEN 1 AND 5),
    punctuality         INTEGER CHECK (punctuality BETWEEN 1 AND 5),
    standard_compliance INTEGER CHECK (standard_compliance BETWEEN 1 AND 5),
    comment             TEXT,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_item_rater
    ON ratings(item_id, rater_id);

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
