package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Items are stored document-style: one
// row per catalog entry with the color variant list in a JSON column and an
// integer version token bumped on every successful write.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id             TEXT PRIMARY KEY,
    catalog_number TEXT NOT NULL,
    display_name   TEXT NOT NULL,
    price          REAL NOT NULL CHECK (price >= 0),
    image_ref      TEXT,
    colors         TEXT NOT NULL DEFAULT '[]',
    version        INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_catalog_number
    ON items(catalog_number);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
