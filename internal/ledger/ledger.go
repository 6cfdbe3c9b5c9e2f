// Package ledger is the locally persisted change-history log. It lives in its
// own database file beside the client, independent of the server: entries
// reference items by ID only, so they survive the item's deletion, and the
// server never sees them.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mandaniarchi41/sarii-stock/internal/db"
	"github.com/mandaniarchi41/sarii-stock/internal/model"
)

// ErrEntryNotFound is returned when removing an entry that does not exist.
var ErrEntryNotFound = errors.New("history entry not found")

const schema = `
CREATE TABLE IF NOT EXISTS history (
    id             TEXT PRIMARY KEY,
    item_id        TEXT NOT NULL,
    action         TEXT NOT NULL CHECK (action IN ('add', 'update', 'delete', 'stock_update')),
    changes        TEXT,
    catalog_number TEXT NOT NULL,
    display_name   TEXT NOT NULL,
    timestamp      DATETIME NOT NULL
);
`

// Ledger is an explicitly constructed handle over the history database.
// Callers open it once, pass it to whoever needs it, and close it on the way
// out; there is no package-level state.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path. Use
// ":memory:" for a throwaway ledger in tests.
func Open(path string) (*Ledger, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return &Ledger{db: database}, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Append records an entry. Entries are append-only and never mutated; a
// missing ID or timestamp is filled in. The written entry is returned.
func (l *Ledger) Append(ctx context.Context, entry model.HistoryEntry) (*model.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	var changes any
	if entry.Changes != nil {
		data, err := json.Marshal(entry.Changes)
		if err != nil {
			return nil, fmt.Errorf("encoding changes: %w", err)
		}
		changes = string(data)
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO history (id, item_id, action, changes, catalog_number, display_name, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ItemID, entry.Action, changes,
		entry.Snapshot.CatalogNumber, entry.Snapshot.DisplayName, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("appending history entry: %w", err)
	}
	return &entry, nil
}

// Remove deletes a single entry, the only mutation users may perform.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	result, err := l.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("removing history entry %s: %w", id, ErrEntryNotFound)
	}
	return nil
}

// List returns all entries, newest first.
func (l *Ledger) List(ctx context.Context) ([]model.HistoryEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, item_id, action, changes, catalog_number, display_name, timestamp
		 FROM history ORDER BY timestamp DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var changes sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ItemID, &entry.Action, &changes,
			&entry.Snapshot.CatalogNumber, &entry.Snapshot.DisplayName, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entry.Snapshot.ItemID = entry.ItemID
		if changes.Valid {
			if err := json.Unmarshal([]byte(changes.String), &entry.Changes); err != nil {
				return nil, fmt.Errorf("decoding changes: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
