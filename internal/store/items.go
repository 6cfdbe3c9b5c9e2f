package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mandaniarchi41/sarii-stock/internal/model"
	"github.com/mandaniarchi41/sarii-stock/internal/stock"
)

// The items table is used as a document collection: one row per catalog
// entry, color variants in a JSON column, and an integer version token that
// the store bumps on every successful write. Clients treat the token as
// opaque; only ReplaceItem interprets it, for the optimistic concurrency
// check.

// InsertItem creates a new item, assigning its ID and initial version.
func InsertItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	colors, err := marshalColors(item.ColorVariants)
	if err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, catalog_number, display_name, price, image_ref, colors)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, item.CatalogNumber, item.DisplayName, item.Price, nullable(item.ImageRef), colors,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("inserting item: %w", stock.ErrDuplicateCatalogNumber)
		}
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or stock.ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, catalog_number, display_name, price, image_ref, colors, version, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("getting item %s: %w", id, stock.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by catalog number.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, catalog_number, display_name, price, image_ref, colors, version, created_at, updated_at
		 FROM items ORDER BY catalog_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ReplaceItem overwrites the record whose version still matches item.Version,
// bumping the token. A stale version yields stock.ErrVersionConflict, a
// missing record stock.ErrNotFound. Returns the record as stored.
func ReplaceItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	colors, err := marshalColors(item.ColorVariants)
	if err != nil {
		return nil, fmt.Errorf("replacing item: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items
		 SET catalog_number = ?, display_name = ?, price = ?, image_ref = ?, colors = ?,
		     version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND version = ?`,
		item.CatalogNumber, item.DisplayName, item.Price, nullable(item.ImageRef), colors,
		item.ID, item.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("replacing item: %w", stock.ErrDuplicateCatalogNumber)
		}
		return nil, fmt.Errorf("replacing item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("replacing item: %w", err)
	}
	if affected == 0 {
		// Either the record is gone or another writer bumped the version.
		var one int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = ?`, item.ID).Scan(&one)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("replacing item %s: %w", item.ID, stock.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("replacing item: %w", err)
		}
		return nil, fmt.Errorf("replacing item %s at version %d: %w", item.ID, item.Version, stock.ErrVersionConflict)
	}

	return GetItem(ctx, db, item.ID)
}

// DeleteItem removes an item and returns the deleted record, or
// stock.ErrNotFound.
func DeleteItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	return item, nil
}

// Records adapts the item collection to the stock.RecordStore interface for
// in-process callers (the web edit path and tests).
type Records struct {
	DB *sql.DB
}

func (r *Records) Get(ctx context.Context, id string) (*model.Item, error) {
	return GetItem(ctx, r.DB, id)
}

func (r *Records) Replace(ctx context.Context, item *model.Item) (*model.Item, error) {
	return ReplaceItem(ctx, r.DB, item)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var imageRef sql.NullString
	var colors string
	err := row.Scan(&item.ID, &item.CatalogNumber, &item.DisplayName, &item.Price,
		&imageRef, &colors, &item.Version, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.ImageRef = imageRef.String
	if err := json.Unmarshal([]byte(colors), &item.ColorVariants); err != nil {
		return nil, fmt.Errorf("decoding color variants: %w", err)
	}
	return item, nil
}

func marshalColors(variants []model.ColorVariant) (string, error) {
	if variants == nil {
		variants = []model.ColorVariant{}
	}
	data, err := json.Marshal(variants)
	if err != nil {
		return "", fmt.Errorf("encoding color variants: %w", err)
	}
	return string(data), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
