package model

import "time"

// History entry actions.
const (
	ActionAdd         = "add"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionStockUpdate = "stock_update"
)

// ColorChange records a stock movement for one color. Min-stock fields are
// set together for additions and level changes, and left nil for removals.
type ColorChange struct {
	ColorName   string `json:"colorName"`
	OldStock    int    `json:"oldStock"`
	NewStock    int    `json:"newStock"`
	OldMinStock *int   `json:"oldMinStock,omitempty"`
	NewMinStock *int   `json:"newMinStock,omitempty"`
}

// ItemSnapshot is the minimal item identity kept with a history entry, so the
// entry remains displayable after the live item is deleted.
type ItemSnapshot struct {
	ItemID        string `json:"itemId"`
	CatalogNumber string `json:"catalogNumber"`
	DisplayName   string `json:"displayName"`
}

// HistoryEntry is an append-only local audit record. Entries reference items
// by ID only; deleting an item does not remove its entries.
type HistoryEntry struct {
	ID        string        `json:"id"`
	ItemID    string        `json:"itemId"`
	Action    string        `json:"action"`
	Changes   []ColorChange `json:"changes,omitempty"`
	Snapshot  ItemSnapshot  `json:"snapshot"`
	Timestamp time.Time     `json:"timestamp"`
}

// Alert flags one color variant whose stock is below its minimum.
type Alert struct {
	ItemID        string `json:"itemId"`
	ColorName     string `json:"colorName"`
	CatalogNumber string `json:"catalogNumber"`
	DisplayName   string `json:"displayName"`
	CurrentStock  int    `json:"currentStock"`
	MinimumStock  int    `json:"minimumStock"`
}
