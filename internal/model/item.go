package model

import "time"

// Item is a catalog entry with per-color stock levels. The JSON field names
// match the wire format consumed by the grid and detail views.
type Item struct {
	ID            string         `json:"id"`
	CatalogNumber string         `json:"catalogNumber"`
	DisplayName   string         `json:"displayName"`
	Price         float64        `json:"price"`
	ImageRef      string         `json:"imageRef,omitempty"`
	ColorVariants []ColorVariant `json:"colorVariants"`
	Version       int64          `json:"version"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ColorVariant is one color option of an item. Variants are embedded in their
// parent item and have no independent identity; colorName is unique within
// the parent's list.
type ColorVariant struct {
	ColorName     string `json:"colorName"`
	Stock         int    `json:"stock"`
	MinStock      int    `json:"minStock"`
	ColorImageRef string `json:"colorImageRef,omitempty"`
}

// LowStock reports whether the variant is below its reorder threshold.
func (v ColorVariant) LowStock() bool {
	return v.Stock < v.MinStock
}

// Variant returns the variant with the given color name, or nil.
func (i *Item) Variant(colorName string) *ColorVariant {
	for idx := range i.ColorVariants {
		if i.ColorVariants[idx].ColorName == colorName {
			return &i.ColorVariants[idx]
		}
	}
	return nil
}

// Snapshot captures the minimal item identity kept with history entries.
func (i *Item) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		ItemID:        i.ID,
		CatalogNumber: i.CatalogNumber,
		DisplayName:   i.DisplayName,
	}
}
