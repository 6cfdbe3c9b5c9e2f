package stock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mandaniarchi41/sarii-stock/internal/model"
)

// ColorDraft is a color variant as edited in a form, all fields free-form.
type ColorDraft struct {
	ColorName     string
	Stock         string
	MinStock      string
	ColorImageRef string
}

// ItemDraft is an item as edited in a form. Validate coerces it into a typed
// model.Item.
type ItemDraft struct {
	CatalogNumber string
	DisplayName   string
	Price         string
	ImageRef      string
	ColorVariants []ColorDraft
}

// Validate checks a draft and returns the typed item (strings trimmed,
// numbers coerced) or the accumulated per-field errors. Validation failure is
// an expected outcome, not an exceptional one; the returned FieldErrors is
// nil on success.
func Validate(draft ItemDraft) (*model.Item, FieldErrors) {
	errs := FieldErrors{}

	catalog := strings.TrimSpace(draft.CatalogNumber)
	if catalog == "" {
		errs["catalogNumber"] = "catalog number is required"
	}

	name := strings.TrimSpace(draft.DisplayName)
	if name == "" {
		errs["displayName"] = "display name is required"
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if err != nil || price < 0 {
		errs["price"] = "price must be a non-negative number"
	}

	if len(draft.ColorVariants) == 0 {
		errs["colorVariants"] = "at least one color variant is required"
	}

	variants := make([]model.ColorVariant, 0, len(draft.ColorVariants))
	seen := make(map[string]bool, len(draft.ColorVariants))
	for i, c := range draft.ColorVariants {
		colorName := strings.TrimSpace(c.ColorName)
		if colorName == "" {
			errs[fieldPath(i, "colorName")] = "color name is required"
		} else if seen[colorName] {
			errs[fieldPath(i, "colorName")] = "duplicate color name"
		}
		seen[colorName] = true

		stock, err := strconv.Atoi(strings.TrimSpace(c.Stock))
		if err != nil || stock < 0 {
			errs[fieldPath(i, "stock")] = "stock must be a non-negative integer"
		}

		minStock, err := strconv.Atoi(strings.TrimSpace(c.MinStock))
		if err != nil || minStock < 0 {
			errs[fieldPath(i, "minStock")] = "minimum stock must be a non-negative integer"
		}

		variants = append(variants, model.ColorVariant{
			ColorName:     colorName,
			Stock:         stock,
			MinStock:      minStock,
			ColorImageRef: strings.TrimSpace(c.ColorImageRef),
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &model.Item{
		CatalogNumber: catalog,
		DisplayName:   name,
		Price:         price,
		ImageRef:      strings.TrimSpace(draft.ImageRef),
		ColorVariants: variants,
	}, nil
}

// DraftFromItem converts a stored item back into a draft, the inverse of
// Validate. Used when pre-filling an edit form or applying partial edits on
// top of a fetched record.
func DraftFromItem(item *model.Item) ItemDraft {
	colors := make([]ColorDraft, 0, len(item.ColorVariants))
	for _, v := range item.ColorVariants {
		colors = append(colors, ColorDraft{
			ColorName:     v.ColorName,
			Stock:         strconv.Itoa(v.Stock),
			MinStock:      strconv.Itoa(v.MinStock),
			ColorImageRef: v.ColorImageRef,
		})
	}
	return ItemDraft{
		CatalogNumber: item.CatalogNumber,
		DisplayName:   item.DisplayName,
		Price:         strconv.FormatFloat(item.Price, 'f', -1, 64),
		ImageRef:      item.ImageRef,
		ColorVariants: colors,
	}
}

func fieldPath(index int, field string) string {
	return fmt.Sprintf("colorVariants[%d].%s", index, field)
}
