package stock

import (
	"testing"
)

func validDraft() ItemDraft {
	return ItemDraft{
		CatalogNumber: "SR-1001",
		DisplayName:   "Banarasi Silk",
		Price:         "2499.50",
		ColorVariants: []ColorDraft{
			{ColorName: "Red", Stock: "5", MinStock: "2"},
			{ColorName: "Blue", Stock: "0", MinStock: "0"},
		},
	}
}

func TestValidateSuccess(t *testing.T) {
	item, errs := Validate(validDraft())
	if errs != nil {
		t.Fatalf("expected success, got %v", errs)
	}
	if item.CatalogNumber != "SR-1001" || item.DisplayName != "Banarasi Silk" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.Price != 2499.50 {
		t.Errorf("expected price 2499.50, got %v", item.Price)
	}
	if len(item.ColorVariants) != 2 || item.ColorVariants[0].Stock != 5 {
		t.Errorf("unexpected variants: %+v", item.ColorVariants)
	}
}

func TestValidateTrimsFields(t *testing.T) {
	draft := validDraft()
	draft.CatalogNumber = "  SR-1001  "
	draft.DisplayName = " Banarasi Silk "
	draft.ColorVariants[0].ColorName = " Red "

	item, errs := Validate(draft)
	if errs != nil {
		t.Fatalf("expected success, got %v", errs)
	}
	if item.CatalogNumber != "SR-1001" {
		t.Errorf("catalog number not trimmed: %q", item.CatalogNumber)
	}
	if item.ColorVariants[0].ColorName != "Red" {
		t.Errorf("color name not trimmed: %q", item.ColorVariants[0].ColorName)
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	draft := validDraft()
	draft.CatalogNumber = ""
	draft.Price = "-1"

	_, errs := Validate(draft)
	if errs == nil {
		t.Fatal("expected errors")
	}
	if _, ok := errs["catalogNumber"]; !ok {
		t.Error("expected catalogNumber error")
	}
	if _, ok := errs["price"]; !ok {
		t.Error("expected price error")
	}
	if len(errs) != 2 {
		t.Errorf("expected exactly 2 errors, got %v", errs)
	}
}

func TestValidateFieldFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ItemDraft)
		field  string
	}{
		{"empty display name", func(d *ItemDraft) { d.DisplayName = "  " }, "displayName"},
		{"unparseable price", func(d *ItemDraft) { d.Price = "abc" }, "price"},
		{"negative price", func(d *ItemDraft) { d.Price = "-0.01" }, "price"},
		{"no variants", func(d *ItemDraft) { d.ColorVariants = nil }, "colorVariants"},
		{"empty color name", func(d *ItemDraft) { d.ColorVariants[1].ColorName = "" }, "colorVariants[1].colorName"},
		{"duplicate color name", func(d *ItemDraft) { d.ColorVariants[1].ColorName = "Red" }, "colorVariants[1].colorName"},
		{"negative stock", func(d *ItemDraft) { d.ColorVariants[0].Stock = "-3" }, "colorVariants[0].stock"},
		{"fractional stock", func(d *ItemDraft) { d.ColorVariants[0].Stock = "2.5" }, "colorVariants[0].stock"},
		{"empty min stock", func(d *ItemDraft) { d.ColorVariants[0].MinStock = "" }, "colorVariants[0].minStock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			item, errs := Validate(draft)
			if item != nil || errs == nil {
				t.Fatal("expected validation failure")
			}
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error for %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestDraftFromItemRoundTrip(t *testing.T) {
	item, errs := Validate(validDraft())
	if errs != nil {
		t.Fatalf("Validate: %v", errs)
	}

	back, errs := Validate(DraftFromItem(item))
	if errs != nil {
		t.Fatalf("re-validate: %v", errs)
	}
	if back.CatalogNumber != item.CatalogNumber || back.Price != item.Price {
		t.Errorf("round trip changed item: %+v vs %+v", back, item)
	}
	if len(back.ColorVariants) != len(item.ColorVariants) {
		t.Fatalf("round trip changed variants: %+v", back.ColorVariants)
	}
}
