package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/mandaniarchi41/sarii-stock/internal/imaging"
	"github.com/mandaniarchi41/sarii-stock/internal/model"
	"github.com/mandaniarchi41/sarii-stock/internal/stock"
	"github.com/mandaniarchi41/sarii-stock/internal/store"
)

// ItemsHandler handles the item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// itemRequest is the write payload for add and update. The version field is
// only meaningful on update, where it names the revision the client last saw.
type itemRequest struct {
	CatalogNumber string               `json:"catalogNumber"`
	DisplayName   string               `json:"displayName"`
	Price         float64              `json:"price"`
	ImageRef      string               `json:"imageRef"`
	ColorVariants []model.ColorVariant `json:"colorVariants"`
	Version       int64                `json:"version"`
}

// validate checks the payload fields. Returns an empty string when valid.
func (req *itemRequest) validate() string {
	if req.CatalogNumber == "" {
		return "catalog number required"
	}
	if req.DisplayName == "" {
		return "display name required"
	}
	if req.Price < 0 {
		return "price must be non-negative"
	}
	if len(req.ColorVariants) == 0 {
		return "at least one color variant required"
	}
	seen := make(map[string]bool, len(req.ColorVariants))
	for _, v := range req.ColorVariants {
		if v.ColorName == "" {
			return "color name required"
		}
		if seen[v.ColorName] {
			return fmt.Sprintf("duplicate color name %q", v.ColorName)
		}
		seen[v.ColorName] = true
		if v.Stock < 0 || v.MinStock < 0 {
			return fmt.Sprintf("stock levels for %q must be non-negative", v.ColorName)
		}
	}
	return ""
}

// normalizeImages runs every inline image reference through the imaging
// pipeline. External URLs pass through untouched.
func (req *itemRequest) normalizeImages() error {
	ref, err := imaging.NormalizeRef(req.ImageRef)
	if err != nil {
		return fmt.Errorf("item image: %w", err)
	}
	req.ImageRef = ref

	for i := range req.ColorVariants {
		ref, err := imaging.NormalizeRef(req.ColorVariants[i].ColorImageRef)
		if err != nil {
			return fmt.Errorf("image for color %q: %w", req.ColorVariants[i].ColorName, err)
		}
		req.ColorVariants[i].ColorImageRef = ref
	}
	return nil
}

func (req *itemRequest) toItem() *model.Item {
	return &model.Item{
		CatalogNumber: req.CatalogNumber,
		DisplayName:   req.DisplayName,
		Price:         req.Price,
		ImageRef:      req.ImageRef,
		ColorVariants: req.ColorVariants,
		Version:       req.Version,
	}
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, stock.ErrNotFound) {
		jsonErrorCode(w, http.StatusNotFound, "item not found", codeNotFound)
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items/add.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	if err := req.normalizeImages(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.InsertItem(r.Context(), h.DB, req.toItem())
	if errors.Is(err, stock.ErrDuplicateCatalogNumber) {
		jsonErrorCode(w, http.StatusBadRequest, "catalog number already in use", codeDuplicateCatalog)
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/update/{id}. The payload's version field must
// match the stored revision; a mismatch means someone else wrote in between,
// and the client gets a 409 with a version_conflict code so it can refetch
// and retry.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}
	if err := req.normalizeImages(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := req.toItem()
	item.ID = r.PathValue("id")

	updated, err := store.ReplaceItem(r.Context(), h.DB, item)
	switch {
	case errors.Is(err, stock.ErrVersionConflict):
		jsonErrorCode(w, http.StatusConflict, "item was modified by someone else", codeVersionConflict)
		return
	case errors.Is(err, stock.ErrNotFound):
		jsonErrorCode(w, http.StatusNotFound, "item not found", codeNotFound)
		return
	case errors.Is(err, stock.ErrDuplicateCatalogNumber):
		jsonErrorCode(w, http.StatusBadRequest, "catalog number already in use", codeDuplicateCatalog)
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, "failed to update item")
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}. The deleted record rides along in
// the response so the caller can log what disappeared.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := store.DeleteItem(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, stock.ErrNotFound) {
		jsonErrorCode(w, http.StatusNotFound, "item not found", codeNotFound)
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"message":     "item deleted",
		"deletedItem": deleted,
	})
}
