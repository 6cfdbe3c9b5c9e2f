package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mandaniarchi41/sarii-stock/internal/imaging"
	"github.com/mandaniarchi41/sarii-stock/internal/model"
	"github.com/mandaniarchi41/sarii-stock/internal/stock"
	"github.com/mandaniarchi41/sarii-stock/internal/store"
)

// gridRow is one row of the inventory grid.
type gridRow struct {
	Item       model.Item
	TotalStock int
	Low        bool
}

// GridPage handles GET /. An optional ?q= filters by catalog number or name.
func (s *Server) GridPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	needle := strings.ToLower(query)
	var rows []gridRow
	for _, item := range items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.CatalogNumber), needle) &&
			!strings.Contains(strings.ToLower(item.DisplayName), needle) {
			continue
		}
		row := gridRow{Item: item}
		for _, v := range item.ColorVariants {
			row.TotalStock += v.Stock
			if v.LowStock() {
				row.Low = true
			}
		}
		rows = append(rows, row)
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items []gridRow
	}{
		PageData: PageData{
			Title:   "Inventory",
			Query:   query,
			Error:   r.URL.Query().Get("error"),
			Success: r.URL.Query().Get("success"),
		},
		Items: rows,
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), s.DB, r.PathValue("id"))
	if errors.Is(err, stock.ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.renderDetail(w, r, item, r.URL.Query().Get("error"), r.URL.Query().Get("success"))
}

func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, item *model.Item, errMsg, successMsg string) {
	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item *model.Item
	}{
		PageData: PageData{Title: item.DisplayName, Error: errMsg, Success: successMsg},
		Item:     item,
	})
}

// ItemCreateSubmit handles POST /items, the add form on the grid page.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	draft := draftFromForm(r)

	validated, ferrs := stock.Validate(draft)
	if ferrs != nil {
		redirectError(w, r, "/", ferrs.Error())
		return
	}
	if err := normalizeRefs(validated); err != nil {
		redirectError(w, r, "/", err.Error())
		return
	}

	created, err := store.InsertItem(r.Context(), s.DB, validated)
	if errors.Is(err, stock.ErrDuplicateCatalogNumber) {
		redirectError(w, r, "/", "catalog number already in use")
		return
	}
	if err != nil {
		slog.Error("failed to create item", "error", err)
		redirectError(w, r, "/", "failed to create item")
		return
	}

	slog.Info("item created", "catalog", created.CatalogNumber, "id", created.ID)
	http.Redirect(w, r, "/items/"+created.ID, http.StatusSeeOther)
}

// ItemUpdateSubmit handles POST /items/{id}. The form carries the version the
// user saw when the page rendered; an intervening write surfaces as a
// conflict, which the saver resolves by refetching and reapplying the edit.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail := "/items/" + id

	fetched, err := store.GetItem(r.Context(), s.DB, id)
	if errors.Is(err, stock.ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// The edit is tagged with the version the form was rendered against, not
	// whatever the store holds now; that is what makes stale edits detectable.
	prior := *fetched
	if v, err := strconv.ParseInt(r.FormValue("version"), 10, 64); err == nil {
		prior.Version = v
	}

	draft := draftFromForm(r)
	if err := normalizeDraftRefs(&draft); err != nil {
		redirectError(w, r, detail, err.Error())
		return
	}

	result, err := s.Saver.Save(r.Context(), &prior, draft)
	if ferrs, ok := stock.AsFieldErrors(err); ok {
		redirectError(w, r, detail, ferrs.Error())
		return
	}
	if errors.Is(err, stock.ErrConflictExhausted) {
		redirectError(w, r, detail, "too many concurrent edits, reload and try again")
		return
	}
	if err != nil {
		slog.Error("failed to update item", "error", err)
		redirectError(w, r, detail, "failed to update item")
		return
	}

	slog.Info("item updated", "catalog", result.Item.CatalogNumber, "version", result.Item.Version,
		"stockChanges", len(result.Changes))
	http.Redirect(w, r, detail+"?success="+url.QueryEscape("saved"), http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	deleted, err := store.DeleteItem(r.Context(), s.DB, r.PathValue("id"))
	if errors.Is(err, stock.ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to delete item", "error", err)
		http.Error(w, "failed to delete item", http.StatusInternalServerError)
		return
	}

	slog.Info("item deleted", "catalog", deleted.CatalogNumber, "id", deleted.ID)
	http.Redirect(w, r, "/?success="+url.QueryEscape("item deleted"), http.StatusSeeOther)
}

// AlertsPage handles GET /alerts.
func (s *Server) AlertsPage(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "alerts.html", &struct {
		PageData
		Alerts []model.Alert
	}{
		PageData: PageData{Title: "Low-stock alerts"},
		Alerts:   stock.DeriveAlerts(items),
	})
}

// draftFromForm reads the item edit form. Color rows are parallel input
// arrays; a row with an empty color name and zero levels is the blank
// "new color" row and is dropped.
func draftFromForm(r *http.Request) stock.ItemDraft {
	r.ParseForm()

	draft := stock.ItemDraft{
		CatalogNumber: r.FormValue("catalogNumber"),
		DisplayName:   r.FormValue("displayName"),
		Price:         r.FormValue("price"),
		ImageRef:      r.FormValue("imageRef"),
	}

	names := r.Form["colorName"]
	stocks := r.Form["stock"]
	mins := r.Form["minStock"]
	images := r.Form["colorImageRef"]

	for i, name := range names {
		color := stock.ColorDraft{ColorName: name, Stock: "0", MinStock: "0"}
		if i < len(stocks) {
			color.Stock = stocks[i]
		}
		if i < len(mins) {
			color.MinStock = mins[i]
		}
		if i < len(images) {
			color.ColorImageRef = images[i]
		}
		if strings.TrimSpace(color.ColorName) == "" && color.Stock == "0" && color.MinStock == "0" {
			continue
		}
		draft.ColorVariants = append(draft.ColorVariants, color)
	}

	return draft
}

// normalizeDraftRefs runs a draft's inline images through the imaging
// pipeline before the draft reaches the saver.
func normalizeDraftRefs(draft *stock.ItemDraft) error {
	ref, err := imaging.NormalizeRef(draft.ImageRef)
	if err != nil {
		return err
	}
	draft.ImageRef = ref
	for i := range draft.ColorVariants {
		ref, err := imaging.NormalizeRef(draft.ColorVariants[i].ColorImageRef)
		if err != nil {
			return err
		}
		draft.ColorVariants[i].ColorImageRef = ref
	}
	return nil
}

// normalizeRefs runs inline images through the imaging pipeline in place.
func normalizeRefs(item *model.Item) error {
	ref, err := imaging.NormalizeRef(item.ImageRef)
	if err != nil {
		return err
	}
	item.ImageRef = ref
	for i := range item.ColorVariants {
		ref, err := imaging.NormalizeRef(item.ColorVariants[i].ColorImageRef)
		if err != nil {
			return err
		}
		item.ColorVariants[i].ColorImageRef = ref
	}
	return nil
}

func redirectError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
