package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mandaniarchi41/sarii-stock/internal/db"
	"github.com/mandaniarchi41/sarii-stock/internal/model"
	"github.com/mandaniarchi41/sarii-stock/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()
	database := db.NewTestDB(t)
	handler, err := NewRouter(database)
	if err != nil {
		t.Fatalf("building router: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, &Server{DB: database}
}

// noRedirects returns a client that stops at the first redirect so tests can
// assert on the redirect target itself.
func noRedirects() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func seedItem(t *testing.T, s *Server, catalog string) *model.Item {
	t.Helper()
	item, err := store.InsertItem(context.Background(), s.DB, &model.Item{
		CatalogNumber: catalog,
		DisplayName:   "Banarasi Silk",
		Price:         4999,
		ColorVariants: []model.ColorVariant{
			{ColorName: "Red", Stock: 1, MinStock: 5},
		},
	})
	if err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return item
}

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestGridPage(t *testing.T) {
	srv, s := newTestServer(t)
	seedItem(t, s, "SR-1001")

	status, body := getBody(t, srv.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "SR-1001") || !strings.Contains(body, "Banarasi Silk") {
		t.Error("grid does not show the seeded item")
	}
	if !strings.Contains(body, "low stock") {
		t.Error("grid does not flag the low-stock item")
	}
}

func TestGridSearchFilters(t *testing.T) {
	srv, s := newTestServer(t)
	seedItem(t, s, "SR-1001")

	status, body := getBody(t, srv.URL+"/?q=kanchipuram")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if strings.Contains(body, "SR-1001") {
		t.Error("expected search to filter out non-matching item")
	}

	_, body = getBody(t, srv.URL+"/?q=sr-10")
	if !strings.Contains(body, "SR-1001") {
		t.Error("expected case-insensitive match on catalog number")
	}
}

func TestDetailPage(t *testing.T) {
	srv, s := newTestServer(t)
	item := seedItem(t, s, "SR-1001")

	status, body := getBody(t, srv.URL+"/items/"+item.ID)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `name="version" value="0"`) {
		t.Error("detail form does not carry the version token")
	}

	status, _ = getBody(t, srv.URL+"/items/no-such-id")
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for missing item, got %d", status)
	}
}

func TestCreateSubmit(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{
		"catalogNumber": {"SR-2001"},
		"displayName":   {"Kanchipuram"},
		"price":         {"7500"},
		"colorName":     {"Green"},
		"stock":         {"4"},
		"minStock":      {"1"},
	}
	resp, err := noRedirects().PostForm(srv.URL+"/items", form)
	if err != nil {
		t.Fatalf("POST /items: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/items/") {
		t.Errorf("expected redirect to detail page, got %q", loc)
	}
}

func TestCreateSubmitValidationRedirects(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{
		"catalogNumber": {""},
		"displayName":   {"Kanchipuram"},
		"price":         {"7500"},
		"colorName":     {"Green"},
		"stock":         {"4"},
		"minStock":      {"1"},
	}
	resp, err := noRedirects().PostForm(srv.URL+"/items", form)
	if err != nil {
		t.Fatalf("POST /items: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect, got %q", loc)
	}
}

func TestUpdateSubmitResolvesStaleVersion(t *testing.T) {
	srv, s := newTestServer(t)
	item := seedItem(t, s, "SR-1001")

	// A concurrent writer bumps the version after the form rendered.
	bumped := *item
	bumped.DisplayName = "Renamed"
	if _, err := store.ReplaceItem(context.Background(), s.DB, &bumped); err != nil {
		t.Fatalf("concurrent replace: %v", err)
	}

	form := url.Values{
		"version":       {"0"}, // the version the form was rendered with
		"catalogNumber": {"SR-1001"},
		"displayName":   {"Banarasi Silk"},
		"price":         {"4999"},
		"colorName":     {"Red"},
		"stock":         {"7"},
		"minStock":      {"5"},
	}
	resp, err := noRedirects().PostForm(srv.URL+"/items/"+item.ID, form)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.Contains(loc, "success=") {
		t.Fatalf("expected retry to land the edit, got redirect to %q", loc)
	}

	saved, err := store.GetItem(context.Background(), s.DB, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if saved.Version != 2 {
		t.Errorf("expected version 2 after conflict retry, got %d", saved.Version)
	}
	if saved.ColorVariants[0].Stock != 7 {
		t.Errorf("edit lost: %+v", saved.ColorVariants)
	}
}

func TestDeleteSubmit(t *testing.T) {
	srv, s := newTestServer(t)
	item := seedItem(t, s, "SR-1001")

	resp, err := noRedirects().PostForm(srv.URL+"/items/"+item.ID+"/delete", url.Values{})
	if err != nil {
		t.Fatalf("POST delete: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}

	if _, err := store.GetItem(context.Background(), s.DB, item.ID); err == nil {
		t.Error("expected item to be gone")
	}
}

func TestAlertsPage(t *testing.T) {
	srv, s := newTestServer(t)
	seedItem(t, s, "SR-1001") // Red: stock 1, min 5

	status, body := getBody(t, srv.URL+"/alerts")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "Red") || !strings.Contains(body, "SR-1001") {
		t.Error("alerts page does not show the low-stock color")
	}
}
