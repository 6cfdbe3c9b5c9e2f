package web

import (
	"database/sql"
	"net/http"

	"github.com/mandaniarchi41/sarii-stock/internal/stock"
	"github.com/mandaniarchi41/sarii-stock/internal/store"
	webembed "github.com/mandaniarchi41/sarii-stock/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		// Web edits write to the local store, but they still go through the
		// same bounded conflict retry as any other writer.
		Saver: &stock.Saver{Store: &store.Records{DB: db}},
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.GridPage)
	mux.HandleFunc("POST /items", s.ItemCreateSubmit)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)
	mux.HandleFunc("POST /items/{id}", s.ItemUpdateSubmit)
	mux.HandleFunc("POST /items/{id}/delete", s.ItemDeleteSubmit)
	mux.HandleFunc("GET /alerts", s.AlertsPage)

	return mux, nil
}
