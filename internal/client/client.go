// Package client is the Go client for the stock server's REST API. It
// satisfies stock.RecordStore, so a stock.Saver can run its reconcile-and-retry
// loop over HTTP exactly as it would over a local database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mandaniarchi41/sarii-stock/internal/model"
	"github.com/mandaniarchi41/sarii-stock/internal/stock"
)

// DefaultTimeout bounds each request. Item payloads can carry inline images,
// so this is deliberately roomier than a bare JSON round trip needs.
const DefaultTimeout = 10 * time.Second

// Client talks to a stock server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
	}
}

// errorBody mirrors the server's error responses.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// List fetches all items.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches a single item by ID.
func (c *Client) Get(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items/"+id, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Add creates an item and returns the stored record with its assigned ID.
func (c *Client) Add(ctx context.Context, item *model.Item) (*model.Item, error) {
	var created model.Item
	if err := c.do(ctx, http.MethodPost, "/api/items/add", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Replace submits a full replacement write for item. The item's Version field
// names the revision the caller last saw; a stale version yields
// stock.ErrVersionConflict.
func (c *Client) Replace(ctx context.Context, item *model.Item) (*model.Item, error) {
	var updated model.Item
	if err := c.do(ctx, http.MethodPut, "/api/items/update/"+item.ID, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an item and returns the record as it was at deletion.
func (c *Client) Delete(ctx context.Context, id string) (*model.Item, error) {
	var resp struct {
		DeletedItem model.Item `json:"deletedItem"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/items/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.DeletedItem, nil
}

// do runs one request and decodes a success response into out. Error
// responses are mapped back onto the shared sentinel errors so callers can
// use errors.Is regardless of transport.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) asError(resp *http.Response) error {
	var body errorBody
	// Best effort: a failed decode still leaves the status code to go on.
	json.NewDecoder(resp.Body).Decode(&body)

	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case body.Code == "version_conflict":
		return fmt.Errorf("server: %s: %w", msg, stock.ErrVersionConflict)
	case body.Code == "duplicate_catalog_number":
		return fmt.Errorf("server: %s: %w", msg, stock.ErrDuplicateCatalogNumber)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("server: %s: %w", msg, stock.ErrNotFound)
	default:
		return fmt.Errorf("server: %s (status %d)", msg, resp.StatusCode)
	}
}
