package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"envase-return-backend/config"
)

// Client reads tabular data from a Google Sheets gviz endpoint.
type Client struct {
	baseURL       string
	spreadsheetID string
	http          *http.Client
}

// NewClient creates a gviz client for the configured spreadsheet.
func NewClient(cfg *config.SheetsConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Row is a single gviz table row.
type Row struct {
	C []Cell `json:"c"`
}

// Cell is a gviz cell: V carries the typed value, F the formatted one.
type Cell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

type gvizResponse struct {
	Table struct {
		Rows []Row `json:"rows"`
	} `json:"table"`
}

// FetchWithFallback tries each candidate sheet name in order and
// returns the rows of the first one that yields a non-empty set. When
// every candidate fails it returns an empty set, not an error; the
// caller decides whether an empty dataset is a problem.
func (c *Client) FetchWithFallback(ctx context.Context, names []string, cellRange string) []Row {
	for _, name := range names {
		rows, err := c.fetchSheet(ctx, name, cellRange)
		if err != nil {
			log.Printf("Warning: sheet %q: %v", name, err)
			continue
		}
		if len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// fetchSheet fetches and decodes a single sheet. The gviz endpoint
// wraps its JSON in a JS callback, so the body is sliced from the
// first '{' to the last '}' before decoding.
func (c *Client) fetchSheet(ctx context.Context, name, cellRange string) ([]Row, error) {
	u := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s&range=%s",
		c.baseURL, c.spreadsheetID, url.QueryEscape(name), url.QueryEscape(cellRange))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	start := strings.Index(string(body), "{")
	end := strings.LastIndex(string(body), "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in gviz response")
	}

	var decoded gvizResponse
	if err := json.Unmarshal(body[start:end+1], &decoded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gviz response: %w", err)
	}

	return decoded.Table.Rows, nil
}

// CellValue returns the trimmed string content of column i, preferring
// the typed value and falling back to the formatted one. Missing or
// blank cells map to the empty string.
func CellValue(r Row, i int) string {
	if i < 0 || i >= len(r.C) {
		return ""
	}
	cell := r.C[i]
	if cell.V != nil {
		switch v := cell.V.(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			// gviz numbers decode as float64; codes must not gain a
			// fractional suffix.
			if v == float64(int64(v)) {
				return fmt.Sprintf("%d", int64(v))
			}
			return strings.TrimSpace(fmt.Sprint(v))
		default:
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return strings.TrimSpace(cell.F)
}
