// Package sheets реализует клиент экспорта заметок в электронную таблицу.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/thoughts2action/thoughts2action/internal/config"
)

// Client клиент HTTP API электронных таблиц.
type Client struct {
	baseURL       string
	token         string
	spreadsheetID string
	httpClient    *http.Client
}

// NewClient создает клиент экспорта в таблицы.
func NewClient(cfg config.SheetsExport) *Client {
	return &Client{
		baseURL:       cfg.SheetsBaseURL,
		token:         cfg.SheetsToken,
		spreadsheetID: cfg.SpreadsheetID,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// AppendRows дописывает строки в конец листа и возвращает число добавленных строк.
func (c *Client) AppendRows(ctx context.Context, sheetRange string, rows [][]string) (int, error) {
	const op = "sheets.AppendRows"

	body := appendRequest{
		Range:          sheetRange,
		MajorDimension: "ROWS",
		Values:         rows,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		c.spreadsheetID, url.PathEscape(sheetRange))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var result appendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return result.Updates.UpdatedRows, nil
}
