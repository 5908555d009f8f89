// Package socrata is a minimal client for the open data portal's SODA
// API, covering the three operations the publisher needs: upsert, SoQL
// row-id queries, and row deletion.
package socrata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Config identifies the portal and account. Domain is a bare host, not a
// URL; the portal rejects scheme-prefixed values.
type Config struct {
	Domain   string
	AppToken string
	Username string
	Password string
}

// Client talks to one Socrata domain.
type Client struct {
	cfg        Config
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(cfg Config, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://" + cfg.Domain,
		logger:  logger,
	}
}

// Upsert posts records to a dataset. Records sharing a uid with an
// existing row replace it; the rest append.
func (c *Client) Upsert(ctx context.Context, datasetID string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal upsert payload: %w", err)
	}

	u := fmt.Sprintf("%s/resource/%s.json", c.baseURL, datasetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.send(req); err != nil {
		return fmt.Errorf("upsert to %s: %w", datasetID, err)
	}
	return nil
}

// QueryUIDsOlderThan returns the uid of every dataset row whose stamp
// field predates the cutoff. Socrata only recognizes timestamps with a
// 'T' separator, never a space.
func (c *Client) QueryUIDsOlderThan(ctx context.Context, datasetID, stampField string, cutoff time.Time) ([]string, error) {
	params := url.Values{
		"$select": {"uid"},
		"$where":  {fmt.Sprintf("%s < '%s'", stampField, cutoff.Format("2006-01-02T15:04:05"))},
		"$limit":  {"10000"},
	}
	u := fmt.Sprintf("%s/resource/%s.json?%s", c.baseURL, datasetID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	body, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", datasetID, err)
	}

	var rows []struct {
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	uids := make([]string, 0, len(rows))
	for _, r := range rows {
		uids = append(uids, r.UID)
	}
	return uids, nil
}

// DeleteRow removes a single row by uid.
func (c *Client) DeleteRow(ctx context.Context, datasetID, uid string) error {
	u := fmt.Sprintf("%s/resource/%s/%s.json", c.baseURL, datasetID, url.PathEscape(uid))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if _, err := c.send(req); err != nil {
		return fmt.Errorf("delete row %s from %s: %w", uid, datasetID, err)
	}
	return nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("X-App-Token", c.cfg.AppToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read portal response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("portal error: status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
