// Package client provides an HTTP client for the beacon sidecar, used by the
// emit and watch commands and by external tooling that prefers Go over the
// Python hook scripts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/beacon/internal/model"
)

// Client talks to the sidecar's HTTP/JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:4000").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Health reports whether the sidecar answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: server returned %d", resp.StatusCode)
	}
	return nil
}

// Ingest submits a hook event and returns the stored record.
func (c *Client) Ingest(ctx context.Context, ev model.HookEvent) (*model.StoredEvent, error) {
	var stored model.StoredEvent
	if err := c.doJSON(ctx, http.MethodPost, "/events", ev, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Recent returns the newest retained events in ascending order.
func (c *Client) Recent(ctx context.Context) ([]model.StoredEvent, error) {
	var out []model.StoredEvent
	if err := c.doJSON(ctx, http.MethodGet, "/events/recent", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSession removes every event belonging to the given session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(sessionID), nil, nil)
}

// Clear empties the log and resets the ID counter.
func (c *Client) Clear(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/events/clear", nil, nil)
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: server returned %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
