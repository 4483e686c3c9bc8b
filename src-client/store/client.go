package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to the backend's /events endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqBody any, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("(*Client).do: can't marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("(*Client).do: can't create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("(*Client).do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("(*Client).do: %s %s: unexpected status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("(*Client).do: can't decode response body: %w", err)
		}
	}
	return nil
}

// List fetches the full event list.
func (c *Client) List(ctx context.Context) ([]Event, error) {
	events := make([]Event, 0)
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, fmt.Errorf("(*Client).List: %w", err)
	}
	return events, nil
}

// Create sends a draft event; the response echoes the persisted record with
// its server-assigned ID.
func (c *Client) Create(ctx context.Context, draft Draft) (Event, error) {
	var created Event
	if err := c.do(ctx, http.MethodPost, "/events", draft, &created); err != nil {
		return Event{}, fmt.Errorf("(*Client).Create: %w", err)
	}
	return created, nil
}

// Update sends a partial payload and returns the updated record.
func (c *Client) Update(ctx context.Context, id string, patch Patch) (Event, error) {
	var updated Event
	if err := c.do(ctx, http.MethodPatch, "/events/"+id, patch, &updated); err != nil {
		return Event{}, fmt.Errorf("(*Client).Update: %w", err)
	}
	return updated, nil
}

// Delete removes the event; success has no body.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/events/"+id, nil, nil); err != nil {
		return fmt.Errorf("(*Client).Delete: %w", err)
	}
	return nil
}
