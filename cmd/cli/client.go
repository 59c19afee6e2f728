package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// client talks to the sitecheck API.
type client struct {
	base string
	key  string
	http *http.Client
}

func newClient(opts *globalOpts) *client {
	return &client{
		base: strings.TrimRight(opts.apiBase, "/"),
		key:  opts.apiKey,
		http: &http.Client{},
	}
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting API: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, e.Error)
	}
	return resp, nil
}

func (c *client) Submit(ctx context.Context, target string) (*domain.Report, error) {
	body, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/probes", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		Report domain.Report `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &out.Report, nil
}

func (c *client) Export(ctx context.Context, format string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/reports/export."+format, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(w, resp.Body)
}

func (c *client) Clear(ctx context.Context) (int, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/api/reports", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode clear response: %w", err)
	}
	return out.Deleted, nil
}
