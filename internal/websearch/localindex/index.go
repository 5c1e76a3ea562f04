// Package localindex adapts the host application's local search index.
package localindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	whttp "github.com/lk2023060901/assistant-plugins/internal/websearch/http"
)

// Document is a raw hit from the local index. Content is HTML.
type Document struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Index queries the local search index
type Index interface {
	Query(ctx context.Context, text string, limit int) ([]Document, error)
}

// IndexFunc lets an in-process host plug a function in as an Index
type IndexFunc func(ctx context.Context, text string, limit int) ([]Document, error)

// Query calls f
func (f IndexFunc) Query(ctx context.Context, text string, limit int) ([]Document, error) {
	return f(ctx, text, limit)
}

// Client reaches a local index exposed by the host over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the index served at baseURL
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid local index url: %w", err)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: whttp.NewHTTPClient(timeout),
	}, nil
}

// Query runs GET {base}/search?q=&limit= and decodes a JSON array of documents
func (c *Client) Query(ctx context.Context, text string, limit int) ([]Document, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("local index returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var docs []Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode local index response: %w", err)
	}
	return docs, nil
}
