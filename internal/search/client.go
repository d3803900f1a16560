package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoBaseURL is returned by a Client that was built without an endpoint.
var ErrNoBaseURL = errors.New("search base url missing")

// Client fetches candidate documents from a remote JSON search endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient returns a new client. If httpClient is nil, a default with 15s timeout is used.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, HTTP: httpClient}
}

// Fetch performs a search against the endpoint and returns normalized documents.
// The response may be a bare array or an object holding the array under
// "results", "data" or "items".
func (c *Client) Fetch(ctx context.Context, query string, limit int) ([]Document, error) {
	if c.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	reqURL, err := c.buildSearchURL(query, limit)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search api status %d", resp.StatusCode)
	}
	body, err := decodeJSON(resp)
	if err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	docs := normalize(extractItems(body))
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// buildSearchURL composes the search URL with query params.
func (c *Client) buildSearchURL(query string, limit int) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// decodeJSON decodes an HTTP response body into a generic interface.
func decodeJSON(resp *http.Response) (any, error) {
	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// extractItems tries common result field names or array root.
func extractItems(body any) []any {
	if m, ok := body.(map[string]any); ok {
		for _, key := range []string{"results", "data", "items"} {
			if arr, ok := m[key].([]any); ok {
				return arr
			}
		}
	}
	if arr, ok := body.([]any); ok {
		return arr
	}
	return nil
}

// normalize converts raw items into Documents. Items without any text are dropped.
func normalize(items []any) []Document {
	out := make([]Document, 0, len(items))
	for i, it := range items {
		m, _ := it.(map[string]any)
		doc := Document{
			ID:    firstNonEmpty(getString(m, "id"), strconv.Itoa(i)),
			Title: firstNonEmpty(getString(m, "title"), getString(m, "name")),
			URL:   firstNonEmpty(getString(m, "url"), getString(m, "link"), getString(m, "href")),
			Body: firstNonEmpty(getString(m, "snippet"), getString(m, "description"),
				getString(m, "content"), getString(m, "text"), getString(m, "body")),
		}
		if doc.Title == "" && doc.Body == "" {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
