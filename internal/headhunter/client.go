// Package headhunter talks to the hh.ru public vacancies API: it builds
// search queries from a user's stored filter and fetches matching vacancies.
package headhunter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.hh.ru"
	userAgent      = "tg-job-hunter-bot/1.0"
	requestTimeout = 10 * time.Second
)

// SearchItem is one vacancy from a search response. Raw keeps the untouched
// item payload for storage.
type SearchItem struct {
	ID           string
	Name         string
	AlternateURL string
	PublishedAt  *time.Time
	Employer     string
	Area         string
	SalaryFrom   *int
	SalaryTo     *int
	Currency     string
	Raw          json.RawMessage
}

// Client is an hh.ru API client for vacancy search.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient constructs a client against the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type searchResponse struct {
	Items []searchItemJSON `json:"items"`
	Found int              `json:"found"`
}

type searchItemJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AlternateURL string `json:"alternate_url"`
	PublishedAt  string `json:"published_at"`
	Employer     *struct {
		Name string `json:"name"`
	} `json:"employer"`
	Area *struct {
		Name string `json:"name"`
	} `json:"area"`
	Salary *struct {
		From     *int   `json:"from"`
		To       *int   `json:"to"`
		Currency string `json:"currency"`
	} `json:"salary"`
}

// Search performs a vacancy search with the given query parameters, capped at
// limit items. A non-200 response is an error.
func (c *Client) Search(ctx context.Context, params url.Values, limit int) ([]SearchItem, error) {
	if ctx == nil {
		return nil, errors.New("nil context")
	}
	if limit <= 0 {
		return nil, nil
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("per_page", strconv.Itoa(limit))

	endpoint := c.baseURL + "/vacancies?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search vacancies: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search vacancies: unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	// Decode twice: once typed for the fields we use, once raw to keep each
	// item's untouched payload.
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	var rawItems struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &rawItems); err != nil {
		return nil, fmt.Errorf("decode search items: %w", err)
	}

	items := make([]SearchItem, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		converted := SearchItem{
			ID:           item.ID,
			Name:         item.Name,
			AlternateURL: item.AlternateURL,
		}

		if published, ok := parsePublishedAt(item.PublishedAt); ok {
			converted.PublishedAt = &published
		}
		if item.Employer != nil {
			converted.Employer = item.Employer.Name
		}
		if item.Area != nil {
			converted.Area = item.Area.Name
		}
		if item.Salary != nil {
			converted.SalaryFrom = item.Salary.From
			converted.SalaryTo = item.Salary.To
			converted.Currency = item.Salary.Currency
		}
		if i < len(rawItems.Items) {
			converted.Raw = rawItems.Items[i]
		}

		items = append(items, converted)
	}

	return items, nil
}

// The API reports timestamps with a colonless zone offset ("+0300"), which
// RFC3339 does not cover.
func parsePublishedAt(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if published, err := time.Parse(layout, raw); err == nil {
			return published, true
		}
	}

	return time.Time{}, false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
