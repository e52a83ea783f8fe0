package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Client fetches feed pages over the HTTP surface. Private mode requires a
// bearer token and excludes the caller's own posts server-side.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	private bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying *http.Client (timeouts, transport).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token and switches to the private feed.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
		c.private = true
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{baseURL: baseURL, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the server's {code,message,data} response body.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    []Post `json:"data"`
}

// FetchPage implements Fetcher against /api/explore/{public,private}.
func (c *Client) FetchPage(ctx context.Context, q Query) ([]Post, error) {
	path := "/api/explore/public"
	if c.private {
		path = "/api/explore/private"
	}

	params := url.Values{}
	params.Set("search", q.Search)
	params.Set("category", q.Category)
	params.Set("sort", q.Sort)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("feed: decode page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: %s: %s", resp.Status, env.Message)
	}
	return env.Data, nil
}
