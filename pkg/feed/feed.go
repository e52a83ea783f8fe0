// Package feed implements the client side of the content discovery engine:
// an incremental accumulator that merges successive feed pages into one
// ordered, de-duplicated working set and drives infinite scroll.
package feed

import (
	"context"
	"time"
)

// Sort keys understood by the server; anything else falls back to recent.
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

// Query identifies one feed page request. Two queries that differ only in
// Page address the same filter; changing any other field resets the feed.
type Query struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// Equivalent reports whether o addresses the same filter/sort as q,
// ignoring the page window.
func (q Query) Equivalent(o Query) bool {
	q.Page, o.Page = 0, 0
	return q == o
}

// Author is the reduced author view the server exposes on feed entries.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Post is one denormalized feed entry.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CoverImage string    `json:"coverImage"`
	Tags       []string  `json:"tags"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"createdAt"`
	Likes      []string  `json:"likes"`
	LikeCount  int       `json:"likeCount"`
	Author     Author    `json:"author"`
}

// Fetcher loads one page for a query. An empty page is the exhaustion
// signal; the server never reports a total count.
type Fetcher interface {
	FetchPage(ctx context.Context, q Query) ([]Post, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, q Query) ([]Post, error)

func (f FetcherFunc) FetchPage(ctx context.Context, q Query) ([]Post, error) { return f(ctx, q) }
