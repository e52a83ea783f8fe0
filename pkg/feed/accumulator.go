package feed

import (
	"context"
	"sync"
	"time"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultDebounce = 500 * time.Millisecond
	defaultLimit    = 10
)

// Accumulator merges feed pages into a single ordered slice without
// duplicates and tracks the loading/exhaustion state that gates further
// fetches. At most one fetch is applied at a time; responses issued for a
// filter that is no longer current are discarded on arrival.
type Accumulator struct {
	fetcher  Fetcher
	timeout  time.Duration
	onError  func(error)
	onChange func()

	debounce *Debouncer

	mu      sync.Mutex
	query   Query
	posts   []Post
	seen    map[string]struct{}
	page    int
	hasMore bool
	loading bool
	gen     uint64 // bumped on every reset; stale responses compare against it
	closed  bool
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithTimeout bounds each page fetch.
func WithTimeout(d time.Duration) Option {
	return func(a *Accumulator) { a.timeout = d }
}

// WithDebounce sets the search input coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(a *Accumulator) { a.debounce = NewDebouncer(d) }
}

// WithOnError installs a callback invoked with every fetch error. Errors
// are recoverable: the accumulator returns to idle and the same page can
// be retried by the next proximity signal.
func WithOnError(fn func(error)) Option {
	return func(a *Accumulator) { a.onError = fn }
}

// WithOnChange installs a callback invoked after every state change the
// rendering layer should observe.
func WithOnChange(fn func()) Option {
	return func(a *Accumulator) { a.onChange = fn }
}

// NewAccumulator builds an accumulator over fetcher with the given
// initial filter. No fetch is issued until Start or a trigger.
func NewAccumulator(fetcher Fetcher, initial Query, opts ...Option) *Accumulator {
	if initial.Limit < 1 {
		initial.Limit = defaultLimit
	}
	if initial.Sort == "" {
		initial.Sort = SortRecent
	}
	a := &Accumulator{
		fetcher: fetcher,
		timeout: defaultTimeout,
		query:   initial,
		seen:    make(map[string]struct{}),
		hasMore: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.debounce == nil {
		a.debounce = NewDebouncer(defaultDebounce)
	}
	return a
}

// Start loads the first page for the initial filter.
func (a *Accumulator) Start() { a.OnProximity() }

// OnProximity is the scroll-proximity trigger: loads the next page unless
// a fetch is already in flight or the feed is exhausted (no-op guard).
func (a *Accumulator) OnProximity() {
	a.mu.Lock()
	if a.closed || a.loading || !a.hasMore {
		a.mu.Unlock()
		return
	}
	a.loading = true
	gen := a.gen
	q := a.query
	q.Page = a.page + 1
	a.mu.Unlock()

	a.fetch(gen, q)
}

// SetQuery replaces the filter/sort. A query equivalent to the current one
// is ignored; otherwise the accumulated state is discarded and page 1 is
// fetched immediately. Any in-flight response for the old filter becomes
// stale and will be dropped.
func (a *Accumulator) SetQuery(q Query) {
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Sort == "" {
		q.Sort = SortRecent
	}
	a.mu.Lock()
	if a.closed || q.Equivalent(a.query) {
		a.mu.Unlock()
		return
	}
	a.gen++
	a.query = q
	a.posts = nil
	a.seen = make(map[string]struct{})
	a.page = 0
	a.hasMore = true
	a.loading = true
	gen := a.gen
	first := q
	first.Page = 1
	a.mu.Unlock()

	a.notify()
	a.fetch(gen, first)
}

// SetSearch coalesces fast typing: a new edit within the debounce window
// cancels the previous pending reset instead of issuing two requests.
func (a *Accumulator) SetSearch(search string) {
	a.debounce.Do(func() {
		a.mu.Lock()
		q := a.query
		a.mu.Unlock()
		q.Search = search
		a.SetQuery(q)
	})
}

// SetCategory switches the category filter immediately (no debounce).
func (a *Accumulator) SetCategory(category string) {
	a.mu.Lock()
	q := a.query
	a.mu.Unlock()
	q.Category = category
	a.SetQuery(q)
}

// SetSort switches the sort key immediately (no debounce).
func (a *Accumulator) SetSort(sort string) {
	a.mu.Lock()
	q := a.query
	a.mu.Unlock()
	q.Sort = sort
	a.SetQuery(q)
}

// fetch runs one bounded page request and applies the outcome. The caller
// must have set loading under gen; a response whose gen no longer matches
// is stale and must not touch any state, including the loading flag, which
// is owned by the newer request by then.
func (a *Accumulator) fetch(gen uint64, q Query) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	page, err := a.fetcher.FetchPage(ctx, q)
	cancel()

	a.mu.Lock()
	if a.closed || a.gen != gen {
		a.mu.Unlock()
		return
	}
	a.loading = false
	if err != nil {
		// back to idle: page not advanced, hasMore untouched, retry on
		// the next proximity signal
		a.mu.Unlock()
		a.notify()
		if a.onError != nil {
			a.onError(err)
		}
		return
	}
	if len(page) == 0 {
		a.hasMore = false
		a.mu.Unlock()
		a.notify()
		return
	}
	for _, p := range page {
		if _, dup := a.seen[p.ID]; dup {
			continue // a page must never regress state
		}
		a.seen[p.ID] = struct{}{}
		a.posts = append(a.posts, p)
	}
	a.page = q.Page
	a.mu.Unlock()
	a.notify()
}

// PatchLike applies a like-toggle result to the in-memory entry without
// re-fetching the page.
func (a *Accumulator) PatchLike(postID, actorID string, liked bool) {
	a.mu.Lock()
	for i := range a.posts {
		if a.posts[i].ID != postID {
			continue
		}
		likes := a.posts[i].Likes
		if liked {
			if !contains(likes, actorID) {
				likes = append(likes, actorID)
			}
		} else {
			likes = remove(likes, actorID)
		}
		a.posts[i].Likes = likes
		a.posts[i].LikeCount = len(likes)
		break
	}
	a.mu.Unlock()
	a.notify()
}

// Posts returns a copy of the accumulated sequence.
func (a *Accumulator) Posts() []Post {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Post, len(a.posts))
	copy(out, a.posts)
	return out
}

// HasMore reports whether the server may still have pages for the current
// filter.
func (a *Accumulator) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasMore
}

// Loading reports whether a page fetch is in flight.
func (a *Accumulator) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Query returns the current filter.
func (a *Accumulator) Query() Query {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query
}

// Close releases the debounce timer and invalidates any in-flight fetch.
func (a *Accumulator) Close() {
	a.debounce.Stop()
	a.mu.Lock()
	a.closed = true
	a.gen++
	a.mu.Unlock()
}

func (a *Accumulator) notify() {
	if a.onChange != nil {
		a.onChange()
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// remove copies: Posts() snapshots alias the Likes backing array, so
// filtering in place would mutate entries a caller already holds.
func remove(xs []string, s string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x != s {
			out = append(out, x)
		}
	}
	return out
}
