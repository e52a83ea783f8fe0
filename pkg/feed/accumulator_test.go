package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pagedFetcher serves fixed pages and records every query it saw.
type pagedFetcher struct {
	mu      sync.Mutex
	pages   map[int][]Post
	queries []Query
	err     error
}

func (f *pagedFetcher) FetchPage(_ context.Context, q Query) ([]Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[q.Page], nil
}

func (f *pagedFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func mkPosts(ids ...string) []Post {
	out := make([]Post, len(ids))
	for i, id := range ids {
		out[i] = Post{ID: id, Title: "post " + id, Likes: []string{}}
	}
	return out
}

func ids(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestAccumulator_MergesAndDeduplicates(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{
		1: mkPosts("a", "b", "c"),
		2: mkPosts("c", "d"), // server-side tie shuffles can repeat an id across pages
		3: nil,
	}}
	a := NewAccumulator(f, Query{Limit: 3})
	defer a.Close()

	a.Start()
	a.OnProximity()
	require.Equal(t, []string{"a", "b", "c", "d"}, ids(a.Posts()))
	require.True(t, a.HasMore())
	require.False(t, a.Loading())
}

func TestAccumulator_Exhaustion(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: mkPosts("a")}}
	a := NewAccumulator(f, Query{Limit: 10})
	defer a.Close()

	a.Start()
	a.OnProximity() // page 2 空 -> exhausted
	require.False(t, a.HasMore())
	calls := f.calls()

	// exhausted 后 proximity 一律 no-op
	a.OnProximity()
	a.OnProximity()
	require.Equal(t, calls, f.calls())
	require.Equal(t, []string{"a"}, ids(a.Posts()))
}

func TestAccumulator_QueryChangeResets(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: mkPosts("a", "b")}}
	a := NewAccumulator(f, Query{Limit: 2})
	defer a.Close()
	a.Start()
	a.OnProximity() // page 2 empty -> exhausted
	require.False(t, a.HasMore())

	f.mu.Lock()
	f.pages = map[int][]Post{1: mkPosts("x")}
	f.mu.Unlock()

	a.SetQuery(Query{Search: "x", Limit: 2})
	require.Equal(t, []string{"x"}, ids(a.Posts()))
	require.True(t, a.HasMore()) // exhaustion cleared by the filter change
}

func TestAccumulator_EquivalentQueryIgnored(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: mkPosts("a")}}
	a := NewAccumulator(f, Query{Search: "go", Limit: 5})
	defer a.Close()
	a.Start()
	calls := f.calls()

	// 只差 Page 的查询视为同一过滤，不触发 reset
	a.SetQuery(Query{Search: "go", Limit: 5, Page: 7})
	require.Equal(t, calls, f.calls())
	require.Equal(t, []string{"a"}, ids(a.Posts()))
}

func TestAccumulator_ErrorReturnsToIdleAndRetries(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: mkPosts("a"), 2: mkPosts("b")}}
	var got []error
	a := NewAccumulator(f, Query{Limit: 1}, WithOnError(func(err error) { got = append(got, err) }))
	defer a.Close()

	a.Start()
	require.Equal(t, []string{"a"}, ids(a.Posts()))

	f.mu.Lock()
	f.err = errors.New("boom")
	f.mu.Unlock()

	a.OnProximity()
	require.Len(t, got, 1)
	require.False(t, a.Loading())
	require.True(t, a.HasMore()) // hasMore 不因错误翻转
	require.Equal(t, []string{"a"}, ids(a.Posts()))

	// 恢复后同一页可重试成功
	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()
	a.OnProximity()
	require.Equal(t, []string{"a", "b"}, ids(a.Posts()))
}

func TestAccumulator_StaleResponseDiscarded(t *testing.T) {
	block := make(chan struct{})
	released := make(chan struct{})
	var once sync.Once
	f := FetcherFunc(func(_ context.Context, q Query) ([]Post, error) {
		if q.Search == "old" {
			once.Do(func() { close(released) })
			<-block // 第一页挂住，期间过滤条件变了
			return mkPosts("stale"), nil
		}
		return mkPosts("fresh"), nil
	})

	a := NewAccumulator(f, Query{Search: "old", Limit: 5})
	defer a.Close()

	done := make(chan struct{})
	go func() {
		a.Start()
		close(done)
	}()
	<-released

	a.SetQuery(Query{Search: "new", Limit: 5})
	close(block)
	<-done

	// 旧响应到达时已过期，不得回灌
	require.Equal(t, []string{"fresh"}, ids(a.Posts()))
	require.False(t, a.Loading())
}

func TestAccumulator_PatchLike(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: {{ID: "p1", Likes: []string{"u2"}}}}}
	a := NewAccumulator(f, Query{Limit: 5})
	defer a.Close()
	a.Start()

	a.PatchLike("p1", "u1", true)
	require.Equal(t, []string{"u2", "u1"}, a.Posts()[0].Likes)
	require.Equal(t, 2, a.Posts()[0].LikeCount)

	a.PatchLike("p1", "u1", false)
	require.Equal(t, []string{"u2"}, a.Posts()[0].Likes)
	require.Equal(t, 1, a.Posts()[0].LikeCount)

	// 重复加入不重复计数
	a.PatchLike("p1", "u2", true)
	require.Equal(t, []string{"u2"}, a.Posts()[0].Likes)
}

func TestAccumulator_PatchLikeLeavesSnapshotsIntact(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: {{ID: "p1", Likes: []string{"u1", "u2"}}}}}
	a := NewAccumulator(f, Query{Limit: 5})
	defer a.Close()
	a.Start()

	// 先取快照再撤赞：快照持有的 Likes 不得被就地改写
	snapshot := a.Posts()
	a.PatchLike("p1", "u1", false)
	require.Equal(t, []string{"u1", "u2"}, snapshot[0].Likes)
	require.Equal(t, []string{"u2"}, a.Posts()[0].Likes)
}

func TestAccumulator_SearchDebounceCoalesces(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: mkPosts("a")}}
	a := NewAccumulator(f, Query{Limit: 5}, WithDebounce(50*time.Millisecond))
	defer a.Close()

	// 快速连续输入只应触发最后一次
	a.SetSearch("o")
	a.SetSearch("oc")
	a.SetSearch("ocean")
	time.Sleep(150 * time.Millisecond)

	require.Equal(t, 1, f.calls())
	f.mu.Lock()
	require.Equal(t, "ocean", f.queries[0].Search)
	require.Equal(t, 1, f.queries[0].Page)
	f.mu.Unlock()
}

func TestAccumulator_CloseStopsPendingWork(t *testing.T) {
	f := &pagedFetcher{pages: map[int][]Post{1: mkPosts("a")}}
	a := NewAccumulator(f, Query{Limit: 5}, WithDebounce(30*time.Millisecond))

	a.SetSearch("never")
	a.Close()
	time.Sleep(80 * time.Millisecond)

	require.Zero(t, f.calls())
}

func TestAccumulator_NoDuplicateAcrossManyPages(t *testing.T) {
	pages := map[int][]Post{}
	for p := 1; p <= 5; p++ {
		var batch []Post
		for i := 0; i < 4; i++ {
			// 页间故意交叠一个 id
			batch = append(batch, Post{ID: fmt.Sprintf("p%d", (p-1)*3+i)})
		}
		pages[p] = batch
	}
	f := &pagedFetcher{pages: pages}
	a := NewAccumulator(f, Query{Limit: 4})
	defer a.Close()

	a.Start()
	for i := 0; i < 6; i++ {
		a.OnProximity()
	}

	seen := map[string]struct{}{}
	for _, id := range ids(a.Posts()) {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	require.Len(t, seen, 16) // p0..p15
}
