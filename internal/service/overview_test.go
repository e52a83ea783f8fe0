package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
)

func newOverview(t *testing.T, db *gorm.DB) (OverviewService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewOverviewService(db, repository.NewLikeRepository(db), repository.NewFollowRepository(db), client, time.Minute)
	return svc, mr
}

func seedAuthorContent(t *testing.T, db *gorm.DB) {
	t.Helper()
	seedUser(t, db, "u1", "Alice")
	now := time.Now()
	seedPost(t, db, &model.Post{ID: "p1", Title: "a", Content: "one two three", Category: "Travel & Culture", AuthorID: "u1", CreatedAt: now})
	seedPost(t, db, &model.Post{ID: "p2", Title: "b", Content: "four five", Category: "Travel & Culture", AuthorID: "u1", CreatedAt: now.Add(-35 * 24 * time.Hour)})
	seedPost(t, db, &model.Post{ID: "p3", Title: "c", Status: model.StatusDraft, AuthorID: "u1", CreatedAt: now, UpdatedAt: now.Add(-30 * 24 * time.Hour)})
	ctx := context.Background()
	likeRepo := repository.NewLikeRepository(db)
	for _, uid := range []string{"f1", "f2", "f3"} {
		_, err := likeRepo.Toggle(ctx, "p1", uid)
		require.NoError(t, err)
	}
	followRepo := repository.NewFollowRepository(db)
	require.NoError(t, followRepo.Create(ctx, "f1", "u1"))
	require.NoError(t, followRepo.Create(ctx, "f2", "u1"))
}

func TestOverview_Stats(t *testing.T) {
	db := setupDB(t)
	svc, _ := newOverview(t, db)
	seedAuthorContent(t, db)

	stats, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalPosts)
	require.Equal(t, int64(2), stats.Published)
	require.Equal(t, int64(1), stats.Drafts)
	require.Equal(t, int64(3), stats.LikesReceived)
	require.Equal(t, int64(2), stats.FollowerCount)
}

func TestOverview_CacheHitSkipsRecompute(t *testing.T) {
	db := setupDB(t)
	svc, mr := newOverview(t, db)
	seedAuthorContent(t, db)
	ctx := context.Background()

	first, err := svc.Overview(ctx, "u1")
	require.NoError(t, err)
	require.True(t, mr.Exists("overview:stats:u1"))

	// 底层数据变了但缓存还在：仍返回旧值
	seedPost(t, db, &model.Post{ID: "p4", Title: "d", AuthorID: "u1", CreatedAt: time.Now()})
	cached, err := svc.Overview(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, first.TotalPosts, cached.TotalPosts)

	// 失效后重算
	svc.InvalidateAuthor(ctx, "u1")
	fresh, err := svc.Overview(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, first.TotalPosts+1, fresh.TotalPosts)
}

func TestOverview_TopBlogsAndCategories(t *testing.T) {
	db := setupDB(t)
	svc, _ := newOverview(t, db)
	seedAuthorContent(t, db)
	ctx := context.Background()

	top, err := svc.TopBlogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, top, 2) // 草稿不参加
	require.Equal(t, "p1", top[0].ID)
	require.Equal(t, int64(3), top[0].LikeCount)

	cats, err := svc.CategoryStats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, CategoryStat{Category: "Travel & Culture", Count: 2}, cats[0])
}

func TestOverview_Trends(t *testing.T) {
	db := setupDB(t)
	svc, _ := newOverview(t, db)
	seedAuthorContent(t, db)

	points, err := svc.Trends(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, points, 2) // 当月 (p1+p3) 与 35 天前的那个月 (p2)
	require.Less(t, points[0].Month, points[1].Month)
	var total int64
	for _, p := range points {
		total += p.Count
	}
	require.Equal(t, int64(3), total)
}

func TestOverview_StaleDraftsAndWordStats(t *testing.T) {
	db := setupDB(t)
	svc, _ := newOverview(t, db)
	seedAuthorContent(t, db)
	ctx := context.Background()

	stale, err := svc.StaleDrafts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, "p3", stale[0].ID)

	words, err := svc.WordStats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(5), words.TotalWords) // "one two three" + "four five"
	require.Equal(t, int64(2), words.PostCount)
	require.Equal(t, int64(2), words.AverageWords)
}

func TestOverview_WorksWithoutCache(t *testing.T) {
	db := setupDB(t)
	svc := NewOverviewService(db, repository.NewLikeRepository(db), repository.NewFollowRepository(db), nil, 0)
	seedAuthorContent(t, db)

	stats, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalPosts)
}
