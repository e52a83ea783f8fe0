package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/blogsmith/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Post{}, &model.PostLike{}, &model.Follow{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	require.NoError(t, db.Create(&model.User{
		ID: id, Name: name, Email: id + "@example.com", Password: "p",
	}).Error)
}

func seedPost(t *testing.T, db *gorm.DB, p *model.Post) {
	t.Helper()
	if p.Status == "" {
		p.Status = model.StatusPublished
	}
	require.NoError(t, db.Create(p).Error)
}

func seedLikes(t *testing.T, db *gorm.DB, postID string, userIDs ...string) {
	t.Helper()
	repo := NewLikeRepository(db)
	for _, uid := range userIDs {
		liked, err := repo.Toggle(context.Background(), postID, uid)
		require.NoError(t, err)
		require.True(t, liked)
	}
}

func TestExplore_OnlyPublished(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedPost(t, db, &model.Post{ID: "p1", Title: "published", AuthorID: "u1", CreatedAt: time.Now()})
	seedPost(t, db, &model.Post{ID: "p2", Title: "draft", Status: model.StatusDraft, AuthorID: "u1", CreatedAt: time.Now()})

	res, err := repo.Explore(context.Background(), ExploreFilter{Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "p1", res[0].ID)
}

func TestExplore_OwnershipExclusion(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	seedPost(t, db, &model.Post{ID: "p1", Title: "mine", AuthorID: "u1", CreatedAt: time.Now()})
	seedPost(t, db, &model.Post{ID: "p2", Title: "theirs", AuthorID: "u2", CreatedAt: time.Now()})

	res, err := repo.Explore(context.Background(), ExploreFilter{ExcludeAuthorID: "u1", Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "p2", res[0].ID)
}

func TestExplore_CategoryFilter(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedPost(t, db, &model.Post{ID: "p1", Title: "a", Category: "Travel & Culture", AuthorID: "u1", CreatedAt: time.Now()})
	seedPost(t, db, &model.Post{ID: "p2", Title: "b", Category: "Food & Drink", AuthorID: "u1", CreatedAt: time.Now()})

	res, err := repo.Explore(context.Background(), ExploreFilter{Category: "Travel & Culture", Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "p1", res[0].ID)
}

func TestExplore_TextSearch(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedUser(t, db, "u2", "Bob")
	now := time.Now()
	seedPost(t, db, &model.Post{ID: "p1", Title: "Ocean Life", AuthorID: "u1", CreatedAt: now})
	seedPost(t, db, &model.Post{ID: "p2", Title: "Mountain Air", Tags: model.TagList{"deep-OCEAN"}, AuthorID: "u1", CreatedAt: now})
	seedPost(t, db, &model.Post{ID: "p3", Title: "Desert", AuthorID: "u2", CreatedAt: now})

	// 标题与标签大小写不敏感子串
	res, err := repo.Explore(context.Background(), ExploreFilter{Search: "ocean", Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 2)

	// 作者名命中由上层解析为 AuthorIDs 后 OR 进来
	res, err = repo.Explore(context.Background(), ExploreFilter{Search: "zzz", AuthorIDs: []string{"u2"}, Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "p3", res[0].ID)
}

func TestExplore_LikeWildcardsAreLiteral(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	seedPost(t, db, &model.Post{ID: "p1", Title: "100% organic", AuthorID: "u1", CreatedAt: time.Now()})
	seedPost(t, db, &model.Post{ID: "p2", Title: "100x organic", AuthorID: "u1", CreatedAt: time.Now()})

	res, err := repo.Explore(context.Background(), ExploreFilter{Search: "100%", Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "p1", res[0].ID)
}

func TestExplore_SortRecent(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	base := time.Now()
	seedPost(t, db, &model.Post{ID: "p1", Title: "old", AuthorID: "u1", CreatedAt: base.Add(-2 * time.Hour)})
	seedPost(t, db, &model.Post{ID: "p2", Title: "new", AuthorID: "u1", CreatedAt: base})
	seedPost(t, db, &model.Post{ID: "p3", Title: "mid", AuthorID: "u1", CreatedAt: base.Add(-time.Hour)})

	res, err := repo.Explore(context.Background(), ExploreFilter{Sort: SortRecent, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 3)
	require.Equal(t, []string{"p2", "p3", "p1"}, []string{res[0].ID, res[1].ID, res[2].ID})
}

func TestExplore_SortPopular(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	base := time.Now()
	// 清单顺序 = 创建顺序，最新在前
	seedPost(t, db, &model.Post{ID: "p1", Title: "Ocean Life", AuthorID: "u1", CreatedAt: base})
	seedPost(t, db, &model.Post{ID: "p2", Title: "Mountain Air", AuthorID: "u1", CreatedAt: base.Add(-time.Minute)})
	seedPost(t, db, &model.Post{ID: "p3", Title: "Deep Ocean", AuthorID: "u1", CreatedAt: base.Add(-2 * time.Minute)})
	seedLikes(t, db, "p1", "a", "b", "c")
	seedLikes(t, db, "p2", "a", "b", "c", "d", "e", "f", "g", "h", "i")
	seedLikes(t, db, "p3", "a")

	res, err := repo.Explore(context.Background(), ExploreFilter{Sort: SortPopular, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res, 3)
	require.Equal(t, []string{"p2", "p1", "p3"}, []string{res[0].ID, res[1].ID, res[2].ID})
}

func TestExplore_PaginationWindows(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	seedUser(t, db, "u1", "Alice")
	base := time.Now()
	for i := 0; i < 7; i++ {
		seedPost(t, db, &model.Post{
			ID:        fmt.Sprintf("p%d", i),
			Title:     fmt.Sprintf("post %d", i),
			AuthorID:  "u1",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	// 固定查询、无写入时，逐页拼接 == 一次大窗口
	var paged []string
	for page := 1; ; page++ {
		res, err := repo.Explore(context.Background(), ExploreFilter{Sort: SortRecent, Offset: (page - 1) * 3, Limit: 3})
		require.NoError(t, err)
		if len(res) == 0 {
			break
		}
		for _, p := range res {
			paged = append(paged, p.ID)
		}
	}

	whole, err := repo.Explore(context.Background(), ExploreFilter{Sort: SortRecent, Limit: 100})
	require.NoError(t, err)
	var all []string
	for _, p := range whole {
		all = append(all, p.ID)
	}

	require.Equal(t, all, paged)
	require.Len(t, paged, 7)
	seen := make(map[string]struct{})
	for _, id := range paged {
		_, dup := seen[id]
		require.False(t, dup, "id %s appeared twice across pages", id)
		seen[id] = struct{}{}
	}
}
