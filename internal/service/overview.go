package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
	"github.com/d60-Lab/blogsmith/pkg/logger"
)

// 草稿超过该时长未动即视为"搁置"
const staleDraftAge = 14 * 24 * time.Hour

// OverviewStats 作者仪表盘总览
type OverviewStats struct {
	TotalPosts    int64 `json:"totalPosts"`
	Published     int64 `json:"published"`
	Drafts        int64 `json:"drafts"`
	LikesReceived int64 `json:"likesReceived"`
	FollowerCount int64 `json:"followerCount"`
}

// TopBlog 按点赞数排名的文章条目
type TopBlog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	LikeCount int64     `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryStat 分类下的文章数
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TrendPoint 某个自然月内的发文数
type TrendPoint struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// StaleDraft 长期未更新的草稿
type StaleDraft struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WordStats 已发布文章的字数统计
type WordStats struct {
	TotalWords   int64 `json:"totalWords"`
	AverageWords int64 `json:"averageWords"`
	PostCount    int64 `json:"postCount"`
}

// OverviewService 作者使用分析。读多算贵，结果按作者整体进 Redis，
// 缓存任何故障都降级为直查，绝不让分析接口因缓存挂掉而失败。
type OverviewService interface {
	Overview(ctx context.Context, authorID string) (*OverviewStats, error)
	TopBlogs(ctx context.Context, authorID string) ([]TopBlog, error)
	CategoryStats(ctx context.Context, authorID string) ([]CategoryStat, error)
	Trends(ctx context.Context, authorID string) ([]TrendPoint, error)
	StaleDrafts(ctx context.Context, authorID string) ([]StaleDraft, error)
	WordStats(ctx context.Context, authorID string) (*WordStats, error)
	// InvalidateAuthor 作者内容变更后清掉整组缓存键
	InvalidateAuthor(ctx context.Context, authorID string)
}

type overviewService struct {
	db         *gorm.DB
	likeRepo   repository.LikeRepository
	followRepo repository.FollowRepository
	cache      *redis.Client
	ttl        time.Duration
}

// NewOverviewService cache 可为 nil（测试或未部署 Redis 时直查）
func NewOverviewService(db *gorm.DB, likeRepo repository.LikeRepository, followRepo repository.FollowRepository, cache *redis.Client, ttl time.Duration) OverviewService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &overviewService{db: db, likeRepo: likeRepo, followRepo: followRepo, cache: cache, ttl: ttl}
}

// cached 先查缓存，未命中则计算并回填。out 必须是指针。
func (s *overviewService) cached(ctx context.Context, key string, out any, load func() error) error {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			if uErr := json.Unmarshal(data, out); uErr == nil {
				return nil
			}
		}
	}
	if err := load(); err != nil {
		return err
	}
	if s.cache != nil {
		if payload, err := json.Marshal(out); err == nil {
			if sErr := s.cache.Set(ctx, key, payload, s.ttl).Err(); sErr != nil {
				logger.Warn("overview cache set failed", zap.String("key", key), zap.Error(sErr))
			}
		}
	}
	return nil
}

func (s *overviewService) Overview(ctx context.Context, authorID string) (*OverviewStats, error) {
	var stats OverviewStats
	err := s.cached(ctx, "overview:stats:"+authorID, &stats, func() error {
		base := s.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID)
		if err := base.Session(&gorm.Session{}).Count(&stats.TotalPosts).Error; err != nil {
			return err
		}
		if err := base.Session(&gorm.Session{}).Where("status = ?", model.StatusPublished).Count(&stats.Published).Error; err != nil {
			return err
		}
		stats.Drafts = stats.TotalPosts - stats.Published
		likes, err := s.likeRepo.CountByAuthor(ctx, authorID)
		if err != nil {
			return err
		}
		stats.LikesReceived = likes
		followers, err := s.followRepo.CountFollowers(ctx, authorID)
		if err != nil {
			return err
		}
		stats.FollowerCount = followers
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *overviewService) TopBlogs(ctx context.Context, authorID string) ([]TopBlog, error) {
	var top []TopBlog
	err := s.cached(ctx, "overview:top:"+authorID, &top, func() error {
		return s.db.WithContext(ctx).Model(&model.Post{}).
			Select("posts.id, posts.title, posts.category, posts.created_at, (SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS like_count").
			Where("author_id = ? AND status = ?", authorID, model.StatusPublished).
			Order("like_count DESC, posts.created_at DESC, posts.id").
			Limit(5).
			Scan(&top).Error
	})
	return top, err
}

func (s *overviewService) CategoryStats(ctx context.Context, authorID string) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := s.cached(ctx, "overview:categories:"+authorID, &stats, func() error {
		return s.db.WithContext(ctx).Model(&model.Post{}).
			Select("category, COUNT(*) AS count").
			Where("author_id = ? AND category <> ''", authorID).
			Group("category").
			Order("count DESC, category").
			Scan(&stats).Error
	})
	return stats, err
}

// Trends 最近 6 个自然月的发文数。月份分桶在 Go 侧做，避开各数据库日期函数差异。
func (s *overviewService) Trends(ctx context.Context, authorID string) ([]TrendPoint, error) {
	var points []TrendPoint
	err := s.cached(ctx, "overview:trends:"+authorID, &points, func() error {
		cutoff := time.Now().AddDate(0, -6, 0)
		var created []time.Time
		if err := s.db.WithContext(ctx).Model(&model.Post{}).
			Where("author_id = ? AND created_at >= ?", authorID, cutoff).
			Pluck("created_at", &created).Error; err != nil {
			return err
		}
		buckets := make(map[string]int64)
		for _, t := range created {
			buckets[t.Format("2006-01")]++
		}
		months := make([]string, 0, len(buckets))
		for m := range buckets {
			months = append(months, m)
		}
		sort.Strings(months)
		points = make([]TrendPoint, len(months))
		for i, m := range months {
			points[i] = TrendPoint{Month: m, Count: buckets[m]}
		}
		return nil
	})
	return points, err
}

func (s *overviewService) StaleDrafts(ctx context.Context, authorID string) ([]StaleDraft, error) {
	var drafts []StaleDraft
	err := s.cached(ctx, "overview:stale:"+authorID, &drafts, func() error {
		cutoff := time.Now().Add(-staleDraftAge)
		return s.db.WithContext(ctx).Model(&model.Post{}).
			Select("id, title, updated_at").
			Where("author_id = ? AND status = ? AND updated_at < ?", authorID, model.StatusDraft, cutoff).
			Order("updated_at").
			Scan(&drafts).Error
	})
	return drafts, err
}

func (s *overviewService) WordStats(ctx context.Context, authorID string) (*WordStats, error) {
	var stats WordStats
	err := s.cached(ctx, "overview:words:"+authorID, &stats, func() error {
		var contents []string
		if err := s.db.WithContext(ctx).Model(&model.Post{}).
			Where("author_id = ? AND status = ?", authorID, model.StatusPublished).
			Pluck("content", &contents).Error; err != nil {
			return err
		}
		stats.PostCount = int64(len(contents))
		for _, c := range contents {
			stats.TotalWords += int64(len(strings.Fields(c)))
		}
		if stats.PostCount > 0 {
			stats.AverageWords = stats.TotalWords / stats.PostCount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *overviewService) InvalidateAuthor(ctx context.Context, authorID string) {
	if s.cache == nil {
		return
	}
	for _, section := range []string{"stats", "top", "categories", "trends", "stale", "words"} {
		key := fmt.Sprintf("overview:%s:%s", section, authorID)
		if err := s.cache.Del(ctx, key).Err(); err != nil {
			logger.Warn("overview cache invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
}
