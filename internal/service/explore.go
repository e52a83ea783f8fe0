package service

import (
	"context"
	"errors"
	"time"

	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
)

var (
	ErrInvalidPage  = errors.New("page must be >= 1")
	ErrInvalidLimit = errors.New("limit must be >= 1")
)

// FeedQuery 发现查询值对象。除 Page 外字段相同的两个查询视为同一过滤条件。
type FeedQuery struct {
	Search   string
	Category string
	Sort     string // recent / popular，未识别值回退 recent
	Page     int    // >= 1
	Limit    int
}

// PostCard feed 页的反规范化条目：作者收敛为 {id,name}，点赞集合随行返回
type PostCard struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	CoverImage string          `json:"coverImage,omitempty"`
	Tags       []string        `json:"tags"`
	Category   string          `json:"category"`
	CreatedAt  time.Time       `json:"createdAt"`
	Likes      []string        `json:"likes"`
	LikeCount  int             `json:"likeCount"`
	Author     model.AuthorRef `json:"author"`
}

// ExploreService 发现引擎：组合过滤、跨表作者名匹配、排序与分页。
// 无状态纯读，每次调用相互独立；存储层错误原样上抛，不内部重试。
type ExploreService interface {
	// Explore requesterID 为空即公共模式；非空为私有模式，排除请求者自己的文章
	Explore(ctx context.Context, q FeedQuery, requesterID string) ([]PostCard, error)
}

type exploreService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	likeRepo repository.LikeRepository
}

func NewExploreService(postRepo repository.PostRepository, userRepo repository.UserRepository, likeRepo repository.LikeRepository) ExploreService {
	return &exploreService{postRepo: postRepo, userRepo: userRepo, likeRepo: likeRepo}
}

func (s *exploreService) Explore(ctx context.Context, q FeedQuery, requesterID string) ([]PostCard, error) {
	if q.Page < 1 {
		return nil, ErrInvalidPage
	}
	if q.Limit < 1 {
		return nil, ErrInvalidLimit
	}

	f := repository.ExploreFilter{
		Search:          q.Search,
		Category:        q.Category,
		ExcludeAuthorID: requesterID,
		Sort:            normalizeSort(q.Sort),
		Offset:          (q.Page - 1) * q.Limit,
		Limit:           q.Limit,
	}

	// 作者名匹配无法只看 posts 表：先到作者目录解析命中 id，再 OR 进过滤条件。
	// 与先 join 再过滤等价，作者表大时更便宜。
	if q.Search != "" {
		ids, err := s.userRepo.SearchIDsByName(ctx, q.Search)
		if err != nil {
			return nil, err
		}
		f.AuthorIDs = ids
	}

	posts, err := s.postRepo.Explore(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, posts)
}

// assemble 补齐点赞集合与作者 {id,name}，保持仓储返回的顺序
func (s *exploreService) assemble(ctx context.Context, posts []*model.Post) ([]PostCard, error) {
	postIDs := make([]string, len(posts))
	authorIDs := make([]string, 0, len(posts))
	seenAuthors := make(map[string]struct{}, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
		if _, ok := seenAuthors[p.AuthorID]; !ok {
			seenAuthors[p.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	likes, err := s.likeRepo.ListUserIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	authors, err := s.userRepo.GetRefs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	cards := make([]PostCard, len(posts))
	for i, p := range posts {
		likedBy := likes[p.ID]
		if likedBy == nil {
			likedBy = []string{}
		}
		tags := []string(p.Tags)
		if tags == nil {
			tags = []string{}
		}
		cards[i] = PostCard{
			ID:         p.ID,
			Title:      p.Title,
			CoverImage: p.CoverImage,
			Tags:       tags,
			Category:   p.Category,
			CreatedAt:  p.CreatedAt,
			Likes:      likedBy,
			LikeCount:  len(likedBy),
			Author:     authors[p.AuthorID],
		}
	}
	return cards, nil
}

func normalizeSort(sort string) string {
	if sort == repository.SortPopular {
		return repository.SortPopular
	}
	return repository.SortRecent
}
