package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotOwner        = errors.New("not the post owner")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidStatus   = errors.New("status must be draft or published")
)

// PostInput 创建/编辑文章的入参
type PostInput struct {
	Title      string
	Content    string
	CoverImage string
	Tags       []string
	Category   string
	Status     string // 缺省 draft
}

// PostDetail 单篇详情：完整文章 + 作者最小视图 + 点赞集合
type PostDetail struct {
	model.Post
	Author model.AuthorRef `json:"author"`
	Likes  []string        `json:"likes"`
}

// PostService 文章 CRUD 与点赞切换。写操作仅限作者本人。
type PostService interface {
	Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error)
	Get(ctx context.Context, id string) (*PostDetail, error)
	// ListMine 作者本人的全部文章（含草稿），最新在前
	ListMine(ctx context.Context, authorID string) ([]*model.Post, error)
	Update(ctx context.Context, id, authorID string, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id, authorID string) error
	// ToggleLike 纯切换：加入返回 true，移除返回 false。
	// 同一用户快速连点的竞态不做额外保护（与存储层 per-row 原子性之外无互斥）。
	ToggleLike(ctx context.Context, postID, actorID string) (bool, error)
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	likeRepo repository.LikeRepository
	overview OverviewService
}

// NewPostService overview 可为 nil（不做缓存失效）
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, likeRepo repository.LikeRepository, overview OverviewService) PostService {
	return &postService{postRepo: postRepo, userRepo: userRepo, likeRepo: likeRepo, overview: overview}
}

// invalidate 写路径后清作者仪表盘缓存，避免整个 TTL 内读到旧数据
func (s *postService) invalidate(ctx context.Context, authorID string) {
	if s.overview != nil {
		s.overview.InvalidateAuthor(ctx, authorID)
	}
}

func (s *postService) Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &model.Post{
		ID:         uuid.New().String(),
		Title:      in.Title,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		Tags:       model.TagList(in.Tags),
		Category:   in.Category,
		Status:     in.Status,
		AuthorID:   authorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, authorID)
	return p, nil
}

func (s *postService) Get(ctx context.Context, id string) (*PostDetail, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	likes, err := s.likeRepo.ListUserIDs(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	refs, err := s.userRepo.GetRefs(ctx, []string{p.AuthorID})
	if err != nil {
		return nil, err
	}
	likedBy := likes[p.ID]
	if likedBy == nil {
		likedBy = []string{}
	}
	return &PostDetail{Post: *p, Author: refs[p.AuthorID], Likes: likedBy}, nil
}

func (s *postService) ListMine(ctx context.Context, authorID string) ([]*model.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

func (s *postService) Update(ctx context.Context, id, authorID string, in PostInput) (*model.Post, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	p, err := s.ownedPost(ctx, id, authorID)
	if err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Content = in.Content
	p.CoverImage = in.CoverImage
	p.Tags = model.TagList(in.Tags)
	p.Category = in.Category
	p.Status = in.Status
	p.UpdatedAt = time.Now()
	if err := s.postRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, authorID)
	return p, nil
}

func (s *postService) Delete(ctx context.Context, id, authorID string) error {
	if _, err := s.ownedPost(ctx, id, authorID); err != nil {
		return err
	}
	if err := s.likeRepo.DeleteByPost(ctx, id); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, authorID)
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, postID, actorID string) (bool, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPostNotFound
		}
		return false, err
	}
	liked, err := s.likeRepo.Toggle(ctx, postID, actorID)
	if err != nil {
		return false, err
	}
	// 点赞数进作者仪表盘统计
	s.invalidate(ctx, p.AuthorID)
	return liked, nil
}

func (s *postService) ownedPost(ctx context.Context, id, authorID string) (*model.Post, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.AuthorID != authorID {
		return nil, ErrNotOwner
	}
	return p, nil
}

func validateInput(in *PostInput) error {
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if in.Status != model.StatusDraft && in.Status != model.StatusPublished {
		return ErrInvalidStatus
	}
	if in.Category != "" && !model.ValidCategory(in.Category) {
		return ErrInvalidCategory
	}
	return nil
}
