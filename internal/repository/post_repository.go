package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/blogsmith/internal/model"
)

// 发现引擎支持的排序键
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

// ExploreFilter 发现查询的仓储层形态：作者名命中已在上层解析为 AuthorIDs
type ExploreFilter struct {
	Search          string   // 小写子串，匹配 title / tags(joined)
	AuthorIDs       []string // 作者名命中的作者集合，与 Search 一起构成 OR
	Category        string   // 非空时精确匹配
	ExcludeAuthorID string   // 私有模式：排除请求者自己的文章
	Sort            string   // SortRecent / SortPopular
	Offset          int
	Limit           int
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error)
	// Explore 只返回 published；排序内部稳定（二级键固定）
	Explore(ctx context.Context, f ExploreFilter) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id").
		Find(&res).Error
	return res, err
}

// likeCountExpr 点赞数子查询，popular 排序用
const likeCountExpr = "(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id)"

func (r *postRepository) Explore(ctx context.Context, f ExploreFilter) ([]*model.Post, error) {
	tx := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("status = ?", model.StatusPublished)

	if f.ExcludeAuthorID != "" {
		tx = tx.Where("author_id <> ?", f.ExcludeAuthorID)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		cond := `LOWER(title) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'`
		args := []any{pattern, pattern}
		if len(f.AuthorIDs) > 0 {
			cond += " OR author_id IN ?"
			args = append(args, f.AuthorIDs)
		}
		tx = tx.Where("("+cond+")", args...)
	}

	// 二级排序键固定为 id，保证同一实例内分页拼接稳定
	switch f.Sort {
	case SortPopular:
		tx = tx.Select("posts.*").Order(likeCountExpr + " DESC, posts.created_at DESC, posts.id")
	default:
		tx = tx.Order("posts.created_at DESC, posts.id")
	}

	var res []*model.Post
	err := tx.Offset(f.Offset).Limit(f.Limit).Find(&res).Error
	return res, err
}

// escapeLike 转义 LIKE 模式中的通配符，使用户输入只做字面子串匹配
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
