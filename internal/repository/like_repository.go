package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blogsmith/internal/model"
)

// LikeRepository 文章点赞集合。唯一键 (post_id, user_id) 保证跨用户并发切换互不丢失。
type LikeRepository interface {
	// Toggle 纯切换：不在集合则加入返回 true，在集合则移除返回 false
	Toggle(ctx context.Context, postID, userID string) (bool, error)
	// ListUserIDs 批量取每篇文章的点赞用户 id（保持点赞先后顺序）
	ListUserIDs(ctx context.Context, postIDs []string) (map[string][]string, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	DeleteByPost(ctx context.Context, postID string) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt > 0 {
		err := r.db.WithContext(ctx).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&model.PostLike{}).Error
		return false, err
	}
	l := &model.PostLike{ID: uuid.New().String(), PostID: postID, UserID: userID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
	return true, err
}

func (r *likeRepository) ListUserIDs(ctx context.Context, postIDs []string) (map[string][]string, error) {
	res := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return res, nil
	}
	var likes []model.PostLike
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at, id").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		res[l.PostID] = append(res[l.PostID], l.UserID)
	}
	return res, nil
}

func (r *likeRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id IN (?)", r.db.Model(&model.Post{}).Select("id").Where("author_id = ?", authorID)).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.PostLike{}).Error
}
