package model

import "time"

// PostLike 点赞关系，复合唯一键保证同一用户对同一文章至多一条
// ux_like_post_user = (post_id, user_id)
type PostLike struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_like_post;uniqueIndex:ux_like_post_user;not null"`
	UserID    string `gorm:"type:varchar(36);uniqueIndex:ux_like_post_user;not null"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }
