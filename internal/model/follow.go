package model

import "time"

// Follow 作者关注关系（A 关注 B）
// idx_follow_pair = (follower_id, followee_id)，避免重复关注
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;uniqueIndex:idx_follow_pair;not null"`
	FolloweeID string `gorm:"type:varchar(36);index:idx_follow_followee;uniqueIndex:idx_follow_pair;not null"`
	CreatedAt  time.Time
}

func (Follow) TableName() string { return "follows" }
