package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// 文章状态
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// TagList 有序标签序列（允许重复），持久化为逗号拼接的文本列。
// 文本搜索按拼接后的整串做子串匹配，和列内容一致。
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

func (t *TagList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		if v == "" {
			*t = nil
			return nil
		}
		*t = strings.Split(v, ",")
		return nil
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("tags: unsupported scan type %T", src)
	}
}

// Post 博客文章
type Post struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	CoverImage string    `gorm:"type:varchar(512)" json:"coverImage"`
	Tags       TagList   `gorm:"type:text" json:"tags"`
	Category   string    `gorm:"type:varchar(64);index:idx_post_category" json:"category"`
	Status     string    `gorm:"type:varchar(16);index:idx_post_status;default:draft" json:"status"`
	AuthorID   string    `gorm:"type:varchar(36);index:idx_post_author;not null" json:"authorId"`
	CreatedAt  time.Time `gorm:"index:idx_post_created" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }
