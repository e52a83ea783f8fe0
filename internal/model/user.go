package model

import "time"

// User 作者/读者账号（密码散列永不序列化）
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string `gorm:"type:varchar(128);index:idx_user_name;not null" json:"name"`
	Email     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string `gorm:"type:varchar(128);not null" json:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// AuthorRef 发现接口对外暴露的作者最小视图
type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
