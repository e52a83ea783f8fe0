package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/blogsmith/internal/model"
)

// UserRepository 作者目录：发现引擎只读 {id, name}
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetRefs 批量取作者最小视图，聚合 feed 页时用
	GetRefs(ctx context.Context, ids []string) (map[string]model.AuthorRef, error)
	// SearchIDsByName 大小写不敏感的名字子串匹配，返回命中作者 id
	SearchIDsByName(ctx context.Context, name string) ([]string, error)
	SearchRefsByName(ctx context.Context, name string) ([]model.AuthorRef, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetRefs(ctx context.Context, ids []string) (map[string]model.AuthorRef, error) {
	res := make(map[string]model.AuthorRef, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		res[u.ID] = model.AuthorRef{ID: u.ID, Name: u.Name}
	}
	return res, nil
}

func (r *userRepository) SearchIDsByName(ctx context.Context, name string) ([]string, error) {
	var ids []string
	err := r.nameQuery(ctx, name).Pluck("id", &ids).Error
	return ids, err
}

func (r *userRepository) SearchRefsByName(ctx context.Context, name string) ([]model.AuthorRef, error) {
	var users []model.User
	if err := r.nameQuery(ctx, name).Select("id", "name").Order("name, id").Find(&users).Error; err != nil {
		return nil, err
	}
	refs := make([]model.AuthorRef, len(users))
	for i, u := range users {
		refs[i] = model.AuthorRef{ID: u.ID, Name: u.Name}
	}
	return refs, nil
}

func (r *userRepository) nameQuery(ctx context.Context, name string) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
}
