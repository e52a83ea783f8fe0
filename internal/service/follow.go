package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
)

var ErrFollowSelf = errors.New("cannot follow self")

// FollowService 作者关注关系
type FollowService interface {
	Follow(ctx context.Context, followerID, authorID string) error
	Unfollow(ctx context.Context, followerID, authorID string) error
	IsFollowing(ctx context.Context, followerID, authorID string) (bool, error)
	Followers(ctx context.Context, authorID string, page, pageSize int) ([]model.AuthorRef, error)
}

type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) FollowService {
	return &followService{followRepo: followRepo, userRepo: userRepo}
}

func (s *followService) Follow(ctx context.Context, followerID, authorID string) error {
	if followerID == authorID {
		return ErrFollowSelf
	}
	return s.followRepo.Create(ctx, followerID, authorID)
}

func (s *followService) Unfollow(ctx context.Context, followerID, authorID string) error {
	return s.followRepo.Delete(ctx, followerID, authorID)
}

func (s *followService) IsFollowing(ctx context.Context, followerID, authorID string) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, authorID)
}

func (s *followService) Followers(ctx context.Context, authorID string, page, pageSize int) ([]model.AuthorRef, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	ids, err := s.followRepo.ListFollowerIDs(ctx, authorID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	refs, err := s.userRepo.GetRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := make([]model.AuthorRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := refs[id]; ok {
			res = append(res, ref)
		}
	}
	return res, nil
}
