package service

import (
	"context"

	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
)

// AuthorService 作者目录的对外只读口：名字子串查作者 {id,name}
type AuthorService interface {
	Search(ctx context.Context, name string) ([]model.AuthorRef, error)
}

type authorService struct {
	userRepo repository.UserRepository
}

func NewAuthorService(userRepo repository.UserRepository) AuthorService {
	return &authorService{userRepo: userRepo}
}

func (s *authorService) Search(ctx context.Context, name string) ([]model.AuthorRef, error) {
	return s.userRepo.SearchRefsByName(ctx, name)
}
