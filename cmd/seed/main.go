// 本地开发播种：写入演示作者、文章、点赞与关注关系。
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/blogsmith/config"
	"github.com/d60-Lab/blogsmith/internal/model"
	"github.com/d60-Lab/blogsmith/internal/repository"
	"github.com/d60-Lab/blogsmith/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)

	const authors = 8
	hash := must(bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost))

	users := make([]*model.User, authors)
	for i := range users {
		users[i] = &model.User{
			ID:       uuid.New().String(),
			Name:     fmt.Sprintf("author%02d", i),
			Email:    fmt.Sprintf("author%02d@example.com", i),
			Password: string(hash),
		}
		if err := userRepo.Create(ctx, users[i]); err != nil {
			panic(err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	postIDs := make([]string, 0, authors*5)
	for _, u := range users {
		for j := 0; j < 5; j++ {
			status := model.StatusPublished
			if j == 4 {
				status = model.StatusDraft
			}
			p := &model.Post{
				ID:        uuid.New().String(),
				Title:     fmt.Sprintf("%s 的第 %d 篇", u.Name, j+1),
				Content:   "lorem ipsum dolor sit amet",
				Tags:      model.TagList{"demo", fmt.Sprintf("tag%d", j)},
				Category:  model.Categories[rng.Intn(len(model.Categories))],
				Status:    status,
				AuthorID:  u.ID,
				CreatedAt: time.Now().Add(-time.Duration(rng.Intn(180*24)) * time.Hour),
				UpdatedAt: time.Now(),
			}
			if err := postRepo.Create(ctx, p); err != nil {
				panic(err)
			}
			if status == model.StatusPublished {
				postIDs = append(postIDs, p.ID)
			}
		}
	}

	// 随机点赞与关注
	for _, pid := range postIDs {
		for _, u := range users {
			if rng.Intn(3) == 0 {
				_, _ = likeRepo.Toggle(ctx, pid, u.ID)
			}
		}
	}
	for _, a := range users {
		for _, b := range users {
			if a.ID != b.ID && rng.Intn(2) == 0 {
				_ = followRepo.Create(ctx, a.ID, b.ID)
			}
		}
	}

	fmt.Printf("seeded %d authors, %d published posts\n", authors, len(postIDs))
}
