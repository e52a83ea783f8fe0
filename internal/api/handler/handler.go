package handler

import (
	"github.com/d60-Lab/blogsmith/internal/service"
)

// Handler 聚合 HTTP 处理器依赖的各服务
type Handler struct {
	exploreService  service.ExploreService
	postService     service.PostService
	overviewService service.OverviewService
	followService   service.FollowService
	authorService   service.AuthorService
}

func New(
	exploreService service.ExploreService,
	postService service.PostService,
	overviewService service.OverviewService,
	followService service.FollowService,
	authorService service.AuthorService,
) *Handler {
	return &Handler{
		exploreService:  exploreService,
		postService:     postService,
		overviewService: overviewService,
		followService:   followService,
		authorService:   authorService,
	}
}
