package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/blogsmith/config"
	_ "github.com/d60-Lab/blogsmith/docs"
	"github.com/d60-Lab/blogsmith/internal/api/handler"
	"github.com/d60-Lab/blogsmith/internal/api/middleware"
	"github.com/d60-Lab/blogsmith/internal/model"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		otelgin.Middleware("blogsmith"),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	r.GET("/health", func(c *gin.Context) { c.String(200, "OK") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.JWTAuth(cfg.JWT.Secret)
	apiGroup := r.Group("/api")
	{
		explore := apiGroup.Group("/explore")
		{
			explore.GET("/public", h.PublicExplore)
			explore.GET("/private", auth, h.PrivateExplore)
		}

		posts := apiGroup.Group("/posts")
		{
			posts.POST("", auth, h.CreatePost)
			posts.GET("/:id", h.GetPost)
			posts.PUT("/:id", auth, h.UpdatePost)
			posts.DELETE("/:id", auth, h.DeletePost)
			posts.PATCH("/:id/like", auth, h.ToggleLike)
		}

		me := apiGroup.Group("/me", auth)
		{
			me.GET("/posts", h.ListMyPosts)
		}

		author := apiGroup.Group("/author")
		{
			author.GET("", h.SearchAuthors)
			author.POST("/:id/follow", auth, h.FollowAuthor)
			author.GET("/:id/follow", auth, h.FollowingStatus)
			author.DELETE("/:id/follow", auth, h.UnfollowAuthor)
			author.GET("/:id/followers", h.ListFollowers)
		}

		overview := apiGroup.Group("/overview/me", auth)
		{
			overview.GET("/overview", h.Overview)
			overview.GET("/top-blogs", h.TopBlogs)
			overview.GET("/category-stats", h.CategoryStats)
			overview.GET("/trends", h.Trends)
			overview.GET("/stale-drafts", h.StaleDrafts)
			overview.GET("/word-stats", h.WordStats)
		}
	}

	return r
}

// registerValidators 把固定分类集合挂进 binding 校验
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return model.ValidCategory(fl.Field().String())
		})
	}
}
