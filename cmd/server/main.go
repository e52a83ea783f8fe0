package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/blogsmith/config"
	"github.com/d60-Lab/blogsmith/internal/api"
	"github.com/d60-Lab/blogsmith/internal/api/handler"
	"github.com/d60-Lab/blogsmith/internal/repository"
	"github.com/d60-Lab/blogsmith/internal/service"
	"github.com/d60-Lab/blogsmith/pkg/cache"
	"github.com/d60-Lab/blogsmith/pkg/database"
	"github.com/d60-Lab/blogsmith/pkg/logger"
	"github.com/d60-Lab/blogsmith/pkg/telemetry"
)

// @title blogsmith API
// @version 1.0
// @description 博客平台：文章、发现流与作者仪表盘
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, "blogsmith", cfg.Otel.Endpoint)
	if err != nil {
		logger.Fatal("init tracer", zap.Error(err))
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	// Redis 不可达时仪表盘降级直查，服务照常起
	rdb, err := cache.InitRedis(cfg)
	if err != nil {
		logger.Warn("redis unavailable, overview cache disabled", zap.Error(err))
		rdb = nil
	}

	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)

	overviewSvc := service.NewOverviewService(db, likeRepo, followRepo, rdb, cfg.Overview.CacheTTL)
	h := handler.New(
		service.NewExploreService(postRepo, userRepo, likeRepo),
		service.NewPostService(postRepo, userRepo, likeRepo, overviewSvc),
		overviewSvc,
		service.NewFollowService(followRepo, userRepo),
		service.NewAuthorService(userRepo),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(cfg, h),
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
