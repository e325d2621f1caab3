package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ioiscore/internal/common/cache"
	"ioiscore/internal/common/db"
	commonmw "ioiscore/internal/common/http/middleware"
	"ioiscore/internal/common/mq"
	"ioiscore/internal/common/storage"
	scorecache "ioiscore/internal/score/cache"
	"ioiscore/internal/score/controller"
	"ioiscore/internal/score/repository"
	"ioiscore/internal/score/service"
	"ioiscore/pkg/utils/logger"
)

const defaultConfigPath = "configs/score_service.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	mysqlDB, err := db.NewMySQLWithConfig(&appCfg.Database)
	if err != nil {
		logger.Error(context.Background(), "init database failed", zap.Error(err))
		return
	}
	defer func() {
		_ = mysqlDB.Close()
	}()
	dbProvider := db.NewManager(mysqlDB)

	redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
	if err != nil {
		logger.Error(context.Background(), "init redis failed", zap.Error(err))
		return
	}
	defer func() {
		_ = redisCache.Close()
	}()

	mqClient, err := mq.NewKafkaQueue(appCfg.Kafka)
	if err != nil {
		logger.Error(context.Background(), "init kafka failed", zap.Error(err))
		return
	}
	defer func() {
		_ = mqClient.Close()
	}()

	objStorage, err := storage.NewMinIOStorage(appCfg.MinIO)
	if err != nil {
		logger.Error(context.Background(), "init minio failed", zap.Error(err))
		return
	}

	leaderboardCache, err := scorecache.NewLeaderboardCache(redisCache, appCfg.Score.LeaderboardTTL)
	if err != nil {
		logger.Error(context.Background(), "init leaderboard cache failed", zap.Error(err))
		return
	}

	database := dbProvider.Current()
	scoreService, err := service.NewScoreService(service.Config{
		DB:              database,
		ConfigRepo:      repository.NewConfigRepositoryWithTTL(database, redisCache, appCfg.Score.ConfigCacheTTL, appCfg.Score.ConfigEmptyTTL),
		JudgeRepo:       repository.NewJudgeRepository(database),
		ScoreRepo:       repository.NewScoreRepository(database),
		DirectoryRepo:   repository.NewDirectoryRepository(database),
		Storage:         objStorage,
		Leaderboard:     leaderboardCache,
		SourceBucket:    appCfg.Score.SourceBucket,
		DefaultPageSize: appCfg.Score.DefaultPageSize,
		MaxPageSize:     appCfg.Score.MaxPageSize,
	})
	if err != nil {
		logger.Error(context.Background(), "init score service failed", zap.Error(err))
		return
	}

	consumerOpts := appCfg.Score.JudgeConsumer.toSubscribeOptions()
	consumerOpts.SetDefaults()
	if err := mqClient.SubscribeWithOptions(context.Background(), appCfg.Score.JudgeFinishedTopic, scoreService.HandleJudgeFinishedMessage, &consumerOpts); err != nil {
		logger.Error(context.Background(), "subscribe judge finished topic failed", zap.Error(err))
		return
	}
	if err := mqClient.Start(); err != nil {
		logger.Error(context.Background(), "start kafka consumer failed", zap.Error(err))
		return
	}

	httpServer := buildHTTPServer(appCfg.Server, scoreService)
	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "score http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
	_ = mqClient.Stop()
}

func buildHTTPServer(cfg ServerConfig, scoreService *service.ScoreService) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.RequestTrace())
	router.Use(requestLogger())

	api := router.Group("/api/v1/ioi")
	controller.NewScoreController(scoreService).RegisterRoutes(api)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
