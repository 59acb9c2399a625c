// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"pipeline-service/internal/config"
	"pipeline-service/internal/db"
	activityHandler "pipeline-service/internal/handlers/activity"
	leadHandler "pipeline-service/internal/handlers/lead"
	"pipeline-service/internal/middleware"
	"pipeline-service/internal/pkg/snapshot"
	"pipeline-service/internal/repository/postgres"
	"pipeline-service/internal/repository/seed"
	activityUsecase "pipeline-service/internal/service/activity"
	pipelineUsecase "pipeline-service/internal/service/pipeline"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	// A dead store is not fatal: reads fall through to the snapshot cache and
	// the seed fixture until the store comes back.
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to configure PostgreSQL pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("PostgreSQL unreachable at startup, serving degraded", zap.Error(err))
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		logger.Warn("Redis unreachable at startup, snapshot cache degraded", zap.Error(err))
	}

	// ----- Repositories -----
	leadRepo := postgres.NewLeadRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	historyRepo := postgres.NewStageHistoryRepository(pool)
	snapshotCache := snapshot.NewCache(redisClient, s.cfg.SnapshotTTL)
	fixture := seed.New()

	// ----- Services -----
	loc := s.cfg.Location(logger)
	pipelineService := pipelineUsecase.NewService(leadRepo, historyRepo, snapshotCache, fixture, loc, logger)
	activityService := activityUsecase.NewService(activityRepo, leadRepo, logger)

	// ----- Handlers -----
	handlers := &Handlers{
		LeadHandler:     leadHandler.NewLeadHandler(pipelineService),
		ActivityHandler: activityHandler.NewActivityHandler(activityService),
	}

	// ----- Middleware -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.MetricsMiddleware(),
	)

	SetupRouter(s.engine, handlers)

	logger.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
