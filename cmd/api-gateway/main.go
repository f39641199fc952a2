package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/thesis-api/api/swagger"
	"github.com/noah-isme/thesis-api/db"
	"github.com/noah-isme/thesis-api/internal/handler"
	internalmiddleware "github.com/noah-isme/thesis-api/internal/middleware"
	"github.com/noah-isme/thesis-api/internal/repository"
	"github.com/noah-isme/thesis-api/internal/service"
	"github.com/noah-isme/thesis-api/pkg/cache"
	"github.com/noah-isme/thesis-api/pkg/config"
	"github.com/noah-isme/thesis-api/pkg/database"
	"github.com/noah-isme/thesis-api/pkg/export"
	"github.com/noah-isme/thesis-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/thesis-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/thesis-api/pkg/middleware/requestid"
)

// @title Thesis Topic API
// @version 1.0.0
// @description Thesis topic proposals, committee decisions and declarations
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	dbx, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbx.Close()

	if err := database.ApplySchema(context.Background(), dbx, db.Schema); err != nil {
		logr.Fatal("failed to apply schema", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, topic cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, cfg.Redis.KeyPrefix, logr)
	defer cacheRepo.Close()
	cacheSvc := service.NewCacheService(
		cacheRepo,
		metricsSvc,
		cfg.Cache.TTL,
		logr,
		cfg.Cache.Enabled && redisClient != nil,
	)

	txManager := repository.NewTxManager(dbx)
	accountRepo := repository.NewAccountRepository(dbx)
	teacherRepo := repository.NewTeacherRepository(dbx)
	studentRepo := repository.NewStudentRepository(dbx)
	topicRepo := repository.NewTopicRepository(dbx)
	declarationRepo := repository.NewDeclarationRepository(dbx)

	topicSvc := service.NewTopicService(txManager, topicRepo, teacherRepo, studentRepo, cacheSvc, metricsSvc, validator.New(), logr)
	declarationSvc := service.NewDeclarationService(service.DeclarationServiceParams{
		Tx:           txManager,
		Accounts:     accountRepo,
		Topics:       topicRepo,
		Students:     studentRepo,
		Teachers:     teacherRepo,
		Declarations: declarationRepo,
		Cache:        cacheSvc,
		Metrics:      metricsSvc,
		Logger:       logr,
	})
	userSvc := service.NewUserService(accountRepo, logr)
	exportSvc := service.NewExportService(studentRepo, service.ExportConfig{
		DefaultFormat:  cfg.Export.DefaultFormat,
		FilenamePrefix: cfg.Export.FilenamePrefix,
		SheetTitle:     cfg.Export.SheetTitle,
	}, metricsSvc, logr, nil, export.NewCSVExporter(export.CSVOptions{
		Delimiter: cfg.Export.CSVDelimiter,
		ByteOrder: cfg.Export.CSVByteOrder,
	}), nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, cfg.Identity.Header))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/health", "/ready", "/metrics"))

	handler.RegisterOps(r, handler.NewMetricsHandler(metricsSvc,
		handler.ReadinessCheck{Name: "database", Ping: dbx.PingContext},
		handler.ReadinessCheck{Name: "cache", Ping: cacheRepo.Ping},
	))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.Identity(cfg.Identity.Header))
	handler.Register(api, handler.Handlers{
		Topics:       handler.NewTopicHandler(topicSvc),
		Declarations: handler.NewDeclarationHandler(declarationSvc),
		Users:        handler.NewUserHandler(userSvc),
		Export:       handler.NewExportHandler(exportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	case sig := <-signals:
		logr.Sugar().Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
