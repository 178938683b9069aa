package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-scheduler-api/api/swagger"
	"github.com/noah-isme/campus-scheduler-api/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-scheduler-api/internal/middleware"
	"github.com/noah-isme/campus-scheduler-api/internal/repository"
	"github.com/noah-isme/campus-scheduler-api/internal/service"
	"github.com/noah-isme/campus-scheduler-api/pkg/cache"
	"github.com/noah-isme/campus-scheduler-api/pkg/config"
	"github.com/noah-isme/campus-scheduler-api/pkg/database"
	"github.com/noah-isme/campus-scheduler-api/pkg/jobs"
	"github.com/noah-isme/campus-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-scheduler-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-scheduler-api/pkg/telemetry"
)

// @title Campus Scheduler API
// @version 1.0.0
// @description Adaptive timetable scheduling engine for campus course planning
// @BasePath /
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

	flushSentry, err := telemetry.InitSentry(cfg)
	if err != nil {
		logr.Warn("sentry init failed, continuing without error reporting", zap.Error(err))
	}
	defer flushSentry()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis holds finished run results keyed by task id. The API still
	// serves synchronous runs without it.
	var results service.ResultStore
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, task lookup disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		results = redisClient
	}

	// Postgres archive is optional and only dialed when enabled.
	var archive service.RunArchiver
	if cfg.Scheduler.ArchiveRuns {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Warn("postgres unavailable, run archive disabled", zap.Error(err))
		} else {
			defer db.Close()
			archive = repository.NewRunRepository(db)
		}
	}

	metricsSvc := service.NewMetricsService()

	var schedulerSvc *service.SchedulerService
	var archiveQueue *jobs.Queue
	if archive != nil {
		archiveQueue = jobs.NewQueue("run-archive", func(jobCtx context.Context, job jobs.Job) error {
			return schedulerSvc.ArchiveHandler()(jobCtx, job)
		}, jobs.QueueConfig{Workers: 1, BufferSize: 64, MaxRetries: 3, Logger: logr})
		archiveQueue.Start(ctx)
		defer archiveQueue.Stop()
	}

	schedulerSvc = service.NewSchedulerService(
		validator.New(),
		results,
		archive,
		archiveQueue,
		metricsSvc,
		logr,
		service.SchedulerConfig{
			DefaultTimeLimit: cfg.Scheduler.DefaultTimeLimit,
			MaxTimeLimit:     cfg.Scheduler.MaxTimeLimit,
			Workers:          cfg.Scheduler.Workers,
			ResultTTL:        cfg.Scheduler.ResultTTL,
			ArchiveRuns:      archive != nil,
		},
	)

	schedulerHandler := handler.NewSchedulerHandler(schedulerSvc)
	healthHandler := handler.NewHealthHandler()
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/healthcheck", healthHandler.Check)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(internalmiddleware.JWT(cfg.Auth.Secret))
	}
	api.POST("/scheduler", schedulerHandler.Schedule)
	api.POST("/scheduler/evaluate", schedulerHandler.Evaluate)
	api.GET("/scheduler/tasks/:id", schedulerHandler.Task)
	api.GET("/scheduler/tasks/:id/export", schedulerHandler.Export)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	// In-flight scheduler runs observe their own deadline; give them a
	// grace period before forcing the listener closed.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("shutdown incomplete", zap.Error(err))
	}
}
