package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/student-progress-api/api/swagger"
	"github.com/noah-isme/student-progress-api/internal/handler"
	"github.com/noah-isme/student-progress-api/internal/judge"
	"github.com/noah-isme/student-progress-api/internal/middleware"
	"github.com/noah-isme/student-progress-api/internal/repository"
	"github.com/noah-isme/student-progress-api/internal/service"
	"github.com/noah-isme/student-progress-api/pkg/cache"
	"github.com/noah-isme/student-progress-api/pkg/config"
	"github.com/noah-isme/student-progress-api/pkg/database"
	"github.com/noah-isme/student-progress-api/pkg/jobs"
	"github.com/noah-isme/student-progress-api/pkg/logger"
	"github.com/noah-isme/student-progress-api/pkg/mail"
	corsmiddleware "github.com/noah-isme/student-progress-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-progress-api/pkg/middleware/requestid"
)

// @title Student Progress API
// @version 0.1.0
// @description Student roster with Codeforces data synchronization
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Without Redis the per-student lock degrades to always-grant;
		// manual triggers lose double-run protection but syncs still work.
		logr.Sugar().Warnw("redis unavailable, sync locking disabled", "error", err)
		redisClient = nil
	}

	metrics := service.NewMetricsService()

	studentRepo := repository.NewStudentRepository(db)
	contestRepo := repository.NewContestRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	lockRepo := repository.NewSyncLockRepository(redisClient, cfg.Sync.LockTTL, logr)

	judgeClient := judge.NewClient(cfg.Judge.BaseURL, cfg.Judge.Timeout, logr, metrics)

	var sender mail.Sender = mail.NewConsoleSender(logr)
	if cfg.Mail.Enabled {
		sender = mail.NewSendgridSender(cfg.Mail.SendgridKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	}
	notifier := service.NewNotificationService(studentRepo, sender, logr, metrics)

	syncSvc := service.NewSyncService(studentRepo, contestRepo, submissionRepo, judgeClient, lockRepo, notifier, logr, metrics)

	worker := service.NewSyncWorker(syncSvc, logr)
	syncQueue := jobs.NewQueue("student-sync", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Sync.WorkerConcurrency,
		BufferSize: cfg.Sync.QueueBufferSize,
		MaxRetries: 0,
		Logger:     logr,
	})
	syncQueue.Start(context.Background())
	defer syncQueue.Stop()

	studentSvc := service.NewStudentService(studentRepo, contestRepo, submissionRepo, syncQueue, logr)

	scheduler := service.NewSchedulerService(studentRepo, syncSvc, logr, metrics, service.SchedulerServiceConfig{
		Hour:        cfg.Sync.Hour,
		Concurrency: cfg.Sync.WorkerConcurrency,
	})
	if cfg.Sync.Enabled {
		scheduler.Start(context.Background())
	}

	studentHandler := handler.NewStudentHandler(studentSvc)
	syncHandler := handler.NewSyncHandler(syncSvc, scheduler)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.GET("/students/:id/contests", studentHandler.Contests)
		api.GET("/students/:id/submissions", studentHandler.Submissions)
		api.PATCH("/students/:id/handle", studentHandler.UpdateHandle)
		api.PATCH("/students/:id/sync-settings", studentHandler.UpdateSyncSettings)
		api.POST("/students/:id/sync", syncHandler.TriggerManual)
		api.POST("/sync/run", syncHandler.RunBatch)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "scheduled_sync", cfg.Sync.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
