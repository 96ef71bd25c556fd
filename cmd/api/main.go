package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	cacheadapter "cadence/internal/adapter/cache"
	dbadapter "cadence/internal/adapter/db"
	httpadapter "cadence/internal/adapter/http"
	"cadence/internal/adapter/http/handlers"
	httpmiddleware "cadence/internal/adapter/http/middleware"
	"cadence/internal/app/rollover"
	appservice "cadence/internal/app/service"
	"cadence/internal/config"
	"cadence/internal/core/domain"
	"cadence/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Degraded but functional: projections recompute on every read.
		logger.Warn("redis unreachable, projection cache disabled", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed to close redis connection", zap.Error(err))
		}
	}()

	clock := domain.SystemClock()
	projectionCache := cacheadapter.NewProjectionCache(redisClient)

	taskRepository := dbadapter.NewTaskRepository(db)
	completionRepository := dbadapter.NewCompletionRepository(db)
	sectionRepository := dbadapter.NewSectionRepository(db)
	transactor := dbadapter.NewTransactor(db)

	taskService := appservice.NewTaskService(taskRepository, projectionCache, clock)
	splitService := appservice.NewSplitService(taskRepository, transactor, projectionCache, clock)
	completionService := appservice.NewCompletionService(taskRepository, completionRepository, transactor, projectionCache, clock)
	offScheduleService := appservice.NewOffScheduleService(taskRepository, completionRepository, transactor, projectionCache, clock)
	scheduleService := appservice.NewScheduleService(taskRepository, completionRepository, projectionCache)
	sectionService := appservice.NewSectionService(sectionRepository, projectionCache, clock)

	rolloverJob := rollover.NewJob(taskRepository, completionRepository, projectionCache, clock)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RolloverCron, func() {
		rolloverJob.Run(context.Background())
	}); err != nil {
		logger.Fatal("invalid rollover cron spec", zap.String("spec", cfg.RolloverCron), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger), cors.Default())
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	healthHandler := handlers.NewHealthHandler(db, redisClient)
	taskHandler := handlers.NewTaskHandler(taskService, splitService)
	completionHandler := handlers.NewCompletionHandler(completionService, offScheduleService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	sectionHandler := handlers.NewSectionHandler(sectionService)
	httpadapter.RegisterRoutes(r, cfg.JWTSecret, healthHandler, taskHandler, completionHandler, scheduleHandler, sectionHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
