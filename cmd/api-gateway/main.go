package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academic-lifecycle-api/api/swagger"
	"github.com/noah-isme/academic-lifecycle-api/internal/handler"
	"github.com/noah-isme/academic-lifecycle-api/internal/middleware"
	"github.com/noah-isme/academic-lifecycle-api/internal/repository"
	"github.com/noah-isme/academic-lifecycle-api/internal/service"
	"github.com/noah-isme/academic-lifecycle-api/pkg/cache"
	"github.com/noah-isme/academic-lifecycle-api/pkg/config"
	"github.com/noah-isme/academic-lifecycle-api/pkg/database"
	"github.com/noah-isme/academic-lifecycle-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-lifecycle-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-lifecycle-api/pkg/middleware/requestid"
)

// @title Academic Lifecycle API
// @version 0.1.0
// @description Schedule conflict resolution and term transition engine
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Audit.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, audit cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	yearRepo := repository.NewAcademicYearRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	unitRepo := repository.NewTeachingUnitRepository(db)
	slotRepo := repository.NewScheduleSlotRepository(db)
	examRepo := repository.NewExamRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	historyRepo := repository.NewTermHistoryRepository(db)

	scheduleSvc := service.NewScheduleService(slotRepo, unitRepo, db, metricsSvc, validate, logr)
	auditSvc := service.NewAuditService(classRepo, studentRepo, unitRepo, examRepo, behaviorRepo, redisClient, cfg.Audit.CacheTTL, metricsSvc, logr)
	transitionSvc := service.NewTransitionService(yearRepo, classRepo, unitRepo, studentRepo, examRepo, historyRepo, auditSvc, db, metricsSvc, validate, logr)
	classSvc := service.NewClassService(classRepo, yearRepo, validate, logr)
	unitSvc := service.NewTeachingUnitService(unitRepo, classRepo, validate, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	transitionHandler := handler.NewTransitionHandler(transitionSvc)
	classHandler := handler.NewClassHandler(classSvc, unitSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/classes", classHandler.Create)
		api.GET("/classes", classHandler.List)
		api.GET("/classes/:id", classHandler.Get)
		api.POST("/classes/:id/teaching-units", classHandler.AssignUnit)
		api.GET("/classes/:id/teaching-units", classHandler.ListUnits)

		api.POST("/schedule-slots", scheduleHandler.ProposeSlot)
		api.PUT("/schedule-slots/:id", scheduleHandler.ReviseSlot)
		api.DELETE("/schedule-slots/:id", scheduleHandler.DeleteSlot)
		api.GET("/classes/:id/schedule", scheduleHandler.ListByClass)
		api.GET("/instructors/:id/schedule", scheduleHandler.ListByInstructor)

		api.GET("/classes/:id/audit", auditHandler.Audit)
		api.POST("/transitions", transitionHandler.Transition)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
