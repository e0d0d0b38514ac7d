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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edupanel/timetable-api/api/swagger"
	"github.com/edupanel/timetable-api/internal/handler"
	"github.com/edupanel/timetable-api/internal/middleware"
	"github.com/edupanel/timetable-api/internal/models"
	"github.com/edupanel/timetable-api/internal/repository"
	"github.com/edupanel/timetable-api/internal/service"
	"github.com/edupanel/timetable-api/internal/timetable"
	"github.com/edupanel/timetable-api/pkg/cache"
	"github.com/edupanel/timetable-api/pkg/config"
	"github.com/edupanel/timetable-api/pkg/database"
	"github.com/edupanel/timetable-api/pkg/jobs"
	"github.com/edupanel/timetable-api/pkg/logger"
	corsmiddleware "github.com/edupanel/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edupanel/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Institutional timetable administration with recurring-schedule conflict detection
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	window := timetable.NewWindow(cfg.Timetable.DayStart, cfg.Timetable.DayEnd)
	detector := timetable.NewDetector(window)
	generator := timetable.NewGenerator(cfg.Timetable.MaxWeek)

	lessonRepo := repository.NewLessonRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	notificationSvc := service.NewNotificationService(notificationRepo, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}, cfg.Notifications.Enabled, logr)

	lessonSvc := service.NewLessonService(lessonRepo, groupRepo, subjectRepo, teacherRepo, semesterRepo, cacheRepo, notificationSvc, detector, validate, logr)
	scheduleSvc := service.NewScheduleService(lessonRepo, groupRepo, subjectRepo, teacherRepo, cacheRepo, detector, cfg.Timetable.CacheTTL, logr)
	generatorSvc := service.NewGeneratorService(generator, detector, lessonRepo, groupRepo, semesterRepo, cacheRepo, notificationSvc, validate, logr)
	templateSvc := service.NewTemplateService(lessonRepo, groupRepo, semesterRepo, detector, cacheRepo, notificationSvc, validate, logr)
	importSvc := service.NewImportService(lessonRepo, subjectRepo, teacherRepo, detector, cacheRepo, notificationSvc, cfg.Imports.MaxFileSizeBytes, logr)
	catalogSvc := service.NewCatalogService(groupRepo, subjectRepo, teacherRepo, semesterRepo, validate, logr)
	newsSvc := service.NewNewsService(newsRepo, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "timetable-api",
	})
	metricsSvc := service.NewMetricsService()

	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	notificationSvc.Start(queueCtx)
	defer notificationSvc.Stop()

	lessonHandler := handler.NewLessonHandler(lessonSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	generatorHandler := handler.NewGeneratorHandler(generatorSvc)
	templateHandler := handler.NewTemplateHandler(templateSvc)
	importHandler := handler.NewImportHandler(importSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	newsHandler := handler.NewNewsHandler(newsSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	api.GET("/groups", catalogHandler.ListGroups)
	api.GET("/groups/:id", catalogHandler.GetGroup)
	api.GET("/subjects", catalogHandler.ListSubjects)
	api.GET("/teachers", catalogHandler.ListTeachers)
	api.GET("/teachers/:id/lessons", lessonHandler.ListForTeacher)
	api.GET("/semesters", catalogHandler.ListSemesters)

	api.GET("/lessons", lessonHandler.List)
	api.GET("/lessons/:id", lessonHandler.Get)

	api.GET("/schedules/:groupId", scheduleHandler.Get)
	api.GET("/schedules/:groupId/validate", scheduleHandler.Validate)
	api.GET("/schedules/:groupId/export/csv", scheduleHandler.ExportCSV)
	api.GET("/schedules/:groupId/export/pdf", scheduleHandler.ExportPDF)

	api.GET("/news", newsHandler.List)
	api.GET("/news/:id", newsHandler.Get)

	staff := api.Group("")
	staff.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	staff.POST("/lessons", lessonHandler.Create)
	staff.PUT("/lessons/:id", lessonHandler.Update)
	staff.DELETE("/lessons/:id", lessonHandler.Delete)
	staff.POST("/schedules/generate", generatorHandler.Generate)
	staff.POST("/schedules/template", templateHandler.Apply)
	if cfg.Imports.Enabled {
		staff.POST("/schedules/import", importHandler.Import)
	}
	staff.POST("/news", newsHandler.Create)
	staff.PUT("/news/:id", newsHandler.Update)
	staff.DELETE("/news/:id", newsHandler.Delete)
	staff.GET("/notifications", notificationHandler.List)

	admin := api.Group("")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/groups", catalogHandler.CreateGroup)
	admin.PUT("/groups/:id", catalogHandler.UpdateGroup)
	admin.POST("/subjects", catalogHandler.CreateSubject)
	admin.POST("/teachers", catalogHandler.CreateTeacher)
	admin.POST("/semesters", catalogHandler.CreateSemester)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}

	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis client", "error", err)
	}
}
