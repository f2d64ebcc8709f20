// File: mechanio/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mechanio/config"
	"mechanio/cron"
	"mechanio/database"
	agendaRepoPkg "mechanio/database/repository/agenda"
	historyRepoPkg "mechanio/database/repository/history"
	profileRepoPkg "mechanio/database/repository/profile"
	schedulingRepoPkg "mechanio/database/repository/scheduling"
	workshopRepoPkg "mechanio/database/repository/workshop"
	"mechanio/handlers"
	"mechanio/middleware"
	"mechanio/routes"
	agendaSvc "mechanio/services/agenda"
	"mechanio/services/notification"
	"mechanio/services/scheduling"
	"mechanio/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	scheduleRepo := schedulingRepoPkg.NewMongoScheduleRepo()
	agendaStore := agendaRepoPkg.NewMongoAgendaStore()
	historyRecorder := historyRepoPkg.NewMongoHistoryRecorder()
	workshopRepo := workshopRepoPkg.NewMongoWorkshopRepo()
	profileRepo := profileRepoPkg.NewMongoProfileRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := schedulingRepoPkg.EnsureIndexes(ctx); err != nil {
		cancel()
		logger.Sugar().Fatalf("main: failed to ensure scheduling indexes: %v", err)
	}
	cancel()

	// Async side-effect queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(profileRepo, workshopRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	schedulingService := &scheduling.DefaultSchedulingWorkflow{
		Repo:      scheduleRepo,
		Agenda:    agendaStore,
		Workshops: workshopRepo,
		Profiles:  profileRepo,
		Events:    scheduling.NewAsynqPublisher(asynqClient),
		Cache:     utils.GetCacheClient(),
		CacheTTL:  time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second,
		Calc: scheduling.Calculator{
			Loc:    config.Location,
			Stride: time.Duration(config.AppConfig.SlotStrideMinutes) * time.Minute,
		},
		Logger: logger,
	}

	agendaService := &agendaSvc.DefaultAgendaService{
		Store:       agendaStore,
		Schedulings: scheduleRepo,
		Notifier:    notificationService,
		Cache:       utils.GetCacheClient(),
		Loc:         config.Location,
	}

	// Background worker and periodic jobs.
	cron.InitWorker(cron.Deps{
		History:     historyRecorder,
		Agenda:      agendaStore,
		Schedulings: scheduleRepo,
		Notifier:    notificationService,
		Loc:         config.Location,
	})
	cron.InitScheduler()

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Scheduling: handlers.NewSchedulingHandler(schedulingService, scheduleRepo, historyRecorder, config.Location),
		Agenda:     handlers.NewAgendaHandler(agendaService, config.Location),
		Storage:    handlers.NewStorageHandler(cloudinaryStorageService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
