// File: mindwell/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindwell/config"
	"mindwell/cron"
	"mindwell/database"
	chatsessionRepo "mindwell/database/repository/chatsession"
	psychologistRepo "mindwell/database/repository/psychologist"
	schedulerRepo "mindwell/database/repository/scheduler"
	userRepoPkg "mindwell/database/repository/user"
	"mindwell/handlers"
	"mindwell/middleware"
	"mindwell/routes"
	"mindwell/services/availability"
	"mindwell/services/booking"
	"mindwell/services/chat"
	"mindwell/services/notification"
	"mindwell/services/realtime"
	"mindwell/services/tasks"
	"mindwell/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	psychRepo := psychologistRepo.NewMongoPsychologistRepo()
	schedRepo := schedulerRepo.NewMongoSchedulerRepo()
	sessionRepo := chatsessionRepo.NewMongoChatSessionRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// delayed-job queue over Redis.
	var jobQueue tasks.JobQueue
	if config.AppConfig.RedisAddr != "" {
		jobQueue = tasks.NewAsynqJobQueue(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisAutomationQueueDB,
		})
	} else {
		jobQueue = tasks.NoopJobQueue{}
	}

	// services.
	realtimeSvc := realtime.NewRedisRealtimeService(utils.GetRealtimeClient())

	notificationSvc, err := notification.NewDefaultNotificationService(userRepo, psychRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	lifecycleSvc := &chat.DefaultLifecycleService{
		Sessions:         sessionRepo,
		Bookings:         schedRepo,
		Users:            userRepo,
		Queue:            jobQueue,
		Realtime:         realtimeSvc,
		SessionDuration:  time.Duration(config.AppConfig.SessionDurationMin) * time.Minute,
		PreSessionNotice: time.Duration(config.AppConfig.PreSessionNoticeMin) * time.Minute,
		JWTSecret:        config.AppConfig.JWTSecret,
	}

	availabilityEngine := &availability.DefaultAvailabilityEngine{
		Psychologists:   psychRepo,
		Scheduler:       schedRepo,
		DefaultCapacity: config.AppConfig.DefaultMaxConcurrentSess,
	}

	bookingSvc := &booking.DefaultBookingService{
		Scheduler:       schedRepo,
		Psychologists:   psychRepo,
		Users:           userRepo,
		Availability:    availabilityEngine,
		Chat:            lifecycleSvc,
		Notification:    notificationSvc,
		DefaultCapacity: config.AppConfig.DefaultMaxConcurrentSess,
	}

	// background automation: job worker + reconciliation sweep.
	automationSrv := cron.InitAutomationWorker(lifecycleSvc)
	sweep := cron.InitReconciliationSweep(lifecycleSvc)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityEngine, logger),
		Booking:      handlers.NewBookingHandler(bookingSvc, logger),
		Chat:         handlers.NewChatHandler(lifecycleSvc, logger),
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

	sweep.Stop()
	automationSrv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
