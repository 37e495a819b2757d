package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"roomdesk/config"
	"roomdesk/cron"
	"roomdesk/database"
	"roomdesk/database/repository"
	"roomdesk/handlers"
	"roomdesk/routes"
	"roomdesk/services/booking"
	"roomdesk/services/decision"
	"roomdesk/services/notification"
	"roomdesk/utils"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitDecisionCache()
	utils.StartHealthMonitor([]*redis.Client{utils.GetDecisionCacheClient()}, database.MongoClient)

	// repositories.
	bookingRepo := repository.NewMongoBookingRepo()
	roomRepo := repository.NewMongoRoomRepo()
	approvalRepo := repository.NewMongoApprovalLogRepo()
	historyRepo := repository.NewMongoBookingHistoryRepo()

	// decision pipeline.
	advisor, err := decision.NewGeminiAdvisor(decision.AdvisoryConfig{
		APIKey:     config.AppConfig.GeminiAPIKey,
		Model:      config.AppConfig.GeminiModel,
		Enabled:    config.AppConfig.GeminiEnabled,
		Timeout:    time.Duration(config.AppConfig.AdvisoryTimeoutS) * time.Second,
		MaxRetries: config.AppConfig.AdvisoryRetries,
		Backoff:    time.Duration(config.AppConfig.AdvisoryBackoffMS) * time.Millisecond,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize advisory client: %v", err)
	}
	decider := decision.NewOrchestrator(advisor, decision.NewEngine(), utils.GetDecisionCacheClient())

	// notifications.
	scheduler := notification.NewAsynqScheduler()
	defer scheduler.Close()
	reminderWorker := cron.InitReminderWorker()

	// services. Both booking and approval services write booking status, so
	// they share one per-booking lock.
	bookingLocks := booking.NewKeyedMutex()
	handlers.BookingService = booking.NewBookingService(bookingRepo, roomRepo, historyRepo, decider, scheduler, bookingLocks)
	handlers.ApprovalService = booking.NewApprovalService(bookingRepo, approvalRepo, historyRepo, decider, bookingLocks)
	handlers.SuggestionService = booking.NewSuggestionService(bookingRepo, roomRepo)
	handlers.Decider = decider
	handlers.RoomRepo = roomRepo

	router := routes.SetupRouter()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	reminderWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
