package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/config"
	"photomarket/internal/database"
	"photomarket/internal/gateway"
	"photomarket/internal/modules/jobs"
	"photomarket/internal/modules/notification"
	"photomarket/internal/modules/settlement"
	"photomarket/internal/pkg/logger"
	"photomarket/internal/repository"
)

// One-shot sweep runner for external schedulers (cron, systemd timers).
// Runs every batch job once and exits non-zero when any row failed.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	payments := gateway.NewClient(cfg.PaymentAPIBaseURL, cfg.PaymentAPIKey)
	notifService := notification.NewService(notifRepo)
	settlementService := settlement.NewService(bookingRepo, transferRepo, userRepo, payments, notifService, log)
	jobsService := jobs.NewService(orderRepo, bookingRepo, settlementService, notifService, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	failed := 0
	for name, res := range jobsService.RunAll(ctx) {
		log.Info("sweep result",
			zap.String("sweep", name),
			zap.Int("processed", res.Processed),
			zap.Int("succeeded", res.Succeeded),
			zap.Int("failed", len(res.Errors)),
		)
		failed += len(res.Errors)
	}

	if failed > 0 {
		log.Warn("some rows failed, they stay eligible for the next run", zap.Int("failed", failed))
		os.Exit(1)
	}
}
