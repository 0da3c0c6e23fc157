package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photomarket/internal/config"
	"photomarket/internal/database"
	"photomarket/internal/gateway"
	"photomarket/internal/middleware"
	"photomarket/internal/modules/admin"
	"photomarket/internal/modules/auth"
	"photomarket/internal/modules/booking"
	"photomarket/internal/modules/cancellation"
	"photomarket/internal/modules/jobs"
	"photomarket/internal/modules/notification"
	"photomarket/internal/modules/order"
	"photomarket/internal/modules/realtime"
	"photomarket/internal/modules/settlement"
	jwtsvc "photomarket/internal/pkg/jwt"
	"photomarket/internal/pkg/logger"
	"photomarket/internal/pkg/rabbitmq"
	"photomarket/internal/repository"
)

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
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	payments := gateway.NewClient(cfg.PaymentAPIBaseURL, cfg.PaymentAPIKey)

	notifService := notification.NewService(notifRepo)
	hub := realtime.NewHub()

	var publisher notification.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatal("rabbitmq connect failed", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		log.Warn("RABBITMQ_URL not set, notifications reach websocket clients only")
	}

	authService := auth.NewService(userRepo, tokens)
	bookingService := booking.NewService(bookingRepo, listingRepo)
	orderService := order.NewService(orderRepo)
	cancellationService := cancellation.NewService(bookingRepo, refundRepo, listingRepo, payments, notifService, log)
	settlementService := settlement.NewService(bookingRepo, transferRepo, userRepo, payments, notifService, log)
	adminService := admin.NewService(refundRepo, bookingRepo, payments, notifService, log)
	jobsService := jobs.NewService(orderRepo, bookingRepo, settlementService, notifService, log)

	dispatcher := notification.NewDispatcher(notifRepo, publisher, hub, log)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go dispatcher.Run(dispatchCtx)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		auth.NewHandler(authService).RegisterRoutes(v1)
		realtime.NewHandler(hub, tokens, log).RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(tokens))
		{
			booking.NewHandler(bookingService).RegisterRoutes(protected)
			order.NewHandler(orderService).RegisterRoutes(protected)
			cancellation.NewHandler(cancellationService).RegisterRoutes(protected)
			notification.NewHandler(notifService).RegisterRoutes(protected)

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly())
			admin.NewHandler(adminService).RegisterRoutes(adminGroup)
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.CronSecret(cfg.CronSecret))
		{
			jobs.NewHandler(jobsService).RegisterRoutes(internal)
			settlement.NewHandler(settlementService).RegisterRoutes(internal)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("api listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	stopDispatch()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
