package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderhub/internal/config"
	"orderhub/internal/database"
	"orderhub/internal/repositories"
	"orderhub/internal/services"
	"orderhub/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.SetupLogger()

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Database ---
	db, err := database.Open(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.DBAutoMigrate {
		if err := database.MigrateGorm(startupCtx, db); err != nil {
			logrus.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// --- RabbitMQ (optional) ---
	var publisher services.OrderEventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, order events disabled")
		} else {
			publisher = mqClient
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
				logrus.WithError(err).Warn("Failed to start order event consumer")
			}
		}
	}

	// --- Repositories, services ---
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret,
		services.WithTokenTTL(cfg.TokenTTL),
		services.WithBcryptCost(cfg.BcryptCost),
	)
	userService := services.NewUserService(userRepo, authService)
	orderService := services.NewOrderService(orderRepo, publisher)

	app := newApp(appDeps{
		db:               db,
		authService:      authService,
		userService:      userService,
		orderService:     orderService,
		hidePasswordHash: cfg.HidePasswordHash,
	})

	// --- Start HTTP Server ---
	go func() {
		logrus.Infof("Server running on port %s", cfg.Port)
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.WithError(err).Error("Error during Fiber shutdown")
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			logrus.WithError(err).Error("Error closing RabbitMQ client")
		}
	}
	if err := database.Close(db); err != nil {
		logrus.WithError(err).Error("Error closing database")
	}

	logrus.Info("Server gracefully stopped")
}
