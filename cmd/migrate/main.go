package main

import (
	"context"
	"time"

	"orderhub/internal/config"
	"orderhub/internal/database"

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.SetupLogger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.MigrateGorm(ctx, db); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}
}
