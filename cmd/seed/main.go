package main

import (
	"context"
	"log"

	"acl-admin-backend/config"
	"acl-admin-backend/db"
	"acl-admin-backend/db/seed"
	"acl-admin-backend/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		logger.Logger.WithError(err).Warn("Unknown log level, using info")
	}

	if err := db.ConnectDatabase(cfg); err != nil {
		logger.Logger.WithError(err).Fatal("Database connection failed")
	}

	err = seed.Run(context.Background(), db.DB, seed.Admin{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
	})
	if err != nil {
		logger.Logger.WithError(err).Fatal("Seeding failed")
	}
	logger.Logger.Info("Seeding finished")
}
