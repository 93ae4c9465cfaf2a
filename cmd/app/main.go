package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"acl-admin-backend/config"
	"acl-admin-backend/db"
	"acl-admin-backend/http/server"
	"acl-admin-backend/logger"
	"acl-admin-backend/views"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		logger.Logger.WithError(err).Warn("Unknown log level, using info")
	}

	os.Setenv("ELASTIC_APM_SERVER_URL", cfg.ElasticAPMServerURL)
	os.Setenv("ELASTIC_APM_SERVICE_NAME", cfg.ElasticAPMServiceName)
	os.Setenv("ELASTIC_APM_ENVIRONMENT", cfg.ElasticAPMEnvironment)

	if err := db.ConnectDatabase(cfg); err != nil {
		logger.Logger.WithError(err).Fatal("Database connection failed")
	}

	app := server.New(server.Options{
		DB:        db.DB,
		JWTSecret: cfg.JwtSecretKey,
		Views:     views.Engine(cfg.ViewsReload, "./views"),
		APM:       cfg.ElasticAPMServerURL != "",
		AccessLog: true,
	})

	port := ":" + cfg.AppPort
	logger.Logger.Infof("Server is running on port %s", port)
	go func() {
		if err := app.Listen(port); err != nil {
			logger.Logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	waitForShutdown()
	if err := app.Shutdown(); err != nil {
		logger.Logger.WithError(err).Error("Server shutdown failed")
	}
}

func waitForShutdown() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan
	logger.Logger.Info("Shutting down server...")
}
