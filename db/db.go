package db

import (
	"fmt"
	"time"

	apmgormv2 "go.elastic.co/apm/module/apmgormv2/v2/driver/postgres"
	"gorm.io/gorm"

	"acl-admin-backend/config"
	"acl-admin-backend/logger"
	"acl-admin-backend/models"
)

var DB *gorm.DB

func ConnectDatabase(cfg *config.Config) error {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return err
	}

	database, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Logger.WithError(err).WithField("driver", cfg.DBDriver).Error("Failed to connect to database")
		return err
	}

	sqlDB, err := database.DB()
	if err != nil {
		logger.Logger.WithError(err).Error("Failed to get database instance")
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(database); err != nil {
		return err
	}

	logger.Logger.WithField("driver", cfg.DBDriver).Info("Database connected successfully")
	DB = database
	return nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable password=%s port=%s",
			cfg.PGHost,
			cfg.PGUser,
			cfg.PGDBName,
			cfg.PGPassword,
			cfg.PGPort,
		)
		return apmgormv2.Open(dsn), nil
	case "mysql":
		return openMySQL(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func AutoMigrate(database *gorm.DB) error {
	if err := database.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{}, &models.ActivityLog{}); err != nil {
		logger.Logger.WithError(err).Error("Failed to migrate models")
		return err
	}
	return nil
}
