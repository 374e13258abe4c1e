package config

import (
	"fmt"
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database, tunes the pool and migrates the schema
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.PaymentLog{},
		&models.OrderSequence{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}
	utils.LogInfo("Connected to PostgreSQL %s:%s/%s and migrated schema", cfg.DBHost, cfg.DBPort, cfg.DBName)

	return db, nil
}
