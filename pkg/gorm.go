package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/study-quiz-client/internal/config"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase connects to postgres and migrates the handoff table.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.HandoffEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate handoff table: %w", err)
	}

	return db, nil
}
