package db

import (
	"salarycheck/internal/models"

	"github.com/rotisserie/eris"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(dsn string, verbose bool) (*gorm.DB, error) {
	if dsn == "" {
		return nil, eris.New("DATABASE_URL is not set")
	}

	level := logger.Warn
	if verbose {
		level = logger.Info // Log SQL queries
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to connect to database")
	}

	return db, nil
}

// Migrate creates or updates the snapshot tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ReconciliationRecord{}); err != nil {
		return eris.Wrap(err, "failed to migrate")
	}
	return nil
}
