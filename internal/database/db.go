package database

import (
	"fmt"

	"society-backend/internal/config"
	"society-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and migrates the schema.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate runs schema migrations for all models. Tests call this
// directly against an in-memory sqlite database.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Developer{},
		&models.Society{},
		&models.Member{},
		&models.FinancialEvent{},
		&models.PaymentTrack{},
		&models.LogEntry{},
		&models.MemberLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
