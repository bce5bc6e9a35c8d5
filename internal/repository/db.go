// Package repository is the gorm-backed storage layer for rentald.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/config"
	"github.com/avrentops/rentalctl/internal/domain"
	"github.com/avrentops/rentalctl/internal/observability"
)

// Open connects to postgres when DATABASE_URL is set, and to a local
// sqlite file otherwise, then migrates the schema.
func Open(cfg *config.ServerConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Subcategory{},
		&domain.Equipment{},
		&domain.EquipmentStatusHistory{},
		&domain.Event{},
		&domain.EventEquipment{},
		&domain.EventTechnician{},
		&domain.Maintenance{},
		&domain.MaintenanceLog{},
		&domain.Vehicle{},
		&domain.Transport{},
		&domain.WhatsAppMessage{},
		&domain.ActivityLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// record translates a gorm error into a repository metric sample and maps
// gorm.ErrRecordNotFound onto the given sentinel.
func record(entity, op string, err error, notFound error) error {
	switch {
	case err == nil:
		observability.RecordRepositoryOperation(context.Background(), entity, op, "success")
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		observability.RecordRepositoryOperation(context.Background(), entity, op, "not_found")
		if notFound != nil {
			return notFound
		}
		return err
	default:
		observability.RecordRepositoryOperation(context.Background(), entity, op, "error")
		return err
	}
}
