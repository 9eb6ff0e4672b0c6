package database

import (
	"fmt"
	"strings"

	"farmconnect-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open opens a GORM DB for the given driver.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch driver {
	case DriverPostgres, "":
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		// Every connection to ":memory:" is a separate database.
		if strings.Contains(dsn, ":memory:") {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			sqlDB.SetMaxOpenConns(1)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Models lists every persisted type, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.Profile{},
		&domain.Listing{},
		&domain.ListingEvent{},
		&domain.Order{},
		&domain.Land{},
		&domain.Inquiry{},
		&domain.InquiryMessage{},
		&domain.CropPrediction{},
		&domain.FertilizerRecord{},
		&domain.DiseaseDetection{},
	}
}

// AutoMigrate creates or updates tables from the GORM models. Used for local
// sqlite databases and tests; deployed databases go through Migrate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
