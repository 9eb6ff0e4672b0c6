package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func gooseDialect(driver string) (string, error) {
	switch driver {
	case DriverPostgres, "":
		return "postgres", nil
	case DriverSQLite:
		return "sqlite3", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

func prepareGoose(driver string) error {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	return goose.SetDialect(dialect)
}

// Migrate applies all pending SQL migrations.
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := prepareGoose(driver); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, "migrations")
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := prepareGoose(driver); err != nil {
		return err
	}
	return goose.DownContext(ctx, sqlDB, "migrations")
}

// Version reports the current schema version.
func Version(ctx context.Context, db *gorm.DB, driver string) (int64, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	if err := prepareGoose(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}
