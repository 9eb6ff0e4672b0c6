// Command migrate applies the embedded goose migrations.
//
//	migrate up | down | status
package main

import (
	"context"
	"fmt"
	"os"

	"farmconnect-backend/bootstrap"
	"farmconnect-backend/internal/config"
	"farmconnect-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	bootstrap.ConfigureLogging(cfg)

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("database handle")
	}
	defer sqlDB.Close()

	ctx := context.Background()
	switch cmd {
	case "up":
		err = database.Migrate(ctx, db, cfg.DatabaseDriver)
	case "down":
		err = database.Rollback(ctx, db, cfg.DatabaseDriver)
	case "status":
		var v int64
		v, err = database.Version(ctx, db, cfg.DatabaseDriver)
		if err == nil {
			fmt.Printf("schema version: %d\n", v)
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate up|down|status\n")
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migration failed")
	}
	log.Info().Str("cmd", cmd).Msg("migration complete")
}
