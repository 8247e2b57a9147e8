// Command migrate runs the embedded goose migrations against the configured database.
//
//	go run ./cmd/migrate [up|down|status|reset|version]
package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/vnkhanh/kids-story-backend/config"
	"github.com/vnkhanh/kids-story-backend/migrations"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
)

func main() {
	log := logger.New(logger.Opts{})

	command, args := "up", []string(nil)
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	cfg, err := config.New()
	if err != nil {
		log.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("Failed to set dialect", "error", err)
		os.Exit(1)
	}

	if err := goose.RunContext(context.Background(), command, db, ".", args...); err != nil {
		log.Error("Migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}
