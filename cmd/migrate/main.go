package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/config"
	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/logger"
)

// migrate applies pending schema migrations to the configured database and exits.
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl, err := logger.New(cfg.IsDev())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	zl.Info("starting migration")
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, zl); err != nil {
		zl.Fatal("run migrations", zap.Error(err))
	}
	zl.Info("migration completed successfully")
}
