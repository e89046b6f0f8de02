package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/cache"
	"github.com/smugflex-sys/Final-sub000/app/config"
	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/logger"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/server"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

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

	// Set global time zone
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zl.Warn("failed to load time zone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}
	time.Local = loc
	zl.Info("application time zone set", zap.String("timezone", time.Local.String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("open store", zap.Error(err))
	}
	defer store.Close()

	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.Connect(ctx, cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			zl.Warn("redis unavailable, results are not cached", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer rc.Close()
			c = rc
		}
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := database.EnsureAdmin(ctx, store, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			zl.Fatal("create admin account", zap.Error(err))
		}
		if created {
			zl.Info("admin account created", zap.String("email", cfg.AdminEmail))
		}
	}

	// Start background scheduler
	services.StartScheduler(ctx, store, zl)

	app := server.New(&common.Deps{
		Store:  store,
		Cache:  c,
		Config: cfg,
		Log:    zl,
	})

	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("shutdown", zap.Error(err))
		}
	}()

	zl.Info("server starting", zap.String("addr", cfg.Address()), zap.String("store", cfg.Store))
	if err := app.Listen(cfg.Address()); err != nil {
		zl.Fatal("listen", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*database.Store, error) {
	if cfg.Store == config.StoreMemory {
		zl.Warn("using in-memory store, data is lost on restart")
		return database.NewMemoryStore(), nil
	}
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, db, zl); err != nil {
		db.Close()
		return nil, err
	}
	return database.NewPostgresStore(db), nil
}
