package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/db"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
	"github.com/tomasvidal/fieldforge-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "running migration command")
	if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration command complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+name, err)
	os.Exit(1)
}
