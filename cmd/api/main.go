package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tomasvidal/fieldforge-backend/api/routes"
	authsvc "github.com/tomasvidal/fieldforge-backend/internal/auth"
	"github.com/tomasvidal/fieldforge-backend/internal/cart"
	"github.com/tomasvidal/fieldforge-backend/internal/orders"
	"github.com/tomasvidal/fieldforge-backend/internal/products"
	"github.com/tomasvidal/fieldforge-backend/internal/users"
	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/db"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
	"github.com/tomasvidal/fieldforge-backend/pkg/metrics"
	"github.com/tomasvidal/fieldforge-backend/pkg/migrate"
	"github.com/tomasvidal/fieldforge-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pipeline := metrics.NewPipeline(nil)

	productService, err := products.NewService(
		products.NewRepository(dbClient.DB()),
		redisClient,
		cfg.Fields.DefinitionCacheTTL,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cartRepo, dbClient, productService, pipeline)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		cartRepo,
		dbClient,
		productService,
		pipeline,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(users.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, authService, productService, cartService, orderService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
