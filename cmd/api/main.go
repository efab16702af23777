package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/universalshop/shop-backend/api/routes"
	"github.com/universalshop/shop-backend/internal/catalog"
	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/internal/users"
	"github.com/universalshop/shop-backend/internal/views"
	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/db"
	"github.com/universalshop/shop-backend/pkg/logger"
	"github.com/universalshop/shop-backend/pkg/metrics"
	"github.com/universalshop/shop-backend/pkg/migrate"
	"github.com/universalshop/shop-backend/pkg/redis"
	"github.com/universalshop/shop-backend/pkg/telegram"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	shopMetrics := metrics.NewShopMetrics(registry)

	tgClient, err := telegram.NewClient(context.Background(), cfg.Telegram, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap telegram client", err)
		os.Exit(1)
	}

	messenger, err := notify.NewTelegramMessenger(tgClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create messenger", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	viewsRepo := views.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	notifySvc, err := notify.NewService(notify.ServiceParams{
		Messenger:       messenger,
		Recipients:      usersRepo,
		ReviewChannelID: cfg.Telegram.ReviewChannelID,
		BroadcastDelay:  cfg.Telegram.BroadcastDelay,
		Metrics:         shopMetrics,
		Logger:          logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notify service", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	viewsSvc, err := views.NewService(viewsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create views service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:     ordersRepo,
		Tx:       dbClient,
		Products: catalogRepo,
		Users:    usersRepo,
		Notifier: notifySvc,
		Metrics:  shopMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Registry:    registry,
			DB:          dbClient,
			Redis:       redisClient,
			Users:       usersRepo,
			Catalog:     catalogSvc,
			Views:       viewsSvc,
			Orders:      ordersSvc,
			Broadcaster: notifySvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
