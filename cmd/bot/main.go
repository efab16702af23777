package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/universalshop/shop-backend/internal/bot"
	"github.com/universalshop/shop-backend/internal/catalog"
	"github.com/universalshop/shop-backend/internal/notify"
	"github.com/universalshop/shop-backend/internal/orders"
	"github.com/universalshop/shop-backend/internal/users"
	"github.com/universalshop/shop-backend/pkg/config"
	"github.com/universalshop/shop-backend/pkg/db"
	"github.com/universalshop/shop-backend/pkg/logger"
	"github.com/universalshop/shop-backend/pkg/metrics"
	"github.com/universalshop/shop-backend/pkg/migrate"
	"github.com/universalshop/shop-backend/pkg/redis"
	"github.com/universalshop/shop-backend/pkg/telegram"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bot"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bot",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tgClient, err := telegram.NewClient(ctx, cfg.Telegram, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap telegram client", err)
		os.Exit(1)
	}

	shopMetrics := metrics.NewShopMetrics(prometheus.NewRegistry())

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	messenger, err := notify.NewTelegramMessenger(tgClient)
	if err != nil {
		logg.Error(ctx, "failed to create messenger", err)
		os.Exit(1)
	}

	notifySvc, err := notify.NewService(notify.ServiceParams{
		Messenger:       messenger,
		Recipients:      usersRepo,
		ReviewChannelID: cfg.Telegram.ReviewChannelID,
		BroadcastDelay:  cfg.Telegram.BroadcastDelay,
		Metrics:         shopMetrics,
		Logger:          logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create notify service", err)
		os.Exit(1)
	}

	identitySvc, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(ctx, "failed to create identity service", err)
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
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	states, err := bot.NewRedisStateStore(redisClient)
	if err != nil {
		logg.Error(ctx, "failed to create state store", err)
		os.Exit(1)
	}

	shopBot, err := bot.New(bot.Params{
		Telegram:    tgClient,
		Identity:    identitySvc,
		Orders:      ordersSvc,
		UserCount:   usersRepo,
		Products:    catalogRepo,
		Broadcaster: notifySvc,
		States:      states,
		Config:      cfg.Telegram,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create bot", err)
		os.Exit(1)
	}

	runner, err := bot.NewRunner(tgClient, shopBot.Routes(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create runner", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting bot long-polling loop")

	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "bot stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(context.Background(), "bot shut down gracefully")
}
