package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"notifyhub/internal/cache"
	"notifyhub/internal/config"
	"notifyhub/internal/mqhandler"
	"notifyhub/pkg/logger"
	"notifyhub/pkg/mq"
	"notifyhub/pkg/redis"
)

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	log.Info("Starting notifyhub worker...", zap.String("env", cfg.Env))

	// Redis
	rdb, err := redis.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	store := cache.NewStore(rdb, "notifyhub", log)
	feeds := cache.NewFeedCache(store, cfg.Cache.FeedTTL)
	whitelistHandler := mqhandler.NewWhitelistChangedHandler(feeds, log)

	log.Info("Init consumer",
		zap.String("queue", cfg.Worker.Queue),
		zap.String("routing_key", mq.RoutingKeyWhitelistChanged),
	)
	consumer, err := mq.NewConsumer(cfg.MQ, cfg.Worker.Queue, mq.RoutingKeyWhitelistChanged, log)
	if err != nil {
		log.Fatal("Consumer init failed", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(whitelistHandler.HandleWhitelistChanged)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Worker running")
	if err := consumer.StartConsuming(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", zap.Error(err))
	}

	log.Info("notifyhub worker shutdown complete")
}
