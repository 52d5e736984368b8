package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/absntcoffee/coffee-orders/internal/config"
	kafkax "github.com/absntcoffee/coffee-orders/internal/kafka"
	"github.com/absntcoffee/coffee-orders/internal/orders"
	"github.com/absntcoffee/coffee-orders/internal/postgres"
	"github.com/absntcoffee/coffee-orders/internal/push"
	"github.com/absntcoffee/coffee-orders/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB (registry device token)
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, "coffee-notifier")
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis (dedup event)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	handler := &push.Consumer{
		Dispatcher: &push.Dispatcher{
			Tokens:      &push.TokenRepo{DB: db},
			Gateway:     push.NewFCMClient(cfg.FCMBaseURL, cfg.FCMServerKey),
			Parallel:    cfg.PushParallel,
			SendTimeout: cfg.PushTimeout,
		},
		Dedup: &redisx.Deduper{RDB: rdb, Service: "notifier"},
	}

	group := getenv("NOTIFIER_GROUP", "push-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCreated, workers)

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderCreated, workers)
		if err := cons.Start(ctx, handler.HandleOrderCreated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
