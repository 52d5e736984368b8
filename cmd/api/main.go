package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absntcoffee/coffee-orders/internal/config"
	"github.com/absntcoffee/coffee-orders/internal/httpx"
	kafkax "github.com/absntcoffee/coffee-orders/internal/kafka"
	"github.com/absntcoffee/coffee-orders/internal/orders"
	"github.com/absntcoffee/coffee-orders/internal/payments"
	"github.com/absntcoffee/coffee-orders/internal/postgres"
	"github.com/absntcoffee/coffee-orders/internal/push"
	"github.com/absntcoffee/coffee-orders/internal/realtime"
	"github.com/absntcoffee/coffee-orders/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer utk event order.created
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Services
	notifier := &realtime.Notifier{RDB: rdb}
	svc := &orders.Service{
		Store:    &orders.Repo{DB: db},
		Settings: &orders.SettingsRepo{DB: db},
		Realtime: notifier,
		Events:   &orders.EventPublisher{Producer: prod, ServiceName: cfg.ServiceName},
	}

	paymentRepo := &payments.Repo{DB: db}
	gate := &payments.Gate{
		Artifacts:     &payments.DiskStore{Dir: cfg.ProofDir},
		Payments:      paymentRepo,
		Orders:        svc,
		UploadTimeout: 30 * time.Second,
	}

	dispatcher := &push.Dispatcher{
		Tokens:      &push.TokenRepo{DB: db},
		Gateway:     push.NewFCMClient(cfg.FCMBaseURL, cfg.FCMServerKey),
		Parallel:    cfg.PushParallel,
		SendTimeout: cfg.PushTimeout,
	}

	// Handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Svc:      svc,
		Gate:     gate,
		Proofs:   paymentRepo,
		Realtime: notifier,
	}
	oh.Register(router)
	ph := &httpx.PushHandler{
		Dispatcher:    dispatcher,
		Tokens:        &push.TokenRepo{DB: db},
		Dedup:         &redisx.Deduper{RDB: rdb, Service: "webhook-push"},
		WebhookSecret: cfg.WebhookSecret,
	}
	ph.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
