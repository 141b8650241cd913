package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "wellflow/internal/jwt_token"
	"wellflow/internal/outbox"
	ownershipcache "wellflow/internal/ownership/cache"
	ownershiphandler "wellflow/internal/ownership/handler"
	ownershipservice "wellflow/internal/ownership/service"
	ownershipstore "wellflow/internal/ownership/store"
	"wellflow/internal/platform/config"
	"wellflow/internal/platform/httpserver"
	"wellflow/internal/platform/logger"
	"wellflow/internal/platform/metrics"
	"wellflow/internal/platform/postgres"
	"wellflow/internal/platform/redis"
	revenuehandler "wellflow/internal/revenue/handler"
	revenueservice "wellflow/internal/revenue/service"
	revenuestore "wellflow/internal/revenue/store"
	"wellflow/pkg/platform/tx"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()
	runner := tx.SQLRunner{DB: db}
	outboxStore := outbox.NewPostgres(db)
	tokens := jwttoken.NewService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	orderStore := ownershipstore.NewPostgres(db)
	ownershipOpts := []ownershipservice.Option{ownershipservice.WithMetrics(m)}
	if redisClient != nil {
		summaryCache := ownershipcache.NewSummaryCache(redisClient, log, cfg.Redis.SummaryTTL)
		ownershipOpts = append(ownershipOpts, ownershipservice.WithSummaryCache(summaryCache))
	}
	orders := ownershipservice.New(orderStore, outboxStore, runner, ownershipOpts...)

	distStore := revenuestore.NewPostgres(db)
	distributions := revenueservice.New(distStore, orderStore, outboxStore, runner, revenueservice.WithMetrics(m))

	router := chi.NewRouter()
	ownershiphandler.New(orders, log, m, tokens).Register(router)
	revenuehandler.New(distributions, log, m, tokens).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthHandler(db, redisClient))

	srv := httpserver.New(cfg.Server.Addr, router)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting wellflow server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := outbox.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()

		relay := outbox.NewRelay(outboxStore, publisher, log, m, cfg.Kafka.RelayInterval)
		group.Go(func() error {
			log.Info("starting outbox relay", "topic", cfg.Kafka.EventsTopic, "interval", cfg.Kafka.RelayInterval)
			return relay.Run(ctx)
		})
	} else {
		log.Warn("no kafka brokers configured, outbox relay disabled")
	}

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func healthHandler(db pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

type pinger interface {
	PingContext(ctx context.Context) error
}
