package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dossier/internal/generation"
	"dossier/internal/notify"
	"dossier/internal/platform/config"
	"dossier/internal/platform/events"
	"dossier/internal/platform/httpserver"
	"dossier/internal/platform/logger"
	platformmetrics "dossier/internal/platform/metrics"
	"dossier/internal/platform/redis"
	"dossier/internal/platform/token"

	"dossier/internal/extract"
	"dossier/internal/profile/handler"
	profilemetrics "dossier/internal/profile/metrics"
	"dossier/internal/profile/ports"
	"dossier/internal/profile/service/enrich"
	"dossier/internal/profile/service/ingest"
	"dossier/internal/profile/service/merge"
	"dossier/internal/profile/store/enrichment"
	"dossier/internal/profile/store/lease"
	"dossier/internal/profile/store/rawdata"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		rawStore    rawdata.Store
		resultStore enrichment.Store
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		rawStore = rawdata.NewPostgres(pool)
		resultStore = enrichment.NewPostgres(pool)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		rawStore = rawdata.NewMemory()
		resultStore = enrichment.NewMemory()
	}

	var leaseStore lease.Store = lease.NewMemory()
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		leaseStore = lease.NewRedis(redisClient.Client)
	} else {
		log.Warn("redis not configured, enrichment lease is process local")
	}

	publisher, err := events.NewPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		log.Error("failed to connect to kafka", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	var generator ports.Generator = generation.Disabled{}
	if cfg.Generation.ServiceURL != "" {
		generator = generation.NewClient(cfg.Generation.ServiceURL, cfg.Generation.APIKey, cfg.Generation.RequestTimeout)
	} else {
		log.Warn("generation service not configured, enrichment will use fallback content")
	}

	profMetrics := profilemetrics.New()
	httpMetrics := platformmetrics.New()

	ingestSvc, err := ingest.New(rawStore, extract.NewPlainText(),
		ingest.WithLogger(log),
		ingest.WithEventPublisher(publisher),
		ingest.WithMetrics(profMetrics),
	)
	if err != nil {
		log.Error("failed to build ingest service", "error", err)
		os.Exit(1)
	}

	mergeSvc, err := merge.New(rawStore,
		merge.WithLogger(log),
		merge.WithEventPublisher(publisher),
	)
	if err != nil {
		log.Error("failed to build merge service", "error", err)
		os.Exit(1)
	}

	enrichSvc, err := enrich.New(resultStore, rawStore, mergeSvc, generator,
		enrich.WithLeaseStore(leaseStore),
		enrich.WithLogger(log),
		enrich.WithEventPublisher(publisher),
		enrich.WithMetrics(profMetrics),
		enrich.WithSkillsNormalizer(notify.NewLoggingNormalizer(log)),
		enrich.WithApprovalQueue(notify.NewEventApprovalQueue(log, publisher)),
		enrich.WithSettings(enrich.Settings{
			MaxTokens:   cfg.Generation.MaxTokens,
			Temperature: cfg.Generation.Temperature,
			MaxAttempts: cfg.Generation.MaxAttempts,
			LeaseTTL:    cfg.Generation.LeaseTTL,
		}),
	)
	if err != nil {
		log.Error("failed to build enrich service", "error", err)
		os.Exit(1)
	}

	jwtService := token.NewJWTService(cfg.Auth.JWTSigningKey, "dossier", "dossier-api")

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	profileHandler := handler.New(
		ingestSvc,
		mergeSvc,
		enrichSvc,
		resultStore,
		log,
		httpMetrics,
		token.NewValidatorAdapter(jwtService),
		handler.CallbackSecrets{
			ProviderAHash: cfg.Callbacks.ProviderASecretHash,
			ProviderBHash: cfg.Callbacks.ProviderBSecretHash,
		},
	)
	profileHandler.Register(router)

	srv := httpserver.New(cfg.HTTP.Addr, router)

	log.Info("starting dossier", "addr", cfg.HTTP.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("dossier stopped")
}
