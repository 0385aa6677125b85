package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrsvc/internal/config"
	dbRedis "github.com/kailas-cloud/solrsvc/internal/db/redis"
	"github.com/kailas-cloud/solrsvc/internal/domain/event"
	"github.com/kailas-cloud/solrsvc/internal/domain/page"
	"github.com/kailas-cloud/solrsvc/internal/events"
	logpkg "github.com/kailas-cloud/solrsvc/internal/logger"
	"github.com/kailas-cloud/solrsvc/internal/metrics"
	corerepo "github.com/kailas-cloud/solrsvc/internal/repository/core"
	"github.com/kailas-cloud/solrsvc/internal/tracing"
	chiTransport "github.com/kailas-cloud/solrsvc/internal/transport/chi"
	"github.com/kailas-cloud/solrsvc/internal/transport/solr"
	adminuc "github.com/kailas-cloud/solrsvc/internal/usecase/admin"
	healthuc "github.com/kailas-cloud/solrsvc/internal/usecase/health"
	resourceuc "github.com/kailas-cloud/solrsvc/internal/usecase/resource"
	"github.com/kailas-cloud/solrsvc/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solrsvc API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_core", cfg.Solr.CoreURL),
		zap.Bool("redis_events", cfg.Events.Redis.Enabled()),
	)

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		Env:         env,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracing shutdown failed", zap.Error(err))
		}
	}()

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSolrMetrics()

	solrClient, err := solr.New(solr.Config{
		CoreURL:  cfg.Solr.CoreURL,
		Username: cfg.Solr.Username,
		Password: cfg.Solr.Password,
		Timeout:  time.Duration(cfg.Solr.TimeoutSec) * time.Second,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("Failed to create Solr client", zap.Error(err))
	}

	if err := solrClient.WaitForReady(ctx, time.Duration(cfg.Solr.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Solr core not ready", zap.Error(err))
	}
	logger.Info("Connected to Solr core", zap.String("core_url", solrClient.CoreURL()))

	// Event sinks: the in-process bus always, Redis pub/sub when configured.
	bus := events.NewBus()
	unsubscribe := bus.Subscribe(events.Wildcard, logEvent(logger))
	defer unsubscribe()
	sinks := []events.Sink{bus}

	// Pass nil interface (not typed nil pointer!) when Redis is not configured.
	var eventsPinger healthuc.EventsPinger
	if rc := cfg.Events.Redis; rc.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    rc.Addrs,
			Username: rc.Username,
			Password: rc.Password,
			DB:       rc.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create Redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(rc.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to Redis", zap.Strings("addrs", rc.Addrs), zap.String("channel_prefix", rc.ChannelPrefix))

		sinks = append(sinks, events.NewRedisPublisher(store, rc.ChannelPrefix))
		eventsPinger = store
	}
	publisher := events.NewFanout(sinks...)

	// Create repository and use case services
	repo := corerepo.New(solrClient)

	resourceSvc := resourceuc.New(repo, publisher, logger).
		WithName(cfg.Resource.Name).
		WithPagination(page.Paginate{
			Default: cfg.Resource.Paginate.Default,
			Max:     cfg.Resource.Paginate.Max,
		}).
		WithMulti(cfg.Resource.Multi...).
		WithEvents(cfg.Resource.Events...)
	adminSvc := adminuc.New(solrClient)
	healthSvc := healthuc.New(solrClient, eventsPinger)

	server := chiTransport.NewServer(resourceSvc, adminSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		Auth: chiTransport.AuthConfig{
			APIKeys:   cfg.Auth.APIKeys,
			AdminKeys: cfg.Auth.AdminKeys,
		},
		Tracing: cfg.Tracing.Enabled,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// logEvent writes every published event to the debug log.
func logEvent(logger *zap.Logger) events.Handler {
	return func(_ context.Context, e event.Event) error {
		logger.Debug("resource event",
			zap.String("resource", e.Resource),
			zap.String("event", e.Name),
			zap.Time("occurred_at", e.OccurredAt),
		)
		return nil
	}
}
