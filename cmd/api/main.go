package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/meditrack/meditrack-api/api/controllers"
	"github.com/meditrack/meditrack-api/api/middleware"
	"github.com/meditrack/meditrack-api/api/responses"
	"github.com/meditrack/meditrack-api/api/routes"
	"github.com/meditrack/meditrack-api/internal/alerts"
	"github.com/meditrack/meditrack-api/internal/dispatch"
	"github.com/meditrack/meditrack-api/internal/escalation"
	"github.com/meditrack/meditrack-api/internal/hospitals"
	"github.com/meditrack/meditrack-api/internal/inventory"
	"github.com/meditrack/meditrack-api/internal/realtime"
	"github.com/meditrack/meditrack-api/internal/recommend"
	"github.com/meditrack/meditrack-api/internal/staff"
	"github.com/meditrack/meditrack-api/internal/thresholds"
	"github.com/meditrack/meditrack-api/pkg/auth"
	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/db"
	"github.com/meditrack/meditrack-api/pkg/env"
	"github.com/meditrack/meditrack-api/pkg/llm"
	"github.com/meditrack/meditrack-api/pkg/logger"
	"github.com/meditrack/meditrack-api/pkg/metrics"
	"github.com/meditrack/meditrack-api/pkg/migrate"
	"github.com/meditrack/meditrack-api/pkg/redis"
	"github.com/meditrack/meditrack-api/pkg/sms"
)

const shutdownTimeout = 15 * time.Second

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
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.SetDebug(cfg.App.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
	} else {
		logg.Info(ctx, "redis not configured; escalation claims and realtime relay are local only")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipelineMetrics := metrics.NewPipeline(registry)
	escalationMetrics := metrics.NewEscalation(registry)
	realtimeMetrics := metrics.NewRealtime(registry)
	httpMetrics := metrics.NewHTTP(registry)

	smsClient := sms.NewClient(cfg.SMS, logg)
	if !smsClient.Enabled() {
		logg.Info(ctx, "sms credentials not configured; critical alerts will not be texted")
	}
	dispatcherOpts := []escalation.Option{
		escalation.WithMetrics(escalationMetrics),
		escalation.WithQueueSize(cfg.SMS.QueueSize),
		escalation.WithWorkers(cfg.SMS.Workers),
		escalation.WithSendTimeout(cfg.SMS.Timeout),
	}
	if redisClient != nil {
		dispatcherOpts = append(dispatcherOpts, escalation.WithOnceStore(redisClient))
	}
	dispatcher, err := escalation.NewDispatcher(smsClient, logg, dispatcherOpts...)
	if err != nil {
		logg.Error(ctx, "failed to start escalation dispatcher", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(logg, realtimeMetrics)
	var broadcaster realtime.Broadcaster = hub
	relayDone := make(chan error, 1)
	if cfg.Realtime.RelayEnabled && redisClient != nil {
		relay, err := realtime.NewRelay(hub, redisClient, cfg.Realtime.Channel, logg)
		if err != nil {
			logg.Error(ctx, "failed to create realtime relay", err)
			os.Exit(1)
		}
		ready := make(chan struct{})
		go func() { relayDone <- relay.Run(ctx, ready) }()
		select {
		case <-ready:
		case err := <-relayDone:
			logg.Error(ctx, "realtime relay failed to subscribe", err)
			os.Exit(1)
		}
		broadcaster = relay
	} else {
		close(relayDone)
	}

	alertService, err := alerts.NewService(
		alerts.NewRepository(dbClient.DB()),
		logg,
		alerts.WithDedupe(cfg.Alerts.Dedupe),
		alerts.WithTimeout(dbClient.QueryTimeout()),
	)
	if err != nil {
		logg.Error(ctx, "failed to create alert service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:        inventory.NewRepository(dbClient.DB()),
		Alerts:      alertService,
		Escalator:   dispatcher,
		Broadcaster: broadcaster,
		Thresholds:  thresholds.FromConfig(cfg.Alerts),
		Logger:      logg,
		Metrics:     pipelineMetrics,
		Timeout:     dbClient.QueryTimeout(),
	})
	if err != nil {
		logg.Error(ctx, "failed to create inventory service", err)
		os.Exit(1)
	}

	hospitalService, err := hospitals.NewService(hospitals.NewRepository(dbClient.DB()), dbClient.QueryTimeout())
	if err != nil {
		logg.Error(ctx, "failed to create hospital service", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		logg.Error(ctx, "failed to create token verifier", err)
		os.Exit(1)
	}
	staffResolver, err := staff.NewResolver(verifier, staff.NewRepository(dbClient.DB()), dbClient.QueryTimeout())
	if err != nil {
		logg.Error(ctx, "failed to create staff resolver", err)
		os.Exit(1)
	}

	dispatchResolver, err := dispatch.NewResolver(dispatch.NewRepository(dbClient.DB()), cfg.Dispatch, dbClient.QueryTimeout(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create dispatch resolver", err)
		os.Exit(1)
	}

	llmClient := llm.NewClient(cfg.LLM)
	if !llmClient.Enabled() {
		logg.Info(ctx, "llm api key not configured; /api/ai/recommend will report unavailable")
	}
	recommendService, err := recommend.NewService(hospitalService, llmClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create recommendation service", err)
		os.Exit(1)
	}

	pingers := map[string]controllers.Pinger{"db": dbClient, "redis": nil}
	if redisClient != nil {
		pingers["redis"] = redisClient
	}

	origins := middleware.AllowedOrigins(cfg.App.FrontendURL)
	wsServer := realtime.NewServer(hub, cfg.Realtime, logg, origins...)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.Get("DYNO", "local"),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			pingers,
			httpMetrics,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			staffResolver,
			hospitalService,
			inventoryService,
			alertService,
			dispatchResolver,
			recommendService,
			wsServer,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	shutdownErr = multierr.Append(shutdownErr, dispatcher.Close(shutdownCtx))
	if err, ok := <-relayDone; ok && err != nil && !errors.Is(err, context.Canceled) {
		shutdownErr = multierr.Append(shutdownErr, err)
	}
	if redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	}
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())

	if shutdownErr != nil {
		logg.Error(logCtx, "shutdown completed with errors", shutdownErr)
		exitCode = 1
	} else {
		logg.Info(logCtx, "shutdown complete")
	}
	os.Exit(exitCode)
}
