package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"research-orchestrator/internal/app"
	"research-orchestrator/internal/config"
	"research-orchestrator/internal/infra/db"
	pgRepo "research-orchestrator/internal/repository/postgres"
	"research-orchestrator/internal/resilience/circuitbreaker"
	"research-orchestrator/internal/scheduler"
)

func main() {
	logger := initLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		logger.Error("failed to load LLM configuration", slog.Any("error", err))
		os.Exit(1)
	}
	schedCfg, err := config.LoadSchedulerConfig()
	if err != nil {
		logger.Error("failed to load scheduler configuration", slog.Any("error", err))
		os.Exit(1)
	}
	collectorCfg := config.LoadCollectorConfig()
	fallbackCfg := config.LoadFallbackConfig()

	gateway, err := app.BuildGateway(llmCfg)
	if err != nil {
		logger.Error("failed to build LLM gateway", slog.Any("error", err))
		os.Exit(1)
	}
	defer gateway.Close()

	registry := app.BuildRegistry(collectorCfg)
	policy, err := app.BuildFallbackPolicy(fallbackCfg)
	if err != nil {
		logger.Error("failed to load fallback policy", slog.Any("error", err))
		os.Exit(1)
	}
	pl := app.BuildPipeline(registry, policy, gateway, llmCfg)

	dbBreaker := circuitbreaker.NewDBCircuitBreaker(database)
	subscriberRepo := pgRepo.NewSubscriberRepo(dbBreaker)
	queryLogRepo := pgRepo.NewQueryLogRepo(dbBreaker)

	sinkURL := os.Getenv("SINK_WEBHOOK_URL_TEMPLATE")
	if sinkURL == "" {
		sinkURL = "https://example.invalid/send/%s"
		logger.Warn("SINK_WEBHOOK_URL_TEMPLATE not set, using placeholder sink")
	}
	sink := scheduler.NewWebhookSink(sinkURL)

	sched := scheduler.New(pl, sink, subscriberRepo, queryLogRepo, schedCfg.Hour, schedCfg.Minute, schedCfg.Sources, schedCfg.GroupSinkID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startMetricsServer(ctx, logger)

	logger.Info("scheduler starting",
		slog.Int("hour", schedCfg.Hour),
		slog.Int("minute", schedCfg.Minute),
		slog.Any("sources", schedCfg.Sources))

	go sched.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")
	cancel()
	time.Sleep(200 * time.Millisecond)
}

func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	for i := 0; i < 10; i++ {
		if err := db.MigrateUp(database); err == nil {
			return database
		} else if i == 9 {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("waiting for database, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	return database
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
