// Engine is the closermetrix multi-tenant sales-call intelligence
// backend: calendar- and transcript-provider webhooks in, enriched call
// records and payment reconciliation out.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/closermetrix/engine/pkg/ai"
	"github.com/closermetrix/engine/pkg/alerting"
	"github.com/closermetrix/engine/pkg/api"
	"github.com/closermetrix/engine/pkg/audit"
	"github.com/closermetrix/engine/pkg/cache"
	"github.com/closermetrix/engine/pkg/calendar"
	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/payment"
	"github.com/closermetrix/engine/pkg/pushchannel"
	"github.com/closermetrix/engine/pkg/statemachine"
	"github.com/closermetrix/engine/pkg/sweeper"
	"github.com/closermetrix/engine/pkg/tenantlifecycle"
	"github.com/closermetrix/engine/pkg/transcript"
	"github.com/closermetrix/engine/pkg/version"
	"github.com/closermetrix/engine/pkg/warehouse"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	log.Printf("Starting %s", version.Full())

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: could not load %s: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	gw, dbClient := mustWarehouse(ctx, cfg.Database)
	defer dbClient.DB.Close()

	store := mustCacheStore(cfg.Redis)

	auditWriter := audit.NewWriter(gw)
	machine := statemachine.New(auditWriter)
	alerts := alerting.NewDispatcher(cfg.Slack, os.Getenv(cfg.Slack.WebhookEnv))

	httpClient := &http.Client{Timeout: 30 * time.Second}

	calendarRegistry := calendar.NewRegistry(calendar.NewGoogleAdapter(httpClient))
	dedup := calendar.NewDedupFilter(store)
	calendarOrchestrator := calendar.New(gw, calendarRegistry, "google", machine, dedup, alerts, cfg.TitleParsing)

	transcriptRegistry := transcript.NewRegistry(transcript.NewFathomAdapter(httpClient))
	aiClient := ai.NewClient(os.Getenv("ANTHROPIC_API_KEY"), cfg.AIPricing)
	aiPipeline := ai.NewPipeline(gw, machine, aiClient, cfg.Taxonomy, cfg.Thresholds, cfg.AIPricing)
	transcriptOrchestrator := transcript.New(gw, transcriptRegistry, machine, aiPipeline, alerts, calendarOrchestrator, cfg.Thresholds)

	timeoutSweeper := sweeper.New(gw, machine, transcriptRegistry, transcriptOrchestrator, alerts, cfg.Sweeper, cfg.Thresholds)
	timeoutSweeper.Start(ctx)
	defer timeoutSweeper.Stop()

	paymentReconciler := payment.New(gw, machine, alerts)

	pushRegistry := pushchannel.New(store, calendarRegistry)
	renewalJob := pushchannel.NewRenewalJob(pushRegistry, 1*time.Hour, cfg.Thresholds.PushChannelRenewLookahead)
	renewalJob.Start(ctx)
	defer renewalJob.Stop()

	tenants := tenantlifecycle.New(gw, transcriptRegistry, pushRegistry, cfg.Server.PublicBaseURL)

	server := api.NewServer(cfg.Server, cfg.Auth, gw, calendarOrchestrator, transcriptOrchestrator, paymentReconciler, tenants)

	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func mustWarehouse(ctx context.Context, dbCfg *config.DatabaseConfig) (warehouse.AdminGateway, *warehouse.Client) {
	dsn := os.Getenv(dbCfg.DSNEnv)
	if dsn == "" {
		log.Fatalf("environment variable %s is required", dbCfg.DSNEnv)
	}

	client, err := warehouse.NewClient(ctx, warehouse.Config{
		DSN:             dsn,
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("failed to connect to warehouse: %v", err)
	}
	slog.Info("connected to warehouse, schema migrated")

	return warehouse.NewPostgresGateway(client), client
}

// mustCacheStore returns a Redis-backed cache.Store when cfg.Enabled, or
// the in-memory fallback otherwise — used for calendar dedup and
// push-channel bookkeeping. A single-replica deployment never needs
// Redis; the in-memory store is correct there and is what every package's
// own tests already exercise.
func mustCacheStore(cfg *config.RedisConfig) cache.Store {
	if !cfg.Enabled {
		return cache.NewInMemoryStore()
	}
	addr := os.Getenv(cfg.AddrEnv)
	if addr == "" {
		log.Fatalf("environment variable %s is required when redis is enabled", cfg.AddrEnv)
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	return cache.NewRedisStore(client, "closermetrix")
}
