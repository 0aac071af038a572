// Lendly - Credit scoring and lender matching for small businesses.
// Copyright (c) 2026 Lendly
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SherlockH0olms/Lendly/internal/advisory"
	"github.com/SherlockH0olms/Lendly/internal/api"
	"github.com/SherlockH0olms/Lendly/internal/bus"
	"github.com/SherlockH0olms/Lendly/internal/cache"
	"github.com/SherlockH0olms/Lendly/internal/domain"
	"github.com/SherlockH0olms/Lendly/internal/matching"
	"github.com/SherlockH0olms/Lendly/internal/ratelimit"
	"github.com/SherlockH0olms/Lendly/internal/repository"
	"github.com/SherlockH0olms/Lendly/internal/scoring"
	"github.com/SherlockH0olms/Lendly/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("LENDLY_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting lendly",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	cfg := loadConfig()

	slog.Info("configuration loaded",
		"repository", cfg.Repository.Driver,
		"store", cfg.Store.Type,
		"eventbus", cfg.EventBus.Type,
		"advisory", cfg.Advisory.Endpoint != "",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Store
	store, err := cache.New(cfg.Store)
	if err != nil {
		slog.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("store initialized", "type", cfg.Store.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize advisors. The external client is optional; the local
	// fallback always exists.
	fallback := advisory.NewFallback()
	var advisor domain.Advisor
	if client := advisory.NewClient(cfg.Advisory); client != nil {
		advisor = client
		slog.Info("advisory client initialized", "endpoint", cfg.Advisory.Endpoint)
	} else {
		slog.Info("no advisory endpoint configured, running on fallback advisor")
	}

	explainer := advisor
	if explainer == nil {
		explainer = fallback
	}
	enricher := scoring.NewEnricher(explainer, 4)

	pipeline := scoring.NewPipeline(repo, store, advisor, fallback, enricher, busImpl, cfg.Store.ScoreTTL)
	slog.Info("scoring pipeline initialized")

	// Initialize Policy Engine and load offer policies from the catalog
	policies, err := matching.NewPolicyEngine()
	if err != nil {
		slog.Error("failed to initialize policy engine", "error", err)
		os.Exit(1)
	}
	offers, err := repo.ListOffers(ctx)
	if err != nil {
		slog.Error("failed to load offer catalog", "error", err)
		os.Exit(1)
	}
	if err := policies.Load(offers); err != nil {
		slog.Error("failed to compile offer policies", "error", err)
		os.Exit(1)
	}
	matcher := matching.NewMatcher(policies)
	slog.Info("matcher initialized", "offers", len(offers))

	// Initialize Rate Limiter. Backed by Redis when the store is, otherwise
	// in-process fixed windows.
	var redisClient *redis.Client
	if cfg.Store.Type == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		defer redisClient.Close()
	}
	limiter := ratelimit.New(redisClient)
	slog.Info("rate limiter initialized",
		"limit", cfg.RateLimit.Limit,
		"window_seconds", cfg.RateLimit.WindowSeconds,
	)

	// Initialize analytics worker
	analytics := worker.NewAnalytics(busImpl, store)
	if err := analytics.Start(); err != nil {
		slog.Error("failed to start analytics worker", "error", err)
		os.Exit(1)
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, store, busImpl, pipeline, matcher, limiter, cfg.RateLimit, Version)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("lendly is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	<-ctx.Done()
	slog.Info("shutting down...")

	if err := analytics.Stop(); err != nil {
		slog.Error("failed to stop analytics worker", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("lendly shutdown complete")
}

// loadConfig builds the configuration from defaults plus LENDLY_* environment
// overrides.
func loadConfig() *domain.Config {
	cfg := domain.DefaultConfig()

	if v := os.Getenv("LENDLY_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := envInt("LENDLY_PORT"); v > 0 {
		cfg.Server.Port = v
	}

	if v := os.Getenv("LENDLY_DB_DRIVER"); v != "" {
		cfg.Repository.Driver = v
	}
	if v := os.Getenv("LENDLY_SQLITE_PATH"); v != "" {
		cfg.Repository.SQLitePath = v
	}
	if v := os.Getenv("LENDLY_POSTGRES_HOST"); v != "" {
		cfg.Repository.PostgresHost = v
	}
	if v := envInt("LENDLY_POSTGRES_PORT"); v > 0 {
		cfg.Repository.PostgresPort = v
	}
	if v := os.Getenv("LENDLY_POSTGRES_USER"); v != "" {
		cfg.Repository.PostgresUser = v
	}
	if v := os.Getenv("LENDLY_POSTGRES_PASSWORD"); v != "" {
		cfg.Repository.PostgresPassword = v
	}
	if v := os.Getenv("LENDLY_POSTGRES_DB"); v != "" {
		cfg.Repository.PostgresDB = v
	}
	if os.Getenv("LENDLY_SEED_DEMO_DATA") == "false" {
		cfg.Repository.SeedDemoData = false
	}

	if v := os.Getenv("LENDLY_STORE"); v != "" {
		cfg.Store.Type = v
	}
	if v := os.Getenv("LENDLY_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("LENDLY_REDIS_PASSWORD"); v != "" {
		cfg.Store.RedisPassword = v
	}
	if v := envInt("LENDLY_REDIS_DB"); v > 0 {
		cfg.Store.RedisDB = v
	}

	if v := os.Getenv("LENDLY_BUS"); v != "" {
		cfg.EventBus.Type = v
	}
	if v := os.Getenv("LENDLY_NATS_URL"); v != "" {
		cfg.EventBus.NATSUrl = v
	}
	if v := os.Getenv("LENDLY_NATS_TOKEN"); v != "" {
		cfg.EventBus.NATSToken = v
	}

	if v := os.Getenv("LENDLY_ADVISORY_ENDPOINT"); v != "" {
		cfg.Advisory.Endpoint = v
	}
	if v := os.Getenv("LENDLY_ADVISORY_API_KEY"); v != "" {
		cfg.Advisory.APIKey = v
	}
	if v := envInt("LENDLY_ADVISORY_TIMEOUT"); v > 0 {
		cfg.Advisory.TimeoutSeconds = v
	}

	if v := envInt("LENDLY_RATE_LIMIT"); v > 0 {
		cfg.RateLimit.Limit = v
	}
	if v := envInt("LENDLY_RATE_WINDOW"); v > 0 {
		cfg.RateLimit.WindowSeconds = v
	}

	return cfg
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-numeric environment value", "key", key, "value", v)
		return 0
	}
	return n
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  Lendly - KOBI credit scoring & BOKT matching")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /profiles           - Register a business profile")
	fmt.Println("    GET  /profiles/{id}      - Get a profile")
	fmt.Println("    POST /score/calculate    - Compute a credit score (rate limited)")
	fmt.Println("    GET  /offers             - List lender offers, optionally with eligibility")
	fmt.Println("    POST /offers/apply       - Submit a loan application")
	fmt.Println("    GET  /applications/{id}  - Get a submitted application")
	fmt.Println("    GET  /health             - Health check")
	fmt.Println()
}
