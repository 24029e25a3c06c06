package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/Skufu/riskscope/internal/assessment"
	"github.com/Skufu/riskscope/internal/catalog"
	"github.com/Skufu/riskscope/internal/history"
	"github.com/Skufu/riskscope/internal/metrics"
	"github.com/Skufu/riskscope/internal/server"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendSQLite   = "sqlite"
)

type Config struct {
	Port             string
	LogLevel         string
	LogFormat        string
	CatalogPath      string
	HistoryBackend   string
	DatabaseURL      string
	SQLitePath       string
	KafkaBrokers     []string
	KafkaTopic       string
	HistoryRetention time.Duration
	PruneSchedule    string
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	ctx := context.Background()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	store, db, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	var sink history.Store = store
	if len(cfg.KafkaBrokers) > 0 {
		sink = history.NewFanout(store, history.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		logger.Info("publishing assessments to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer sink.Close()

	m := metrics.New()
	svc := assessment.New(cat,
		assessment.WithHistory(sink),
		assessment.WithMetrics(m),
		assessment.WithLogger(logger),
	)

	if cfg.HistoryRetention > 0 {
		pruner, err := (&history.Retention{
			Store:   sink,
			Keep:    cfg.HistoryRetention,
			Logger:  logger,
			OnPrune: func(n int64) { m.HistoryPruned.Add(float64(n)) },
		}).Schedule(cfg.PruneSchedule)
		if err != nil {
			return err
		}
		defer pruner.Stop()
	}

	router := server.NewRouter(svc, db, m)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	logger.Info("server listening",
		"port", cfg.Port,
		"history", cfg.HistoryBackend,
		"conditions", len(cat.List()),
	)
	return waitForShutdown(srv, errCh, logger)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		HistoryBackend: strings.ToLower(getEnv("HISTORY_BACKEND", backendMemory)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "./riskscope.db"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", history.DefaultTopic),
		PruneSchedule:  getEnv("HISTORY_PRUNE_SCHEDULE", "@daily"),
	}

	switch cfg.HistoryBackend {
	case backendMemory, backendSQLite:
	case backendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when HISTORY_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("HISTORY_BACKEND must be one of memory, postgres, sqlite; got %q", cfg.HistoryBackend)
	}

	if raw := os.Getenv("HISTORY_RETENTION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("HISTORY_RETENTION must be a positive duration, got %q", raw)
		}
		cfg.HistoryRetention = d
	}
	if cfg.HistoryRetention > 0 {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			return nil, fmt.Errorf("HISTORY_PRUNE_SCHEDULE: %w", err)
		}
	}

	return cfg, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// openHistory returns the configured store and, for database backends, the
// health checker used by /readyz.
func openHistory(ctx context.Context, cfg *Config) (history.Store, server.HealthChecker, error) {
	switch cfg.HistoryBackend {
	case backendPostgres:
		if err := history.Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		s := history.NewPostgresStore(pool)
		return s, s, nil
	case backendSQLite:
		s, err := history.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return history.NewMemoryStore(), nil, nil
	}
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func waitForShutdown(srv *http.Server, errCh <-chan error, logger *slog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
