package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Farhaan96/CollisionOS-sub003/internal/config"
	"github.com/Farhaan96/CollisionOS-sub003/internal/feedback"
	"github.com/Farhaan96/CollisionOS-sub003/internal/metrics"
	"github.com/Farhaan96/CollisionOS-sub003/internal/notify"
	"github.com/Farhaan96/CollisionOS-sub003/internal/observ"
	"github.com/Farhaan96/CollisionOS-sub003/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting notifyd",
		zap.String("env", cfg.Env),
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.StoreBackend),
	)

	// Open the durable store for settings, history, and do-not-disturb state
	ctx := context.Background()
	kv, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if kv != nil {
		defer kv.Close()
	}

	// Create the notification engine
	engine := notify.New(kv, feedback.NewConsole(nil), notify.Config{
		Settings: settingsOverrides(cfg),
	}, logger)
	defer engine.Close()

	engine.Info("notification engine started")

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", metrics.Handler())

	// Setup HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		logger.Info("server stopped gracefully")
	}

	return nil
}

// openStore selects the durable store backend. A nil store disables
// persistence; the engine runs in-memory only.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.KeyValueStore, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		kv, err := store.NewRedis(ctx, store.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.Warn("redis unavailable, running without persistence",
				zap.Error(err),
				zap.String("host", cfg.RedisHost),
			)
			return nil, nil
		}
		return kv, nil
	case config.StoreSQLite:
		kv, err := store.NewSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return kv, nil
	case config.StoreMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// settingsOverrides maps env overrides onto the engine's settings patch.
// Unset variables leave the stored values in place.
func settingsOverrides(cfg *config.Config) notify.SettingsPatch {
	patch := notify.SettingsPatch{
		MaxNotifications: cfg.MaxNotifications,
		GroupSimilar:     cfg.GroupSimilar,
		PersistHistory:   cfg.PersistHistory,
		SoundEnabled:     cfg.SoundEnabled,
		VibrationEnabled: cfg.VibrationEnabled,
	}
	if cfg.DefaultDurationMs != nil {
		d := time.Duration(*cfg.DefaultDurationMs) * time.Millisecond
		patch.DefaultDuration = &d
	}
	return patch
}
