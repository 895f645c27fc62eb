package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/af-corp/supaguard/guard"
	"github.com/af-corp/supaguard/internal/config"
	"github.com/af-corp/supaguard/internal/httputil"
	"github.com/af-corp/supaguard/internal/proxy"
	"github.com/af-corp/supaguard/supabase"
	"github.com/af-corp/supaguard/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "configs/supaguardd.yaml", "path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	loader := config.NewLoader(*configPath, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger = newLogger(loader.Config().Telemetry)
	slog.SetDefault(logger)

	metrics := telemetry.NewMetrics()

	// The guarded stack (guard middleware + upstream proxy) is rebuilt
	// on every config reload and swapped atomically under live traffic.
	var guarded atomic.Value
	buildStack := func() error {
		stack, err := buildGuardedStack(loader.Config(), metrics, logger)
		if err != nil {
			return err
		}
		guarded.Store(stack)
		return nil
	}
	if err := buildStack(); err != nil {
		logger.Error("failed to build proxy stack", "error", err)
		os.Exit(1)
	}

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}
	loader.OnReload(func() {
		if err := buildStack(); err != nil {
			logger.Error("reload kept previous proxy stack", "error", err)
			return
		}
		logger.Info("proxy stack reloaded")
	})

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	// Unauthenticated routes
	r.Get("/supaguard/v1/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Everything else goes through the guard to the upstream.
	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		guarded.Load().(http.Handler).ServeHTTP(w, req)
	}))

	cfg := loader.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("supaguardd starting", "addr", addr, "version", version, "mode", cfg.Upstream.Mode)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("supaguardd stopped")
}

// buildGuardedStack assembles guard middleware and the upstream proxy
// from the current configuration.
func buildGuardedStack(cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (http.Handler, error) {
	upstream, err := proxy.New(cfg.Upstream.URL, cfg.Upstream.IdentityHeaders, logger)
	if err != nil {
		return nil, err
	}

	guardCfg := guard.Config{
		Endpoint:  cfg.Supabase.URL,
		AccessKey: cfg.Supabase.AnonKey,
		ClientOptions: &supabase.ClientOptions{
			Global: supabase.GlobalOptions{Headers: cfg.Supabase.Headers},
			DB:     supabase.DBOptions{Schema: cfg.Supabase.Schema},
		},
		Metrics: metrics,
		Logger:  logger,
	}

	if cfg.Upstream.Mode == "optional" {
		return guard.Optional(guardCfg)(upstream), nil
	}
	return guard.Require(guardCfg)(upstream), nil
}

func newLogger(cfg config.TelemetryConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version,
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	now := time.Now()
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), hex.EncodeToString(b))
}
