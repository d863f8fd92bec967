package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"fitflow/internal/adapters/backend"
	"fitflow/internal/adapters/cache"
	web "fitflow/internal/adapters/http"
	"fitflow/internal/adapters/http/middleware"
	"fitflow/internal/adapters/http/perf"
	"fitflow/internal/adapters/storage"
	sessionStore "fitflow/internal/adapters/storage/session"
	"fitflow/internal/config"
	"fitflow/internal/domain/timestamp"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const (
	memoryCacheEntries = 10000
	sweepInterval      = 10 * time.Minute
	visitorIdle        = 30 * time.Minute
	shutdownTimeout    = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_event", "event", "invalid", "error", err.Error())
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server_event", "event", "exit", "error", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// pingFunc adapts a health probe to web.Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	// Backend date-times without an offset are wall-clock times in the viewer's zone.
	timestamp.SetLocation(loc)
	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}
	sessionKey, err := cfg.SessionKeyBytes()
	if err != nil {
		return err
	}

	// Session database
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		return err
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)
	sealer, err := sessionStore.NewSealer(sessionKey)
	if err != nil {
		return err
	}
	if sessionKey == nil {
		slog.Warn("config_event", "event", "random_session_key", "detail", "sessions won't survive restart")
	}
	sessions := sessionStore.NewSQLiteStore(timedDB, sealer)
	health := []web.Pinger{timedDB}

	// Read cache
	var readCache cache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		readCache = cache.NewRedis(rdb)
		health = append(health, pingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }))
		slog.Info("cache_event", "event", "configured", "kind", "redis", "addr", cfg.RedisAddr)
	} else {
		readCache = cache.NewMemory(memoryCacheEntries)
		slog.Info("cache_event", "event", "configured", "kind", "memory")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := backend.New(backend.Options{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.BackendTimeout,
		SlowCallMs: cfg.SlowBackendMs,
		Cache:      readCache,
		CacheTTL:   cfg.CacheTTL,
		Collector:  collector,
		Metrics:    backend.NewMetrics(registry),
	})
	if err != nil {
		return err
	}

	handler, err := web.NewMux(web.Deps{
		Backend:      client,
		Sessions:     sessions,
		Collector:    collector,
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Health:       health,
		StaticDir:    staticDir(cfg.StaticDir),
		Location:     loc,
		CSRFKey:      csrfKey,
		CookieSecret: sessionKey,
		Secure:       cfg.IsProduction(),
		RateLimit:    cfg.RateLimit,
		SlowMs:       cfg.SlowRequestMs,
	})
	if err != nil {
		return err
	}

	go sweep(ctx, sessions, web.Limiter)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_event", "event", "starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"api", strings.TrimSuffix(cfg.APIURL, "/"),
			"schema", storage.LatestSchemaVersion(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweep drops expired sessions and idle rate-limit visitors until ctx ends.
func sweep(ctx context.Context, sessions *sessionStore.SQLiteStore, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.DeleteExpired(ctx, now)
			if err != nil {
				slog.Warn("session_event", "event", "sweep_failed", "error", err.Error())
			} else if n > 0 {
				slog.Info("session_event", "event", "expired_deleted", "count", n)
			}
			if limiter != nil {
				limiter.Sweep(visitorIdle)
			}
		}
	}
}

// staticDir returns dir when it exists, "" otherwise.
func staticDir(dir string) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}
