package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"

	emailPkg "gymadmin/internal/adapters/email"
	"gymadmin/internal/adapters/gymapi"
	web "gymadmin/internal/adapters/http"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/adapters/storage"
	sessionStore "gymadmin/internal/adapters/storage/session"
	"gymadmin/internal/application/orchestrators"
	"gymadmin/internal/application/state"
	"gymadmin/internal/config"
	"gymadmin/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// sweepInterval is how often idle caches and expired sessions are purged.
const sweepInterval = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := perf.NewCollector(perf.DefaultRingSize)

	sessions, health, purge, closeStore, err := openSessionStore(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer closeStore()

	api := gymapi.New(gymapi.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		SlowCallMs: cfg.API.SlowCallMs,
		Collector:  collector,
	})
	registry := state.NewRegistry()

	renderer, err := view.New(cfg.Lang)
	if err != nil {
		return err
	}

	var welcome emailPkg.Sender
	if cfg.Email.WelcomeOnAdd {
		if cfg.Email.ResendKey != "" {
			welcome = emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
			slog.Info("email_sender", "provider", "resend")
		} else {
			welcome = emailPkg.NewNoopSender()
			slog.Warn("email_sender", "provider", "noop", "hint", "set GYMADMIN_RESEND_KEY for real delivery")
		}
	}

	csrfKey, ok := cfg.CSRFKeyBytes()
	if !ok {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return err
		}
		slog.Warn("csrf_key_generated", "hint", "forms break across restarts; set GYMADMIN_CSRF_KEY")
	}

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, time.Second)
	go limiter.Run(ctx)

	handler, err := web.NewMux(web.Deps{
		API:            api,
		Sessions:       sessions,
		States:         registry,
		Refresher:      state.NewRefresher(api),
		Renderer:       renderer,
		Collector:      collector,
		Limiter:        limiter,
		Welcome:        welcome,
		WelcomeFrom:    cfg.Email.From,
		Health:         health,
		CSRFKey:        csrfKey,
		TrustedOrigins: cfg.HTTP.TrustedOrigins,
		SecureCookies:  cfg.Session.SecureCookie,
		SlowRequestMs:  float64(cfg.HTTP.SlowRequestMs),
		SessionTTL:     cfg.Session.TTL,
		Revalidate:     cfg.Session.RevalidateOnRestore,
	})
	if err != nil {
		return err
	}

	go sweep(ctx, registry, cfg.Session.StateIdleTimeout, cfg.Session.TTL, purge)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"lang", cfg.Lang,
			"api", api.BaseURL(),
			"session_backend", cfg.Session.Backend,
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

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openSessionStore builds the configured session backend. purge is nil when the
// backend expires sessions itself.
func openSessionStore(ctx context.Context, cfg config.Config, collector *perf.Collector) (
	store orchestrators.SessionStore,
	health func(context.Context) error,
	purge func(context.Context, time.Time) (int64, error),
	closeFn func(),
	err error,
) {
	if cfg.Session.Backend == config.SessionBackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, nil, nil, err
		}
		slog.Info("session_store", "backend", "redis", "addr", cfg.Redis.Addr)
		health = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return sessionStore.NewRedisStore(rdb, cfg.Session.TTL), health, nil, func() { rdb.Close() }, nil
	}

	dsn := cfg.DB.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	db.SetMaxOpenConns(4)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, nil, err
	}
	if err := storage.MigrateDB(db, cfg.DB.Path); err != nil {
		db.Close()
		return nil, nil, nil, nil, err
	}
	slog.Info("session_store", "backend", "sqlite", "path", cfg.DB.Path, "schema", storage.LatestSchemaVersion())

	timed := storage.NewTimedDB(db, collector, cfg.DB.SlowQueryMs)
	s := sessionStore.NewSQLiteStore(timed)
	return s, timed.Ping, s.DeleteCreatedBefore, func() { timed.Close() }, nil
}

// sweep drops idle per-session caches and, when sessions expire, purges stored ones.
func sweep(ctx context.Context, registry *state.Registry, idle, ttl time.Duration, purge func(context.Context, time.Time) (int64, error)) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if idle > 0 {
			if n := registry.Sweep(idle); n > 0 {
				slog.Info("state_swept", "dropped", n, "remaining", registry.Len())
			}
		}
		if ttl > 0 && purge != nil {
			n, err := purge(ctx, time.Now().Add(-ttl))
			if err != nil {
				slog.Error("session_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("sessions_purged", "count", n)
			}
		}
	}
}
