package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/weifxx/timetable/internal/admins"
	"github.com/weifxx/timetable/internal/config"
	"github.com/weifxx/timetable/internal/fetch"
	"github.com/weifxx/timetable/internal/files"
	"github.com/weifxx/timetable/internal/ingest"
	"github.com/weifxx/timetable/internal/logging"
	"github.com/weifxx/timetable/internal/store"
	"github.com/weifxx/timetable/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"fetch_enabled", cfg.Fetch.PageURL != "",
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	st := store.New(pool)
	if err := st.InitSchema(ctx); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	fm, err := files.NewManager(cfg.Retention.Dir)
	if err != nil {
		slog.Error("failed to prepare schedule files directory", "error", err)
		os.Exit(1)
	}

	registry, err := admins.FromStrings(cfg.Admin.IDs)
	if err != nil {
		slog.Error("invalid ADMIN_IDS", "error", err)
		os.Exit(1)
	}
	slog.Info("administrators registered", "count", registry.Len())

	svc := ingest.NewService(st, fm, nil)

	var fetcher web.Fetcher
	var fetchClient *fetch.Client
	if cfg.Fetch.PageURL != "" {
		fetchClient = fetch.NewClient(cfg.Fetch.PageURL, cfg.Fetch.Timeout, svc)
		fetcher = fetchClient
	}

	server := web.NewServer(cfg, st, svc, fetcher, fm, registry)

	// Cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go fm.StartCleanupScheduler(jobCtx, cfg.Retention.CleanupInterval)

	if fetchClient != nil && cfg.Fetch.Interval > 0 {
		go fetchClient.StartScheduler(jobCtx, cfg.Fetch.Interval)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
