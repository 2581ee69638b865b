package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/tsnet"

	"github.com/claude/liftlens/internal/config"
	"github.com/claude/liftlens/internal/ingest/alpha"
	"github.com/claude/liftlens/internal/ingest/csvlog"
	"github.com/claude/liftlens/internal/insights"
	"github.com/claude/liftlens/internal/metrics"
	"github.com/claude/liftlens/internal/server"
	"github.com/claude/liftlens/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *migrateOnly, log); err != nil {
		log.Error("liftlens exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, migrateOnly bool, log *slog.Logger) error {
	log.Info("LiftLens starting", "version", Version)

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations applied")
	if migrateOnly {
		return nil
	}

	db, err := storage.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer db.Close()

	registry := metrics.SetupPrometheus(metrics.PoolCollector(db.Pool, cfg.Database.Name))
	m := metrics.NewManager("liftlens", "server", registry)

	srv := server.New(db,
		csvlog.NewProvider(db, log),
		alpha.NewProvider(db, log),
		insights.NewAnalyzer(db, m, log),
		cfg.Auth.APIKey, m, log)
	srv.SetDefaultUser(cfg.Analytics.DefaultUserID)
	srv.SetMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	listener, closeListener, err := listen(cfg, srv, log)
	if err != nil {
		return err
	}
	defer closeListener()

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// listen opens the tailnet listener when tailscale is enabled, wiring
// WhoIs-based identity into srv, and a plain TCP listener otherwise.
func listen(cfg *config.Config, srv *server.Server, log *slog.Logger) (net.Listener, func(), error) {
	if !cfg.Tailscale.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("listening on %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr, "user_id", cfg.Analytics.DefaultUserID)
		return ln, func() {}, nil
	}

	ts := &tsnet.Server{
		Hostname: cfg.Tailscale.Hostname,
		Dir:      cfg.Tailscale.StateDir,
	}
	if err := ts.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting tsnet: %w", err)
	}
	lc, err := ts.LocalClient()
	if err != nil {
		ts.Close()
		return nil, nil, fmt.Errorf("tsnet local client: %w", err)
	}
	srv.SetTailscale(lc)

	ln, err := ts.Listen("tcp", ":80")
	if err != nil {
		ts.Close()
		return nil, nil, fmt.Errorf("tsnet listen: %w", err)
	}
	log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	return ln, func() { ts.Close() }, nil
}
