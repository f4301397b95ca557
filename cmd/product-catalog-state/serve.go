package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/product-catalog-state/internal/backend"
	"github.com/fairyhunter13/product-catalog-state/internal/catalog"
	"github.com/fairyhunter13/product-catalog-state/internal/client"
	"github.com/fairyhunter13/product-catalog-state/internal/config"
	httpapi "github.com/fairyhunter13/product-catalog-state/internal/http"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog state HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run only the in-memory catalog backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg, "-backend")
		st := backend.NewStore(backend.WithLatency(cfg.BackendLatency))
		handler := httpapi.Logging(log)(backend.Handler(st, log))
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return listen(ctx, cfg, log, handler, nil)
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "")
	ctx := log.WithField(context.Background(), "app_env", cfg.AppEnv)
	log.Info(ctx, "service_starting")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(reg)

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	state := catalog.New(src, catalog.Options{
		InitialSelection: cfg.InitialSelection,
		Markup:           cfg.PriceMarkup,
		HighWatermark:    cfg.QueueHighWatermark,
		Logger:           log,
		Metrics:          metrics,
	})
	state.Start(context.Background())
	defer state.Close()
	state.Connect()

	app := httpapi.NewApp(state, log)
	sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return listen(sigCtx, cfg, log, httpapi.NewRouter(app, reg), func() {
		app.StartShutdown()
		stats := state.LoopStats()
		log.Info(log.WithFields(ctx, map[string]any{
			"backlog_size":      stats.Backlog,
			"fetches_in_flight": stats.InFlight,
		}), "shutdown_drain_begin")
		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if state.Settle(drainCtx) {
			log.Info(ctx, "shutdown_drain_complete")
		} else {
			log.Warn(ctx, "shutdown_drain_timeout")
		}
	})
}

func newSource(cfg *config.Config) (catalog.Source, error) {
	if cfg.EmbeddedBackend() {
		return backend.NewStore(backend.WithLatency(cfg.BackendLatency)), nil
	}
	c, err := client.New(cfg.SourceURL, client.WithTimeout(cfg.FetchTimeout))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// listen serves handler until ctx is done, runs drain, then shuts the
// server down.
func listen(ctx context.Context, cfg *config.Config, log *obs.Logger, handler http.Handler, drain func()) error {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info(log.WithField(ctx, "addr", cfg.HTTPAddr), "http_listen")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.Error(ctx, "http_server_error", err)
		}
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutdown_signal")

	if drain != nil {
		drain()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "http_shutdown_error", err)
		return err
	}
	log.Info(shutdownCtx, "service_stopped")
	return nil
}
