package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/navsim/mfapi"
	"github.com/etnz/navsim/navcache"
	"github.com/etnz/navsim/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// shutdownTimeout bounds the time given to in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the calculators as a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `mfc serve [-addr <address>]

  Serves every calculator under /api, a health check on /healthz and, when enabled,
  prometheus metrics on /metrics.

  Schemes are fetched from the provider and kept in memory for cache.ttl. See the
  "serve" topic for the configuration keys.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on. Overrides server.addr.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		return failure(err)
	}
	defer logger.Sync()
	if c.addr != "" {
		cfg.Server.Addr = c.addr
	}

	var client *mfapi.Client
	if cfg.Provider.CacheDir != "" {
		client = newClient(cfg, logger)
	} else {
		client = mfapi.NewClient(cfg.Provider.BaseURL, &http.Client{Timeout: cfg.Provider.Timeout}, logger)
	}
	cache := navcache.New(client, cfg.Cache.TTL, cfg.Cache.MaxEntries, logger)
	srv := server.New(cache, server.Options{
		RiskFreeRate:  cfg.Risk.RiskFreeRate,
		BenchmarkCode: cfg.Risk.BenchmarkCode,
		Metrics:       cfg.Metrics.Enabled,
	}, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return failure(err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return failure(err)
		}
	}
	return subcommands.ExitSuccess
}
