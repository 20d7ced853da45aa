package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warrnstack/statuspage-web/internal/access"
	"github.com/warrnstack/statuspage-web/internal/api"
	"github.com/warrnstack/statuspage-web/internal/cache"
	"github.com/warrnstack/statuspage-web/internal/config"
	"github.com/warrnstack/statuspage-web/internal/domainroute"
	"github.com/warrnstack/statuspage-web/internal/gateway"
	"github.com/warrnstack/statuspage-web/internal/identity"
	"github.com/warrnstack/statuspage-web/internal/metrics"
	"github.com/warrnstack/statuspage-web/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting statuspage-web", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	cacheProvider := newCacheProvider(cfg.Cache, logger)
	defer cacheProvider.Close()

	backendClient := gateway.NewClient(
		cfg.Clients.Backend.BaseURL,
		cfg.Clients.Backend.AuthCheckPath,
		cfg.Clients.Backend.PagePath,
		cfg.Clients.Backend.DomainLookupPath,
		cfg.Clients.Backend.Timeout,
		cacheProvider,
		cfg.Cache.AuthCheckTTL,
		cfg.Cache.DomainLookupTTL,
	)

	gate := access.NewGate(logger, backendClient)
	idp := identity.NewHostedProvider(cfg.Identity.SignInURL, cfg.Identity.SignUpURL, cfg.Identity.SessionCookie)
	domains := domainroute.NewResolver(logger, backendClient, cfg.Routing.CanonicalHosts, cfg.Routing.DirectoryURL)
	handler := api.NewHandler(logger, gate, idp, domains, cfg.Routing.DirectoryURL, time.Now)

	server, err := api.NewServer(cfg.Server, handler.Routes())
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("statuspage-web stopped")
}

// newCacheProvider picks the configured probe cache, degrading to the noop
// provider when the external cache is unreachable: caching is an
// optimisation, never a boot dependency.
func newCacheProvider(cfg config.CacheConfig, logger *slog.Logger) cache.Provider {
	switch cfg.Provider {
	case "redis":
		provider, err := cache.NewRedisProvider(cache.RedisConfig{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			MaxRetries:   cfg.MaxRetries,
			TLS:          cfg.TLS,
		})
		if err != nil {
			logger.Warn("redis cache unavailable", slog.Any("error", err))
			return cache.NoopProvider{}
		}
		return provider
	case "memory":
		return cache.NewMemoryProvider()
	default:
		return cache.NoopProvider{}
	}
}
