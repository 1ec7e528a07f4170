/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the customer ledger server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load configuration
  2. Build the logger
  3. Open the store selected by STORE_DRIVER
  4. Create the service, API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -env     Optional .env file loaded before reading the environment

STORES:
  memory    Nothing persisted, for demos
  sqlite    SQLITE_PATH (default ledger.db), ":memory:" also works
  postgres  POSTGRES_DSN, connection retried with backoff at startup
  redis     REDIS_ADDR etc., connection retried with backoff at startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (HTTP_SHUTDOWN_TIMEOUT)
  3. Close the store
  4. Exit

EXAMPLES:
  # SQLite file next to the binary
  ./server

  # In-memory, debug logs
  STORE_DRIVER=memory LOG_LEVEL=debug ./server

  # Postgres from a .env file
  ./server -env=.env

SEE ALSO:
  - config/config.go: Every setting and its default
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/api"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/config"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/customerledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger/store"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/logger"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/store/redisstore"
	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/store/sqlstore"
)

const connectTimeout = 30 * time.Second

// backend is a store that can also be health-checked and closed.
type backend interface {
	ledger.Store
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	envFile := flag.String("env", "", "Optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	st, err := openStore(ctx, cfg, log)
	cancel()
	if err != nil {
		return err
	}
	defer st.Close()

	svc := customerledger.NewService(st,
		customerledger.WithLogger(log.Named("ledger")),
		customerledger.WithRetryMaxElapsed(cfg.CommitRetryTimeout()),
	)

	handler := api.NewHandler(svc, log.Named("api"), cfg.CurrencySymbol)
	handler.Ping = st.Ping

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins(),
		Metrics:        api.NewMetrics(cfg.PromNamespace, cfg.AppEnv),
	})

	server := &http.Server{
		Addr:         cfg.HttpListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.HttpListenAddr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memoryBackend{store.NewMemory()}, nil

	case config.StoreSQLite:
		st, err := sqlstore.NewSQLite(cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		return st, nil

	case config.StorePostgres:
		return connectWithRetry(ctx, log, "postgres", func() (backend, error) {
			st, err := sqlstore.NewPostgres(cfg.PostgresDSN)
			if err != nil {
				return nil, err
			}
			return st, nil
		})

	case config.StoreRedis:
		opts := &redisstore.Options{
			Addrs:    []string{cfg.RedisAddr},
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDatabase,
		}
		return connectWithRetry(ctx, log, "redis", func() (backend, error) {
			st, err := redisstore.Dial(ctx, opts, cfg.RedisUniversalKeyPrefix)
			if err != nil {
				return nil, err
			}
			return st, nil
		})
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// connectWithRetry keeps dialing until the server answers, so the ledger
// can start before its database container is ready.
func connectWithRetry(ctx context.Context, log *zap.Logger, name string, dial func() (backend, error)) (backend, error) {
	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = connectTimeout

	var st backend
	err := backoff.RetryNotify(func() error {
		var err error
		st, err = dial()
		return err
	}, backoff.WithContext(boff, ctx), func(err error, wait time.Duration) {
		log.Warn("store not reachable, retrying", zap.String("store", name), zap.Duration("wait", wait), zap.Error(err))
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", name, err)
	}
	return st, nil
}

type memoryBackend struct {
	*store.Memory
}

func (memoryBackend) Ping(context.Context) error { return nil }
func (memoryBackend) Close() error               { return nil }
