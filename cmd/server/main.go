package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoppinglist-api/internal/database"
	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/metrics"
	"shoppinglist-api/internal/migration"
	"shoppinglist-api/internal/redisclient"
	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/tls"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	envErr := godotenv.Load()

	// Initialize logging first
	logging.InitLogger(logging.NewLogConfigFromEnv())
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logging.Logger.WithError(envErr).Warn("Failed to load .env file")
	}

	if err := run(); err != nil {
		logging.Logger.WithError(err).Fatal("Server stopped")
	}
}

func run() error {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				logging.Logger.WithError(err).Warn("Failed to close database")
			}
		}()
	}

	redisClient, err := redisclient.New(ctx, redisclient.NewConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if redisClient != nil {
		logging.Logger.Info("Rate limit counters shared through Redis")
		defer redisClient.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := newRouter(cfg, dependencies{
		store:    store,
		db:       db,
		redis:    redisClient,
		registry: registry,
		metrics:  metrics.New(registry),
	})
	if err != nil {
		return err
	}

	return serve(ctx, cfg, router)
}

// openStore picks the storage backend and brings its schema up to date
func openStore(cfg *serverConfig) (storage.Store, *gorm.DB, error) {
	if cfg.UseMemory {
		logging.Logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil, nil
	}

	dbConfig := database.NewConfigFromEnv()
	db, err := database.Connect(dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dbConfig.AutoMigrate {
		if err := migrateSchema(dbConfig, db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
	}

	logging.Logger.WithField("driver", dbConfig.Driver).Info("SQL storage initialized")
	return storage.NewSQLStorage(db), db, nil
}

// migrateSchema runs the embedded migrations on PostgreSQL and creates the
// generated schema on SQLite
func migrateSchema(cfg *database.Config, db *gorm.DB) error {
	if cfg.Driver != database.DriverPostgres {
		if err := database.EnsureSchema(db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}

	migrator, err := migration.NewFromDatabaseConfig(cfg)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Up()
}

// serve runs the HTTP or HTTPS listeners until ctx is cancelled, then
// drains them within the shutdown timeout
func serve(ctx context.Context, cfg *serverConfig, handler http.Handler) error {
	servers := make([]*http.Server, 0, 2)

	if cfg.TLS.Enabled {
		tlsConfig, err := cfg.TLS.CreateTLSConfig()
		if err != nil {
			return err
		}
		servers = append(servers, newHTTPServer(cfg.TLS.Port, handler))
		servers[0].TLSConfig = tlsConfig

		if cfg.TLS.RedirectHTTP {
			servers = append(servers, newHTTPServer(cfg.TLS.HTTPPort, tls.HTTPSRedirectHandler(cfg.TLS.Port, handler)))
		}
	} else {
		servers = append(servers, newHTTPServer(cfg.Port, handler))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logging.Logger.WithFields(logrus.Fields{
				"addr": srv.Addr,
				"tls":  srv.TLSConfig != nil,
			}).Info("Starting server")

			var err error
			if srv.TLSConfig != nil {
				err = srv.ListenAndServeTLS("", "")
			} else {
				err = srv.ListenAndServe()
			}
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logging.Logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
