// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server/analytics"
	"github.com/dmitrijs2005/expensekeeper/internal/server/api"
	"github.com/dmitrijs2005/expensekeeper/internal/server/archive"
	"github.com/dmitrijs2005/expensekeeper/internal/server/auth"
	"github.com/dmitrijs2005/expensekeeper/internal/server/config"
	"github.com/dmitrijs2005/expensekeeper/internal/server/ledger"
	"github.com/dmitrijs2005/expensekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/expensekeeper/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *ledger.Registry
	server   *api.Server
}

// OpenDatabase opens and migrates the main database named by cfg.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	rm, err := repomanager.New(cfg.DatabaseDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(rm.DriverName(), cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, rm, nil
}

func newTokens(cfg *config.Config) auth.Tokens {
	if cfg.TokenBackend == config.TokenBackendJWT {
		return auth.NewJWTTokens([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	}
	return auth.NewHMACTokens([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
}

func newRegistry(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager, log logging.Logger) (*ledger.Registry, error) {
	if cfg.LedgerLayout == config.LedgerLayoutPerUser {
		return ledger.NewPerUserRegistry(cfg.LedgerDir, log)
	}
	return ledger.NewSharedRegistry(db, rm, log), nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	db, rm, err := OpenDatabase(ctx, c)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(c, db, rm, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger init error: %w", err)
	}

	us, err := services.NewUserService(db, rm, newTokens(c))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}

	deps := api.Deps{
		Users:   us,
		Ledgers: registry,
		Reports: analytics.NewEngine(registry),
		DB:      db,
	}
	if c.ArchiveEnabled() {
		a, err := archive.NewS3Archiver(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		deps.Archiver = a
	}

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		registry: registry,
		server:   api.New(c.EndpointAddrHTTP, c.CORSOrigin, deps, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage handles.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"driver", app.config.DatabaseDriver,
		"ledger_layout", app.config.LedgerLayout,
		"token_backend", app.config.TokenBackend,
		"archive", app.config.ArchiveEnabled(),
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) Close() {
	if err := app.registry.Close(); err != nil {
		app.logger.Error(context.Background(), "ledger close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
}
