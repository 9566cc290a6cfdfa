// Package server wires the reference auth backend: PostgreSQL users, the
// token revocation list, metrics and the REST API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medinvest/medinvest/internal/logging"
	"github.com/medinvest/medinvest/internal/server/config"
	"github.com/medinvest/medinvest/internal/server/httpapi"
	"github.com/medinvest/medinvest/internal/server/metrics"
	"github.com/medinvest/medinvest/internal/server/repositories/repomanager"
	"github.com/medinvest/medinvest/internal/server/revocation"
	"github.com/medinvest/medinvest/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	revocations revocation.Store
	userService *services.UserService
	server      *httpapi.Server
	closers     []func() error
}

// openDB is a seam for tests.
var openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(repomanager.DriverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewApp connects storage, runs migrations and seeds the demo account when
// one is configured.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	return newApp(ctx, c, logger, repomanager.NewPostgresRepositoryManager())
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) (*App, error) {
	app := &App{config: c, logger: logger}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app.revocations, err = app.openRevocations(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.userService = services.NewUserService(db, rm, app.revocations, c)

	if err := app.seed(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.server = httpapi.NewServer(c.HTTPAddr, logger, app.userService, metrics.New(), c.LoginRateLimit, c.LoginBurst)

	return app, nil
}

// dialRedis is a seam for tests.
var dialRedis = revocation.Dial

func (app *App) openRevocations(ctx context.Context) (revocation.Store, error) {
	if app.config.RedisAddr == "" {
		app.logger.Warn(ctx, "no redis configured, revocations kept in memory")
		return revocation.NewMemoryStore(), nil
	}

	store, closeFn, err := dialRedis(ctx, app.config.RedisAddr, app.config.RedisPassword, app.config.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("revocation store: %w", err)
	}
	app.closers = append(app.closers, closeFn)
	return store, nil
}

func (app *App) seed(ctx context.Context) error {
	if app.config.SeedEmail == "" || app.config.SeedPassword == "" {
		return nil
	}

	u, err := app.userService.EnsureUser(ctx, app.config.SeedEmail, app.config.SeedPassword, app.config.SeedFullName)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	app.logger.Info(ctx, "demo account ready", "email", u.Email, "user_id", u.ID)
	return nil
}

// Run serves until ctx is done or the server fails, then releases storage.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}

// Close releases connections in reverse order of acquisition.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
}
