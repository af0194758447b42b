// Package server wires the gophtasks sync server: configuration, Postgres
// storage with migrations, the optional S3 snapshot archive and the REST API.
// Run blocks until SIGINT/SIGTERM/SIGQUIT or context cancellation.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/rest"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/dmitrijs2005/gophtasks/internal/server/snapshots"
)

var (
	openDB         = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newArchive     = func(ctx context.Context, c *config.Config) (snapshots.Archive, error) {
		return snapshots.NewS3Archive(ctx, c)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var archive snapshots.Archive = snapshots.NopArchive{}
	if c.ArchiveEnabled() {
		archive, err = newArchive(ctx, c)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("snapshot archive init error: %w", err)
		}
		logger.Info(ctx, "snapshot archive enabled", "bucket", c.S3Bucket)
	}

	us := services.NewUserService(db, rm, c)
	ps := services.NewProfileService(db, rm)
	ts := services.NewTaskService(db, rm, archive, logger)

	srv := rest.NewServer(c, logger, us, ps, ts)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
