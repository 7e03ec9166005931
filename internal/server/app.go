// Package server wires the records server: it opens the store named by the
// configuration, applies migrations, serves gRPC until a shutdown signal
// arrives and can mint admin tokens.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/memory"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/postgres"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/server/auth"
	"github.com/dmitrijs2005/weddingkeeper/internal/server/config"

	gs "github.com/dmitrijs2005/weddingkeeper/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  backend.Backend
	db     *sql.DB
}

// overridable in tests
var (
	openPostgres    = postgres.Open
	migratePostgres = postgres.RunMigrations
)

var logOutput io.Writer = os.Stdout

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logOutput, "json", c.LogLevel)

	app := &App{config: c, logger: logger}

	if c.DatabaseDSN == config.MemoryDSN {
		logger.Warn(ctx, "using in-memory store, data is lost on exit")
		app.store = memory.New(backend.Relational)
		return app, nil
	}

	db, err := openPostgres(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := migratePostgres(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	app.db = db
	app.store = postgres.New(db, logger)
	return app, nil
}

// Close releases the database, if any.
func (app *App) Close() error {
	if app.db != nil {
		return app.db.Close()
	}
	return nil
}

// Token writes a fresh admin token for subject to w, signed with the
// configured secret.
func Token(w io.Writer, c *config.Config, subject string) error {
	tok, err := auth.GenerateToken(subject, []byte(c.SecretKey), c.AccessTokenValidityDuration)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tok)
	return err
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "flavor", app.store.Flavor().String())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "close db", "error", err)
	}
}
