package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/blobs"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/config"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/mirror"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/services"
	"github.com/dmitrijs2005/weddingkeeper/internal/common"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
)

// refreshTimeout bounds the reload that follows a reconnect.
const refreshTimeout = 30 * time.Second

// logOutput is where the CLI logger writes. Tests redirect it.
var logOutput io.Writer = os.Stderr

type initializer interface {
	Initialize(ctx context.Context) (bool, error)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	remote  backend.Backend
	watcher *connectivity.Watcher
	oracle  *connectivity.Override

	photos      services.PhotoService
	timeline    services.TimelineService
	theme       services.ThemeService
	venue       services.VenueService
	details     services.DetailsService
	rsvps       services.RSVPService
	initializer initializer

	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp opens the mirror, the remote backend and the object store named
// by c and wires the services on top of them.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logOutput, "text", c.LogLevel)

	db, err := mirror.OpenDatabase(ctx, c.MirrorPath)
	if err != nil {
		return nil, fmt.Errorf("mirror init error: %w", err)
	}

	objects, err := openObjects(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	remote, closeRemote, err := openRemote(ctx, c, objects, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	blobStore := blobs.NewS3Store(objects, c.S3Bucket, photoBaseURL(c))

	a := newApp(c, logger, remote, mirror.NewSQLiteStore(db), blobStore)
	a.closers = append(a.closers, closeRemote, db.Close)
	return a, nil
}

func newApp(c *config.Config, l logging.Logger, remote backend.Backend, store mirror.Store, blobStore blobs.Store) *App {
	watcher := connectivity.NewWatcher(remote, c.OnlineCheckInterval, l)
	oracle := connectivity.NewOverride(watcher)
	oracle.Force(c.StartOffline)

	a := &App{
		config:      c,
		logger:      l.With("module", "cli"),
		remote:      remote,
		watcher:     watcher,
		oracle:      oracle,
		photos:      services.NewPhotoService(remote, oracle, store, blobStore, l),
		timeline:    services.NewTimelineService(remote, oracle, store, l),
		theme:       services.NewThemeService(remote, l),
		venue:       services.NewVenueService(remote, l),
		details:     services.NewDetailsService(remote, l),
		rsvps:       services.NewRSVPService(remote, l),
		initializer: services.NewInitializer(remote, l),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
	watcher.Subscribe(a.connectivityChanged)
	return a
}

// Close releases the backend and the mirror.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// Run probes the backend, seeds missing defaults when it is reachable,
// starts the connectivity watcher and blocks in the REPL until the user
// exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to the wedding admin CLI (type 'help' for commands)")

	if !a.oracle.Forced() && a.watcher.Check(ctx) {
		a.seed(ctx)
	}

	go a.watcher.Run(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	mode := "online"
	switch {
	case a.oracle.Forced():
		mode = "offline, forced"
	case a.oracle.IsOffline():
		mode = "offline"
	}
	return fmt.Sprintf("(%s %s)", a.config.Backend, mode)
}

func (a *App) seed(ctx context.Context) {
	created, err := a.initializer.Initialize(ctx)
	if err != nil {
		a.logger.Warn(ctx, "initialization failed", "error", err)
		return
	}
	if created {
		a.println("Default settings created")
	}
}

// connectivityChanged is called by the watcher on every transition. A
// reconnect reloads both collections, which overwrites their mirrors.
// Offline changes are not replayed.
func (a *App) connectivityChanged(online bool) {
	if !online {
		a.println("Connection lost, working offline")
		return
	}
	if a.oracle.Forced() {
		return
	}
	a.println("Connection restored, reloading photos and timeline")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	a.reload(ctx)
}

func (a *App) reload(ctx context.Context) {
	photos := a.photos.List(ctx)
	events := a.timeline.List(ctx)
	a.logger.Debug(ctx, "reloaded", "photos", len(photos), "events", len(events))
}

// resyncIfNeeded reloads from the backend after a write that may have
// been applied partially.
func (a *App) resyncIfNeeded(ctx context.Context, err error) {
	var werr *common.RemoteWriteError
	if errors.As(err, &werr) && werr.Resync {
		a.println("The server may hold a partial change, reloading")
		a.reload(ctx)
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt(text string) (string, error) {
	return GetSimpleText(a.reader, text, a.out)
}

// argOrPrompt returns the first argument, or asks for it.
func (a *App) argOrPrompt(args []string, text string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.prompt(text)
}
