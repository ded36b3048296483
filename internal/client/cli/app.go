package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/dmitrijs2005/happyplaces/internal/client/capture"
	"github.com/dmitrijs2005/happyplaces/internal/client/config"
	"github.com/dmitrijs2005/happyplaces/internal/client/location"
	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/permissions"
	"github.com/dmitrijs2005/happyplaces/internal/client/projections"
	"github.com/dmitrijs2005/happyplaces/internal/client/render"
	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/entries"
	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/images"
	"github.com/dmitrijs2005/happyplaces/internal/client/services"
	"github.com/dmitrijs2005/happyplaces/internal/client/session"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// Test seams for terminal detection.
var (
	isTerminal = term.IsTerminal
	getSize    = term.GetSize
)

// interruptContext scopes Ctrl-C to a single blocking command. Replaced in tests.
var interruptContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	entries  services.EntryService
	images   images.Store
	session  *session.Session
	tracker  *location.Tracker
	renderer *render.Text
	registry *prometheus.Registry
	reader   *bufio.Reader
	out      io.Writer

	centered atomic.Bool
}

// NewApp builds the client from configuration. Entries live in memory for
// the lifetime of the process; only image bytes go to the configured store.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	store, err := newImageStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("image store: %w", err)
	}

	a := &App{
		config:   c,
		logger:   logger,
		entries:  services.NewEntryService(entries.NewMemoryRepository(), logger),
		images:   store,
		registry: prometheus.NewRegistry(),
		reader:   bufio.NewReader(in),
		out:      out,
	}

	gate := permissions.NewPromptGate(a.askPermission)
	a.tracker = location.NewTracker(location.NewStatic(c.Fix()), gate, location.ParseAccuracy(c.Accuracy), logger)

	width, height := viewportSize(c)
	a.renderer = render.NewText(width, height, c.Zoom)

	a.session = session.New(session.Deps{
		Entries: a.entries,
		Images:  store,
		Capture: a.newImageCapture(),
		Gate:    gate,
		Fixes:   a.tracker,
		Logger:  logger,
		Metrics: session.NewMetrics(a.registry),
	})

	a.wire()
	return a, nil
}

func newImageStore(ctx context.Context, c *config.Config) (images.Store, error) {
	switch c.StoreKind {
	case config.StoreS3:
		return images.NewS3Store(ctx, images.S3Config{
			Bucket:       c.S3.Bucket,
			Region:       c.S3.Region,
			BaseEndpoint: c.S3.Endpoint,
			AccessKey:    c.S3.AccessKey,
			SecretKey:    c.S3.SecretKey,
		})
	case config.StoreFS, "":
		return images.NewFileStore(c.ImageDir)
	default:
		return nil, fmt.Errorf("unknown store %q", c.StoreKind)
	}
}

// newImageCapture offers the camera and the gallery, whichever is configured.
func (a *App) newImageCapture() capture.ImageCapture {
	sources := map[string]capture.ImageCapture{}
	if a.config.CameraDir != "" {
		sources["camera"] = capture.NewCamera(a.config.CameraDir, a.config.CaptureTimeout, a.logger)
	}
	if a.config.GalleryDir != "" {
		sources["gallery"] = capture.NewGallery(a.config.GalleryDir, a.pickImage)
	}
	return capture.NewChooser(a.chooseSource, sources)
}

// viewportSize fits the configured map size into the terminal, leaving room
// for the header and prompt.
func viewportSize(c *config.Config) (int, int) {
	width, height, _ := terminalViewport(c)
	return width, height
}

// terminalViewport reports false when stdout is not a terminal or its size
// is unknown; the configured size is returned then.
func terminalViewport(c *config.Config) (int, int, bool) {
	width, height := c.ViewWidth, c.ViewHeight
	fd := int(os.Stdout.Fd())
	if !isTerminal(fd) {
		return width, height, false
	}
	tw, th, err := getSize(fd)
	if err != nil {
		return width, height, false
	}
	return max(1, min(width, tw)), max(1, min(height, th-4)), true
}

// fitMap follows terminal resizes between draws.
func (a *App) fitMap() {
	if w, h, ok := terminalViewport(a.config); ok {
		a.renderer.Resize(w, h)
	}
}

// wire subscribes the map to every source of marker changes.
func (a *App) wire() {
	ctx := context.Background()

	a.entries.Subscribe(func(services.Change) { a.refresh(ctx) })
	a.session.OnChange(func(session.State) { a.refresh(ctx) })
	a.tracker.OnChange(func(c models.Coordinate) {
		if a.centered.CompareAndSwap(false, true) {
			a.renderer.SetCenter(c)
		}
		a.refresh(ctx)
	})
	a.renderer.OnLongPress(func(c models.Coordinate) {
		if _, err := a.session.LongPress(c); err != nil {
			a.logger.Warn(ctx, "long press rejected", "error", err)
		}
	})
}

// refresh re-derives the marker set from a fresh entry list.
func (a *App) refresh(ctx context.Context) {
	list, err := a.entries.List(ctx)
	if err != nil {
		a.logger.Error(ctx, "listing entries", "error", err)
		return
	}

	var current, selection *models.Coordinate
	if c, ok := a.tracker.Current(); ok {
		current = &c
	}
	if c, ok := a.session.PendingSelection(); ok {
		selection = &c
	}
	a.renderer.SetMarkers(projections.Markers(list, current, selection))
}

func (a *App) hasSelection() bool {
	_, ok := a.session.PendingSelection()
	return ok
}

// getStatus summarizes the session phase and entry count for the prompt.
func (a *App) getStatus() string {
	list, _ := a.entries.List(context.Background())
	return fmt.Sprintf("(%s, %d places)", a.session.State().Phase(), len(list))
}

// Run locates the device once and then serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to Happy Places (type 'help' for commands)")
	if fs, ok := a.images.(*images.FileStore); ok {
		printlnFn("Images are saved in " + fs.Dir())
	}
	_ = a.Locate(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}
