package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/dmitrijs2005/happyplaces/internal/client/capture"
	"github.com/dmitrijs2005/happyplaces/internal/client/config"
	"github.com/dmitrijs2005/happyplaces/internal/client/location"
	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/permissions"
	"github.com/dmitrijs2005/happyplaces/internal/client/render"
	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/entries"
	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/images"
	"github.com/dmitrijs2005/happyplaces/internal/client/services"
	"github.com/dmitrijs2005/happyplaces/internal/client/session"
	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fix = models.Coordinate{Latitude: 52.52, Longitude: 13.405}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))))
	return buf.Bytes()
}

type testApp struct {
	*App
	out *bytes.Buffer
}

type appOpts struct {
	fix        *models.Coordinate
	cameraGate func(*App) permissions.Gate
	capture    capture.ImageCapture
}

func newTestApp(t *testing.T, input string, opts appOpts) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	store, err := images.NewFileStore(t.TempDir())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logger := logging.Discard()
	a := &App{
		config:   cfg,
		logger:   logger,
		entries:  services.NewEntryService(entries.NewMemoryRepository(), logger),
		images:   store,
		registry: prometheus.NewRegistry(),
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      out,
	}

	var gate permissions.Gate = permissions.AllowAll()
	if opts.cameraGate != nil {
		gate = opts.cameraGate(a)
	}
	if opts.capture == nil {
		data := pngBytes(t)
		opts.capture = capture.Func(func(context.Context) ([]byte, error) { return data, nil })
	}

	a.tracker = location.NewTracker(location.NewStatic(opts.fix), permissions.AllowAll(), location.AccuracyHigh, logger)
	a.renderer = render.NewText(40, 12, render.DefaultZoom)
	a.session = session.New(session.Deps{
		Entries: a.entries,
		Images:  store,
		Capture: opts.capture,
		Gate:    gate,
		Fixes:   a.tracker,
		Logger:  logger,
		Metrics: session.NewMetrics(a.registry),
	})
	a.wire()
	return &testApp{App: a, out: out}
}

func (ta *testApp) markerKinds() []models.MarkerKind {
	var kinds []models.MarkerKind
	for _, m := range ta.renderer.Markers() {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}

func (ta *testApp) entryList(t *testing.T) []models.Entry {
	t.Helper()
	list, err := ta.entries.List(context.Background())
	require.NoError(t, err)
	return list
}

func TestApp_LocateCentersMap(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "", appOpts{fix: fix.Ptr()})

	require.NoError(t, ta.Locate(ctx))
	assert.Contains(t, ta.out.String(), "Current position: Lat: 52.52")
	assert.Equal(t, fix, ta.renderer.Viewport().Center)
	assert.Equal(t, []models.MarkerKind{models.MarkerCurrent}, ta.markerKinds())
}

func TestApp_LocateUnavailable(t *testing.T) {
	ta := newTestApp(t, "", appOpts{})

	err := ta.Locate(context.Background())
	assert.ErrorIs(t, err, common.ErrLocationUnavailable)
	assert.Contains(t, ta.out.String(), "Current location is not available")
	assert.Empty(t, ta.markerKinds())
}

func TestApp_SaveCurrentPosition(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "Home\n\n", appOpts{fix: fix.Ptr()})
	require.NoError(t, ta.Locate(ctx))

	require.NoError(t, ta.Save(ctx))

	list := ta.entryList(t)
	require.Len(t, list, 1)
	assert.Equal(t, fix, list[0].Coordinate)
	assert.Equal(t, "Home", list[0].Note)
	assert.Contains(t, ta.out.String(), "Saved:")
	assert.Equal(t, []models.MarkerKind{models.MarkerCurrent, models.MarkerEntry}, ta.markerKinds())
}

func TestApp_SaveWithoutFix(t *testing.T) {
	ta := newTestApp(t, "", appOpts{})

	err := ta.Save(context.Background())
	assert.ErrorIs(t, err, common.ErrLocationUnavailable)
	assert.Empty(t, ta.entryList(t))
}

func TestApp_LongPressCommitScenario(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "Park bench\ny\n", appOpts{fix: fix.Ptr()})
	require.NoError(t, ta.Locate(ctx))

	require.NoError(t, ta.Press(ctx, []string{"30", "2"}))
	assert.Equal(t, []models.MarkerKind{models.MarkerCurrent, models.MarkerSelected}, ta.markerKinds())
	selected, ok := ta.session.PendingSelection()
	require.True(t, ok)

	require.NoError(t, ta.SaveSelection(ctx))

	list := ta.entryList(t)
	require.Len(t, list, 1)
	assert.Equal(t, selected, list[0].Coordinate)
	assert.Equal(t, "Park bench", list[0].Note)
	assert.Equal(t, []models.MarkerKind{models.MarkerCurrent, models.MarkerEntry}, ta.markerKinds())
}

func TestApp_CancelClearsSelection(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "", appOpts{fix: fix.Ptr()})
	require.NoError(t, ta.Locate(ctx))

	require.NoError(t, ta.Press(ctx, []string{"5", "5"}))
	require.NoError(t, ta.Cancel(ctx))

	assert.Equal(t, []models.MarkerKind{models.MarkerCurrent}, ta.markerKinds())
	assert.Empty(t, ta.entryList(t))
	assert.ErrorIs(t, ta.Cancel(ctx), common.ErrNoActiveSession)
}

func TestApp_DeclineConfirmDiscards(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "note\nn\n", appOpts{fix: fix.Ptr()})
	require.NoError(t, ta.Locate(ctx))
	require.NoError(t, ta.Press(ctx, []string{"1", "1"}))

	require.NoError(t, ta.SaveSelection(ctx))

	assert.Empty(t, ta.entryList(t))
	assert.Equal(t, session.PhaseIdle, ta.session.State().Phase())
	assert.Contains(t, ta.out.String(), "Discarded.")
}

func TestApp_PressErrors(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "", appOpts{fix: fix.Ptr()})

	assert.ErrorIs(t, ta.Press(ctx, []string{"1"}), errUsage)
	assert.ErrorIs(t, ta.Press(ctx, []string{"a", "b"}), errUsage)
	assert.Error(t, ta.Press(ctx, []string{"400", "1"}))
	assert.False(t, ta.hasSelection())

	assert.ErrorIs(t, ta.SaveSelection(ctx), common.ErrNoActiveSession)
	assert.ErrorIs(t, ta.Retry(ctx), common.ErrNoActiveSession)
}

func TestApp_CameraDeniedThenRetry(t *testing.T) {
	ctx := context.Background()
	// note, confirm with default, deny camera, then grant on retry
	ta := newTestApp(t, "Lake\n\nn\ny\n", appOpts{
		fix: fix.Ptr(),
		cameraGate: func(a *App) permissions.Gate {
			return permissions.NewPromptGate(a.askPermission)
		},
	})
	require.NoError(t, ta.Locate(ctx))

	err := ta.Save(ctx)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	assert.Contains(t, ta.out.String(), "Type 'retry'")
	assert.Empty(t, ta.entryList(t))

	require.NoError(t, ta.Retry(ctx))
	list := ta.entryList(t)
	require.Len(t, list, 1)
	assert.Equal(t, "Lake", list[0].Note)
}

func TestApp_CaptureCancelledSavesNothing(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "x\ny\n", appOpts{
		fix:     fix.Ptr(),
		capture: capture.Func(func(context.Context) ([]byte, error) { return nil, common.ErrCaptureCancelled }),
	})
	require.NoError(t, ta.Locate(ctx))

	err := ta.Save(ctx)
	assert.ErrorIs(t, err, common.ErrCaptureCancelled)
	assert.Contains(t, ta.out.String(), "No image was taken")
	assert.Empty(t, ta.entryList(t))

	require.NoError(t, ta.Stats(ctx))
	assert.Contains(t, ta.out.String(), `happyplaces_sessions_aborted_total{reason=capture_cancelled} 1`)
}

func TestApp_InterruptedCaptureKeepsAppUsable(t *testing.T) {
	ctx := context.Background()
	data := pngBytes(t)
	ta := newTestApp(t, "Pier\ny\nPier\ny\n", appOpts{
		fix: fix.Ptr(),
		capture: capture.Func(func(ctx context.Context) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return data, nil
		}),
	})
	require.NoError(t, ta.Locate(ctx))

	orig := interruptContext
	t.Cleanup(func() { interruptContext = orig })
	interruptContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		return cctx, cancel
	}

	err := ta.Save(ctx)
	assert.ErrorIs(t, err, common.ErrCaptureCancelled)
	assert.Equal(t, session.PhaseIdle, ta.session.State().Phase())

	ta.out.Reset()
	require.NoError(t, ta.List(ctx))
	assert.Equal(t, "No places saved yet.\n", ta.out.String())

	interruptContext = orig
	require.NoError(t, ta.Save(ctx))
	list := ta.entryList(t)
	require.Len(t, list, 1)
	assert.Equal(t, "Pier", list[0].Note)
}

func TestApp_ListShowEditDelete(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, "first\n\nsecond\n\nrenamed\n", appOpts{fix: fix.Ptr()})
	require.NoError(t, ta.Locate(ctx))
	require.NoError(t, ta.Save(ctx))
	require.NoError(t, ta.Save(ctx))

	ta.out.Reset()
	require.NoError(t, ta.List(ctx))
	out := ta.out.String()
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "2. second")
	assert.Contains(t, out, "Lat: 52.52, Lon: 13.40")

	ta.out.Reset()
	require.NoError(t, ta.Show(ctx, []string{"2"}))
	assert.Contains(t, ta.out.String(), "bytes)")
	assert.Contains(t, ta.out.String(), "center Lat: 52.52")

	require.NoError(t, ta.Edit(ctx, []string{"2"}))
	list := ta.entryList(t)
	assert.Equal(t, "renamed", list[1].Note)

	require.NoError(t, ta.Delete(ctx, []string{"1"}))
	list = ta.entryList(t)
	require.Len(t, list, 1)
	assert.Equal(t, "renamed", list[0].Note)

	err := ta.Delete(ctx, []string{"5"})
	assert.ErrorIs(t, err, errBadIndex)

	ta.out.Reset()
	require.NoError(t, ta.Stats(ctx))
	assert.Contains(t, ta.out.String(), "happyplaces_sessions_committed_total 2")
	assert.Contains(t, ta.out.String(), "happyplaces_sessions_started_total 2")
}

func TestApp_EmptyList(t *testing.T) {
	ta := newTestApp(t, "", appOpts{})
	require.NoError(t, ta.List(context.Background()))
	assert.Equal(t, "No places saved yet.\n", ta.out.String())
}

func TestApp_GetStatus(t *testing.T) {
	ta := newTestApp(t, "", appOpts{fix: fix.Ptr()})
	assert.Equal(t, "(idle, 0 places)", ta.getStatus())

	_, err := ta.session.LongPress(fix)
	require.NoError(t, err)
	assert.Equal(t, "(location_chosen, 0 places)", ta.getStatus())
}

func TestViewportSize(t *testing.T) {
	origTerm, origSize := isTerminal, getSize
	t.Cleanup(func() { isTerminal, getSize = origTerm, origSize })

	cfg := &config.Config{ViewWidth: 60, ViewHeight: 16}

	isTerminal = func(int) bool { return false }
	w, h := viewportSize(cfg)
	assert.Equal(t, 60, w)
	assert.Equal(t, 16, h)

	isTerminal = func(int) bool { return true }
	getSize = func(int) (int, int, error) { return 40, 10, nil }
	w, h = viewportSize(cfg)
	assert.Equal(t, 40, w)
	assert.Equal(t, 6, h)

	getSize = func(int) (int, int, error) { return 0, 0, errors.New("no tty") }
	w, h = viewportSize(cfg)
	assert.Equal(t, 60, w)
	assert.Equal(t, 16, h)
}

func TestApp_MapFollowsTerminalSize(t *testing.T) {
	origTerm, origSize := isTerminal, getSize
	t.Cleanup(func() { isTerminal, getSize = origTerm, origSize })
	ta := newTestApp(t, "", appOpts{})

	isTerminal = func(int) bool { return false }
	require.NoError(t, ta.Map(context.Background()))
	assert.Equal(t, 40, ta.renderer.Viewport().Width)

	isTerminal = func(int) bool { return true }
	getSize = func(int) (int, int, error) { return 30, 12, nil }
	require.NoError(t, ta.Map(context.Background()))
	vp := ta.renderer.Viewport()
	assert.Equal(t, 30, vp.Width)
	assert.Equal(t, 8, vp.Height)
}

func TestApp_RunAnnouncesImageDir(t *testing.T) {
	lines := capturePrintln(t)
	ta := newTestApp(t, "exit\n", appOpts{fix: fix.Ptr()})

	ta.Run(context.Background())

	fs, ok := ta.images.(*images.FileStore)
	require.True(t, ok)
	assert.Contains(t, *lines, "Images are saved in "+fs.Dir())
}

func TestNewImageStore(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ImageDir = t.TempDir()

	store, err := newImageStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &images.FileStore{}, store)

	cfg.StoreKind = "ftp"
	_, err = newImageStore(ctx, cfg)
	assert.Error(t, err)

	cfg.StoreKind = config.StoreS3
	cfg.S3.Bucket = ""
	_, err = newImageStore(ctx, cfg)
	assert.Error(t, err)
}
