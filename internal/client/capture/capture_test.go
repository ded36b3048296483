package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 3))))
	return buf.Bytes()
}

// ---------- Chooser ----------

func TestChooser_DelegatesToChosenSource(t *testing.T) {
	var offered []string
	c := NewChooser(func(ctx context.Context, names []string) (string, error) {
		offered = names
		return "gallery", nil
	}, map[string]ImageCapture{
		"camera":  Func(func(context.Context) ([]byte, error) { return []byte("cam"), nil }),
		"gallery": Func(func(context.Context) ([]byte, error) { return []byte("gal"), nil }),
	})

	got, err := c.RequestImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("gal"), got)
	assert.Equal(t, []string{"camera", "gallery"}, offered)
}

func TestChooser_EmptyChoiceCancels(t *testing.T) {
	c := NewChooser(func(ctx context.Context, names []string) (string, error) {
		return "", nil
	}, map[string]ImageCapture{"camera": Func(func(context.Context) ([]byte, error) { return nil, nil })})

	_, err := c.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureCancelled)
}

func TestChooser_UnknownSourceCancels(t *testing.T) {
	c := NewChooser(func(ctx context.Context, names []string) (string, error) {
		return "scanner", nil
	}, map[string]ImageCapture{"camera": Func(func(context.Context) ([]byte, error) { return nil, nil })})

	_, err := c.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureCancelled)
}

func TestChooser_NoSources(t *testing.T) {
	c := NewChooser(nil, nil)
	_, err := c.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureFailed)
}

func TestChooser_PromptError(t *testing.T) {
	boom := errors.New("eof")
	c := NewChooser(func(ctx context.Context, names []string) (string, error) {
		return "", boom
	}, map[string]ImageCapture{"camera": Func(func(context.Context) ([]byte, error) { return nil, nil })})

	_, err := c.RequestImage(context.Background())
	require.ErrorIs(t, err, boom)
}

// ---------- Gallery ----------

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestGallery_ListsImagesRecursively(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t)
	writeFile(t, filepath.Join(dir, "b.png"), img)
	writeFile(t, filepath.Join(dir, "a.JPG"), img)
	writeFile(t, filepath.Join(dir, "2024", "summer", "lake.jpeg"), img)
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("x"))

	g := NewGallery(dir, nil)
	files, err := g.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/summer/lake.jpeg", "a.JPG", "b.png"}, files)
}

func TestGallery_RequestImageReadsPick(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t)
	writeFile(t, filepath.Join(dir, "nested", "pick.png"), img)
	writeFile(t, filepath.Join(dir, "other.png"), []byte("other"))

	g := NewGallery(dir, func(ctx context.Context, files []string) (int, error) {
		for i, f := range files {
			if f == "nested/pick.png" {
				return i, nil
			}
		}
		return -1, nil
	})

	got, err := g.RequestImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestGallery_CancelAndEmpty(t *testing.T) {
	dir := t.TempDir()

	g := NewGallery(dir, func(ctx context.Context, files []string) (int, error) { return 0, nil })
	_, err := g.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureCancelled, "empty gallery")

	writeFile(t, filepath.Join(dir, "a.png"), pngBytes(t))
	g = NewGallery(dir, func(ctx context.Context, files []string) (int, error) { return -1, nil })
	_, err = g.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureCancelled)

	g = NewGallery(dir, func(ctx context.Context, files []string) (int, error) { return 5, nil })
	_, err = g.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureCancelled)
}

// ---------- Camera ----------

func watchingSignal(t *testing.T) <-chan string {
	t.Helper()
	ch := make(chan string, 1)
	orig := onWatching
	onWatching = func(dir string) { ch <- dir }
	t.Cleanup(func() { onWatching = orig })
	return ch
}

func TestCamera_ReturnsNewPhoto(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dcim")
	watching := watchingSignal(t)
	cam := NewCamera(dir, 5*time.Second, logging.Discard())
	img := pngBytes(t)

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := cam.RequestImage(context.Background())
		done <- result{data, err}
	}()

	watched := <-watching
	// Unrelated files are ignored.
	writeFile(t, filepath.Join(watched, "readme.txt"), []byte("hi"))

	tmp := filepath.Join(t.TempDir(), "shot.png")
	writeFile(t, tmp, img)
	require.NoError(t, os.Rename(tmp, filepath.Join(watched, "IMG_0001.png")))

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, img, r.data)
	case <-time.After(5 * time.Second):
		t.Fatal("camera did not return")
	}
}

func TestCamera_TimeoutIsCancel(t *testing.T) {
	cam := NewCamera(t.TempDir(), 30*time.Millisecond, logging.Discard())

	_, err := cam.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureCancelled)
}

func TestCamera_ContextCancel(t *testing.T) {
	watching := watchingSignal(t)
	cam := NewCamera(t.TempDir(), time.Minute, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := cam.RequestImage(ctx)
		done <- err
	}()
	<-watching
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, common.ErrCaptureCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("camera ignored cancellation")
	}
}

func TestCamera_BadDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	writeFile(t, f, []byte("x"))

	cam := NewCamera(f, time.Second, logging.Discard())
	_, err := cam.RequestImage(context.Background())
	require.ErrorIs(t, err, common.ErrCaptureFailed)
}
