package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/images"
	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/filex"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// onWatching is a test seam called once the drop directory is being watched.
var onWatching = func(dir string) {}

// Camera waits for a new photo to land in a drop directory, the way a
// tethered camera or phone sync tool writes its shots. A request that sees
// no photo within the timeout counts as cancelled.
type Camera struct {
	dir     string
	timeout time.Duration
	logger  logging.Logger
}

func NewCamera(dir string, timeout time.Duration, logger logging.Logger) *Camera {
	return &Camera{dir: dir, timeout: timeout, logger: logger}
}

func (c *Camera) RequestImage(ctx context.Context) ([]byte, error) {
	dir, err := filex.EnsureDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCaptureFailed, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: watcher: %v", common.ErrCaptureFailed, err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return nil, fmt.Errorf("%w: watch %s: %v", common.ErrCaptureFailed, dir, err)
	}
	onWatching(dir)
	c.logger.Debug(ctx, "waiting for photo", "dir", dir, "timeout", c.timeout)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: no photo within %s", common.ErrCaptureCancelled, c.timeout)
			}
			return nil, fmt.Errorf("%w: %v", common.ErrCaptureCancelled, ctx.Err())

		case ev, ok := <-w.Events:
			if !ok {
				return nil, fmt.Errorf("%w: watcher closed", common.ErrCaptureFailed)
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !filex.IsImageExt(ev.Name) {
				continue
			}

			data, err := os.ReadFile(ev.Name)
			if err != nil {
				continue
			}
			// The writer may not be done yet; wait for the next write.
			if _, err := images.Format(data); err != nil {
				continue
			}
			c.logger.Debug(ctx, "photo received", "file", ev.Name, "bytes", len(data))
			return data, nil

		case err, ok := <-w.Errors:
			if !ok {
				return nil, fmt.Errorf("%w: watcher closed", common.ErrCaptureFailed)
			}
			return nil, fmt.Errorf("%w: watch: %v", common.ErrCaptureFailed, err)
		}
	}
}
