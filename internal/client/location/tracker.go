package location

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/permissions"
	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Tracker keeps the latest fix. Concurrent Refresh calls share one
// outstanding provider request. Failures are reported, never retried, and
// leave the previous fix in place.
type Tracker struct {
	provider Provider
	gate     permissions.Gate
	accuracy Accuracy
	logger   logging.Logger

	group singleflight.Group

	mu       sync.RWMutex
	current  *models.Coordinate
	onChange []func(models.Coordinate)
}

func NewTracker(provider Provider, gate permissions.Gate, accuracy Accuracy, logger logging.Logger) *Tracker {
	return &Tracker{provider: provider, gate: gate, accuracy: accuracy, logger: logger}
}

// Current returns the latest fix, if any.
func (t *Tracker) Current() (models.Coordinate, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return models.Coordinate{}, false
	}
	return *t.current, true
}

// OnChange registers fn to run after every successful fix.
func (t *Tracker) OnChange(fn func(models.Coordinate)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = append(t.onChange, fn)
}

// Refresh requests a new fix. It asks for the location permission first;
// a denial yields common.ErrPermissionDenied.
func (t *Tracker) Refresh(ctx context.Context) (models.Coordinate, error) {
	if !t.gate.HasPermission(models.PermissionLocation) {
		ok, err := t.gate.Request(ctx, models.PermissionLocation)
		if err != nil {
			return models.Coordinate{}, fmt.Errorf("location permission prompt: %w", err)
		}
		if !ok {
			t.logger.Warn(ctx, "location permission denied")
			return models.Coordinate{}, common.ErrPermissionDenied
		}
	}

	// The shared fetch outlives any single caller.
	shared := context.WithoutCancel(ctx)
	ch := t.group.DoChan("fix", func() (any, error) {
		return t.fetch(shared)
	})

	select {
	case <-ctx.Done():
		return models.Coordinate{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Coordinate{}, res.Err
		}
		return res.Val.(models.Coordinate), nil
	}
}

// fetch runs once per shared request.
func (t *Tracker) fetch(ctx context.Context) (models.Coordinate, error) {
	fix, err := t.provider.RequestCurrentFix(ctx, t.accuracy)
	if err != nil {
		t.logger.Warn(ctx, "location fix failed", "error", err)
		if errors.Is(err, common.ErrLocationUnavailable) {
			return models.Coordinate{}, err
		}
		return models.Coordinate{}, fmt.Errorf("%w: %v", common.ErrLocationUnavailable, err)
	}

	if err := fix.Validate(); err != nil {
		t.logger.Warn(ctx, "provider returned invalid fix", "error", err)
		return models.Coordinate{}, fmt.Errorf("%w: %v", common.ErrLocationUnavailable, err)
	}

	t.mu.Lock()
	t.current = &fix
	fns := slices.Clone(t.onChange)
	t.mu.Unlock()

	t.logger.Debug(ctx, "location fix", "lat", fix.Latitude, "lon", fix.Longitude)
	for _, fn := range fns {
		fn(fix)
	}
	return fix, nil
}
