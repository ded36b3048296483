package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/happyplaces/internal/client/capture"
	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/permissions"
	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/images"
	"github.com/dmitrijs2005/happyplaces/internal/client/services"
	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
)

// FixSource returns the latest known device location.
type FixSource interface {
	Current() (models.Coordinate, bool)
}

// Deps are the collaborators a Session drives.
type Deps struct {
	Entries services.EntryService
	Images  images.Store
	Capture capture.ImageCapture
	Gate    permissions.Gate
	Fixes   FixSource
	Logger  logging.Logger
	Metrics *Metrics
}

// Session is the single pending capture flow: choose a location, enter a
// note, capture an image, commit an entry. Every Begin starts a new
// generation; results from an older generation are discarded.
type Session struct {
	deps Deps

	mu            sync.Mutex
	state         State
	generation    uint64
	cancelCapture context.CancelFunc
	last          *Outcome
	observers     []func(State)
}

func New(deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(nil)
	}
	return &Session{deps: deps, state: Idle{}}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingSelection returns the long-pressed location of the active session.
// Sessions started at the current position have no pending selection.
func (s *Session) PendingSelection() (models.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := targetOf(s.state)
	if !ok || t.Origin != models.OriginSelection {
		return models.Coordinate{}, false
	}
	return t.Coordinate, true
}

// LastOutcome returns how the most recently finished session ended.
func (s *Session) LastOutcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Outcome{}, false
	}
	return *s.last, true
}

// OnChange registers fn to run after every state transition, outside the
// session lock.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Begin starts a new session at coord. An unfinished session is superseded
// and can no longer commit. A session that is already committing is left to
// finish.
func (s *Session) Begin(origin models.Origin, coord models.Coordinate) (uint64, error) {
	if err := coord.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	switch s.state.(type) {
	case Idle, Committing:
	default:
		s.abortLocked(common.ErrSuperseded)
	}
	s.generation++
	gen := s.generation
	s.state = LocationChosen{Target: Target{Generation: gen, Origin: origin, Coordinate: coord}}
	st, obs := s.state, s.snapshotObservers()
	s.mu.Unlock()

	s.deps.Metrics.Started.Inc()
	s.deps.Logger.Debug(context.Background(), "session started",
		"generation", gen, "origin", string(origin), "lat", coord.Latitude, "lon", coord.Longitude)
	notify(obs, st)
	return gen, nil
}

// BeginAtCurrent starts a session at the latest known fix.
func (s *Session) BeginAtCurrent(ctx context.Context) (uint64, error) {
	fix, ok := s.deps.Fixes.Current()
	if !ok {
		return 0, common.ErrLocationUnavailable
	}
	return s.Begin(models.OriginCurrent, fix)
}

// LongPress starts a session at a location picked on the map.
func (s *Session) LongPress(coord models.Coordinate) (uint64, error) {
	return s.Begin(models.OriginSelection, coord)
}

// EnterNote attaches the note to a freshly chosen location.
func (s *Session) EnterNote(note string) error {
	s.mu.Lock()
	cur, ok := s.state.(LocationChosen)
	if !ok {
		err := s.transitionErrLocked("enter note")
		s.mu.Unlock()
		return err
	}
	s.state = NoteEntered{Target: cur.Target, Note: note}
	st, obs := s.state, s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, st)
	return nil
}

// Cancel aborts the active session. An in-flight capture is cancelled and
// its result will be discarded.
func (s *Session) Cancel() error {
	s.mu.Lock()
	switch s.state.(type) {
	case Idle:
		s.mu.Unlock()
		return common.ErrNoActiveSession
	case Committing:
		s.mu.Unlock()
		return fmt.Errorf("%w: cancel while committing", common.ErrInvalidTransition)
	}
	s.abortLocked(common.ErrCancelled)
	st, obs := s.state, s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, st)
	return nil
}

// Capture requests an image for the session in NoteEntered and commits the
// entry. A camera permission denial leaves the session in NoteEntered so the
// caller can retry.
func (s *Session) Capture(ctx context.Context) (models.Entry, error) {
	s.mu.Lock()
	cur, ok := s.state.(NoteEntered)
	if !ok {
		err := s.transitionErrLocked("capture")
		s.mu.Unlock()
		return models.Entry{}, err
	}
	s.mu.Unlock()

	if err := s.ensureCameraPermission(ctx); err != nil {
		return models.Entry{}, err
	}

	s.mu.Lock()
	if again, ok := s.state.(NoteEntered); !ok || again.Generation != cur.Generation {
		s.mu.Unlock()
		return models.Entry{}, common.ErrStaleCapture
	}
	captureCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancelCapture = cancel
	s.state = AwaitingCapture{Target: cur.Target, Note: cur.Note}
	st, obs := s.state, s.snapshotObservers()
	s.mu.Unlock()
	notify(obs, st)

	var data []byte
	err := guard(func() error {
		var err error
		data, err = s.deps.Capture.RequestImage(captureCtx)
		return err
	})

	s.mu.Lock()
	if aw, ok := s.state.(AwaitingCapture); !ok || aw.Generation != cur.Generation {
		s.mu.Unlock()
		s.deps.Metrics.Stale.Inc()
		s.deps.Logger.Debug(ctx, "stale capture discarded", "generation", cur.Generation)
		return models.Entry{}, common.ErrStaleCapture
	}
	s.cancelCapture = nil
	if err != nil {
		err = captureError(err)
		s.abortLocked(err)
		st, obs = s.state, s.snapshotObservers()
		s.mu.Unlock()
		notify(obs, st)
		return models.Entry{}, err
	}
	s.state = Committing{Target: cur.Target, Note: cur.Note}
	st, obs = s.state, s.snapshotObservers()
	s.mu.Unlock()
	notify(obs, st)

	entry, err := s.commit(ctx, cur.Target, cur.Note, data)
	s.finish(cur.Generation, entry, err)
	return entry, err
}

// commit stores the image and creates the entry. The stored image is
// removed again if the entry cannot be created.
func (s *Session) commit(ctx context.Context, target Target, note string, data []byte) (models.Entry, error) {
	if _, err := images.Format(data); err != nil {
		return models.Entry{}, err
	}

	var ref string
	err := guard(func() error {
		var err error
		ref, err = s.deps.Images.Store(ctx, data)
		return err
	})
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: store image: %v", common.ErrCaptureFailed, err)
	}

	entry, err := s.deps.Entries.Create(ctx, target.Coordinate, ref, note)
	if err != nil {
		if rmErr := s.deps.Images.Remove(ctx, ref); rmErr != nil {
			s.deps.Logger.Warn(ctx, "removing orphaned image", "ref", ref, "error", rmErr)
		}
		return models.Entry{}, fmt.Errorf("%w: %v", common.ErrCaptureFailed, err)
	}
	return entry, nil
}

// finish records the outcome of a committing session. The state returns to
// Idle unless a newer session has already started.
func (s *Session) finish(gen uint64, entry models.Entry, err error) {
	s.mu.Lock()
	out := Outcome{Generation: gen, Committed: err == nil, Entry: entry, Err: err}
	s.last = &out
	if c, ok := s.state.(Committing); ok && c.Generation == gen {
		s.state = Idle{}
	}
	st, obs := s.state, s.snapshotObservers()
	s.mu.Unlock()

	if err != nil {
		s.deps.Metrics.Aborted.WithLabelValues(ReasonCaptureFailed).Inc()
		s.deps.Logger.Warn(context.Background(), "session aborted", "generation", gen, "error", err)
	} else {
		s.deps.Metrics.Committed.Inc()
		s.deps.Logger.Info(context.Background(), "session committed", "generation", gen, "entry_id", entry.ID)
	}
	notify(obs, st)
}

func (s *Session) ensureCameraPermission(ctx context.Context) error {
	if s.deps.Gate.HasPermission(models.PermissionCamera) {
		return nil
	}
	granted, err := s.deps.Gate.Request(ctx, models.PermissionCamera)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPermissionDenied, err)
	}
	if !granted {
		return common.ErrPermissionDenied
	}
	return nil
}

// abortLocked ends the active session with reason and returns to Idle.
// Caller must hold s.mu.
func (s *Session) abortLocked(reason error) {
	t, _ := targetOf(s.state)
	if s.cancelCapture != nil {
		s.cancelCapture()
		s.cancelCapture = nil
	}
	s.last = &Outcome{Generation: t.Generation, Err: reason}
	s.state = Idle{}

	label := abortLabel(reason)
	s.deps.Metrics.Aborted.WithLabelValues(label).Inc()
	s.deps.Logger.Info(context.Background(), "session aborted", "generation", t.Generation, "reason", label)
}

func (s *Session) transitionErrLocked(op string) error {
	if _, idle := s.state.(Idle); idle {
		return common.ErrNoActiveSession
	}
	return fmt.Errorf("%w: %s in state %s", common.ErrInvalidTransition, op, s.state.Phase())
}

func (s *Session) snapshotObservers() []func(State) {
	return slices.Clone(s.observers)
}

func notify(obs []func(State), st State) {
	for _, fn := range obs {
		fn(st)
	}
}

// guard turns a panicking collaborator into common.ErrCaptureFailed.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", common.ErrCaptureFailed, r)
		}
	}()
	return fn()
}

// captureError maps a capture failure to ErrCaptureCancelled or
// ErrCaptureFailed.
func captureError(err error) error {
	switch {
	case errors.Is(err, common.ErrCaptureCancelled), errors.Is(err, common.ErrCaptureFailed):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", common.ErrCaptureCancelled, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrCaptureFailed, err)
	}
}

func abortLabel(reason error) string {
	switch {
	case errors.Is(reason, common.ErrSuperseded):
		return ReasonSuperseded
	case errors.Is(reason, common.ErrCancelled):
		return ReasonCancelled
	case errors.Is(reason, common.ErrCaptureCancelled):
		return ReasonCaptureCancelled
	default:
		return ReasonCaptureFailed
	}
}
