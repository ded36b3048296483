package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/repositories/entries"
	"github.com/dmitrijs2005/happyplaces/internal/common"
	"github.com/dmitrijs2005/happyplaces/internal/logging"
	"github.com/google/uuid"
)

// Op names the mutation carried by a Change.
type Op string

const (
	OpCreated     Op = "created"
	OpNoteUpdated Op = "note_updated"
	OpDeleted     Op = "deleted"
)

// Change is published to subscribers after every successful mutation.
type Change struct {
	Op    Op
	Entry models.Entry
}

// EntryService owns the canonical ordered collection of happy places.
type EntryService interface {
	// Create allocates an id and timestamp and appends the entry.
	Create(ctx context.Context, coord models.Coordinate, imageRef string, note string) (models.Entry, error)
	// UpdateNote replaces the note in place. Reports whether the entry existed.
	UpdateNote(ctx context.Context, id string, note string) (bool, error)
	// Delete removes the entry. Reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)
	// List returns a snapshot in insertion order.
	List(ctx context.Context) ([]models.Entry, error)
	// Get returns a single entry.
	Get(ctx context.Context, id string) (models.Entry, bool)
	// Subscribe registers fn for every future Change. The returned func
	// removes the subscription.
	Subscribe(fn func(Change)) (unsubscribe func())
}

type Option func(*entryService)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *entryService) { s.now = now }
}

// WithIDGenerator overrides uuid-based id allocation.
func WithIDGenerator(gen func() string) Option {
	return func(s *entryService) { s.newID = gen }
}

type entryService struct {
	repo   entries.Repository
	logger logging.Logger
	now    func() time.Time
	newID  func() string

	// createMu orders id/timestamp allocation with the insert so that
	// CreatedAt never goes backwards in insertion order.
	createMu sync.Mutex
	last     time.Time

	subsMu sync.RWMutex
	subs   map[int]func(Change)
	nextID int
}

func NewEntryService(repo entries.Repository, logger logging.Logger, opts ...Option) EntryService {
	s := &entryService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		subs:   make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *entryService) Create(ctx context.Context, coord models.Coordinate, imageRef string, note string) (models.Entry, error) {
	if err := coord.Validate(); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", common.ErrInvalidEntry, err)
	}
	if imageRef == "" {
		return models.Entry{}, fmt.Errorf("%w: empty image reference", common.ErrInvalidEntry)
	}

	s.createMu.Lock()
	ts := s.now()
	if ts.Before(s.last) {
		ts = s.last
	}
	e := models.Entry{
		ID:         s.newID(),
		Coordinate: coord,
		ImageRef:   imageRef,
		Note:       note,
		CreatedAt:  ts,
	}
	err := s.repo.Insert(ctx, e)
	if err == nil {
		s.last = ts
	}
	s.createMu.Unlock()

	if err != nil {
		return models.Entry{}, fmt.Errorf("saving entry: %w", err)
	}

	s.logger.Info(ctx, "entry created", "entry_id", e.ID, "lat", coord.Latitude, "lon", coord.Longitude)
	s.publish(Change{Op: OpCreated, Entry: e})
	return e, nil
}

func (s *entryService) UpdateNote(ctx context.Context, id string, note string) (bool, error) {
	e, err := s.repo.UpdateNote(ctx, id, note)
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Debug(ctx, "note update for absent entry", "entry_id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("updating note: %w", err)
	}

	s.logger.Info(ctx, "entry note updated", "entry_id", id)
	s.publish(Change{Op: OpNoteUpdated, Entry: e})
	return true, nil
}

func (s *entryService) Delete(ctx context.Context, id string) (bool, error) {
	e, err := s.repo.DeleteByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Debug(ctx, "delete of absent entry", "entry_id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}

	s.logger.Info(ctx, "entry deleted", "entry_id", id)
	s.publish(Change{Op: OpDeleted, Entry: e})
	return true, nil
}

func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return list, nil
}

func (s *entryService) Get(ctx context.Context, id string) (models.Entry, bool) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Entry{}, false
	}
	return e, true
}

func (s *entryService) Subscribe(fn func(Change)) func() {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// publish runs outside the repository lock; subscribers may call back into
// the service.
func (s *entryService) publish(c Change) {
	s.subsMu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.subsMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
