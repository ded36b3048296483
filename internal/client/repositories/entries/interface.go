package entries

import (
	"context"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
)

// Repository describes the ordered, in-process collection of committed
// entries. Implementations must serialize mutations so that readers never
// observe a partially applied change.
type Repository interface {
	// Insert appends the entry. Returns common.ErrInvalidEntry when an entry
	// with the same ID is already present.
	Insert(ctx context.Context, entry models.Entry) error

	// UpdateNote replaces the note of the entry with the given ID in place and
	// returns the updated entry. Returns common.ErrNotFound if it is absent.
	UpdateNote(ctx context.Context, id string, note string) (models.Entry, error)

	// DeleteByID removes the entry and returns it. Returns common.ErrNotFound
	// if it is absent.
	DeleteByID(ctx context.Context, id string) (models.Entry, error)

	// GetByID returns a copy of the entry with the given ID.
	GetByID(ctx context.Context, id string) (models.Entry, error)

	// GetAll returns a snapshot of all entries in insertion order.
	GetAll(ctx context.Context) ([]models.Entry, error)
}
