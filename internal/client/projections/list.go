package projections

import (
	"context"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
	"github.com/dmitrijs2005/happyplaces/internal/client/services"
)

// Row is one entry of the list view with its actions bound.
type Row struct {
	Entry models.Entry
	svc   services.EntryService
}

// List turns an entry snapshot into rows, preserving order.
func List(entries []models.Entry, svc services.EntryService) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Entry: e, svc: svc}
	}
	return rows
}

// Edit replaces the note of the row's entry. It reports false if the entry
// is gone.
func (r Row) Edit(ctx context.Context, note string) (bool, error) {
	return r.svc.UpdateNote(ctx, r.Entry.ID, note)
}

// Delete removes the row's entry.
func (r Row) Delete(ctx context.Context) (bool, error) {
	return r.svc.Delete(ctx, r.Entry.ID)
}

// Center is where the map should center when the row is selected.
func (r Row) Center() models.Coordinate {
	return r.Entry.Coordinate
}

// Title is the note, empty when none was entered.
func (r Row) Title() string {
	return r.Entry.Note
}

// Summary is the coordinate and timestamp line of the card.
func (r Row) Summary() string {
	return r.Entry.Coordinate.String() + "  " + r.Entry.FormatTimestamp()
}
