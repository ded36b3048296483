// Package projections derives what the map and the entry list show from a
// snapshot of entries and the transient session state. Nothing here mutates
// the entry store except the row actions, which forward to the service.
package projections

import "github.com/dmitrijs2005/happyplaces/internal/client/models"

// Markers builds the marker set: the current position (if known), the
// pending selection (if any) and one marker per entry, in that order.
func Markers(entries []models.Entry, current *models.Coordinate, selection *models.Coordinate) []models.Marker {
	out := make([]models.Marker, 0, len(entries)+2)
	if current != nil {
		out = append(out, models.Marker{
			Kind:       models.MarkerCurrent,
			Coordinate: *current,
			Title:      models.LabelCurrentPosition,
		})
	}
	if selection != nil {
		out = append(out, models.Marker{
			Kind:       models.MarkerSelected,
			Coordinate: *selection,
			Title:      models.LabelSelectedLocation,
		})
	}
	for _, e := range entries {
		out = append(out, EntryMarker(e))
	}
	return out
}

// EntryMarker is the marker for a single saved entry.
func EntryMarker(e models.Entry) models.Marker {
	title := e.Note
	if title == "" {
		title = models.LabelSavedLocation
	}
	return models.Marker{
		Kind:       models.MarkerEntry,
		Coordinate: e.Coordinate,
		Title:      title,
		Snippet:    e.FormatTimestamp(),
		EntryID:    e.ID,
	}
}
