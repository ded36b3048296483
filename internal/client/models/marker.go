package models

// MarkerKind classifies a map marker.
type MarkerKind string

const (
	MarkerCurrent  MarkerKind = "current"
	MarkerSelected MarkerKind = "selected"
	MarkerEntry    MarkerKind = "entry"
)

// Marker labels.
const (
	LabelCurrentPosition  = "current position"
	LabelSelectedLocation = "selected location"
	LabelSavedLocation    = "Saved location"
)

// Marker is one labeled point handed to the map renderer.
type Marker struct {
	Kind       MarkerKind
	Coordinate Coordinate
	Title      string
	Snippet    string
	// EntryID is set for MarkerEntry only.
	EntryID string
}
