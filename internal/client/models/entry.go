package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the day-first layout used for entry timestamps on
// markers and list rows.
const TimestampLayout = "02.01.2006 15:04"

// Entry is a committed happy place. Only Note may change after creation.
type Entry struct {
	ID         string
	Coordinate Coordinate
	// ImageRef is an opaque handle returned by the image store.
	ImageRef  string
	Note      string
	CreatedAt time.Time
}

// FormatTimestamp renders CreatedAt in local time.
func (e Entry) FormatTimestamp() string {
	return e.CreatedAt.Local().Format(TimestampLayout)
}

func (e Entry) String() string {
	note := e.Note
	if note == "" {
		note = "-"
	}
	return fmt.Sprintf("%s  %s  %s  %s", e.ID, note, e.Coordinate, e.FormatTimestamp())
}

// Origin tells how a session target was picked.
type Origin string

const (
	OriginCurrent   Origin = "current"
	OriginSelection Origin = "selection"
)

// PermissionKind names a runtime permission the client may need.
type PermissionKind string

const (
	PermissionLocation PermissionKind = "location"
	PermissionCamera   PermissionKind = "camera"
)
