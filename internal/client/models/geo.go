// Package models defines the client-side data model of Happy Places:
// coordinates, committed entries, and the derived map markers.
package models

import (
	"fmt"
	"math"

	"github.com/dmitrijs2005/happyplaces/internal/common"
)

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that both components are finite and in range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: non-finite component", common.ErrInvalidCoordinate)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", common.ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", common.ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// String renders the coordinate the way list cards show it.
func (c Coordinate) String() string {
	return fmt.Sprintf("Lat: %.2f, Lon: %.2f", c.Latitude, c.Longitude)
}

// Ptr returns a pointer to a copy of c, for optional projection inputs.
func (c Coordinate) Ptr() *Coordinate {
	return &c
}
