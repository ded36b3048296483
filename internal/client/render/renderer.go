// Package render draws markers on a text map and turns long-presses on map
// cells back into coordinates.
package render

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
)

// MapRenderer displays markers around a center and reports long-presses as
// coordinates.
type MapRenderer interface {
	SetMarkers(markers []models.Marker)
	SetCenter(c models.Coordinate)
	OnLongPress(fn func(models.Coordinate))
}

var glyphs = map[models.MarkerKind]byte{
	models.MarkerCurrent:  '@',
	models.MarkerSelected: '+',
	models.MarkerEntry:    '*',
}

// Text is a MapRenderer that draws into a character grid.
type Text struct {
	mu       sync.RWMutex
	viewport Viewport
	markers  []models.Marker
	handlers []func(models.Coordinate)
}

func NewText(width, height, zoom int) *Text {
	return &Text{viewport: Viewport{Zoom: zoom, Width: width, Height: height}}
}

func (t *Text) SetMarkers(markers []models.Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markers = append([]models.Marker(nil), markers...)
}

func (t *Text) SetCenter(c models.Coordinate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewport.Center = c
}

// Resize changes the viewport dimensions, keeping center and zoom.
func (t *Text) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.viewport.Width, t.viewport.Height = width, height
}

func (t *Text) OnLongPress(fn func(models.Coordinate)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, fn)
}

// Viewport returns the current viewport.
func (t *Text) Viewport() Viewport {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.viewport
}

// Markers returns the markers last set.
func (t *Text) Markers() []models.Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Marker(nil), t.markers...)
}

// LongPress translates p and hands the coordinate to every registered
// handler. Cells outside the viewport are rejected.
func (t *Text) LongPress(p Pixel) (models.Coordinate, error) {
	t.mu.RLock()
	v := t.viewport
	handlers := slices.Clone(t.handlers)
	t.mu.RUnlock()

	if p.X < 0 || p.Y < 0 || p.X >= v.Width || p.Y >= v.Height {
		return models.Coordinate{}, fmt.Errorf("cell %d,%d outside %dx%d map", p.X, p.Y, v.Width, v.Height)
	}
	c := v.FromPixel(p)
	for _, fn := range handlers {
		fn(c)
	}
	return c, nil
}

// Render writes the grid followed by a legend of all markers. Later markers
// are drawn over earlier ones so entries stay visible on top of the
// position markers.
func (t *Text) Render(w io.Writer) error {
	t.mu.RLock()
	v := t.viewport
	markers := append([]models.Marker(nil), t.markers...)
	t.mu.RUnlock()

	grid := make([][]byte, v.Height)
	for y := range grid {
		grid[y] = make([]byte, v.Width)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}
	visible := make([]bool, len(markers))
	for i, m := range markers {
		p, ok := v.ToPixel(m.Coordinate)
		if !ok {
			continue
		}
		visible[i] = true
		grid[p.Y][p.X] = glyphs[m.Kind]
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "center %s zoom %d\n", v.Center, v.Zoom)
	for _, row := range grid {
		bw.Write(row)
		bw.WriteByte('\n')
	}
	for i, m := range markers {
		where := "off-map"
		if visible[i] {
			where = "on map"
		}
		line := fmt.Sprintf("%c %s (%s, %s)", glyphs[m.Kind], m.Title, m.Coordinate, where)
		if m.Snippet != "" {
			line += " " + m.Snippet
		}
		fmt.Fprintln(bw, line)
	}
	return bw.Flush()
}
