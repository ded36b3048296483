package render

import (
	"math"

	"github.com/dmitrijs2005/happyplaces/internal/client/models"
)

const (
	// DefaultZoom matches the street-level zoom the map opens with.
	DefaultZoom = 16
	tileSize    = 256
	maxLatitude = 85.05112878
)

// Pixel is a cell position relative to the top-left corner of the viewport.
type Pixel struct {
	X int
	Y int
}

// Viewport is a web-mercator window of Width x Height cells centered on
// Center. One cell is one map pixel at Zoom.
type Viewport struct {
	Center models.Coordinate
	Zoom   int
	Width  int
	Height int
}

func (v Viewport) worldSize() float64 {
	return tileSize * math.Exp2(float64(v.Zoom))
}

// project returns world pixel coordinates of c.
func (v Viewport) project(c models.Coordinate) (float64, float64) {
	size := v.worldSize()
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, c.Latitude))
	phi := lat * math.Pi / 180
	x := (c.Longitude + 180) / 360 * size
	y := (1 - math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi) / 2 * size
	return x, y
}

// FromPixel translates a viewport cell to the coordinate at its center.
func (v Viewport) FromPixel(p Pixel) models.Coordinate {
	size := v.worldSize()
	cx, cy := v.project(v.Center)
	x := cx + float64(p.X) + 0.5 - float64(v.Width)/2
	y := cy + float64(p.Y) + 0.5 - float64(v.Height)/2

	lon := x/size*360 - 180
	lon = math.Mod(lon+540, 360) - 180
	n := math.Pi * (1 - 2*y/size)
	lat := math.Atan(math.Sinh(n)) * 180 / math.Pi
	return models.Coordinate{Latitude: lat, Longitude: lon}
}

// ToPixel translates c to a viewport cell. The second result is false when
// the cell falls outside the viewport.
func (v Viewport) ToPixel(c models.Coordinate) (Pixel, bool) {
	cx, cy := v.project(v.Center)
	x, y := v.project(c)
	p := Pixel{
		X: int(math.Floor(x - cx + float64(v.Width)/2)),
		Y: int(math.Floor(y - cy + float64(v.Height)/2)),
	}
	return p, p.X >= 0 && p.Y >= 0 && p.X < v.Width && p.Y < v.Height
}
