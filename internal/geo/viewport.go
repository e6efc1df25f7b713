package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	tileSize = 256
	// Web-Mercator world width in meters.
	worldMeters = 2 * math.Pi * 6378137

	MaxZoom = 18
	// Zoom used when every point coincides.
	SinglePointZoom = 15
)

type Viewport struct {
	Center orb.Point
	Zoom   float64
}

// Fit returns the center and the largest zoom at which bound fits into a map
// of widthPx x heightPx pixels, keeping paddingPx free on every side.
func Fit(bound orb.Bound, widthPx, heightPx, paddingPx int) Viewport {
	mercator := project.Bound(bound, project.WGS84.ToMercator)
	center := project.Mercator.ToWGS84(mercator.Center())

	spanX := mercator.Max[0] - mercator.Min[0]
	spanY := mercator.Max[1] - mercator.Min[1]

	w := float64(widthPx - 2*paddingPx)
	h := float64(heightPx - 2*paddingPx)
	if w <= 0 || h <= 0 {
		return Viewport{Center: center, Zoom: 0}
	}

	if spanX == 0 && spanY == 0 {
		return Viewport{Center: center, Zoom: SinglePointZoom}
	}

	zoom := float64(MaxZoom)
	if spanX > 0 {
		zoom = math.Min(zoom, math.Log2(w*worldMeters/(tileSize*spanX)))
	}
	if spanY > 0 {
		zoom = math.Min(zoom, math.Log2(h*worldMeters/(tileSize*spanY)))
	}

	return Viewport{Center: center, Zoom: math.Max(0, math.Floor(zoom))}
}
