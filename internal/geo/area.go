package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"
)

// Area is a search polygon loaded from GeoJSON.
type Area struct {
	geom *geos.Geom
}

func NewAreaFromGeoJSON(geojson string) (*Area, error) {
	geom, err := geos.NewGeomFromGeoJSON(geojson)
	if err != nil {
		return nil, fmt.Errorf("can't parse geojson: %w", err)
	}

	return &Area{geom: geom}, nil
}

// Contains reports whether p (lng, lat) lies inside the area or on its
// border.
func (a *Area) Contains(p orb.Point) bool {
	return a.geom.Intersects(geos.NewPoint([]float64{p[0], p[1]}))
}

func (a *Area) Bound() orb.Bound {
	b := a.geom.Bounds()
	return orb.Bound{
		Min: orb.Point{b.MinX, b.MinY},
		Max: orb.Point{b.MaxX, b.MaxY},
	}
}
