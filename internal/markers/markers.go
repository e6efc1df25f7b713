package markers

import (
	"strconv"

	"github.com/paulmach/orb"

	"github.com/mishannn/homesearch-go/internal/geo"
	"github.com/mishannn/homesearch-go/internal/listing"
)

// Marker carries what a map pin and its info window need. Position is nil for
// listings without usable coordinates.
type Marker struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Position    *orb.Point `json:"position,omitempty"`
	Title       string     `json:"title"`
	Address     string     `json:"address"`
	Price       float64    `json:"price"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	Area        float64    `json:"area"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
}

func (m Marker) Mapped() bool {
	return m.Position != nil
}

// Project maps the visible listings to markers, labelled 1..n in order.
func Project(items []listing.Listing) []Marker {
	out := make([]Marker, 0, len(items))

	for i, item := range items {
		m := Marker{
			ID:          item.ID,
			Label:       strconv.Itoa(i + 1),
			Title:       item.Title,
			Address:     item.Address,
			Price:       item.Price,
			Bedrooms:    item.Bedrooms,
			Bathrooms:   item.Bathrooms,
			Area:        item.Area,
			Image:       item.MainPhotoURL,
			Description: item.Description,
		}

		if c := item.Coordinates; c != nil {
			m.Position = &orb.Point{c.Lng, c.Lat}
		}

		out = append(out, m)
	}

	return out
}

// Bounds covers every mapped marker. ok is false when none is mapped.
func Bounds(markers []Marker) (bound orb.Bound, ok bool) {
	for _, m := range markers {
		if !m.Mapped() {
			continue
		}

		if !ok {
			bound = orb.Bound{Min: *m.Position, Max: *m.Position}
			ok = true
			continue
		}

		bound = bound.Extend(*m.Position)
	}

	return bound, ok
}

// Fit is the viewport showing every mapped marker.
func Fit(markers []Marker, widthPx, heightPx, paddingPx int) (geo.Viewport, bool) {
	bound, ok := Bounds(markers)
	if !ok {
		return geo.Viewport{}, false
	}

	return geo.Fit(bound, widthPx, heightPx, paddingPx), true
}

// Within keeps the mapped markers that lie in area. Labels are kept so they
// still match the list.
func Within(markers []Marker, area *geo.Area) []Marker {
	out := make([]Marker, 0, len(markers))

	for _, m := range markers {
		if m.Mapped() && area.Contains(*m.Position) {
			out = append(out, m)
		}
	}

	return out
}
