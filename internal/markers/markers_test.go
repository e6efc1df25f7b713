package markers

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mishannn/homesearch-go/internal/geo"
	"github.com/mishannn/homesearch-go/internal/listing"
)

func sample() []listing.Listing {
	return []listing.Listing{
		{ID: "A", Title: "Villa", Price: 450000, Coordinates: &listing.Coordinates{Lat: 18.6, Lng: -68.4}},
		{ID: "B", Title: "No location"},
		{ID: "C", Title: "Condo", Coordinates: &listing.Coordinates{Lat: 18.55, Lng: -68.35}, MainPhotoURL: "c.jpg"},
	}
}

func TestProject(t *testing.T) {
	ms := Project(sample())
	require.Len(t, ms, 3)

	assert.Equal(t, "1", ms[0].Label)
	assert.Equal(t, "3", ms[2].Label)
	assert.Equal(t, &orb.Point{-68.4, 18.6}, ms[0].Position)
	assert.False(t, ms[1].Mapped())
	assert.Equal(t, "c.jpg", ms[2].Image)
	assert.Equal(t, 450000.0, ms[0].Price)
}

func TestBoundsSkipsUnmapped(t *testing.T) {
	bound, ok := Bounds(Project(sample()))
	require.True(t, ok)

	assert.Equal(t, orb.Point{-68.4, 18.55}, bound.Min)
	assert.Equal(t, orb.Point{-68.35, 18.6}, bound.Max)

	_, ok = Bounds(Project([]listing.Listing{{ID: "X"}}))
	assert.False(t, ok)

	_, ok = Fit(nil, 800, 600, 0)
	assert.False(t, ok)
}

func TestFitAndWithin(t *testing.T) {
	ms := Project(sample())

	v, ok := Fit(ms, 800, 600, 20)
	require.True(t, ok)
	assert.InDelta(t, -68.375, v.Center[0], 1e-6)
	assert.Greater(t, v.Zoom, 5.0)

	area, err := geo.NewAreaFromGeoJSON(`{"type":"Polygon","coordinates":[[[-68.45,18.58],[-68.38,18.58],[-68.38,18.65],[-68.45,18.65],[-68.45,18.58]]]}`)
	require.NoError(t, err)

	in := Within(ms, area)
	require.Len(t, in, 1)
	assert.Equal(t, "A", in[0].ID)
	assert.Equal(t, "1", in[0].Label)
}
