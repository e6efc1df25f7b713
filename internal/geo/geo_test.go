package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const puntaCanaSquare = `{"type":"Polygon","coordinates":[[[-68.5,18.5],[-68.3,18.5],[-68.3,18.7],[-68.5,18.7],[-68.5,18.5]]]}`

func TestAreaContains(t *testing.T) {
	area, err := NewAreaFromGeoJSON(puntaCanaSquare)
	require.NoError(t, err)

	assert.True(t, area.Contains(orb.Point{-68.4, 18.6}))
	assert.False(t, area.Contains(orb.Point{-70.0, 18.6}))

	b := area.Bound()
	assert.InDelta(t, -68.5, b.Min[0], 1e-9)
	assert.InDelta(t, 18.7, b.Max[1], 1e-9)
}

func TestAreaInvalidGeoJSON(t *testing.T) {
	_, err := NewAreaFromGeoJSON(`{"type":"Nope"}`)
	assert.Error(t, err)
}

func TestFitSinglePoint(t *testing.T) {
	p := orb.Point{-68.4, 18.6}
	v := Fit(orb.Bound{Min: p, Max: p}, 800, 600, 20)

	assert.Equal(t, float64(SinglePointZoom), v.Zoom)
	assert.InDelta(t, p[0], v.Center[0], 1e-6)
	assert.InDelta(t, p[1], v.Center[1], 1e-6)
}

func TestFitWiderBoundZoomsOut(t *testing.T) {
	small := Fit(orb.Bound{Min: orb.Point{-68.45, 18.55}, Max: orb.Point{-68.40, 18.60}}, 800, 600, 0)
	large := Fit(orb.Bound{Min: orb.Point{-70.0, 18.0}, Max: orb.Point{-68.0, 19.5}}, 800, 600, 0)

	assert.Greater(t, small.Zoom, large.Zoom)
	assert.GreaterOrEqual(t, large.Zoom, 0.0)
	assert.LessOrEqual(t, small.Zoom, float64(MaxZoom))
}

func TestFitNoRoom(t *testing.T) {
	v := Fit(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, 10, 10, 10)
	assert.Zero(t, v.Zoom)
}
