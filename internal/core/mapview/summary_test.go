package mapview

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

func TestSummarize(t *testing.T) {
	s := Summarize(sampleCollection())

	assert.Equal(t, 1, s.Points)
	assert.Equal(t, 1, s.LineStrings)
	assert.Equal(t, 1, s.Polygons)
	assert.Equal(t, 1, s.Other)
	assert.Greater(t, s.AreaM2, 0.0)
	// 0.1 deg lon and lat at 60N is roughly 12 km.
	assert.InDelta(t, 12_300, s.LengthMeters, 500)

	require.NotNil(t, s.Bounds)
	assert.Equal(t, 60.1, s.Bounds.MinLat)
	assert.Equal(t, 25.0, s.Bounds.MaxLon)
	require.NotNil(t, s.Center)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Points)
	assert.Nil(t, s.Bounds)
	assert.Nil(t, s.Center)
}

func TestViewport(t *testing.T) {
	_, ok := Viewport(nil, 500)
	assert.False(t, ok)

	b, ok := Viewport(domain.GeometryCollection{domain.NewPoint(24.9, 60.2)}, 500)
	require.True(t, ok)
	assert.False(t, b.IsPoint(), "single point must be padded")
	assert.Less(t, b.MinLat, 60.2)
	assert.Greater(t, b.MaxLon, 24.9)
	assert.InDelta(t, 60.2, b.Center().Lat, 1e-9)

	b, ok = Viewport(sampleCollection(), 500)
	require.True(t, ok)
	assert.Equal(t, domain.Bounds{MinLat: 60.1, MinLon: 24.9, MaxLat: 60.3, MaxLon: 25.0}, b)
}

func TestViewport_EmptyShapesOnly(t *testing.T) {
	c := domain.GeometryCollection{
		domain.NewLineString(orb.LineString{}),
		domain.NewPolygon(orb.Polygon{}),
	}
	_, ok := Viewport(c, 500)
	assert.False(t, ok)
}
