package mapview

import (
	"github.com/paulmach/orb"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/geospatial"
)

// Viewport returns the area a map should fit to show every shape. A single
// point (or shapes collapsing to one) is padded by padMeters so the widget
// does not zoom in without limit. ok is false when nothing has coordinates.
func Viewport(c domain.GeometryCollection, padMeters float64) (domain.Bounds, bool) {
	b, ok := c.Bounds()
	if !ok {
		return domain.Bounds{}, false
	}
	if b.Min == b.Max && padMeters > 0 {
		minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(b.Min.Lat(), b.Min.Lon(), padMeters)
		b = orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}
	}
	return domain.BoundsFromOrb(b), true
}
