package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/pkg/geospatial"
)

// Summary is a quick description of a hearing area.
type Summary struct {
	Points       int              `json:"points"`
	LineStrings  int              `json:"line_strings"`
	Polygons     int              `json:"polygons"`
	Other        int              `json:"other"`
	AreaM2       float64          `json:"area_m2"`
	LengthMeters float64          `json:"length_m"`
	Bounds       *domain.Bounds   `json:"bounds,omitempty"`
	Center       *domain.GeoPoint `json:"center,omitempty"`
}

// Summarize counts shapes by type and measures them on the sphere.
func Summarize(c domain.GeometryCollection) Summary {
	var s Summary
	for _, g := range c {
		switch shape := g.Shape.(type) {
		case orb.Point:
			s.Points++
		case orb.LineString:
			s.LineStrings++
			s.LengthMeters += geospatial.PathLength(shape)
		case orb.Polygon:
			s.Polygons++
			s.AreaM2 += geo.Area(shape)
		default:
			s.Other++
		}
	}
	if b, ok := c.Bounds(); ok {
		bounds := domain.BoundsFromOrb(b)
		center := bounds.Center()
		s.Bounds = &bounds
		s.Center = &center
	}
	return s
}
