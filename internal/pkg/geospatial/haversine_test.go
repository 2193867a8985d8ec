package geospatial

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversine_HelsinkiTampere(t *testing.T) {
	// Helsinki central station -> Tampere station, roughly 160 km.
	d := Haversine(60.1719, 24.9414, 61.4981, 23.7730)
	if d < 155_000 || d > 165_000 {
		t.Errorf("expected ~160km, got %.0fm", d)
	}
}

func TestPathLength(t *testing.T) {
	pts := []orb.Point{{24.9, 60.2}, {24.9, 60.3}, {24.9, 60.4}}
	want := 2 * Haversine(60.2, 24.9, 60.3, 24.9)
	if got := PathLength(pts); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, got)
	}
	if PathLength(pts[:1]) != 0 {
		t.Error("single point has no length")
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(60.2, 24.9, 500)
	if d := Haversine(60.2, 24.9, maxLat, 24.9); math.Abs(d-500) > 5 {
		t.Errorf("north edge should be ~500m away, got %.1f", d)
	}
	if minLat >= 60.2 || minLon >= 24.9 || maxLon <= 24.9 {
		t.Error("box must surround the point")
	}
}
