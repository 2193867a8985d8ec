// Package mapview describes how a hearing's shapes are shown on a map widget:
// render layers, drawing tools, tile sources and the map projection.
package mapview

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

// LayerKind is the widget element used for a shape.
type LayerKind string

const (
	LayerPolygon  LayerKind = "polygon"
	LayerMarker   LayerKind = "marker"
	LayerPolyline LayerKind = "polyline"
	LayerGeoJSON  LayerKind = "geojson"
)

// Layer is one render instruction. Positions are lat/lon ordered, as map
// widgets expect; Data carries the raw geometry for the generic GeoJSON layer.
type Layer struct {
	Key       string            `json:"key"`
	Kind      LayerKind         `json:"kind"`
	Positions []domain.GeoPoint `json:"positions,omitempty"`
	Data      json.RawMessage   `json:"data,omitempty"`
}

// Platform states what the caller can do with the result. Without a
// rendering surface (server-side rendering, API consumers) no layers are built.
type Platform struct {
	Surface bool
}

// Layers turns each shape into a render instruction, in collection order.
func Layers(c domain.GeometryCollection, p Platform) []Layer {
	if !p.Surface {
		return nil
	}
	layers := make([]Layer, 0, len(c))
	for i, g := range c {
		layers = append(layers, layerFor(i, g))
	}
	return layers
}

func layerFor(i int, g domain.Geometry) Layer {
	key := fmt.Sprintf("%d-%s", i, g.Type)
	switch shape := g.Shape.(type) {
	case orb.Polygon:
		// Only the outer ring is drawn.
		var ring orb.Ring
		if len(shape) > 0 {
			ring = shape[0]
		}
		return Layer{Key: key, Kind: LayerPolygon, Positions: positions(ring)}
	case orb.Point:
		return Layer{Key: key, Kind: LayerMarker, Positions: []domain.GeoPoint{domain.PointFromOrb(shape)}}
	case orb.LineString:
		return Layer{Key: key, Kind: LayerPolyline, Positions: positions(shape)}
	}
	data, _ := json.Marshal(g)
	return Layer{Key: key, Kind: LayerGeoJSON, Data: data}
}

func positions(pts []orb.Point) []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(pts))
	for i, p := range pts {
		out[i] = domain.PointFromOrb(p)
	}
	return out
}
