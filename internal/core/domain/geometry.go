package domain

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeometryType is the GeoJSON "type" member of a geometry.
type GeometryType string

const (
	GeometryPoint      GeometryType = "Point"
	GeometryLineString GeometryType = "LineString"
	GeometryPolygon    GeometryType = "Polygon"
)

// Geometry is a single shape drawn for a hearing.
//
// Point, LineString and Polygon carry their coordinates in Shape as an
// orb.Point, orb.LineString or orb.Polygon. Every other geometry type, and any
// supported type whose coordinates could not be read, is kept verbatim in Raw
// with a nil Shape so that it survives a round-trip untouched.
type Geometry struct {
	Type  GeometryType
	Shape orb.Geometry
	Raw   json.RawMessage
}

// NewPoint builds a Point geometry.
func NewPoint(lon, lat float64) Geometry {
	return Geometry{Type: GeometryPoint, Shape: orb.Point{lon, lat}}
}

// NewLineString builds a LineString geometry.
func NewLineString(ls orb.LineString) Geometry {
	return Geometry{Type: GeometryLineString, Shape: ls}
}

// NewPolygon builds a Polygon geometry. Only the first ring is rendered, the
// remaining rings are carried along unchanged.
func NewPolygon(p orb.Polygon) Geometry {
	return Geometry{Type: GeometryPolygon, Shape: p}
}

// NewOther wraps a raw payload that is not interpreted. raw must be valid JSON.
func NewOther(raw json.RawMessage) Geometry {
	var head struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(raw, &head)

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	return Geometry{Type: GeometryType(head.Type), Raw: buf.Bytes()}
}

// ParseGeometry reads a bare GeoJSON geometry object. It never fails: anything
// that is not a readable Point, LineString or Polygon comes back as an opaque
// geometry carrying data.
func ParseGeometry(data []byte) Geometry {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return NewOther(data)
	}
	if len(head.Coordinates) == 0 || bytes.Equal(head.Coordinates, []byte("null")) {
		return NewOther(data)
	}

	switch t := GeometryType(head.Type); t {
	case GeometryPoint, GeometryLineString, GeometryPolygon:
		if !planarCoordinates(t, head.Coordinates) {
			return NewOther(data)
		}
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil || g.Coordinates == nil {
			return NewOther(data)
		}
		switch shape := g.Coordinates.(type) {
		case orb.Point, orb.LineString, orb.Polygon:
			return Geometry{Type: t, Shape: shape}
		}
	}
	return NewOther(data)
}

// planarCoordinates reports whether coords has exactly the nesting of t with
// every position a plain [lon, lat] pair. Positions orb would pad or
// truncate (missing axes, altitude) do not qualify.
func planarCoordinates(t GeometryType, coords json.RawMessage) bool {
	switch t {
	case GeometryPoint:
		return isPosition(coords)
	case GeometryLineString:
		return isPositionList(coords)
	case GeometryPolygon:
		var rings []json.RawMessage
		if err := json.Unmarshal(coords, &rings); err != nil || rings == nil {
			return false
		}
		for _, r := range rings {
			if !isPositionList(r) {
				return false
			}
		}
		return true
	}
	return false
}

func isPositionList(raw json.RawMessage) bool {
	var positions []json.RawMessage
	if err := json.Unmarshal(raw, &positions); err != nil || positions == nil {
		return false
	}
	for _, p := range positions {
		if !isPosition(p) {
			return false
		}
	}
	return true
}

func isPosition(raw json.RawMessage) bool {
	var p []*float64
	if err := json.Unmarshal(raw, &p); err != nil {
		return false
	}
	return len(p) == 2 && p[0] != nil && p[1] != nil
}

// IsOther reports whether g is an opaque passthrough geometry.
func (g Geometry) IsOther() bool {
	return g.Shape == nil
}

// IsZero reports whether g holds nothing at all.
func (g Geometry) IsZero() bool {
	return g.Shape == nil && len(g.Raw) == 0 && g.Type == ""
}

// Equal reports structural equality: same type and the exact same coordinate
// sequence. Opaque geometries compare by their compacted payload.
func (g Geometry) Equal(o Geometry) bool {
	if g.Type != o.Type || g.IsOther() != o.IsOther() {
		return false
	}
	if g.IsOther() {
		return bytes.Equal(g.Raw, o.Raw)
	}
	return orb.Equal(g.Shape, o.Shape)
}

// MarshalJSON encodes g as a bare GeoJSON geometry.
func (g Geometry) MarshalJSON() ([]byte, error) {
	if g.IsOther() {
		if len(g.Raw) == 0 {
			return []byte("null"), nil
		}
		return g.Raw, nil
	}
	return json.Marshal(geojson.NewGeometry(g.Shape))
}

// UnmarshalJSON decodes a bare GeoJSON geometry; see ParseGeometry.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = Geometry{}
		return nil
	}
	*g = ParseGeometry(data)
	return nil
}

// GeometryCollection is every shape currently drawn for a hearing, in
// insertion order.
type GeometryCollection []Geometry

// Clone returns a copy that can be appended to without touching c.
func (c GeometryCollection) Clone() GeometryCollection {
	out := make(GeometryCollection, len(c))
	copy(out, c)
	return out
}

// Equal compares two collections element by element.
func (c GeometryCollection) Equal(o GeometryCollection) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if !c[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Index returns the position of the first element structurally equal to g, or -1.
func (c GeometryCollection) Index(g Geometry) int {
	for i := range c {
		if c[i].Equal(g) {
			return i
		}
	}
	return -1
}

// Bounds returns the bound of all interpreted shapes. ok is false when the
// collection holds no Point, LineString or Polygon.
func (c GeometryCollection) Bounds() (b orb.Bound, ok bool) {
	for _, g := range c {
		if g.IsOther() {
			continue
		}
		gb := g.Shape.Bound()
		if gb.IsEmpty() {
			continue
		}
		if !ok {
			b = gb
			ok = true
			continue
		}
		b = b.Union(gb)
	}
	return b, ok
}
