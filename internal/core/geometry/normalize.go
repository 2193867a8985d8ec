package geometry

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

// RoundingFactor keeps six decimal places (about 0.11 m).
const RoundingFactor = 1_000_000

const (
	typeFeature           = "Feature"
	typeFeatureCollection = "FeatureCollection"
)

// empty is the canonical "no geometry" value of the hearing API.
var empty = json.RawMessage("[]")

// Round returns g with every coordinate rounded to six decimal places.
// Opaque geometries are returned as they are.
func Round(g domain.Geometry) domain.Geometry {
	if g.IsOther() {
		return g
	}
	g.Shape = orb.Round(orb.Clone(g.Shape), RoundingFactor)
	return g
}

// ToCollection reads a persisted geometry into an editable collection.
// featureCollection reports whether the persisted value was collection
// shaped (a FeatureCollection, a Feature or an array) and must be threaded
// through to ToPersisted. Absent, null, [] and {} all mean no geometry.
func ToCollection(persisted json.RawMessage) (c domain.GeometryCollection, featureCollection bool) {
	raw := bytes.TrimSpace(persisted)
	if len(raw) == 0 || !json.Valid(raw) {
		return domain.GeometryCollection{}, false
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return domain.GeometryCollection{}, false
		}
		c = make(domain.GeometryCollection, 0, len(items))
		for _, item := range items {
			c = append(c, Round(domain.ParseGeometry(item)))
		}
		return c, true

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
			return domain.GeometryCollection{}, false
		}
		var kind string
		_ = json.Unmarshal(obj["type"], &kind)

		switch kind {
		case typeFeatureCollection:
			features, ok := featureList(obj["features"])
			if !ok {
				return domain.GeometryCollection{domain.NewOther(raw)}, false
			}
			c = make(domain.GeometryCollection, 0, len(features))
			for _, f := range features {
				if g, ok := featureGeometry(f); ok {
					c = append(c, g)
				}
			}
			return c, true
		case typeFeature:
			c = domain.GeometryCollection{}
			if g, ok := featureGeometry(raw); ok {
				c = append(c, g)
			}
			return c, true
		default:
			return domain.GeometryCollection{Round(domain.ParseGeometry(raw))}, false
		}

	case 'n':
		return domain.GeometryCollection{}, false

	default:
		// Scalars are not geometry but are still not ours to throw away.
		return domain.GeometryCollection{domain.NewOther(raw)}, false
	}
}

// featureList reads the features member of a FeatureCollection. A missing or
// null member is an empty list; anything other than an array is not ok.
func featureList(member json.RawMessage) ([]json.RawMessage, bool) {
	m := bytes.TrimSpace(member)
	if len(m) == 0 || bytes.Equal(m, []byte("null")) {
		return nil, true
	}
	if m[0] != '[' {
		return nil, false
	}
	var features []json.RawMessage
	if err := json.Unmarshal(m, &features); err != nil {
		return nil, false
	}
	return features, true
}

// featureGeometry extracts and rounds the geometry member of a Feature.
// Only a null feature or a missing or null geometry yields ok == false. A feature that is not
// an object, or whose geometry is not an object, is kept opaque.
func featureGeometry(feature json.RawMessage) (domain.Geometry, bool) {
	f := bytes.TrimSpace(feature)
	if len(f) == 0 || bytes.Equal(f, []byte("null")) {
		return domain.Geometry{}, false
	}
	if f[0] != '{' {
		return domain.NewOther(f), true
	}
	var member struct {
		Geometry json.RawMessage `json:"geometry"`
	}
	if err := json.Unmarshal(f, &member); err != nil {
		return domain.NewOther(f), true
	}
	g := bytes.TrimSpace(member.Geometry)
	if len(g) == 0 || bytes.Equal(g, []byte("null")) {
		return domain.Geometry{}, false
	}
	if g[0] != '{' {
		return domain.NewOther(g), true
	}
	return Round(domain.ParseGeometry(g)), true
}

type featureJSON struct {
	Type     string          `json:"type"`
	Geometry domain.Geometry `json:"geometry"`
}

type featureCollectionJSON struct {
	Type     string        `json:"type"`
	Features []featureJSON `json:"features"`
}

// ToPersisted writes a collection back in the hearing API's shape.
// An empty collection becomes []; a single shape from a bare persisted
// geometry stays bare; everything else becomes a FeatureCollection whose
// features carry only type and geometry.
func ToPersisted(c domain.GeometryCollection, featureCollection bool) json.RawMessage {
	if len(c) == 0 {
		return empty
	}
	if len(c) == 1 && !featureCollection {
		data, err := json.Marshal(c[0])
		if err != nil {
			return empty
		}
		return data
	}

	fc := featureCollectionJSON{
		Type:     typeFeatureCollection,
		Features: make([]featureJSON, 0, len(c)),
	}
	for _, g := range c {
		fc.Features = append(fc.Features, featureJSON{Type: typeFeature, Geometry: g})
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return empty
	}
	return data
}

// Canonicalize rewrites a persisted value into the shape ToPersisted would
// produce for it. changed is false when the stored bytes already match.
// Bytes that are not JSON at all are returned untouched.
func Canonicalize(persisted json.RawMessage) (out json.RawMessage, changed bool) {
	var a, b bytes.Buffer
	if len(bytes.TrimSpace(persisted)) > 0 && json.Compact(&a, persisted) != nil {
		return persisted, false
	}
	out = ToPersisted(ToCollection(persisted))
	_ = json.Compact(&b, out)
	return out, !bytes.Equal(a.Bytes(), b.Bytes())
}
