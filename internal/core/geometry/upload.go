package geometry

import (
	"bytes"
	"encoding/json"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseUploadedFeatureCollection reads the text of an uploaded GeoJSON file.
// The result replaces the session's collection; it is never merged.
//
// Content that is not JSON yields a *ParseError. JSON that is not a non-empty
// FeatureCollection whose every feature has a geometry with both type and
// coordinates yields a *ValidationError.
func ParseUploadedFeatureCollection(raw []byte) (domain.GeometryCollection, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &ParseError{Err: err}
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, &ValidationError{Feature: -1, Reason: "document is not an object"}
	}

	var doc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{Feature: -1, Reason: err.Error()}
	}
	if doc.Type != typeFeatureCollection {
		return nil, &ValidationError{Feature: -1, Reason: "type is not FeatureCollection"}
	}
	if len(doc.Features) == 0 {
		return nil, &ValidationError{Feature: -1, Reason: "no features"}
	}

	c := make(domain.GeometryCollection, 0, len(doc.Features))
	for i, f := range doc.Features {
		g, err := uploadedGeometry(f)
		if err != nil {
			return nil, &ValidationError{Feature: i, Reason: err.Error()}
		}
		c = append(c, Round(domain.ParseGeometry(g)))
	}
	return c, nil
}

type reason string

func (r reason) Error() string { return string(r) }

func uploadedGeometry(feature json.RawMessage) (json.RawMessage, error) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(feature, &f); err != nil {
		return nil, reason("feature is not an object")
	}
	g, ok := f["geometry"]
	if !ok {
		return nil, reason("missing geometry")
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(g, &members); err != nil || members == nil {
		return nil, reason("geometry is not an object")
	}
	if _, ok := members["type"]; !ok {
		return nil, reason("geometry has no type")
	}
	if _, ok := members["coordinates"]; !ok {
		return nil, reason("geometry has no coordinates")
	}
	return g, nil
}
