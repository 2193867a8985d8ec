package geometry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
)

const twoFeatures = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[24.9,60.2]}},
	{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[24.9,60.1],[25.0,60.1],[25.0,60.2],[24.9,60.1]]]}}
]}`

func TestParseUpload_Success(t *testing.T) {
	c, err := geometry.ParseUploadedFeatureCollection([]byte(twoFeatures))
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.True(t, c[0].Equal(pointA))
	assert.True(t, c[1].Equal(polyC))
}

func TestParseUpload_ByteOrderMark(t *testing.T) {
	c, err := geometry.ParseUploadedFeatureCollection(append([]byte("\xef\xbb\xbf"), twoFeatures...))
	require.NoError(t, err)
	assert.Len(t, c, 2)
}

func TestParseUpload_NotJSON(t *testing.T) {
	_, err := geometry.ParseUploadedFeatureCollection([]byte("{not json"))
	var pe *geometry.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, geometry.CodeInvalidJSON, geometry.Code(err))
}

func TestParseUpload_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		feature int
	}{
		{"array", `[1,2]`, -1},
		{"wrong type", `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}}`, -1},
		{"type not a string", `{"type":5,"features":[]}`, -1},
		{"no features", `{"type":"FeatureCollection","features":[]}`, -1},
		{"missing geometry", `{"type":"FeatureCollection","features":[{"type":"Feature"}]}`, 0},
		{"null geometry", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null}]}`, 0},
		{
			"missing coordinates",
			`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}},
				{"type":"Feature","geometry":{"type":"Point"}}]}`,
			1,
		},
		{"missing type", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"coordinates":[1,2]}}]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geometry.ParseUploadedFeatureCollection([]byte(tt.in))
			var ve *geometry.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.feature, ve.Feature)
			assert.Equal(t, geometry.CodeInvalidFeatureCollection, geometry.Code(err))
		})
	}
}

func TestParseUpload_UnknownGeometryKept(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"MultiLineString","coordinates":[[[1,2],[3,4]]]}}]}`
	c, err := geometry.ParseUploadedFeatureCollection([]byte(in))
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.True(t, c[0].IsOther())
}
