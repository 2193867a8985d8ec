package geometry_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrokantasi/hearinggeo/internal/core/domain"
	"github.com/kerrokantasi/hearinggeo/internal/core/geometry"
)

func TestApplyDrawCreated_Appends(t *testing.T) {
	c := domain.GeometryCollection{pointA}
	out := geometry.ApplyDrawCreated(c, lineB)

	require.Len(t, out, 2)
	assert.True(t, out[1].Equal(lineB))
	assert.Len(t, c, 1, "input collection must not change")
}

func TestApplyDrawCreated_RoundsCoordinates(t *testing.T) {
	out := geometry.ApplyDrawCreated(nil, domain.NewPoint(24.00000049, 60.00000051))
	require.Len(t, out, 1)
	assert.Equal(t, orb.Point{24.0, 60.000001}, out[0].Shape)
}

func TestApplyDrawEdited_ReplacesInPlace(t *testing.T) {
	b2 := domain.NewLineString(orb.LineString{{24.9, 60.2}, {25.1, 60.3}})
	c := domain.GeometryCollection{pointA, lineB, polyC}

	out, err := geometry.ApplyDrawEdited(c, b2, lineB)
	require.NoError(t, err)
	assert.True(t, out.Equal(domain.GeometryCollection{pointA, b2, polyC}))
	assert.True(t, c[1].Equal(lineB), "input collection must not change")
}

func TestApplyDrawEdited_MissIsSoft(t *testing.T) {
	c := domain.GeometryCollection{pointA, polyC}
	out, err := geometry.ApplyDrawEdited(c, lineB, domain.NewPoint(1, 1))

	assert.True(t, errors.Is(err, geometry.ErrEditTargetNotFound))
	assert.Equal(t, geometry.CodeEditTargetNotFound, geometry.Code(err))
	assert.True(t, out.Equal(c))
}

func TestApplyDrawDeleted_EmptyIsIdentity(t *testing.T) {
	c := domain.GeometryCollection{pointA, lineB, polyC}
	assert.True(t, geometry.ApplyDrawDeleted(c, nil).Equal(c))
	assert.True(t, geometry.ApplyDrawDeleted(c, []domain.Geometry{}).Equal(c))
}

func TestApplyDrawDeleted_CreateThenDelete(t *testing.T) {
	c := domain.GeometryCollection{pointA, polyC}
	n := domain.NewPoint(25.5, 61.5)

	out := geometry.ApplyDrawDeleted(geometry.ApplyDrawCreated(c, n), []domain.Geometry{n})
	assert.True(t, out.Equal(c))
}

func TestApplyDrawDeleted_RemovesEveryMatch(t *testing.T) {
	c := domain.GeometryCollection{pointA, lineB, pointA, polyC}
	out := geometry.ApplyDrawDeleted(c, []domain.Geometry{pointA, domain.NewPoint(0, 0)})
	assert.True(t, out.Equal(domain.GeometryCollection{lineB, polyC}))
}

func TestApplyDrawDeleted_ExactComparison(t *testing.T) {
	c := domain.GeometryCollection{pointA}
	near := domain.NewPoint(24.900001, 60.2)
	assert.Len(t, geometry.ApplyDrawDeleted(c, []domain.Geometry{near}), 1)
}
