package geometry

import "github.com/kerrokantasi/hearinggeo/internal/core/domain"

// ApplyDrawCreated appends a newly drawn shape. The drawing surface is
// trusted to produce valid geometry.
func ApplyDrawCreated(c domain.GeometryCollection, created domain.Geometry) domain.GeometryCollection {
	out := make(domain.GeometryCollection, 0, len(c)+1)
	out = append(out, c...)
	return append(out, Round(created))
}

// ApplyDrawEdited replaces the first shape structurally equal to original
// with edited, keeping its position. The map widget only knows its layers by
// their live objects, so a miss is possible; it leaves the collection
// unchanged and returns ErrEditTargetNotFound.
func ApplyDrawEdited(c domain.GeometryCollection, edited, original domain.Geometry) (domain.GeometryCollection, error) {
	i := c.Index(Round(original))
	if i < 0 {
		return c, ErrEditTargetNotFound
	}
	out := c.Clone()
	out[i] = Round(edited)
	return out, nil
}

// ApplyDrawDeleted removes every shape structurally equal to one of deleted.
// Coordinates are compared exactly after rounding; shapes that are not
// present are ignored.
func ApplyDrawDeleted(c domain.GeometryCollection, deleted []domain.Geometry) domain.GeometryCollection {
	if len(deleted) == 0 {
		return c
	}
	gone := make(domain.GeometryCollection, 0, len(deleted))
	for _, d := range deleted {
		gone = append(gone, Round(d))
	}

	out := make(domain.GeometryCollection, 0, len(c))
	for _, g := range c {
		if gone.Index(g) >= 0 {
			continue
		}
		out = append(out, g)
	}
	return out
}
