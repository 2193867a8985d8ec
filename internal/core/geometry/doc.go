// Package geometry converts between a hearing's persisted geometry and the
// collection of shapes edited on the map.
//
// The persisted form is whatever the hearing API stored: nothing ([] or null),
// a bare geometry, a FeatureCollection, a single Feature, or a plain array of
// geometries left over from older clients. The editing form is always a
// domain.GeometryCollection. Every coordinate that passes through here is
// rounded to six decimal places, the precision of the drawing surface.
package geometry
