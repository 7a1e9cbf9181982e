package geometry

import "errors"

// Sentinel errors for construction-time geometry validation (spec.md
// §6/§7). They live here, the lowest-level package that performs the
// validation, so callers up the stack (body.FromVertices, the root
// engine package) can alias onto these rather than declaring independent
// values that would diverge under errors.Is.
var (
	// ErrInvalidGeometry is returned for a degenerate point ring: fewer
	// than 3 points, a NaN coordinate, or negligible area.
	ErrInvalidGeometry = errors.New("geometry: invalid or degenerate polygon")

	// ErrNotSimplePolygon is wrapped into a non-fatal error when a
	// self-intersecting ring was accepted by falling back to its convex
	// hull instead of being rejected outright.
	ErrNotSimplePolygon = errors.New("geometry: polygon is not simple, fell back to convex hull")

	// ErrDecompositionOverflow is wrapped into a non-fatal error when
	// convex decomposition hit its recursion cap and returned a
	// best-effort result instead of a full decomposition.
	ErrDecompositionOverflow = errors.New("geometry: decomposition recursion limit reached")
)
