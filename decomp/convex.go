package decomp

import (
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

// Convex decomposes points into convex pieces using the quick Bayazit
// algorithm, falling back to the convex hull of the input if the polygon
// isn't simple or the decomposition fails outright — spec.md §4.3's
// failure policy.
func Convex(points []vector.Vector, warn Warn) [][]vector.Vector {
	if len(points) < 3 || !IsSimple(points) {
		if warn != nil {
			warn("decomp: input is not a simple polygon, falling back to convex hull")
		}
		return [][]vector.Vector{geometry.Hull(points)}
	}

	pieces := QuickDecomp(points, warn)
	if len(pieces) == 0 {
		if warn != nil {
			warn("decomp: quickDecomp produced no pieces, falling back to convex hull")
		}
		return [][]vector.Vector{geometry.Hull(points)}
	}
	return pieces
}
