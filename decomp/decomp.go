package decomp

import (
	"fmt"

	"github.com/ionspark/vela2d/vector"
)

// Decomp runs the exhaustive reflex-diagonal decomposition described in
// spec.md §4.3: for each reflex vertex, every visible diagonal split is
// tried and the one producing the fewest total convex pieces wins. This
// is the O(n⁴) "best effort" sibling of QuickDecomp — use it offline for
// static collision meshes, not in a hot loading path.
func Decomp(points []vector.Vector, warn Warn) [][]vector.Vector {
	poly := EnsureCCW(points)
	return decompRec(poly, 0, warn)
}

func decompRec(poly []vector.Vector, depth int, warn Warn) [][]vector.Vector {
	if len(poly) < 3 {
		return nil
	}
	if depth > MaxLevel {
		if warn != nil {
			warn(fmt.Sprintf("decomp: recursion limit (%d) reached, aborting subtree", MaxLevel))
		}
		return [][]vector.Vector{poly}
	}

	for i := 0; i < len(poly); i++ {
		if !isReflex(poly, i) {
			continue
		}

		var best [][]vector.Vector
		for j := 0; j < len(poly); j++ {
			if !canSee(poly, i, j) {
				continue
			}

			left := polygonSlice(poly, i, j)
			right := polygonSlice(poly, j, i)
			if len(left) < 3 || len(right) < 3 {
				continue
			}

			leftPieces := decompRec(left, depth+1, warn)
			rightPieces := decompRec(right, depth+1, warn)
			candidate := append(append([][]vector.Vector{}, leftPieces...), rightPieces...)

			if best == nil || len(candidate) < len(best) {
				best = candidate
			}
		}

		if best == nil {
			// This reflex vertex has no valid diagonal: the polygon is
			// returned whole as a single (degenerate/non-simple) piece,
			// without trying its other reflex vertices.
			if warn != nil {
				warn("decomp: no valid diagonal found for reflex vertex, returning polygon as-is")
			}
			return [][]vector.Vector{poly}
		}
		return best
	}

	return [][]vector.Vector{poly}
}
