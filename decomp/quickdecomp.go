package decomp

import (
	"fmt"
	"math"

	"github.com/ionspark/vela2d/vector"
)

// Warn is a callback sink for non-fatal decomposition warnings, mirroring
// the engine-level warning sink described in spec.md §7. Tests and callers
// that don't care about warnings may leave it nil.
type Warn func(string)

// QuickDecomp runs Mark Bayazit's ray-casting convex decomposition over a
// simple, CCW polygon. On any failure (non-simple input, recursion
// overflow) the caller should fall back to the convex hull — see
// spec.md §4.3's failure policy, applied by callers of this package, not
// internally, so the partial result stays inspectable.
func QuickDecomp(points []vector.Vector, warn Warn) [][]vector.Vector {
	poly := EnsureCCW(points)
	var result [][]vector.Vector
	quickDecompRec(poly, &result, 0, warn)
	return result
}

func quickDecompRec(poly []vector.Vector, result *[][]vector.Vector, depth int, warn Warn) {
	if len(poly) < 3 {
		return
	}
	if depth > MaxLevel {
		if warn != nil {
			warn(fmt.Sprintf("quickDecomp: recursion limit (%d) reached, aborting subtree", MaxLevel))
		}
		return
	}

	for i := 0; i < len(poly); i++ {
		if !isReflex(poly, i) {
			continue
		}

		var lowerInt, upperInt vector.Vector
		lowerDist, upperDist := math.MaxFloat64, math.MaxFloat64
		lowerIndex, upperIndex := -1, -1

		for j := 0; j < len(poly); j++ {
			// Lower: ray from edge (i-1 -> i) extended, looking for the
			// closest edge crossing behind i.
			if isLeft(at(poly, i-1), at(poly, i), at(poly, j)) &&
				isRightOn(at(poly, i-1), at(poly, i), at(poly, j-1)) {
				if p, ok := lineIntersection(at(poly, i-1), at(poly, i), at(poly, j), at(poly, j-1)); ok {
					if isRight(at(poly, i+1), at(poly, i), p) {
						d := sqdist(at(poly, i), p)
						if d < lowerDist {
							lowerDist = d
							lowerInt = p
							lowerIndex = j
						}
					}
				}
			}

			// Upper: ray from edge (i -> i+1) extended.
			if isLeft(at(poly, i+1), at(poly, i), at(poly, j+1)) &&
				isRightOn(at(poly, i+1), at(poly, i), at(poly, j)) {
				if p, ok := lineIntersection(at(poly, i+1), at(poly, i), at(poly, j), at(poly, j+1)); ok {
					if isLeft(at(poly, i-1), at(poly, i), p) {
						d := sqdist(at(poly, i), p)
						if d < upperDist {
							upperDist = d
							upperInt = p
							upperIndex = j
						}
					}
				}
			}
		}

		if lowerIndex == -1 || upperIndex == -1 {
			// No valid split found for this reflex vertex; try the next
			// one rather than stalling.
			continue
		}

		var lowerPoly, upperPoly []vector.Vector

		if lowerIndex == (upperIndex+1)%len(poly) {
			// The two closest crossing edges are the same segment:
			// insert a Steiner point at their midpoint.
			steiner := vector.New((lowerInt[0]+upperInt[0])/2, (lowerInt[1]+upperInt[1])/2)

			if i < upperIndex {
				lowerPoly = append(lowerPoly, polygonSlice(poly, i, upperIndex)...)
				lowerPoly = append(lowerPoly, steiner)
				upperPoly = append(upperPoly, steiner)
				if lowerIndex != 0 {
					upperPoly = append(upperPoly, polygonSlice(poly, lowerIndex, len(poly)-1)...)
				}
				upperPoly = append(upperPoly, polygonSlice(poly, 0, i)...)
			} else {
				if i != 0 {
					lowerPoly = append(lowerPoly, polygonSlice(poly, i, len(poly)-1)...)
				}
				lowerPoly = append(lowerPoly, polygonSlice(poly, 0, upperIndex)...)
				lowerPoly = append(lowerPoly, steiner)
				upperPoly = append(upperPoly, steiner)
				upperPoly = append(upperPoly, polygonSlice(poly, lowerIndex, i)...)
			}
		} else {
			// Connect i to the closest visible vertex strictly between
			// the two crossing edges.
			lo, hi := lowerIndex, upperIndex
			if lo > hi {
				hi += len(poly)
			}

			closestIndex := -1
			closestDist := math.MaxFloat64
			for j := lo; j <= hi; j++ {
				jj := j % len(poly)
				if isLeftOn(at(poly, i-1), at(poly, i), at(poly, jj)) &&
					isRightOn(at(poly, i+1), at(poly, i), at(poly, jj)) {
					d := sqdist(at(poly, i), at(poly, jj))
					if d < closestDist {
						closestDist = d
						closestIndex = jj
					}
				}
			}

			if closestIndex == -1 {
				continue
			}

			if i < closestIndex {
				lowerPoly = polygonSlice(poly, i, closestIndex)
				upperPoly = polygonSlice(poly, closestIndex, i)
			} else {
				lowerPoly = polygonSlice(poly, closestIndex, i)
				upperPoly = polygonSlice(poly, i, closestIndex)
			}
		}

		// Recurse on the smaller half first, matching spec.md §4.3.
		if len(lowerPoly) < len(upperPoly) {
			quickDecompRec(lowerPoly, result, depth+1, warn)
			quickDecompRec(upperPoly, result, depth+1, warn)
		} else {
			quickDecompRec(upperPoly, result, depth+1, warn)
			quickDecompRec(lowerPoly, result, depth+1, warn)
		}
		return
	}

	*result = append(*result, poly)
}
