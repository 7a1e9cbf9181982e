// Package decomp implements convex decomposition of simple,
// counter-clockwise polygons: an exhaustive reflex-diagonal search and the
// quicker Bayazit ray-cast variant. Neither falls back on its own; Convex
// wraps QuickDecomp and returns the convex hull of the input on failure,
// per spec.md §4.3's failure policy.
package decomp

import (
	"math"

	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

// MaxLevel caps decomposition recursion depth; a subtree that overflows it
// is abandoned and a warning is surfaced instead of recursing forever.
const MaxLevel = 100

func at(poly []vector.Vector, i int) vector.Vector {
	n := len(poly)
	return poly[((i%n)+n)%n]
}

func cross3(a, b, c vector.Vector) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func isLeft(a, b, c vector.Vector) bool   { return cross3(a, b, c) > 0 }
func isLeftOn(a, b, c vector.Vector) bool { return cross3(a, b, c) >= -1e-12 }
func isRight(a, b, c vector.Vector) bool  { return cross3(a, b, c) < 0 }
func isRightOn(a, b, c vector.Vector) bool {
	return cross3(a, b, c) <= 1e-12
}

func sqdist(a, b vector.Vector) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// isReflex reports whether vertex i of a CCW polygon is reflex (interior
// angle > 180°).
func isReflex(poly []vector.Vector, i int) bool {
	return isRight(at(poly, i-1), at(poly, i), at(poly, i+1))
}

// lineIntersection finds the intersection of the infinite lines through
// (p1,p2) and (q1,q2). ok is false for parallel lines.
func lineIntersection(p1, p2, q1, q2 vector.Vector) (vector.Vector, bool) {
	a1 := p2[1] - p1[1]
	b1 := p1[0] - p2[0]
	c1 := a1*p1[0] + b1*p1[1]

	a2 := q2[1] - q1[1]
	b2 := q1[0] - q2[0]
	c2 := a2*q1[0] + b2*q1[1]

	det := a1*b2 - a2*b1
	if math.Abs(det) < 1e-12 {
		return vector.Zero, false
	}
	x := (b2*c1 - b1*c2) / det
	y := (a1*c2 - a2*c1) / det
	return vector.New(x, y), true
}

// PolygonArea returns the unsigned area of a bare point ring.
func PolygonArea(poly []vector.Vector) float64 {
	return geometry.Area(geometry.FromPoints(poly, 0), false)
}

// SignedArea returns the shoelace signed area (positive for CCW).
func SignedArea(poly []vector.Vector) float64 {
	return geometry.Area(geometry.FromPoints(poly, 0), true)
}

// EnsureCCW returns poly wound counter-clockwise, judged by the sign of
// its shoelace area: poly itself if the area is non-negative, otherwise a
// reversed copy. poly is not modified.
func EnsureCCW(poly []vector.Vector) []vector.Vector {
	if SignedArea(poly) >= 0 {
		return poly
	}
	out := make([]vector.Vector, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = p
	}
	return out
}

// RemoveCollinear drops vertices whose interior angle deviates from a
// straight line by less than angleThreshold radians.
func RemoveCollinear(poly []vector.Vector, angleThreshold float64) []vector.Vector {
	if len(poly) < 4 {
		return poly
	}
	out := make([]vector.Vector, 0, len(poly))
	n := len(poly)
	for i := 0; i < n; i++ {
		prev := at(poly, i-1)
		cur := at(poly, i)
		next := at(poly, i+1)

		v1 := vector.Normalise(vector.Sub(cur, prev))
		v2 := vector.Normalise(vector.Sub(next, cur))
		dot := vector.Dot(v1, v2)
		if dot > 1 {
			dot = 1
		} else if dot < -1 {
			dot = -1
		}
		angle := math.Acos(dot)
		if angle < angleThreshold {
			continue // collinear enough to drop
		}
		out = append(out, cur)
	}
	if len(out) < 3 {
		return poly
	}
	return out
}

// RemoveDuplicates drops consecutive vertices closer than epsilon.
func RemoveDuplicates(poly []vector.Vector, epsilon float64) []vector.Vector {
	if len(poly) == 0 {
		return poly
	}
	eps2 := epsilon * epsilon
	out := make([]vector.Vector, 0, len(poly))
	for i, p := range poly {
		if i == 0 {
			out = append(out, p)
			continue
		}
		if sqdist(p, out[len(out)-1]) <= eps2 {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && sqdist(out[0], out[len(out)-1]) <= eps2 {
		out = out[:len(out)-1]
	}
	return out
}

// IsSimple reports whether poly is a simple polygon: no two non-adjacent
// edges intersect.
func IsSimple(poly []vector.Vector) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := poly[i], poly[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i {
				continue
			}
			b1, b2 := poly[j], poly[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

func segmentsIntersect(a1, a2, b1, b2 vector.Vector) bool {
	d1 := cross3(b1, b2, a1)
	d2 := cross3(b1, b2, a2)
	d3 := cross3(a1, a2, b1)
	d4 := cross3(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

// canSee reports whether the diagonal between vertex i and vertex j of a
// CCW simple polygon lies entirely inside the polygon.
func canSee(poly []vector.Vector, i, j int) bool {
	n := len(poly)
	if i == j {
		return false
	}

	if isReflex(poly, i) {
		if !(isLeftOn(at(poly, i-1), at(poly, i), at(poly, j)) &&
			isRightOn(at(poly, i+1), at(poly, i), at(poly, j))) {
			return false
		}
	} else {
		if isRightOn(at(poly, i+1), at(poly, i), at(poly, j)) ||
			isLeftOn(at(poly, i-1), at(poly, i), at(poly, j)) {
			return false
		}
	}

	if isReflex(poly, j) {
		if !(isLeftOn(at(poly, j-1), at(poly, j), at(poly, i)) &&
			isRightOn(at(poly, j+1), at(poly, j), at(poly, i))) {
			return false
		}
	} else {
		if isRightOn(at(poly, j+1), at(poly, j), at(poly, i)) ||
			isLeftOn(at(poly, j-1), at(poly, j), at(poly, i)) {
			return false
		}
	}

	for k := 0; k < n; k++ {
		k2 := (k + 1) % n
		if k == i || k == j || k2 == i || k2 == j {
			continue
		}
		if segmentsIntersect(at(poly, i), at(poly, j), poly[k], poly[k2]) {
			return false
		}
	}

	return true
}

// polygonSlice returns the vertex chain from index i to index j inclusive,
// walking forward and wrapping around if j < i.
func polygonSlice(poly []vector.Vector, i, j int) []vector.Vector {
	n := len(poly)
	count := j - i
	if count < 0 {
		count += n
	}
	count++

	out := make([]vector.Vector, 0, count)
	for k := 0; k < count; k++ {
		out = append(out, at(poly, i+k))
	}
	return out
}
