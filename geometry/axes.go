package geometry

import (
	"math"
	"sort"

	"github.com/ionspark/vela2d/vector"
)

// Axes is the deduplicated set of unit edge-normals of a polygon. Two edges
// that are numerically parallel (same gradient, to 3 decimal places) share
// a single axis, so a symmetric polygon (e.g. a rectangle) yields 2 axes
// rather than 4.
type Axes []vector.Vector

// gradientKey buckets a normal by the slope of the normal, quantized to 3
// decimal places per spec.md §4.1. A normal with y == 0 cannot be divided
// by y, so it is mapped to a fixed sentinel key instead.
const gradientSentinel = math.MaxInt32

func gradientKey(n vector.Vector) int64 {
	if n[1] == 0 {
		return gradientSentinel
	}
	slope := n[0] / n[1]
	return int64(math.Round(slope * 1000))
}

// FromVertices computes the unit edge-normal set of a clockwise polygon
// ring, one entry per unique edge gradient.
func FromVertices(verts Vertices) Axes {
	seen := make(map[int64]bool, len(verts))
	axes := make(Axes, 0, len(verts))

	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]

		edge := vector.New(b.X-a.X, b.Y-a.Y)
		normal := vector.Normalise(vector.New(-edge[1], edge[0]))
		if vector.MagnitudeSquared(normal) < 1e-20 {
			continue
		}

		key := gradientKey(normal)
		if seen[key] {
			continue
		}
		seen[key] = true
		axes = append(axes, normal)
	}

	return axes
}

// Rotate returns a new Axes set with every axis rotated by angle.
func (a Axes) Rotate(angle float64) Axes {
	out := make(Axes, len(a))
	for i, v := range a {
		out[i] = vector.Rotate(v, angle)
	}
	return out
}

// Sorted returns a axes sorted by angle, useful for deterministic test
// comparisons.
func (a Axes) Sorted() Axes {
	out := make(Axes, len(a))
	copy(out, a)
	sort.Slice(out, func(i, j int) bool {
		return math.Atan2(out[i][1], out[i][0]) < math.Atan2(out[j][1], out[j][0])
	})
	return out
}
