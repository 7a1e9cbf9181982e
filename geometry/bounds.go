package geometry

import (
	"math"

	"github.com/ionspark/vela2d/vector"
)

// Bounds is an axis-aligned bounding box. The invariant Min <= Max
// (componentwise) holds after any call to Update.
type Bounds struct {
	Min, Max vector.Vector
}

// NewBounds returns an inverted bounds (+inf/-inf) ready to be folded by
// Update — the same "reset to infinity, then fold vertex extents" shape
// spec.md §4.1 requires.
func NewBounds() Bounds {
	return Bounds{
		Min: vector.New(math.Inf(1), math.Inf(1)),
		Max: vector.New(math.Inf(-1), math.Inf(-1)),
	}
}

// Update resets b to the extents of verts, optionally expanding on the
// outbound side of velocity to produce a swept AABB.
func (b *Bounds) Update(verts Vertices, velocity *vector.Vector) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, v := range verts {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}

	if velocity != nil {
		if velocity[0] > 0 {
			maxX += velocity[0]
		} else {
			minX += velocity[0]
		}
		if velocity[1] > 0 {
			maxY += velocity[1]
		} else {
			minY += velocity[1]
		}
	}

	b.Min = vector.New(minX, minY)
	b.Max = vector.New(maxX, maxY)
}

// Overlaps reports whether b and other share any area.
func (b Bounds) Overlaps(other Bounds) bool {
	return b.Min[0] <= other.Max[0] && b.Max[0] >= other.Min[0] &&
		b.Min[1] <= other.Max[1] && b.Max[1] >= other.Min[1]
}

// Contains reports whether point lies within b (inclusive).
func (b Bounds) Contains(point vector.Vector) bool {
	return point[0] >= b.Min[0] && point[0] <= b.Max[0] &&
		point[1] >= b.Min[1] && point[1] <= b.Max[1]
}

// Translate shifts b in place by delta.
func (b *Bounds) Translate(delta vector.Vector) {
	b.Min = vector.Add(b.Min, delta)
	b.Max = vector.Add(b.Max, delta)
}

// Width returns the bounds' extent along x.
func (b Bounds) Width() float64 { return b.Max[0] - b.Min[0] }

// Height returns the bounds' extent along y.
func (b Bounds) Height() float64 { return b.Max[1] - b.Min[1] }
