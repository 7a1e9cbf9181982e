// Package collision implements the SAT narrowphase and the fingerprinted
// pair cache that tracks contact lifecycle across steps (spec.md §4.9,
// §4.10).
package collision

import (
	"math"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

// coherenceMotionThreshold bounds how much combined motion the two
// bodies may have had since the last step for the cached separating axis
// to be retried first (spec.md §4.9's axis-coherence reuse).
const coherenceMotionThreshold = 3.0

// Manifold describes the overlap (or separating axis, if no overlap)
// found by SAT between two bodies' single convex parts.
type Manifold struct {
	BodyA, BodyB *body.Body

	Overlapping bool
	Normal      vector.Vector // points from A toward B
	Depth       float64

	ContactPoints []vector.Vector
	ContactIDs    []uint32 // stable per contact, for warm-starting

	SeparatingAxis vector.Vector
}

// Test runs SAT between two single-part bodies' vertex rings. When
// prevAxis is set and the bodies' combined motion is small (coherence
// reuse), only prevAxis is tested: a gap on it reports separation and an
// overlap on it builds the manifold along it. Otherwise every axis of
// both bodies is scanned.
func Test(a, b *body.Body, prevAxis *vector.Vector) Manifold {
	combinedMotion := a.Speed + b.Speed +
		math.Abs(a.AngularSpeed)*boundingRadius(a) + math.Abs(b.AngularSpeed)*boundingRadius(b)

	if prevAxis != nil && combinedMotion < coherenceMotionThreshold {
		overlap := projectOverlap(a.Vertices, b.Vertices, *prevAxis)
		if overlap < 0 {
			return Manifold{BodyA: a, BodyB: b, Overlapping: false, SeparatingAxis: *prevAxis}
		}
		return buildManifold(a, b, *prevAxis, overlap)
	}

	return fullSAT(a, b)
}

func boundingRadius(b *body.Body) float64 {
	return math.Max(b.Bounds.Width(), b.Bounds.Height()) / 2
}

// fullSAT scans every axis of both bodies, keeping the axis of minimum
// penetration. Ties (within epsilon) favour whichever axis was tested
// first, which is always one of A's axes before B's — a deterministic
// "A wins" rule independent of map/slice iteration order elsewhere in
// the engine.
func fullSAT(a, b *body.Body) Manifold {
	const tieEpsilon = 1e-9

	bestDepth := math.Inf(1)
	var bestAxis vector.Vector
	found := false

	for _, axis := range a.Axes {
		overlap := projectOverlap(a.Vertices, b.Vertices, axis)
		if overlap < 0 {
			return Manifold{BodyA: a, BodyB: b, Overlapping: false, SeparatingAxis: axis}
		}
		if overlap < bestDepth-tieEpsilon {
			bestDepth = overlap
			bestAxis = axis
			found = true
		}
	}
	for _, axis := range b.Axes {
		overlap := projectOverlap(a.Vertices, b.Vertices, axis)
		if overlap < 0 {
			return Manifold{BodyA: a, BodyB: b, Overlapping: false, SeparatingAxis: axis}
		}
		if overlap < bestDepth-tieEpsilon {
			bestDepth = overlap
			bestAxis = axis
			found = true
		}
	}

	if !found {
		return Manifold{BodyA: a, BodyB: b, Overlapping: false}
	}

	return buildManifold(a, b, bestAxis, bestDepth)
}

// projectOverlap projects both rings onto axis and returns the signed
// overlap: negative means the intervals are disjoint (axis separates
// them), positive is the penetration depth along axis.
func projectOverlap(va, vb geometry.Vertices, axis vector.Vector) float64 {
	minA, maxA := projectToAxis(va, axis)
	minB, maxB := projectToAxis(vb, axis)

	if minA > maxB || minB > maxA {
		return -1
	}
	return math.Min(maxA, maxB) - math.Max(minA, minB)
}

func projectToAxis(verts geometry.Vertices, axis vector.Vector) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		d := vector.Dot(v.Point(), axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return
}

// buildManifold orients normal from A to B and extracts the contact
// points by single/double support-vertex selection, without edge
// clipping: the deepest vertex of the incident body, plus a neighbour
// if it is equally deep to within deepestVertices' fixed 1e-6 tolerance
// (an edge-on-edge contact).
func buildManifold(a, b *body.Body, axis vector.Vector, depth float64) Manifold {
	centreDelta := vector.Sub(geometry.Centre(b.Vertices), geometry.Centre(a.Vertices))
	normal := axis
	if vector.Dot(centreDelta, normal) < 0 {
		normal = vector.Neg(normal)
	}

	incident := b
	incidentSign := 1.0
	if vector.Dot(normal, vector.Sub(geometry.Centre(a.Vertices), geometry.Centre(b.Vertices))) > 0 {
		incident = a
		incidentSign = -1.0
	}

	support := deepestVertices(incident.Vertices, vector.Scale(normal, incidentSign))

	points := make([]vector.Vector, 0, 2)
	ids := make([]uint32, 0, 2)
	for _, v := range support {
		points = append(points, v.Point())
		ids = append(ids, contactID(v.BodyID, v.Index))
	}

	return Manifold{
		BodyA: a, BodyB: b,
		Overlapping:   true,
		Normal:        normal,
		Depth:         depth,
		ContactPoints: points,
		ContactIDs:    ids,
	}
}

// deepestVertices returns the single vertex with the most negative
// projection onto direction, plus a neighbour if it is within slop of
// equally deep (producing a 2-point face contact instead of a single
// vertex contact).
func deepestVertices(verts geometry.Vertices, direction vector.Vector) geometry.Vertices {
	const slop = 1e-6

	n := len(verts)
	if n == 0 {
		return nil
	}

	bestIdx := 0
	bestProj := vector.Dot(verts[0].Point(), direction)
	for i := 1; i < n; i++ {
		p := vector.Dot(verts[i].Point(), direction)
		if p < bestProj {
			bestProj = p
			bestIdx = i
		}
	}

	prevIdx := (bestIdx - 1 + n) % n
	nextIdx := (bestIdx + 1) % n

	prevProj := vector.Dot(verts[prevIdx].Point(), direction)
	nextProj := vector.Dot(verts[nextIdx].Point(), direction)

	out := geometry.Vertices{verts[bestIdx]}
	if math.Abs(prevProj-bestProj) < slop && prevProj <= nextProj {
		out = append(out, verts[prevIdx])
	} else if math.Abs(nextProj-bestProj) < slop {
		out = append(out, verts[nextIdx])
	}
	return out
}

// contactID derives a stable per-contact fingerprint from the
// contributing vertex's owning body and index, used to match warm-start
// impulses across steps even as other contacts in the manifold churn.
func contactID(bodyID uint64, index int) uint32 {
	return uint32(bodyID)*131 + uint32(index)
}
