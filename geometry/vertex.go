// Package geometry implements the pure 2D geometry primitives the
// simulation core is built on: vertex rings, edge-normal axes, and
// axis-aligned bounds. All operations are pure functions over value types;
// nothing here references a body directly (a vertex names its body by
// BodyID, an engine-scoped identity, not a pointer).
package geometry

import "github.com/ionspark/vela2d/vector"

// Vertex is a single point of a body's polygon ring.
//
// Index is the 1-based position of the vertex within its parent body's
// ring. IsInternal flags an edge shared between two parts of a compound
// body; such edges are suppressed from collision and rendering.
type Vertex struct {
	X, Y       float64
	Index      int
	BodyID     uint64
	IsInternal bool
}

// Point returns the vertex's position as a Vector.
func (v Vertex) Point() vector.Vector {
	return vector.New(v.X, v.Y)
}

// Vertices is an ordered polygon ring, clockwise in world space.
type Vertices []Vertex

// FromPoints builds a Vertices ring from bare points, assigning 1-based
// indices and a shared body id.
func FromPoints(points []vector.Vector, bodyID uint64) Vertices {
	verts := make(Vertices, len(points))
	for i, p := range points {
		verts[i] = Vertex{X: p[0], Y: p[1], Index: i + 1, BodyID: bodyID}
	}
	return verts
}

// Clone returns a deep copy of the ring.
func (vs Vertices) Clone() Vertices {
	out := make(Vertices, len(vs))
	copy(out, vs)
	return out
}

// Points returns the ring as bare Vectors.
func (vs Vertices) Points() []vector.Vector {
	out := make([]vector.Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Point()
	}
	return out
}
