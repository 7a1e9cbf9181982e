// Package vector implements 2D vector arithmetic for the simulation core.
//
// Operations are pure unless an "Into" variant is used, in which case the
// result is written to a caller-supplied output rather than returned, the
// same allocation discipline the teacher applies via sync.Pool scratch
// buffers in its shape support code. Collision detection and the resolver
// use the value-returning forms.
package vector

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a 2D point or direction.
type Vector = mgl64.Vec2

// New builds a Vector from components.
func New(x, y float64) Vector {
	return Vector{x, y}
}

// Zero is the additive identity.
var Zero = Vector{0, 0}

// Add returns a+b.
func Add(a, b Vector) Vector {
	return Vector{a[0] + b[0], a[1] + b[1]}
}

// AddInto writes a+b into out and returns it.
func AddInto(out *Vector, a, b Vector) *Vector {
	out[0] = a[0] + b[0]
	out[1] = a[1] + b[1]
	return out
}

// Sub returns a-b.
func Sub(a, b Vector) Vector {
	return Vector{a[0] - b[0], a[1] - b[1]}
}

// SubInto writes a-b into out and returns it.
func SubInto(out *Vector, a, b Vector) *Vector {
	out[0] = a[0] - b[0]
	out[1] = a[1] - b[1]
	return out
}

// Scale returns v*s.
func Scale(v Vector, s float64) Vector {
	return Vector{v[0] * s, v[1] * s}
}

// ScaleInto writes v*s into out and returns it.
func ScaleInto(out *Vector, v Vector, s float64) *Vector {
	out[0] = v[0] * s
	out[1] = v[1] * s
	return out
}

// Neg returns -v.
func Neg(v Vector) Vector {
	return Vector{-v[0], -v[1]}
}

// Dot returns a·b.
func Dot(a, b Vector) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Cross returns the z-component of the 3D cross product of a and b.
func Cross(a, b Vector) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// CrossScalar rotates v by 90 degrees scaled by s: s×v in the 2D sense used
// for the linear velocity an angular velocity gives an offset point (ω × r).
func CrossScalar(s float64, v Vector) Vector {
	return Vector{-s * v[1], s * v[0]}
}

// Magnitude returns |v|.
func Magnitude(v Vector) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// MagnitudeSquared returns |v|².
func MagnitudeSquared(v Vector) float64 {
	return v[0]*v[0] + v[1]*v[1]
}

// Perp returns the perpendicular of v, rotated 90° (normal*negative flips
// direction, matching the teacher-free matter.js convention used by the
// spec: tangent = perp(normal)).
func Perp(v Vector, negative bool) Vector {
	if negative {
		return Vector{v[1], -v[0]}
	}
	return Vector{-v[1], v[0]}
}

// Normalise returns v scaled to unit length; the zero vector maps to itself.
func Normalise(v Vector) Vector {
	m := Magnitude(v)
	if m < 1e-12 {
		return Vector{0, 0}
	}
	return Vector{v[0] / m, v[1] / m}
}

// Rotate returns v rotated by angle radians about the origin.
func Rotate(v Vector, angle float64) Vector {
	c, s := math.Cos(angle), math.Sin(angle)
	return Vector{v[0]*c - v[1]*s, v[0]*s + v[1]*c}
}

// RotateInto writes v rotated by angle into out and returns it.
func RotateInto(out *Vector, v Vector, angle float64) *Vector {
	c, s := math.Cos(angle), math.Sin(angle)
	x := v[0]*c - v[1]*s
	y := v[0]*s + v[1]*c
	out[0], out[1] = x, y
	return out
}

// Angle returns atan2(b.y-a.y, b.x-a.x).
func Angle(a, b Vector) float64 {
	return math.Atan2(b[1]-a[1], b[0]-a[0])
}
