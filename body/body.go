// Package body implements the rigid body data model and its
// Time-Corrected-Verlet integrator (spec.md §3, §4.4).
package body

import (
	"math"

	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

// InertiaScale is applied to the raw polygon inertia when deriving a
// body's default inertia from its shape (spec.md §6 normative constants).
const InertiaScale = 4.0

// CollisionFilter gates which body pairs the narrowphase will consider.
// Category is expected to have exactly one bit set.
type CollisionFilter struct {
	Category uint32
	Mask     uint32
	Group    int32
}

// DefaultFilter collides with everything and belongs to no group.
var DefaultFilter = CollisionFilter{Category: 1, Mask: 0xFFFFFFFF, Group: 0}

// CanCollide reports whether two filters permit a collision: a shared
// nonzero group overrides the category/mask test (positive group always
// collides, negative group never does); otherwise category/mask must
// intersect both ways.
func CanCollide(a, b CollisionFilter) bool {
	if a.Group != 0 && a.Group == b.Group {
		return a.Group > 0
	}
	return a.Category&b.Mask != 0 && b.Category&a.Mask != 0
}

// Region is the last grid range a body occupied, used by the broadphase
// to perform incremental (rather than full-rebuild) updates.
type Region struct {
	MinX, MinY, MaxX, MaxY int
	Valid                  bool
}

// Equal reports whether two regions cover the same cell range.
func (r Region) Equal(o Region) bool {
	return r.Valid == o.Valid && r.MinX == o.MinX && r.MinY == o.MinY && r.MaxX == o.MaxX && r.MaxY == o.MaxY
}

// staticSnapshot preserves a dynamic body's mass properties across a
// SetStatic(true)/SetStatic(false) round trip.
type staticSnapshot struct {
	density, mass, inverseMass, inertia, inverseInertia float64
	restitution, friction                               float64
}

// Body is a convex polygon rigid body, or the root of a compound body.
type Body struct {
	ID    uint64
	Label string

	Position, PositionPrev vector.Vector
	Angle, AnglePrev       float64

	Velocity        vector.Vector // derived each Update
	AngularVelocity float64       // derived each Update
	Speed           float64
	AngularSpeed    float64
	Motion          float64 // biased EMA consumed by the sleeping controller

	Force  vector.Vector
	Torque float64

	Density, Mass, InverseMass       float64
	Inertia, InverseInertia          float64
	Restitution, Friction            float64
	FrictionStatic, FrictionAir      float64
	Slop                             float64
	TimeScale                        float64

	Vertices     geometry.Vertices
	Axes         geometry.Axes
	Bounds       geometry.Bounds
	CircleRadius float64 // > 0 if this body approximates a circle

	Parts  []*Body // Parts[0] == this body
	Parent *Body   // points to the compound root; itself if not nested

	Filter CollisionFilter

	IsStatic, IsSensor, IsSleeping bool
	SleepThreshold                 int
	SleepCounter                   int
	TotalContacts                  int

	PositionImpulse          vector.Vector
	ConstraintImpulsePos     vector.Vector
	ConstraintImpulseAngle   float64

	Region Region

	original *staticSnapshot
}

func (b *Body) EntityID() uint64        { return b.ID }
func (b *Body) EntityKind() entity.Kind { return entity.KindBody }

// Area returns the polygon area of the body's own (non-compound) shape.
func (b *Body) Area() float64 {
	return geometry.Area(b.Vertices, false)
}

// CompoundArea sums the area of every part.
func (b *Body) CompoundArea() float64 {
	total := 0.0
	for _, p := range b.Parts {
		total += p.Area()
	}
	return total
}

// recomputeGeometry rebuilds axes and bounds from the current vertex ring.
func (b *Body) recomputeGeometry() {
	b.Axes = geometry.FromVertices(b.Vertices)
	b.Bounds.Update(b.Vertices, nil)
}

// SetVertices reorients verts so the polygon centroid sits at the body's
// local origin, recomputes area/mass/inertia from the new shape, and
// translates the ring out to the body's current world position
// (spec.md §4.4).
func (b *Body) SetVertices(verts geometry.Vertices) {
	centre := geometry.Centre(verts)
	geometry.Translate(verts, vector.Neg(centre))
	for i := range verts {
		verts[i].Index = i + 1
		verts[i].BodyID = b.ID
	}

	b.Vertices = verts
	geometry.Translate(b.Vertices, b.Position)

	b.setMassFromShape()
	b.recomputeGeometry()
}

// setMassFromShape derives Mass/Density/Inertia from the current vertex
// ring, preserving the caller's density if one was set, per spec.md §4.4
// ("Mass defaults to density·area; inertia to Body._inertiaScale ·
// polygon_inertia(verts, mass)").
func (b *Body) setMassFromShape() {
	if b.Density == 0 {
		b.Density = 1e-3
	}
	area := geometry.Area(b.Vertices, false)
	mass := b.Density * area
	b.SetMass(mass)
}

// SetMass sets mass (and derived inverse mass), rescaling inertia to
// preserve the inertia/(mass/6) ratio per spec.md §4.4.
func (b *Body) SetMass(mass float64) {
	var ratio float64
	if b.Mass > 0 {
		ratio = mass / b.Mass
	}

	b.Mass = mass
	if b.IsStatic || mass <= 0 {
		b.InverseMass = 0
	} else {
		b.InverseMass = 1 / mass
	}

	area := geometry.Area(b.Vertices, false)
	if area > 0 {
		b.Density = b.Mass / area
	}

	if ratio > 0 {
		b.SetInertia(b.Inertia * ratio)
	} else {
		b.SetInertia(InertiaScale * polygonInertiaAboutOrigin(b.Vertices, b.Position, mass))
	}
}

// SetDensity sets density, recomputing mass (and inertia, via SetMass)
// from the current area.
func (b *Body) SetDensity(density float64) {
	b.Density = density
	area := geometry.Area(b.Vertices, false)
	b.SetMass(density * area)
}

// SetInertia sets inertia (and derived inverse inertia).
func (b *Body) SetInertia(inertia float64) {
	b.Inertia = inertia
	if b.IsStatic || inertia <= 0 {
		b.InverseInertia = 0
	} else {
		b.InverseInertia = 1 / inertia
	}
}

func polygonInertiaAboutOrigin(verts geometry.Vertices, position vector.Vector, mass float64) float64 {
	local := verts.Clone()
	geometry.Translate(local, vector.Neg(position))
	return geometry.Inertia(local, mass)
}

// SetStatic toggles the static/dynamic mass invariant (spec.md §4.4): a
// static body gets infinite mass/inertia and zero inverses, restitution 0,
// friction 1, and loses its velocity; going back to dynamic restores the
// snapshot taken on the way in.
func (b *Body) SetStatic(static bool) {
	if static == b.IsStatic {
		return
	}

	if static {
		b.original = &staticSnapshot{
			density:        b.Density,
			mass:           b.Mass,
			inverseMass:    b.InverseMass,
			inertia:        b.Inertia,
			inverseInertia: b.InverseInertia,
			restitution:    b.Restitution,
			friction:       b.Friction,
		}

		b.IsStatic = true
		b.Restitution = 0
		b.Friction = 1
		b.Mass = math.Inf(1)
		b.Inertia = math.Inf(1)
		b.InverseMass = 0
		b.InverseInertia = 0
		b.Velocity = vector.Zero
		b.AngularVelocity = 0
		b.PositionPrev = b.Position
		b.AnglePrev = b.Angle
	} else {
		b.IsStatic = false
		if b.original != nil {
			b.Density = b.original.density
			b.Mass = b.original.mass
			b.InverseMass = b.original.inverseMass
			b.Inertia = b.original.inertia
			b.InverseInertia = b.original.inverseInertia
			b.Restitution = b.original.restitution
			b.Friction = b.original.friction
			b.original = nil
		}
	}

	for _, p := range b.Parts {
		if p == b {
			continue
		}
		p.SetStatic(static)
	}
}

// SetPosition moves the body (and all of its parts) to position, in place.
func (b *Body) SetPosition(position vector.Vector) {
	delta := vector.Sub(position, b.Position)
	b.Position = position
	for _, p := range b.Parts {
		geometry.Translate(p.Vertices, delta)
		if p != b {
			p.Position = vector.Add(p.Position, delta)
		}
		p.Bounds.Update(p.Vertices, nil)
	}
}

// SetAngle rotates the body (and all of its parts) to angle, about the
// body's own position (parts additionally orbit the root).
func (b *Body) SetAngle(angle float64) {
	delta := angle - b.Angle
	b.Rotate(delta)
}

// Rotate rotates the body in place by delta radians.
func (b *Body) Rotate(delta float64) {
	if delta == 0 {
		return
	}
	b.Angle += delta
	for _, p := range b.Parts {
		geometry.Rotate(p.Vertices, delta, b.Position)
		p.Axes = p.Axes.Rotate(delta)
		if p != b {
			p.Position = vector.Add(b.Position, vector.Rotate(vector.Sub(p.Position, b.Position), delta))
			p.Angle += delta
		}
		p.Bounds.Update(p.Vertices, nil)
	}
}

// Translate shifts the body (and its parts) by delta.
func (b *Body) Translate(delta vector.Vector) {
	b.SetPosition(vector.Add(b.Position, delta))
}

// Scale scales the body's own vertex ring about its position and
// recomputes mass properties. It does not recurse into compound parts;
// callers scale each part individually, matching the teacher/vertex-level
// granularity of Vertices.Scale.
func (b *Body) Scale(scaleX, scaleY float64) {
	geometry.Scale(b.Vertices, scaleX, scaleY, b.Position)
	b.setMassFromShape()
	b.recomputeGeometry()
}

// SetParts assembles a compound body from parts (which must include b as
// parts[0], or will have it prepended). If autoHull is true, b's own
// vertex ring is replaced by the convex hull of every part's vertices;
// mass/area/inertia are aggregated via the parallel-axis theorem and the
// compound's position is reset to the mass-weighted centroid of its parts
// (spec.md §4.4).
func (b *Body) SetParts(parts []*Body, autoHull bool) {
	hasSelf := false
	for _, p := range parts {
		if p == b {
			hasSelf = true
			break
		}
	}
	if !hasSelf {
		parts = append([]*Body{b}, parts...)
	} else if parts[0] != b {
		reordered := make([]*Body, 0, len(parts))
		reordered = append(reordered, b)
		for _, p := range parts {
			if p != b {
				reordered = append(reordered, p)
			}
		}
		parts = reordered
	}

	b.Parts = parts
	for _, p := range parts {
		p.Parent = b
	}

	if autoHull {
		allPoints := make([]vector.Vector, 0, 16)
		for _, p := range parts {
			allPoints = append(allPoints, p.Vertices.Points()...)
		}
		hull := geometry.Hull(allPoints)
		b.SetVertices(geometry.FromPoints(hull, b.ID))
	}

	// Capture the root's own mass/position before it is reassigned to the
	// aggregate centroid below; the root contributes to the sum like
	// any other part even though it also holds the compound's identity.
	rootMass, rootPosition := b.Mass, b.Position

	var totalMass, totalInertia float64
	var weightedCentre vector.Vector
	contributes := func(p *Body) (mass float64, position vector.Vector, inertia float64, ok bool) {
		if p == b {
			mass, position, inertia = rootMass, rootPosition, b.Inertia
		} else {
			mass, position, inertia = p.Mass, p.Position, p.Inertia
		}
		if mass <= 0 || math.IsInf(mass, 1) {
			return 0, vector.Zero, 0, false
		}
		return mass, position, inertia, true
	}

	for _, p := range parts {
		mass, position, _, ok := contributes(p)
		if !ok {
			continue
		}
		totalMass += mass
		weightedCentre = vector.Add(weightedCentre, vector.Scale(position, mass))
	}

	if totalMass > 0 {
		centre := vector.Scale(weightedCentre, 1/totalMass)

		for _, p := range parts {
			mass, position, inertia, ok := contributes(p)
			if !ok {
				continue
			}
			offset := vector.Sub(position, centre)
			totalInertia += inertia + mass*vector.MagnitudeSquared(offset)
		}

		// Only the compound's reference point moves; every part keeps its
		// world-space geometry.
		shift := vector.Sub(centre, b.Position)
		b.Position = centre
		b.PositionPrev = vector.Add(b.PositionPrev, shift)
		b.Mass = totalMass
		b.InverseMass = 1 / totalMass
		b.SetInertia(totalInertia)
	}
}

// ApplyForce adds a linear force at a world-space point, and the torque
// that offset force induces about the body's position.
func (b *Body) ApplyForce(point, force vector.Vector) {
	b.Force = vector.Add(b.Force, force)
	offset := vector.Sub(point, b.Position)
	b.Torque += vector.Cross(offset, force)
}

// ClearForces zeroes the force/torque accumulators.
func (b *Body) ClearForces() {
	b.Force = vector.Zero
	b.Torque = 0
}

// Update integrates the body's motion for one step of size delta
// (milliseconds, matching Engine.Step's convention), scaled by timeScale
// and the resolver's correction factor, using Time-Corrected Verlet
// (spec.md §4.4):
//
//	dts  = (delta·timeScale·body.TimeScale)²
//	damp = 1 - frictionAir·timeScale·body.TimeScale
func (b *Body) Update(delta, timeScale, correction float64) {
	if b.IsStatic || b.IsSleeping {
		return
	}

	ts := timeScale * b.TimeScale
	if ts == 0 {
		ts = timeScale
	}
	dts := (delta * ts) * (delta * ts)
	damp := 1 - b.FrictionAir*ts

	velocityPrev := vector.Sub(b.Position, b.PositionPrev)
	accel := vector.Scale(b.Force, b.InverseMass*dts)
	velocity := vector.Add(vector.Scale(velocityPrev, damp*correction), accel)

	b.PositionPrev = b.Position
	b.Position = vector.Add(b.Position, velocity)

	angularVelocityPrev := b.Angle - b.AnglePrev
	angularAccel := b.Torque * b.InverseInertia * dts
	angularVelocity := angularVelocityPrev*damp*correction + angularAccel

	b.AnglePrev = b.Angle
	b.Angle += angularVelocity

	b.Velocity = velocity
	b.AngularVelocity = angularVelocity
	b.Speed = vector.Magnitude(velocity)
	b.AngularSpeed = math.Abs(angularVelocity)

	posDelta := velocity
	for _, p := range b.Parts {
		if p == b {
			geometry.Translate(p.Vertices, posDelta)
		} else {
			geometry.Translate(p.Vertices, posDelta)
			p.Position = vector.Add(p.Position, posDelta)
		}
		if angularVelocity != 0 {
			geometry.Rotate(p.Vertices, angularVelocity, b.Position)
			p.Axes = p.Axes.Rotate(angularVelocity)
			if p != b {
				p.Position = vector.Add(b.Position, vector.Rotate(vector.Sub(p.Position, b.Position), angularVelocity))
			}
		}
		p.Bounds.Update(p.Vertices, &velocity)
	}
}

// Sleep puts the body to sleep: velocities are zeroed and PositionPrev is
// snapped to Position so no residual motion leaks into the next Update.
func (b *Body) Sleep() {
	b.IsSleeping = true
	b.SleepCounter = 0
	b.Motion = 0
	b.Velocity = vector.Zero
	b.AngularVelocity = 0
	b.Speed = 0
	b.AngularSpeed = 0
	b.PositionPrev = b.Position
	b.AnglePrev = b.Angle
}

// Wake clears the sleeping flag and resets the sleep counter.
func (b *Body) Wake() {
	b.IsSleeping = false
	b.SleepCounter = 0
}
