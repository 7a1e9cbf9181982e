// Package constraint implements the distance/spring/pin constraint
// solver (spec.md §4.7): a Gauss-Seidel positional solver with
// warm-started impulses, replacing the teacher's XPBD contact constraint
// with the spec's point-to-point distance formulation.
package constraint

import (
	"math"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/vector"
)

// warmingFactor scales the previous step's impulse carried into the next
// solve, per spec.md §4.7's warm-start constant.
const warmingFactor = 0.4

// minLength is the floor a constraint's current separation is clamped to
// before dividing by it, per spec.md §7's vanishing-length handling.
const minLength = 1e-6

// torqueDampen scales the angular response solve derives from an
// off-centre anchor, per spec.md §6's Constraint._torqueDampen.
const torqueDampen = 1.0

// Kind distinguishes the three constraint flavours the solver supports.
// They differ in the stiffness the solver applies and, for a pin, in
// where the B end is anchored.
type Kind int

const (
	// KindDistance enforces |pointA - pointB| == Length rigidly.
	KindDistance Kind = iota
	// KindSpring relaxes the distance constraint by Stiffness < 1,
	// producing a soft spring rather than a rigid link.
	KindSpring
	// KindPin is a rigid distance constraint anchoring a single body
	// point to a fixed world point (BodyB is nil); like the others, its
	// Length is derived from the initial separation when left at zero.
	KindPin
)

// Config is the explicit constructor record for a Constraint (spec.md §9
// redesign note: no dynamic named-parameter object).
type Config struct {
	Kind Kind

	BodyA, BodyB     *body.Body
	PointA, PointB   vector.Vector // local offsets from each body's position
	WorldPointB      vector.Vector // used instead of BodyB/PointB for a pin

	Length           float64 // 0 means "derive from the bodies' initial separation"
	Stiffness        float64 // default 1 (rigid); < 1 for springs
	Damping          float64
	AngularStiffness float64 // default 0; 1 suppresses the torque response entirely
}

// Constraint links two bodies (or a body and a fixed point) at a target
// separation, enforced by a Gauss-Seidel positional correction each step.
type Constraint struct {
	ID   uint64
	Kind Kind

	BodyA, BodyB   *body.Body
	PointA, PointB vector.Vector
	WorldPointB    vector.Vector

	Length           float64
	Stiffness        float64
	Damping          float64
	AngularStiffness float64

	impulse vector.Vector
}

func (c *Constraint) EntityID() uint64        { return c.ID }
func (c *Constraint) EntityKind() entity.Kind { return entity.KindConstraint }

// New builds a Constraint from cfg, deriving Length from the bodies'
// current separation when cfg.Length is zero.
func New(cfg Config, ids *entity.IDAllocator) *Constraint {
	c := &Constraint{
		ID:               ids.Next(),
		Kind:             cfg.Kind,
		BodyA:            cfg.BodyA,
		BodyB:            cfg.BodyB,
		PointA:           cfg.PointA,
		PointB:           cfg.PointB,
		WorldPointB:      cfg.WorldPointB,
		Length:           cfg.Length,
		Stiffness:        cfg.Stiffness,
		Damping:          cfg.Damping,
		AngularStiffness: cfg.AngularStiffness,
	}

	if c.Stiffness == 0 {
		c.Stiffness = 1
	}

	if c.Length == 0 {
		a := c.worldPointA()
		b := c.worldPointB()
		c.Length = vector.Magnitude(vector.Sub(b, a))
	}

	return c
}

func (c *Constraint) worldPointA() vector.Vector {
	if c.BodyA == nil {
		return c.PointA
	}
	return vector.Add(c.BodyA.Position, vector.Rotate(c.PointA, c.BodyA.Angle))
}

func (c *Constraint) worldPointB() vector.Vector {
	if c.BodyB == nil {
		if c.Kind == KindPin {
			return c.WorldPointB
		}
		return c.PointB
	}
	return vector.Add(c.BodyB.Position, vector.Rotate(c.PointB, c.BodyB.Angle))
}

// effectiveStiffness returns the stiffness the solver should apply this
// step: KindDistance ignores cfg.Stiffness and is always rigid.
func (c *Constraint) effectiveStiffness() float64 {
	if c.Kind == KindDistance || c.Kind == KindPin {
		return 1
	}
	return c.Stiffness
}

// clampSmallVelocity zeroes a body's velocity once it drops below a noise
// floor, matching the teacher's clampSmallVelocities guard against jitter
// from floating point residue in the warm-started impulse accumulation.
func clampSmallVelocity(b *body.Body) {
	const threshold = 1e-5
	if vector.Magnitude(b.Velocity) < threshold {
		b.Velocity = vector.Zero
	}
	if math.Abs(b.AngularVelocity) < threshold {
		b.AngularVelocity = 0
	}
}
