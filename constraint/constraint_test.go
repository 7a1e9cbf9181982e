package constraint

import (
	"math"
	"testing"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/vector"
)

func newBodyAt(x, y float64, static bool) *body.Body {
	ids := &entity.IDAllocator{}
	b := body.Rectangle(vector.New(x, y), 10, 10, body.Config{Density: 1, IsStatic: static}, ids)
	return b
}

func TestNewDerivesLengthFromSeparation(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, false)
	b := newBodyAt(10, 0, false)

	c := New(Config{Kind: KindDistance, BodyA: a, BodyB: b}, ids)
	if math.Abs(c.Length-10) > 1e-9 {
		t.Errorf("Length = %v, want 10", c.Length)
	}
}

func TestSolveRigidDistancePullsBodiesTogether(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, true)
	b := newBodyAt(20, 0, false)

	c := New(Config{Kind: KindDistance, BodyA: a, BodyB: b, Length: 10}, ids)

	for i := 0; i < 20; i++ {
		solve(c)
	}

	gotDist := vector.Magnitude(vector.Sub(b.Position, a.Position))
	if math.Abs(gotDist-10) > 1e-3 {
		t.Errorf("post-solve distance = %v, want ~10", gotDist)
	}
}

func TestSolveDoesNotMoveTwoStaticBodies(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, true)
	b := newBodyAt(20, 0, true)
	c := New(Config{Kind: KindDistance, BodyA: a, BodyB: b, Length: 10}, ids)

	beforeA, beforeB := a.Position, b.Position
	solve(c)

	if a.Position != beforeA || b.Position != beforeB {
		t.Errorf("two static bodies should not move: a=%v b=%v", a.Position, b.Position)
	}
}

func TestSpringIsSofterThanDistance(t *testing.T) {
	idsA := &entity.IDAllocator{}
	a1 := newBodyAt(0, 0, true)
	b1 := newBodyAt(20, 0, false)
	rigid := New(Config{Kind: KindDistance, BodyA: a1, BodyB: b1, Length: 10}, idsA)
	solve(rigid)
	rigidDist := vector.Magnitude(vector.Sub(b1.Position, a1.Position))

	idsB := &entity.IDAllocator{}
	a2 := newBodyAt(0, 0, true)
	b2 := newBodyAt(20, 0, false)
	spring := New(Config{Kind: KindSpring, BodyA: a2, BodyB: b2, Length: 10, Stiffness: 0.1}, idsB)
	solve(spring)
	springDist := vector.Magnitude(vector.Sub(b2.Position, a2.Position))

	if math.Abs(springDist-20) >= math.Abs(rigidDist-20) {
		t.Errorf("a soft spring should correct less per step than a rigid distance constraint: spring=%v rigid=%v", springDist, rigidDist)
	}
}

func TestPreSolveAndPostSolveDecayImpulse(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, true)
	b := newBodyAt(20, 0, false)
	// A soft spring never fully converges in one iteration, so its
	// stored impulse stays nonzero for PostSolveAll to decay.
	c := New(Config{Kind: KindSpring, BodyA: a, BodyB: b, Length: 10, Stiffness: 0.1}, ids)

	SolveAll([]*Constraint{c}, 1)
	impulseAfterSolve := c.impulse

	PostSolveAll([]*Constraint{c})
	if vector.Magnitude(c.impulse) >= vector.Magnitude(impulseAfterSolve) {
		t.Errorf("PostSolveAll should decay the stored impulse")
	}
}

func TestSolveAppliesTorqueFromOffCentreAnchor(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, true)
	b := newBodyAt(20, 0, false)
	c := New(Config{
		Kind: KindDistance, BodyA: a, BodyB: b,
		PointA: vector.New(0, 0), PointB: vector.New(0, 5),
		Length: 10,
	}, ids)

	angleBefore := b.Angle
	for i := 0; i < 5; i++ {
		solve(c)
	}

	if b.Angle == angleBefore {
		t.Errorf("an off-centre anchor should rotate the body, angle stayed at %v", angleBefore)
	}
}

func TestSolveDoesNotRotateCentredAnchor(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, true)
	b := newBodyAt(20, 0, false)
	c := New(Config{Kind: KindDistance, BodyA: a, BodyB: b, Length: 10}, ids)

	angleBefore := b.Angle
	solve(c)

	if b.Angle != angleBefore {
		t.Errorf("a centred anchor should not induce torque, angle changed to %v", b.Angle)
	}
}

func TestPinHasNoBodyB(t *testing.T) {
	ids := &entity.IDAllocator{}
	a := newBodyAt(0, 0, false)
	c := New(Config{Kind: KindPin, BodyA: a, WorldPointB: vector.New(50, 0)}, ids)

	if c.BodyB != nil {
		t.Fatalf("pin constraint should have a nil BodyB")
	}
	if math.Abs(c.Length-50) > 1e-9 {
		t.Errorf("Length = %v, want 50", c.Length)
	}
}
