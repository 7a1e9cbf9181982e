package body

import (
	"errors"
	"math"
	"testing"

	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

func newAllocator() *entity.IDAllocator { return &entity.IDAllocator{} }

func TestRectangleMassAndArea(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(0, 0), 10, 20, Config{Density: 2}, ids)

	wantArea := 200.0
	if got := b.Area(); math.Abs(got-wantArea) > 1e-9 {
		t.Errorf("Area() = %v, want %v", got, wantArea)
	}
	if got := b.Mass; math.Abs(got-400) > 1e-9 {
		t.Errorf("Mass = %v, want 400", got)
	}
	if b.InverseMass <= 0 {
		t.Errorf("InverseMass should be positive for a dynamic body")
	}
}

func TestSetStaticRoundTrip(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(0, 0), 10, 10, Config{Density: 1, Restitution: 0.3, Friction: 0.2}, ids)
	originalMass := b.Mass
	originalRestitution := b.Restitution
	originalFriction := b.Friction

	b.SetStatic(true)
	if !b.IsStatic {
		t.Fatal("expected IsStatic true")
	}
	if b.InverseMass != 0 || b.InverseInertia != 0 {
		t.Errorf("static body should have zero inverse mass/inertia, got %v %v", b.InverseMass, b.InverseInertia)
	}
	if !math.IsInf(b.Mass, 1) {
		t.Errorf("static body mass should be +Inf, got %v", b.Mass)
	}

	b.SetStatic(false)
	if b.IsStatic {
		t.Fatal("expected IsStatic false after round trip")
	}
	if math.Abs(b.Mass-originalMass) > 1e-9 {
		t.Errorf("Mass after round trip = %v, want %v", b.Mass, originalMass)
	}
	if math.Abs(b.Restitution-originalRestitution) > 1e-9 {
		t.Errorf("Restitution after round trip = %v, want %v", b.Restitution, originalRestitution)
	}
	if math.Abs(b.Friction-originalFriction) > 1e-9 {
		t.Errorf("Friction after round trip = %v, want %v", b.Friction, originalFriction)
	}
}

func TestUpdateIntegratesPosition(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(0, 0), 10, 10, Config{Density: 1, FrictionAir: 0}, ids)
	b.PositionPrev = vector.New(-1, 0) // simulate an existing velocity of (1, 0) per step

	b.Update(1, 1, 1)

	// A zero FrictionAir takes the 0.01 default, so the carried velocity
	// is damped by 1 - 0.01.
	if math.Abs(b.Position[0]-0.99) > 1e-9 {
		t.Errorf("Position.X = %v, want 0.99", b.Position[0])
	}
	if math.Abs(b.Velocity[0]-0.99) > 1e-9 {
		t.Errorf("Velocity.X = %v, want 0.99", b.Velocity[0])
	}
}

func TestUpdateSkipsStaticAndSleeping(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(5, 5), 10, 10, Config{IsStatic: true}, ids)
	before := b.Position
	b.Update(1, 1, 1)
	if b.Position != before {
		t.Errorf("static body moved: %v -> %v", before, b.Position)
	}

	b2 := Rectangle(vector.New(5, 5), 10, 10, Config{}, ids)
	b2.Sleep()
	before2 := b2.Position
	b2.Update(1, 1, 1)
	if b2.Position != before2 {
		t.Errorf("sleeping body moved: %v -> %v", before2, b2.Position)
	}
}

func TestApplyForceAddsTorqueFromOffset(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(0, 0), 10, 10, Config{}, ids)
	b.ApplyForce(vector.New(5, 0), vector.New(0, 1))
	if b.Torque == 0 {
		t.Errorf("expected nonzero torque from an off-centre force")
	}
}

func TestSetPositionMovesParts(t *testing.T) {
	ids := newAllocator()
	root := Rectangle(vector.New(0, 0), 10, 10, Config{}, ids)
	limb := Rectangle(vector.New(10, 0), 4, 4, Config{}, ids)
	root.SetParts([]*Body{limb}, false)

	root.SetPosition(vector.New(20, 0))

	if math.Abs(root.Position[0]-20) > 1e-9 {
		t.Errorf("root.Position.X = %v, want 20", root.Position[0])
	}
}

func TestSetPartsAggregatesMass(t *testing.T) {
	ids := newAllocator()
	root := Rectangle(vector.New(0, 0), 10, 10, Config{Density: 1}, ids)
	limb := Rectangle(vector.New(10, 0), 10, 10, Config{Density: 1}, ids)
	rootMass, limbMass := root.Mass, limb.Mass

	root.SetParts([]*Body{limb}, false)

	if math.Abs(root.Mass-(rootMass+limbMass)) > 1e-6 {
		t.Errorf("compound Mass = %v, want %v", root.Mass, rootMass+limbMass)
	}
	if len(root.Parts) != 2 || root.Parts[0] != root {
		t.Fatalf("Parts[0] must be the root body")
	}
}

func TestFromVerticesRejectsDegenerateInput(t *testing.T) {
	ids := newAllocator()
	_, err := FromVertices(vector.New(0, 0), []vector.Vector{{0, 0}, {1, 0}}, Config{}, ids)
	if !errors.Is(err, geometry.ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry for a 2-point ring, got %v", err)
	}
}

func TestFromVerticesConvexRingBuildsASinglePart(t *testing.T) {
	ids := newAllocator()
	square := []vector.Vector{{-10, -10}, {10, -10}, {10, 10}, {-10, 10}}
	b, err := FromVertices(vector.New(50, 50), square, Config{Density: 1}, ids)
	if err != nil {
		t.Fatalf("FromVertices() error = %v", err)
	}
	if len(b.Parts) != 1 {
		t.Errorf("a convex ring should produce a single-part body, got %d parts", len(b.Parts))
	}
	if math.Abs(b.Position[0]-50) > 1e-6 || math.Abs(b.Position[1]-50) > 1e-6 {
		t.Errorf("Position = %v, want (50, 50)", b.Position)
	}
}

func TestFromVerticesConcaveRingDecomposesIntoParts(t *testing.T) {
	ids := newAllocator()
	// A concave pentagon (an indentation on its top edge).
	concave := []vector.Vector{{-10, 10}, {-10, -10}, {10, -10}, {10, 10}, {0, 0}}
	b, err := FromVertices(vector.New(0, 0), concave, Config{Density: 1}, ids)
	if err != nil {
		t.Fatalf("FromVertices() error = %v", err)
	}
	if len(b.Parts) < 2 {
		t.Errorf("a concave ring should decompose into at least 2 parts, got %d", len(b.Parts))
	}
	if b.Mass <= 0 {
		t.Errorf("compound body should have aggregated a positive mass, got %v", b.Mass)
	}
}

func TestInverseMassAndInertiaAreReciprocals(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(0, 0), 10, 20, Config{Density: 2}, ids)

	if got, want := b.InverseMass, 1/b.Mass; math.Abs(got-want) > 1e-9 {
		t.Errorf("InverseMass = %v, want %v", got, want)
	}
	if got, want := b.InverseInertia, 1/b.Inertia; math.Abs(got-want) > 1e-9 {
		t.Errorf("InverseInertia = %v, want %v", got, want)
	}
}

func TestStaticBodyNeverMovesOrGainsVelocity(t *testing.T) {
	ids := newAllocator()
	b := Rectangle(vector.New(5, 5), 10, 10, Config{IsStatic: true}, ids)
	b.ApplyForce(vector.New(6, 5), vector.New(100, 100))

	angleBefore, posBefore := b.Angle, b.Position
	b.Update(1000.0/60.0, 1, 1)

	if b.Position != posBefore {
		t.Errorf("static body position changed: %v -> %v", posBefore, b.Position)
	}
	if b.Angle != angleBefore {
		t.Errorf("static body angle changed: %v -> %v", angleBefore, b.Angle)
	}
	if b.Velocity != vector.Zero || b.AngularVelocity != 0 {
		t.Errorf("static body should never accumulate velocity, got %v / %v", b.Velocity, b.AngularVelocity)
	}
}

func TestCanCollideFilters(t *testing.T) {
	a := DefaultFilter
	b := DefaultFilter
	if !CanCollide(a, b) {
		t.Errorf("default filters should collide")
	}

	a.Group, b.Group = 5, 5
	if !CanCollide(a, b) {
		t.Errorf("shared positive group should always collide")
	}
	a.Group, b.Group = -5, -5
	if CanCollide(a, b) {
		t.Errorf("shared negative group should never collide")
	}

	a.Group, b.Group = 0, 0
	a.Category, a.Mask = 1, 2
	b.Category, b.Mask = 2, 1
	if !CanCollide(a, b) {
		t.Errorf("category/mask should intersect both ways")
	}
	b.Mask = 4
	if CanCollide(a, b) {
		t.Errorf("category/mask should not intersect")
	}
}
