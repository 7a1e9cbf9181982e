package resolver

import (
	"math"
	"testing"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/collision"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/vector"
)

func overlappingPair(t *testing.T, restitution, friction float64) (*body.Body, *body.Body, *collision.Pair) {
	t.Helper()
	ids := &entity.IDAllocator{}
	a := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{IsStatic: true, Restitution: restitution, Friction: friction}, ids)
	b := body.Rectangle(vector.New(8, 0), 10, 10, body.Config{Density: 1, Restitution: restitution, Friction: friction}, ids)

	cache := collision.NewCache()
	cache.Update([]collision.Candidate{{BodyA: a, BodyB: b}}, 16.67)
	pairs := cache.Active()
	if len(pairs) != 1 {
		t.Fatalf("expected exactly one active pair, got %d", len(pairs))
	}
	return a, b, pairs[0]
}

func TestSolvePositionSeparatesOverlappingBodies(t *testing.T) {
	_, b, pair := overlappingPair(t, 0, 0.5)
	before := b.Position

	PreSolvePosition([]*collision.Pair{pair})
	SolvePosition([]*collision.Pair{pair})

	if b.PositionImpulse == vector.Zero {
		t.Fatal("expected SolvePosition to queue a nonzero positional impulse for the dynamic body")
	}

	PostSolvePosition([]*body.Body{b})

	if b.Position == before {
		t.Errorf("expected PostSolvePosition to move the dynamic body apart from the static one")
	}
}

func TestSolvePositionConvergesAcrossIterations(t *testing.T) {
	_, b, pair := overlappingPair(t, 0, 0.5)

	PreSolvePosition([]*collision.Pair{pair})
	SolvePosition([]*collision.Pair{pair})
	firstDelta := vector.Magnitude(b.PositionImpulse)

	SolvePosition([]*collision.Pair{pair})
	secondDelta := vector.Magnitude(b.PositionImpulse) - firstDelta

	if secondDelta >= firstDelta {
		t.Errorf("a second pass should queue a smaller residual correction than the first, got %v then %v", firstDelta, secondDelta)
	}
}

func TestSolveVelocityClearsApproachingVelocity(t *testing.T) {
	a, b, pair := overlappingPair(t, 0, 0.2)
	_ = a
	b.Velocity = vector.New(-1, 0) // moving toward A (which sits to B's left)

	SolveVelocity([]*collision.Pair{pair})

	if b.Velocity[0] <= -1 {
		t.Errorf("expected SolveVelocity to reduce approaching velocity, got %v", b.Velocity[0])
	}
}

func TestSolveVelocityRestitutionBouncesFastImpact(t *testing.T) {
	_, b, pair := overlappingPair(t, 1.0, 0)
	b.Velocity = vector.New(-10, 0)

	SolveVelocity([]*collision.Pair{pair})

	if b.Velocity[0] <= 0 {
		t.Errorf("a fast, fully elastic impact should bounce away (positive X velocity), got %v", b.Velocity[0])
	}
}

func TestSolveVelocityFrictionCapsTangentImpulse(t *testing.T) {
	_, b, pair := overlappingPair(t, 0, 1.0)
	b.Velocity = vector.New(-1, 5) // sliding fast tangentially while approaching

	SolveVelocity([]*collision.Pair{pair})

	if math.Abs(b.AngularVelocity) > 50 {
		t.Errorf("friction-induced spin should stay bounded, got %v", b.AngularVelocity)
	}
}
