package constraint

import (
	"math"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/vector"
)

// PreSolveAll primes every constraint's cached impulse for warm-starting:
// a fraction of last step's correcting impulse is reapplied immediately,
// so the Gauss-Seidel pass below starts close to the converged solution
// instead of from zero (spec.md §4.7).
func PreSolveAll(constraints []*Constraint) {
	for _, c := range constraints {
		if c.BodyA == nil && c.BodyB == nil {
			continue
		}
		applyImpulse(c, vector.Scale(c.impulse, warmingFactor))
	}
}

// SolveAll runs iterations passes of Gauss-Seidel correction over
// constraints, those anchored to a fixed body (static or nil) first so
// movable bodies settle against an already-solved anchor within the same
// pass.
func SolveAll(constraints []*Constraint, iterations int) {
	if iterations <= 0 {
		iterations = 1
	}

	fixed, free := partitionByMobility(constraints)

	for i := 0; i < iterations; i++ {
		for _, c := range fixed {
			solve(c)
		}
		for _, c := range free {
			solve(c)
		}
	}
}

// PostSolveAll wakes any sleeping body whose constraint carries a
// nonzero impulse, then decays each constraint's stored impulse toward
// the value warm-starting should carry into the next step.
func PostSolveAll(constraints []*Constraint) {
	for _, c := range constraints {
		if c.impulse != vector.Zero {
			for _, b := range []*body.Body{c.BodyA, c.BodyB} {
				if b != nil && !b.IsStatic && b.IsSleeping {
					b.Wake()
				}
			}
		}
		c.impulse = vector.Scale(c.impulse, warmingFactor)
		if c.BodyA != nil {
			clampSmallVelocity(c.BodyA)
		}
		if c.BodyB != nil {
			clampSmallVelocity(c.BodyB)
		}
	}
}

// partitionByMobility splits constraints into those with at least one
// immovable endpoint (static, or a nil body meaning a fixed world point)
// and those joining two free bodies, so the anchored set can be solved
// first each iteration (spec.md §4.7's two-pass ordering).
func partitionByMobility(constraints []*Constraint) (fixed, free []*Constraint) {
	isFixedBody := func(b *body.Body) bool {
		return b == nil || b.IsStatic
	}
	for _, c := range constraints {
		if isFixedBody(c.BodyA) || isFixedBody(c.BodyB) {
			fixed = append(fixed, c)
		} else {
			free = append(free, c)
		}
	}
	return
}

// solve performs one Gauss-Seidel correction: the current separation
// error is projected onto the line between the two anchor points and
// distributed between the bodies in proportion to their inverse mass
// (an immovable body absorbs none of the correction).
func solve(c *Constraint) {
	pointA := c.worldPointA()
	pointB := c.worldPointB()

	delta := vector.Sub(pointB, pointA)
	currentLength := math.Max(vector.Magnitude(delta), minLength)

	stiffness := c.effectiveStiffness()
	diff := (currentLength - c.Length) / currentLength * stiffness

	invMassA, invMassB := 0.0, 0.0
	if c.BodyA != nil && !c.BodyA.IsStatic {
		invMassA = c.BodyA.InverseMass
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		invMassB = c.BodyB.InverseMass
	}

	totalInverseMass := invMassA + invMassB
	if totalInverseMass == 0 {
		return
	}

	shareA := invMassA / totalInverseMass
	shareB := invMassB / totalInverseMass

	correction := vector.Scale(delta, diff)
	c.impulse = correction

	if c.BodyA != nil && !c.BodyA.IsStatic {
		offset := vector.Scale(correction, shareA)
		c.BodyA.SetPosition(vector.Add(c.BodyA.Position, offset))
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		offset := vector.Scale(correction, shareB)
		c.BodyB.SetPosition(vector.Sub(c.BodyB.Position, offset))
	}

	applyTorque(c, pointA, pointB, correction)
}

// applyTorque rotates each dynamic endpoint by the torque an off-centre
// anchor induces from the same correcting force solve just applied,
// per spec.md §4.7: a constraint anchored away from a body's centre
// should spin it, not just drag it.
func applyTorque(c *Constraint, pointA, pointB, force vector.Vector) {
	invIA, invIB := 0.0, 0.0
	if c.BodyA != nil && !c.BodyA.IsStatic {
		invIA = c.BodyA.InverseInertia
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		invIB = c.BodyB.InverseInertia
	}

	invMassA, invMassB := 0.0, 0.0
	if c.BodyA != nil && !c.BodyA.IsStatic {
		invMassA = c.BodyA.InverseMass
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		invMassB = c.BodyB.InverseMass
	}

	totalInverse := invMassA + invMassB + invIA + invIB
	if totalInverse == 0 {
		return
	}

	dampening := torqueDampen * (1 - c.AngularStiffness)

	if invIA > 0 {
		anchorA := vector.Sub(pointA, c.BodyA.Position)
		torqueA := vector.Cross(anchorA, force) / totalInverse * dampening * invIA
		c.BodyA.Rotate(torqueA)
	}
	if invIB > 0 {
		anchorB := vector.Sub(pointB, c.BodyB.Position)
		torqueB := vector.Cross(anchorB, vector.Neg(force)) / totalInverse * dampening * invIB
		c.BodyB.Rotate(torqueB)
	}
}

// applyImpulse nudges both bodies by a fraction of a cached correction
// impulse, respecting the same inverse-mass split used by solve.
func applyImpulse(c *Constraint, impulse vector.Vector) {
	invMassA, invMassB := 0.0, 0.0
	if c.BodyA != nil && !c.BodyA.IsStatic {
		invMassA = c.BodyA.InverseMass
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		invMassB = c.BodyB.InverseMass
	}
	total := invMassA + invMassB
	if total == 0 {
		return
	}

	if c.BodyA != nil && !c.BodyA.IsStatic {
		c.BodyA.SetPosition(vector.Add(c.BodyA.Position, vector.Scale(impulse, invMassA/total)))
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		c.BodyB.SetPosition(vector.Sub(c.BodyB.Position, vector.Scale(impulse, invMassB/total)))
	}
}
