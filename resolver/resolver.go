// Package resolver implements the sequential-impulse contact solver
// (spec.md §4.11): a positional (penetration) pass and a velocity
// (impulse + Coulomb friction) pass, both warm-started from the pair
// cache's per-contact impulse accumulators.
package resolver

import (
	"math"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/collision"
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

// Normative constants (spec.md §6): kept as package-level values rather
// than a config struct since cross-port determinism requires every
// engine instance to agree on them.
const (
	positionDampen  = 0.9
	positionWarming = 0.8

	frictionNormalMultiplier = 5.0

	restingThresh         = 4.0
	restingThreshTangent  = 6.0

	slopDefault = 0.05
)

// PreSolvePosition accumulates each active pair's contact count onto both
// bodies' TotalContacts, the divisor solvePosition's per-contact impulse
// share is normalized by (spec.md §4.11), reset by the previous step's
// PostSolvePosition.
func PreSolvePosition(pairs []*collision.Pair) {
	for _, p := range pairs {
		m := &p.Manifold
		if !m.Overlapping {
			continue
		}
		n := len(m.ContactPoints)
		if n == 0 {
			n = 1
		}
		if !m.BodyA.IsStatic {
			m.BodyA.TotalContacts += n
		}
		if !m.BodyB.IsStatic {
			m.BodyB.TotalContacts += n
		}
	}
}

// SolvePosition performs one Gauss-Seidel positional correction pass over
// every active pair. It never touches Position directly: the correction
// is only queued into each body's PositionImpulse, and separation is
// re-derived every pass from the depth already closed by earlier passes'
// queued impulse (rather than the narrowphase's one-shot depth reused
// unchanged), so iterating converges on the target penetration instead of
// overshooting it. PostSolvePosition performs the actual translation,
// once, after every iteration has queued its share.
func SolvePosition(pairs []*collision.Pair) {
	for _, p := range pairs {
		m := &p.Manifold
		if !m.Overlapping {
			continue
		}

		invMassA, invMassB := effectiveInverseMass(m.BodyA), effectiveInverseMass(m.BodyB)
		if invMassA == 0 && invMassB == 0 {
			continue
		}

		slop := math.Max(m.BodyA.Slop, m.BodyB.Slop)
		if slop == 0 {
			slop = slopDefault
		}

		closedSoFar := vector.Dot(m.Normal, vector.Sub(m.BodyB.PositionImpulse, m.BodyA.PositionImpulse))
		penetration := m.Depth - closedSoFar - slop
		if penetration <= 0 {
			continue
		}

		impulseMag := penetration * positionDampen
		if m.BodyA.IsStatic || m.BodyB.IsStatic {
			impulseMag *= 2
		}

		if invMassA > 0 {
			contacts := m.BodyA.TotalContacts
			if contacts == 0 {
				contacts = 1
			}
			share := impulseMag / float64(contacts)
			m.BodyA.PositionImpulse = vector.Sub(m.BodyA.PositionImpulse, vector.Scale(m.Normal, share))
		}
		if invMassB > 0 {
			contacts := m.BodyB.TotalContacts
			if contacts == 0 {
				contacts = 1
			}
			share := impulseMag / float64(contacts)
			m.BodyB.PositionImpulse = vector.Add(m.BodyB.PositionImpulse, vector.Scale(m.Normal, share))
		}
	}
}

// PostSolvePosition translates each body's vertices, parts and bounds by
// its accumulated PositionImpulse (and no earlier pass did: SolvePosition
// above only ever wrote to the accumulator), then adds the same
// translation to PositionPrev so the move does not inject velocity, per
// spec.md §4.11's "add it to positionPrev so velocity is unchanged".
// A PositionImpulse that opposes the body's current velocity is cleared;
// otherwise it is carried into next step's warm start, scaled down by
// positionWarming. TotalContacts is reset here for next step's
// PreSolvePosition to accumulate into.
func PostSolvePosition(bodies []*body.Body) {
	for _, b := range bodies {
		b.TotalContacts = 0

		if b.PositionImpulse == vector.Zero {
			continue
		}

		for _, p := range b.Parts {
			geometry.Translate(p.Vertices, b.PositionImpulse)
			if p != b {
				p.Position = vector.Add(p.Position, b.PositionImpulse)
			}
			p.Bounds.Update(p.Vertices, nil)
		}
		b.Position = vector.Add(b.Position, b.PositionImpulse)
		b.PositionPrev = vector.Add(b.PositionPrev, b.PositionImpulse)

		if vector.Dot(b.PositionImpulse, b.Velocity) < 0 {
			b.PositionImpulse = vector.Zero
		} else {
			b.PositionImpulse = vector.Scale(b.PositionImpulse, positionWarming)
		}
	}
}

func effectiveInverseMass(b *body.Body) float64 {
	if b.IsStatic {
		return 0
	}
	return b.InverseMass
}

// PreSolveVelocity applies each pair's warm-started normal and tangent
// impulses from the previous step before the velocity iterations run, so
// the solver starts close to the steady-state stacking impulse instead
// of from zero (spec.md §4.11).
func PreSolveVelocity(pairs []*collision.Pair) {
	for _, p := range pairs {
		m := &p.Manifold
		if !m.Overlapping {
			continue
		}
		tangent := vector.Perp(m.Normal, false)

		for i, point := range m.ContactPoints {
			id := m.ContactIDs[i]
			normalImp, tangentImp := p.Impulse(id)
			applyImpulse(m.BodyA, m.BodyB, point, m.Normal, tangent, normalImp, tangentImp)
		}
	}
}

// SolveVelocity performs one sequential-impulse velocity correction pass:
// for each contact point, compute the relative velocity along the
// normal, apply a restitution-scaled normal impulse (clamped so it never
// pulls bodies together), then a Coulomb-capped friction impulse along
// the tangent.
func SolveVelocity(pairs []*collision.Pair) {
	for _, p := range pairs {
		m := &p.Manifold
		if !m.Overlapping {
			continue
		}
		tangent := vector.Perp(m.Normal, false)
		restitution := (m.BodyA.Restitution + m.BodyB.Restitution) / 2
		friction := math.Sqrt(m.BodyA.Friction * m.BodyB.Friction)

		for i, point := range m.ContactPoints {
			id := m.ContactIDs[i]

			relVel := relativeVelocity(m.BodyA, m.BodyB, point)
			normalSpeed := vector.Dot(relVel, m.Normal)

			if normalSpeed > 0 {
				continue // already separating
			}

			effMassNormal := effectiveMass(m.BodyA, m.BodyB, point, m.Normal)
			if effMassNormal == 0 {
				continue
			}

			restitutionTerm := restitution
			if math.Abs(normalSpeed) < restingThresh {
				restitutionTerm = 0 // spec.md §4.11: clear restitution for resting contacts
			}

			normalImpulse := -(1 + restitutionTerm) * normalSpeed / effMassNormal

			prevNormal, prevTangent := p.Impulse(id)
			newNormal := math.Max(prevNormal+normalImpulse, 0)
			deltaNormal := newNormal - prevNormal

			applyImpulse(m.BodyA, m.BodyB, point, m.Normal, tangent, deltaNormal, 0)

			relVel = relativeVelocity(m.BodyA, m.BodyB, point)
			tangentSpeed := vector.Dot(relVel, tangent)
			if math.Abs(tangentSpeed) < restingThreshTangent {
				tangentSpeed = 0
			}

			effMassTangent := effectiveMass(m.BodyA, m.BodyB, point, tangent)
			var tangentImpulse float64
			if effMassTangent != 0 {
				tangentImpulse = -tangentSpeed / effMassTangent
			}

			maxFriction := friction * newNormal * frictionNormalMultiplier
			newTangent := clamp(prevTangent+tangentImpulse, -maxFriction, maxFriction)
			deltaTangent := newTangent - prevTangent

			applyImpulse(m.BodyA, m.BodyB, point, m.Normal, tangent, 0, deltaTangent)

			p.SetImpulse(id, newNormal, newTangent)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func relativeVelocity(a, b *body.Body, point vector.Vector) vector.Vector {
	velA := pointVelocity(a, point)
	velB := pointVelocity(b, point)
	return vector.Sub(velB, velA)
}

func pointVelocity(b *body.Body, point vector.Vector) vector.Vector {
	if b.IsStatic {
		return vector.Zero
	}
	offset := vector.Sub(point, b.Position)
	angular := vector.CrossScalar(b.AngularVelocity, offset)
	return vector.Add(b.Velocity, angular)
}

// effectiveMass returns the inverse effective mass of the contact along
// direction: the sum of both bodies' linear and angular inverse mass
// terms, the standard sequential-impulse denominator an impulse is
// divided by (matter.js/Box2D).
func effectiveMass(a, b *body.Body, point, direction vector.Vector) float64 {
	invMassA, invMassB := effectiveInverseMass(a), effectiveInverseMass(b)

	var angA, angB float64
	if !a.IsStatic {
		offsetA := vector.Sub(point, a.Position)
		rnA := vector.Cross(offsetA, direction)
		angA = rnA * rnA * a.InverseInertia
	}
	if !b.IsStatic {
		offsetB := vector.Sub(point, b.Position)
		rnB := vector.Cross(offsetB, direction)
		angB = rnB * rnB * b.InverseInertia
	}

	return invMassA + invMassB + angA + angB
}

// applyImpulse applies deltaNormal and deltaTangent (along normal and
// tangent respectively) as impulses at point. Velocity is Time-Corrected
// Verlet's derived quantity (position − positionPrev each Update), so an
// impulse only has lasting effect if it perturbs positionPrev/anglePrev
// (spec.md §4.11: "Apply the delta impulse to positionPrev (linear) and
// anglePrev (via r × j · invI)"); Velocity/AngularVelocity are nudged by
// the same delta in lockstep purely so later contacts within this same
// solve pass see an up-to-date relative velocity without having to
// re-derive it from position state on every read.
func applyImpulse(a, b *body.Body, point, normal, tangent vector.Vector, deltaNormal, deltaTangent float64) {
	impulse := vector.Add(vector.Scale(normal, deltaNormal), vector.Scale(tangent, deltaTangent))

	if !a.IsStatic {
		deltaVelA := vector.Scale(impulse, a.InverseMass)
		a.Velocity = vector.Sub(a.Velocity, deltaVelA)
		a.PositionPrev = vector.Add(a.PositionPrev, deltaVelA)

		offsetA := vector.Sub(point, a.Position)
		deltaAngA := vector.Cross(offsetA, impulse) * a.InverseInertia
		a.AngularVelocity -= deltaAngA
		a.AnglePrev += deltaAngA
	}
	if !b.IsStatic {
		deltaVelB := vector.Scale(impulse, b.InverseMass)
		b.Velocity = vector.Add(b.Velocity, deltaVelB)
		b.PositionPrev = vector.Sub(b.PositionPrev, deltaVelB)

		offsetB := vector.Sub(point, b.Position)
		deltaAngB := vector.Cross(offsetB, impulse) * b.InverseInertia
		b.AngularVelocity += deltaAngB
		b.AnglePrev -= deltaAngB
	}
}
