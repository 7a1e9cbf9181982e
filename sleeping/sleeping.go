// Package sleeping implements the biased-exponential-moving-average
// motion tracker and sleep/wake controller (spec.md §4.12).
package sleeping

import (
	"math"

	"github.com/ionspark/vela2d/body"
)

// Normative constants (spec.md §6).
const (
	minBias               = 0.9
	motionSleepThreshold  = 0.08
	motionWakeThreshold   = 0.18
	ticksToSleep          = 60
)

// Update advances the sleeping controller for one step: every awake,
// non-static body gets its motion biased-EMA refreshed from its current
// speed, and either accumulates toward sleep or resets its counter.
// Waking on contact is handled separately by WakeFromContact.
func Update(bodies []*body.Body, correction float64) {
	for _, b := range bodies {
		if b.IsStatic {
			continue
		}

		if b.IsSleeping {
			continue
		}

		speedSq := b.Speed * b.Speed
		angularSq := b.AngularSpeed * b.AngularSpeed
		motion := speedSq + angularSq

		bias := minBias
		if motion > b.Motion {
			bias = 1 - minBias // rising motion is tracked almost immediately
		}
		b.Motion = clampMotion(bias*b.Motion + (1-bias)*motion)

		threshold := motionSleepThreshold * correction * correction
		if b.Motion < threshold {
			b.SleepCounter++
			if b.SleepCounter >= ticksToSleep {
				sleepWithParts(b)
			}
		} else {
			b.SleepCounter = 0
		}
	}
}

// sleepWithParts puts a compound body's root and every part to sleep
// together, so no part is left integrating while its siblings are still.
func sleepWithParts(root *body.Body) {
	root.Sleep()
	for _, p := range root.Parts {
		if p != root {
			p.Sleep()
		}
	}
}

// WakeFromContact wakes a sleeping body when it is touched by a body
// whose motion exceeds the wake threshold, per spec.md §4.12 ("a sleeping
// body wakes only when struck with enough relative motion to matter,
// not on every feather touch from a body at rest").
func WakeFromContact(sleepingBody, otherBody *body.Body) {
	if !sleepingBody.IsSleeping {
		return
	}
	motion := otherBody.Speed*otherBody.Speed + otherBody.AngularSpeed*otherBody.AngularSpeed
	if motion > motionWakeThreshold {
		Wake(sleepingBody)
	}
}

// Wake wakes b and every part of its compound body.
func Wake(b *body.Body) {
	root := b.Parent
	if root == nil {
		root = b
	}
	root.Wake()
	for _, p := range root.Parts {
		p.Wake()
	}
}

// IsResting reports whether b's current motion sits below the sleep
// threshold, useful for diagnostics without mutating SleepCounter.
func IsResting(b *body.Body, correction float64) bool {
	threshold := motionSleepThreshold * correction * correction
	return b.Motion < threshold
}

// clampMotion guards against NaN/Inf creeping into the EMA from a body
// whose Update produced a degenerate velocity (e.g. InverseMass was left
// at 0 on a supposedly-dynamic body).
func clampMotion(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
