package collision

import (
	"sort"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/vector"
)

// Lifecycle distinguishes a pair's phase within a single step.
type Lifecycle int

const (
	// LifecycleStart is emitted the first step two bodies overlap.
	LifecycleStart Lifecycle = iota
	// LifecycleActive is emitted every subsequent step they still overlap.
	LifecycleActive
	// LifecycleEnd is emitted the step they stop overlapping.
	LifecycleEnd
)

// idleLifeLimit is how many milliseconds a pair may go without being
// reconfirmed by the broadphase before the cache garbage-collects it
// (spec.md §4.10, §6's Pairs._pairMaxIdleLife).
const idleLifeLimit = 1000

// contactImpulse is the warm-started normal/tangent impulse carried
// across steps for one persistent contact point, keyed by its SAT
// contactID.
type contactImpulse struct {
	normal, tangent float64
}

// Pair is the cached narrowphase state for one body pair across steps.
type Pair struct {
	BodyA, BodyB *body.Body

	Manifold Manifold
	Axis     vector.Vector // last separating/penetrating axis, for coherence reuse

	wasActive bool
	idleLife  float64 // milliseconds since last broadphase reconfirmation

	impulses map[uint32]contactImpulse
}

type pairKey struct {
	A, B uint64
}

func keyFor(a, b uint64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// Cache tracks every candidate pair's narrowphase result and lifecycle
// state across steps.
type Cache struct {
	pairs map[pairKey]*Pair
}

// NewCache creates an empty pair cache.
func NewCache() *Cache {
	return &Cache{pairs: make(map[pairKey]*Pair)}
}

// Event is emitted for a pair whose lifecycle changed this step.
type Event struct {
	Pair      *Pair
	Lifecycle Lifecycle
}

// Update runs the narrowphase against every broadphase-confirmed
// candidate, updates (or creates) the corresponding cache entry, and
// returns the lifecycle events raised this step. A pair not present among
// candidates this step ends at once (LifecycleEnd, warm-start impulses
// cleared) if it was active, but its cache entry is kept and aged rather
// than dropped until it has gone idleLifeLimit milliseconds unconfirmed.
// delta is the step size in milliseconds, the same unit idleLifeLimit is
// expressed in.
func (c *Cache) Update(candidates []Candidate, delta float64) []Event {
	seen := make(map[pairKey]bool, len(candidates))
	var events []Event

	for _, cand := range candidates {
		key := keyFor(cand.BodyA.ID, cand.BodyB.ID)
		seen[key] = true

		p, exists := c.pairs[key]
		if !exists {
			p = &Pair{BodyA: cand.BodyA, BodyB: cand.BodyB, impulses: make(map[uint32]contactImpulse)}
			c.pairs[key] = p
		}

		var prevAxis *vector.Vector
		if p.Axis != vector.Zero {
			axis := p.Axis
			prevAxis = &axis
		}

		m := Test(cand.BodyA, cand.BodyB, prevAxis)
		p.Manifold = m
		p.idleLife = 0

		if m.Overlapping {
			p.Axis = m.Normal
			carryWarmStart(p, m)
			if p.wasActive {
				events = append(events, Event{Pair: p, Lifecycle: LifecycleActive})
			} else {
				events = append(events, Event{Pair: p, Lifecycle: LifecycleStart})
				p.wasActive = true
			}
		} else {
			p.Axis = m.SeparatingAxis
			if p.wasActive {
				events = append(events, Event{Pair: p, Lifecycle: LifecycleEnd})
				p.wasActive = false
				clear(p.impulses)
			}
		}
	}

	for key, p := range c.pairs {
		if seen[key] {
			continue
		}
		if p.BodyA.IsSleeping || p.BodyB.IsSleeping {
			// A sleeping pair can go unconfirmed by the broadphase for
			// many steps without its contact having actually ended;
			// refresh rather than age it so it isn't GC'd out from under
			// a still-resting body.
			p.idleLife = 0
		} else {
			p.idleLife += delta
		}
		if p.wasActive {
			events = append(events, Event{Pair: p, Lifecycle: LifecycleEnd})
			p.wasActive = false
			clear(p.impulses)
		}
		if p.idleLife > idleLifeLimit {
			delete(c.pairs, key)
		}
	}

	return events
}

// carryWarmStart drops impulse entries for contact ids no longer present
// in the fresh manifold and ensures every current contact id has a slot,
// so the resolver always finds an (initially zero) accumulator to add to.
func carryWarmStart(p *Pair, m Manifold) {
	fresh := make(map[uint32]contactImpulse, len(m.ContactIDs))
	for _, id := range m.ContactIDs {
		if prev, ok := p.impulses[id]; ok {
			fresh[id] = prev
		} else {
			fresh[id] = contactImpulse{}
		}
	}
	p.impulses = fresh
}

// Impulse returns the warm-started normal and tangent accumulators for a
// contact id (both zero if none is stored).
func (p *Pair) Impulse(id uint32) (normal, tangent float64) {
	acc := p.impulses[id]
	return acc.normal, acc.tangent
}

// SetImpulse stores the resolver's updated accumulator for a contact id.
func (p *Pair) SetImpulse(id uint32, normal, tangent float64) {
	p.impulses[id] = contactImpulse{normal: normal, tangent: tangent}
}

// Candidate is a broadphase-confirmed pair awaiting a narrowphase test.
type Candidate struct {
	BodyA, BodyB *body.Body
}

// Active returns every pair currently overlapping, ordered by
// (lower body id, higher body id), for the resolver to iterate over.
func (c *Cache) Active() []*Pair {
	out := make([]*Pair, 0, len(c.pairs))
	for _, p := range c.pairs {
		if p.wasActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := keyFor(out[i].BodyA.ID, out[i].BodyB.ID), keyFor(out[j].BodyA.ID, out[j].BodyB.ID)
		if ki.A != kj.A {
			return ki.A < kj.A
		}
		return ki.B < kj.B
	})
	return out
}
