// Package vela2d is a deterministic, fixed-timestep 2D rigid-body
// physics core: convex polygon and circle bodies, compound bodies,
// distance/spring constraints, sleeping, a uniform spatial-hash
// broadphase and a SAT narrowphase feeding a sequential-impulse resolver
// with warm-starting.
package vela2d

import (
	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/broadphase"
	"github.com/ionspark/vela2d/collision"
	"github.com/ionspark/vela2d/composite"
	"github.com/ionspark/vela2d/constraint"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/resolver"
	"github.com/ionspark/vela2d/sleeping"
	"github.com/ionspark/vela2d/vector"
)

// Sentinel errors returned by the construction API (spec.md §6 /§7),
// checked with errors.Is by callers that need to distinguish failure
// modes. Aliased onto geometry's sentinels, the package where the
// underlying validation actually runs, so there is exactly one error
// value per failure mode across the module.
var (
	ErrInvalidGeometry       = geometry.ErrInvalidGeometry
	ErrNotSimplePolygon      = geometry.ErrNotSimplePolygon
	ErrDecompositionOverflow = geometry.ErrDecompositionOverflow
)

// EngineConfig is the explicit constructor record for an Engine
// (spec.md §9: no dynamic named-parameter World{} literal; defaults
// mirror spec.md §6's create_engine signature).
type EngineConfig struct {
	Gravity vector.Vector

	CellSize float64 // broadphase grid cell size, default 100

	PositionIterations   int // resolver position-solve iterations, default 6
	VelocityIterations   int // resolver velocity-solve iterations, default 4
	ConstraintIterations int // constraint-solve iterations per pass, default 2

	Correction float64 // Verlet time-correction factor for Body.Update (also scales the sleep threshold), default 1

	EnableSleeping bool // default false, per spec.md §6
}

// Engine owns the whole simulation: the body/constraint/composite
// population, the broadphase grid, the pair cache and the event bus.
type Engine struct {
	Gravity vector.Vector

	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int

	Correction float64

	EnableSleeping bool

	ids *entity.IDAllocator

	root *composite.Composite

	grid  *broadphase.Grid
	cache *collision.Cache

	Events *Events
}

// NewEngine builds an Engine from cfg, applying the documented defaults
// for any zero-valued field.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.CellSize == 0 {
		cfg.CellSize = 100
	}
	if cfg.PositionIterations == 0 {
		cfg.PositionIterations = 6
	}
	if cfg.VelocityIterations == 0 {
		cfg.VelocityIterations = 4
	}
	if cfg.ConstraintIterations == 0 {
		cfg.ConstraintIterations = 2
	}
	if cfg.Correction == 0 {
		cfg.Correction = 1
	}

	ids := &entity.IDAllocator{}

	return &Engine{
		Gravity:              cfg.Gravity,
		PositionIterations:   cfg.PositionIterations,
		VelocityIterations:   cfg.VelocityIterations,
		ConstraintIterations: cfg.ConstraintIterations,
		Correction:           cfg.Correction,
		EnableSleeping:       cfg.EnableSleeping,
		ids:                  ids,
		root:                 composite.New("world", ids),
		grid:                 broadphase.New(cfg.CellSize),
		cache:                collision.NewCache(),
		Events:               newEvents(),
	}
}

// IDs exposes the engine-scoped allocator so construction helpers in
// other packages (scene.Load, tests) can mint entity ids consistent with
// this engine instance, instead of reaching for a process-global counter.
func (e *Engine) IDs() *entity.IDAllocator { return e.ids }

// Root returns the engine's top-level composite, the container every
// directly-added body, constraint or sub-composite lives under.
func (e *Engine) Root() *composite.Composite { return e.root }

// AddBody adds one or more bodies directly to the engine's root composite.
func (e *Engine) AddBody(bodies ...*body.Body) {
	items := make([]entity.Entity, len(bodies))
	for i, b := range bodies {
		items[i] = b
	}
	e.Events.emitBeforeAdd(e.root)
	composite.Add(e.root, items...)
	e.Events.emitAfterAdd(e.root)
}

// AddConstraint adds one or more constraints directly to the engine's
// root composite.
func (e *Engine) AddConstraint(constraints ...*constraint.Constraint) {
	items := make([]entity.Entity, len(constraints))
	for i, c := range constraints {
		items[i] = c
	}
	e.Events.emitBeforeAdd(e.root)
	composite.Add(e.root, items...)
	e.Events.emitAfterAdd(e.root)
}

// AddComposite adds a sub-composite to the engine's root composite.
func (e *Engine) AddComposite(c *composite.Composite) {
	e.Events.emitBeforeAdd(e.root)
	composite.Add(e.root, c)
	e.Events.emitAfterAdd(e.root)
}

// RemoveBody removes bodies from the engine's root composite, flushing
// them from the broadphase grid so stale entries don't linger.
func (e *Engine) RemoveBody(bodies ...*body.Body) {
	items := make([]entity.Entity, len(bodies))
	for i, b := range bodies {
		items[i] = b
		e.grid.Remove(b)
	}
	e.Events.emitBeforeRemove(e.root)
	composite.Remove(e.root, items...)
	e.Events.emitAfterRemove(e.root)
}

// gravityScale mirrors spec.md §4.13 step 4's default gravity scale: the
// configured Gravity is a per-second acceleration, attenuated before
// being applied as a force so default values read as "roughly Earth-like
// in world units" without every scene needing its own scale knob.
const gravityScale = 0.001

// Step advances the simulation by delta milliseconds (the normative
// example in spec.md §4.13 is 33.3, a 30fps tick), following the 17-step
// ordering that section mandates; the numbered comments below match its
// step numbers exactly.
func (e *Engine) Step(delta float64) {
	// 1. Emit beforeUpdate.
	e.Events.emitBeforeUpdate()

	// 2. Flatten world to allBodies/allConstraints.
	bodies := composite.AllBodies(e.root)
	constraints := composite.AllConstraints(e.root)
	e.root.SetModified(false)

	// 3. Sleeping.update, if enabled.
	if e.EnableSleeping {
		sleeping.Update(bodies, e.Correction)
	}

	// 4. Apply gravity to non-static, non-sleeping bodies.
	for _, b := range bodies {
		if b.IsStatic || b.IsSleeping {
			continue
		}
		b.ApplyForce(b.Position, vector.Scale(e.Gravity, b.Mass*gravityScale))
	}

	// 5. Integrate bodies.
	for _, b := range bodies {
		b.Update(delta, 1, e.Correction)
	}

	// 6. Constraint preSolve -> N x solve -> postSolve (first pass).
	constraint.PreSolveAll(constraints)
	constraint.SolveAll(constraints, e.ConstraintIterations)
	constraint.PostSolveAll(constraints)

	// 7. Broadphase update.
	for _, b := range bodies {
		e.grid.Update(b)
	}

	// 8-9. Narrowphase + pair update / old-pair GC.
	candidates := toCollisionCandidates(e.grid.Pairs())
	lifecycleEvents := e.cache.Update(candidates, delta)

	// 10. Sleeping.afterCollisions: wake bodies touched meaningfully.
	var startEvents, laterEvents []collision.Event
	for _, ev := range lifecycleEvents {
		if e.EnableSleeping {
			wakeTouchedBodies(ev.Pair)
		}
		if ev.Lifecycle == collision.LifecycleStart {
			startEvents = append(startEvents, ev)
		} else {
			laterEvents = append(laterEvents, ev)
		}
	}

	// 11. Emit collisionStart.
	for _, ev := range startEvents {
		e.Events.emitCollisionStart(ev.Pair.BodyA, ev.Pair.BodyB)
	}

	active := e.cache.Active()

	// 12. Resolver position: pre -> N x solve -> post.
	resolver.PreSolvePosition(active)
	for i := 0; i < e.PositionIterations; i++ {
		resolver.SolvePosition(active)
	}
	resolver.PostSolvePosition(bodies)

	// 13. Constraint preSolve -> N x solve -> postSolve (second pass).
	constraint.PreSolveAll(constraints)
	constraint.SolveAll(constraints, e.ConstraintIterations)
	constraint.PostSolveAll(constraints)

	// 14. Resolver velocity: pre -> N x solve.
	resolver.PreSolveVelocity(active)
	for i := 0; i < e.VelocityIterations; i++ {
		resolver.SolveVelocity(active)
	}

	// 15. Emit collisionActive, collisionEnd.
	for _, ev := range laterEvents {
		switch ev.Lifecycle {
		case collision.LifecycleActive:
			e.Events.emitCollisionActive(ev.Pair.BodyA, ev.Pair.BodyB)
		case collision.LifecycleEnd:
			e.Events.emitCollisionEnd(ev.Pair.BodyA, ev.Pair.BodyB)
		}
	}

	// 16. Clear force/torque buffers.
	for _, b := range bodies {
		b.ClearForces()
	}

	for _, b := range bodies {
		e.Events.trackSleepTransition(b)
	}

	// 17. Emit afterUpdate.
	e.Events.emitAfterUpdate()
	e.Events.flush()
}

func wakeTouchedBodies(p *collision.Pair) {
	if p.BodyA.IsSleeping {
		sleeping.WakeFromContact(p.BodyA, p.BodyB)
	}
	if p.BodyB.IsSleeping {
		sleeping.WakeFromContact(p.BodyB, p.BodyA)
	}
}

func toCollisionCandidates(pairs []broadphase.PairCandidate) []collision.Candidate {
	out := make([]collision.Candidate, len(pairs))
	for i, p := range pairs {
		out[i] = collision.Candidate{BodyA: p.BodyA, BodyB: p.BodyB}
	}
	return out
}
