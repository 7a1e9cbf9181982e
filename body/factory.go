package body

import (
	"fmt"
	"math"
	"strings"

	"github.com/ionspark/vela2d/decomp"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/geometry"
	"github.com/ionspark/vela2d/vector"
)

// Config is an explicit, typed replacement for the teacher's dynamic
// named-parameter body options (spec.md §9 redesign note). Zero-valued
// fields take the defaults documented per field; Vertices/CircleRadius
// are mutually exclusive shape sources.
type Config struct {
	Label    string
	Position vector.Vector
	Angle    float64

	Vertices     geometry.Vertices // polygon shape, already centred or not
	CircleRadius float64           // > 0 selects a circle approximation instead

	Density     float64 // default 1e-3
	Restitution float64
	Friction    float64 // default 0.1
	FrictionStatic float64
	FrictionAir float64 // default 0.01
	Slop        float64 // default 0.05

	IsStatic  bool
	IsSensor  bool
	TimeScale float64 // default 1

	Filter CollisionFilter // defaults to DefaultFilter if Category/Mask both zero
}

// circleSegments is how many polygon edges approximate a circle body,
// matching common practice for polygon-based physics cores.
const circleSegments = 24

// Create builds a Body from cfg, applying property setters in the order
// spec.md §4.5 mandates: bounds, positionPrev, anglePrev, parts/parent
// (the body itself), vertices (which also derive mass, density and
// inertia), angle, then isStatic. Sleeping is left to the caller/engine,
// which knows the wider context.
func Create(cfg Config, ids *entity.IDAllocator) *Body {
	b := &Body{
		ID:        ids.Next(),
		Label:     cfg.Label,
		Position:  cfg.Position,
		Angle:     cfg.Angle,
		Density:   cfg.Density,
		Restitution: cfg.Restitution,
		Friction:    cfg.Friction,
		FrictionStatic: cfg.FrictionStatic,
		FrictionAir: cfg.FrictionAir,
		Slop:        cfg.Slop,
		IsSensor:    cfg.IsSensor,
		TimeScale:   cfg.TimeScale,
		Filter:      cfg.Filter,
	}

	if b.Density == 0 {
		b.Density = 1e-3
	}
	if b.Friction == 0 {
		b.Friction = 0.1
	}
	if b.FrictionStatic == 0 {
		b.FrictionStatic = 0.5
	}
	if b.FrictionAir == 0 {
		b.FrictionAir = 0.01
	}
	if b.Slop == 0 {
		b.Slop = 0.05
	}
	if b.TimeScale == 0 {
		b.TimeScale = 1
	}
	if b.Filter.Category == 0 && b.Filter.Mask == 0 {
		b.Filter = DefaultFilter
	}

	b.Bounds = geometry.NewBounds()
	b.PositionPrev = b.Position
	b.AnglePrev = b.Angle

	verts := cfg.Vertices
	if len(verts) == 0 {
		radius := cfg.CircleRadius
		if radius <= 0 {
			radius = 25
		}
		b.CircleRadius = radius
		verts = circlePolygon(radius, circleSegments, b.ID)
	}

	b.Parts = []*Body{b}
	b.Parent = b
	b.SetVertices(verts)

	if cfg.Angle != 0 {
		geometry.Rotate(b.Vertices, cfg.Angle, b.Position)
		b.Axes = b.Axes.Rotate(cfg.Angle)
		b.Bounds.Update(b.Vertices, nil)
	}

	if cfg.IsStatic {
		b.SetStatic(true)
	}

	return b
}

func circlePolygon(radius float64, segments int, bodyID uint64) geometry.Vertices {
	points := make([]vector.Vector, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		points[i] = vector.New(radius*math.Cos(theta), radius*math.Sin(theta))
	}
	return geometry.FromPoints(points, bodyID)
}

// Rectangle creates an axis-aligned w×h rectangle centred on position.
func Rectangle(position vector.Vector, w, h float64, cfg Config, ids *entity.IDAllocator) *Body {
	hw, hh := w/2, h/2
	points := []vector.Vector{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	}
	cfg.Position = position
	cfg.Vertices = geometry.FromPoints(points, 0)
	return Create(cfg, ids)
}

// Circle creates a polygon-approximated circle body of the given radius,
// centred on position.
func Circle(position vector.Vector, radius float64, cfg Config, ids *entity.IDAllocator) *Body {
	cfg.Position = position
	cfg.CircleRadius = radius
	cfg.Vertices = nil
	return Create(cfg, ids)
}

// Polygon creates a regular polygon with sides sides and circumradius
// radius, centred on position.
func Polygon(position vector.Vector, sides int, radius float64, cfg Config, ids *entity.IDAllocator) *Body {
	if sides < 3 {
		sides = 3
	}
	points := make([]vector.Vector, sides)
	for i := 0; i < sides; i++ {
		theta := 2*math.Pi*float64(i)/float64(sides) - math.Pi/2
		points[i] = vector.New(radius*math.Cos(theta), radius*math.Sin(theta))
	}
	cfg.Position = position
	cfg.Vertices = geometry.FromPoints(points, 0)
	return Create(cfg, ids)
}

// Trapezoid creates a symmetric trapezoid of base width w, height h, and
// slope in [0, 1] (0 = rectangle, 1 = triangle), centred on position.
func Trapezoid(position vector.Vector, w, h, slope float64, cfg Config, ids *entity.IDAllocator) *Body {
	if slope < 0 {
		slope = 0
	}
	if slope > 1 {
		slope = 1
	}
	topW := w * (1 - slope)
	hw, hh := w/2, h/2
	htw := topW / 2

	points := []vector.Vector{
		{-hw, hh}, {-htw, -hh}, {htw, -hh}, {hw, hh},
	}
	cfg.Position = position
	cfg.Vertices = geometry.FromPoints(points, 0)
	return Create(cfg, ids)
}

// minimumArea rejects a vertex ring whose area is negligible, per
// spec.md §6's from_vertices default.
const minimumArea = 10.0

// FromVertices creates a body from an arbitrary point ring (spec.md
// §4.3, §6, §7). Degenerate input (fewer than 3 points, NaN coordinates,
// or an area below minimumArea) is rejected with ErrInvalidGeometry. A
// self-intersecting ring falls back to its convex hull rather than
// failing outright, per §7's "from_vertices falls back to hull ... or
// rejects". A simple but concave ring is decomposed into convex parts
// via decomp.Convex and assembled into a compound body; a decomposition
// overflow still returns the best-effort compound, wrapped with
// ErrDecompositionOverflow so the caller can log it.
func FromVertices(position vector.Vector, points []vector.Vector, cfg Config, ids *entity.IDAllocator) (*Body, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("body: from_vertices: %w", geometry.ErrInvalidGeometry)
	}
	for _, p := range points {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) {
			return nil, fmt.Errorf("body: from_vertices: %w", geometry.ErrInvalidGeometry)
		}
	}
	if geometry.Area(geometry.FromPoints(points, 0), false) < minimumArea {
		return nil, fmt.Errorf("body: from_vertices: %w", geometry.ErrInvalidGeometry)
	}

	var warnings []string
	pieces := decomp.Convex(points, func(msg string) { warnings = append(warnings, msg) })

	var decompErr error
	for _, w := range warnings {
		switch {
		case strings.Contains(w, "recursion limit"):
			decompErr = fmt.Errorf("body: from_vertices: %w", geometry.ErrDecompositionOverflow)
		case decompErr == nil && strings.Contains(w, "not a simple polygon"):
			decompErr = fmt.Errorf("body: from_vertices: %w", geometry.ErrNotSimplePolygon)
		}
	}

	if len(pieces) == 1 {
		cfg.Position = position
		cfg.Vertices = geometry.FromPoints(pieces[0], 0)
		return Create(cfg, ids), decompErr
	}

	ring := geometry.FromPoints(points, 0)

	// Every piece is built in the same unshifted local frame the input
	// points were given in, each positioned at its own centroid within
	// that frame; SetParts aggregates them and root.SetPosition below
	// shifts the whole assembled compound into world space in one move.
	root := Create(Config{
		Label: cfg.Label, Position: geometry.Centre(ring), Density: cfg.Density,
		Restitution: cfg.Restitution, Friction: cfg.Friction, FrictionStatic: cfg.FrictionStatic,
		FrictionAir: cfg.FrictionAir, Slop: cfg.Slop, IsStatic: cfg.IsStatic, IsSensor: cfg.IsSensor,
		TimeScale: cfg.TimeScale, Filter: cfg.Filter, Vertices: ring,
	}, ids)

	parts := make([]*Body, 0, len(pieces))
	for _, piece := range pieces {
		p := geometry.FromPoints(piece, 0)
		part := Create(Config{
			Position: geometry.Centre(p), Density: cfg.Density, Restitution: cfg.Restitution,
			Friction: cfg.Friction, FrictionStatic: cfg.FrictionStatic, FrictionAir: cfg.FrictionAir,
			IsStatic: cfg.IsStatic, IsSensor: cfg.IsSensor, Filter: cfg.Filter,
			Vertices: p,
		}, ids)
		parts = append(parts, part)
	}
	root.SetParts(parts, true)
	root.SetPosition(position)

	return root, decompErr
}
