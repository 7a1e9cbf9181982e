// Package scene loads engine/body/constraint fixtures from YAML
// documents (spec.md §6's construction API, extended to data-driven
// setup for scenario tests and tooling). The loader shape — unmarshal
// into a yaml-tagged document, then validate each field against a
// name-to-enum lookup table with wrapped errors — is grounded on
// gazed-vu's load.Shd.
package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/constraint"
	vela2d "github.com/ionspark/vela2d"
	"github.com/ionspark/vela2d/vector"
)

var shapeKinds = map[string]bool{
	"rectangle": true,
	"circle":    true,
	"polygon":   true,
	"trapezoid": true,
	"vertices":  true,
}

var constraintKinds = map[string]constraint.Kind{
	"distance": constraint.KindDistance,
	"spring":   constraint.KindSpring,
	"pin":      constraint.KindPin,
}

// document is the raw YAML shape of a scene fixture.
type document struct {
	Gravity  []float64 `yaml:"gravity"`
	CellSize float64   `yaml:"cellSize"`

	PositionIterations   int  `yaml:"positionIterations"`
	VelocityIterations   int  `yaml:"velocityIterations"`
	ConstraintIterations int  `yaml:"constraintIterations"`
	EnableSleeping       bool `yaml:"enableSleeping"`

	Bodies      []bodyDoc       `yaml:"bodies"`
	Constraints []constraintDoc `yaml:"constraints"`
}

type bodyDoc struct {
	Name     string    `yaml:"name"`
	Shape    string    `yaml:"shape"`
	Position []float64 `yaml:"position"`
	Angle    float64   `yaml:"angle"`

	Width  float64     `yaml:"width"`
	Height float64     `yaml:"height"`
	Radius float64     `yaml:"radius"`
	Sides  int         `yaml:"sides"`
	Slope  float64     `yaml:"slope"`
	Points [][]float64 `yaml:"points"`

	Density     float64 `yaml:"density"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Static      bool    `yaml:"static"`
	Sensor      bool    `yaml:"sensor"`
}

type constraintDoc struct {
	Kind      string  `yaml:"kind"`
	A         string  `yaml:"a"`
	B         string  `yaml:"b"`
	Length    float64 `yaml:"length"`
	Stiffness float64 `yaml:"stiffness"`
}

// Scene is a hydrated fixture: a ready-to-step engine plus a name-to-body
// lookup for assertions in scenario tests.
type Scene struct {
	Engine *vela2d.Engine
	Bodies map[string]*body.Body
}

// Load parses a YAML scene document and builds a Scene from it.
func Load(data []byte) (*Scene, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: yaml: %w", err)
	}

	cfg := vela2d.EngineConfig{
		CellSize:             doc.CellSize,
		PositionIterations:   doc.PositionIterations,
		VelocityIterations:   doc.VelocityIterations,
		ConstraintIterations: doc.ConstraintIterations,
		EnableSleeping:       doc.EnableSleeping,
	}
	if len(doc.Gravity) == 2 {
		cfg.Gravity = vector.New(doc.Gravity[0], doc.Gravity[1])
	}

	engine := vela2d.NewEngine(cfg)
	sc := &Scene{Engine: engine, Bodies: make(map[string]*body.Body, len(doc.Bodies))}

	for _, bd := range doc.Bodies {
		b, err := buildBody(bd, engine)
		if err != nil {
			return nil, err
		}
		sc.Bodies[bd.Name] = b
		engine.AddBody(b)
	}

	for _, cd := range doc.Constraints {
		c, err := buildConstraint(cd, sc)
		if err != nil {
			return nil, err
		}
		engine.AddConstraint(c)
	}

	return sc, nil
}

func buildBody(bd bodyDoc, engine *vela2d.Engine) (*body.Body, error) {
	if !shapeKinds[bd.Shape] {
		return nil, fmt.Errorf("scene: unsupported body shape %q", bd.Shape)
	}
	if len(bd.Position) != 2 {
		return nil, fmt.Errorf("scene: body %q: position must have 2 components", bd.Name)
	}
	position := vector.New(bd.Position[0], bd.Position[1])

	cfg := body.Config{
		Label:       bd.Name,
		Angle:       bd.Angle,
		Density:     bd.Density,
		Restitution: bd.Restitution,
		Friction:    bd.Friction,
		IsStatic:    bd.Static,
		IsSensor:    bd.Sensor,
	}

	switch bd.Shape {
	case "rectangle":
		return body.Rectangle(position, bd.Width, bd.Height, cfg, engine.IDs()), nil
	case "circle":
		return body.Circle(position, bd.Radius, cfg, engine.IDs()), nil
	case "polygon":
		return body.Polygon(position, bd.Sides, bd.Radius, cfg, engine.IDs()), nil
	case "trapezoid":
		return body.Trapezoid(position, bd.Width, bd.Height, bd.Slope, cfg, engine.IDs()), nil
	case "vertices":
		if len(bd.Points) < 3 {
			return nil, fmt.Errorf("scene: body %q: vertices shape needs at least 3 points", bd.Name)
		}
		points := make([]vector.Vector, len(bd.Points))
		for i, p := range bd.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("scene: body %q: point %d must have 2 components", bd.Name, i)
			}
			points[i] = vector.New(p[0], p[1])
		}
		b, err := body.FromVertices(position, points, cfg, engine.IDs())
		if err != nil {
			return nil, fmt.Errorf("scene: body %q: %w", bd.Name, err)
		}
		return b, nil
	}

	return nil, fmt.Errorf("scene: unhandled body shape %q", bd.Shape)
}

func buildConstraint(cd constraintDoc, sc *Scene) (*constraint.Constraint, error) {
	kind, ok := constraintKinds[cd.Kind]
	if !ok {
		return nil, fmt.Errorf("scene: unsupported constraint kind %q", cd.Kind)
	}

	bodyA, ok := sc.Bodies[cd.A]
	if !ok {
		return nil, fmt.Errorf("scene: constraint references unknown body %q", cd.A)
	}

	cfg := constraint.Config{
		Kind:      kind,
		BodyA:     bodyA,
		Length:    cd.Length,
		Stiffness: cd.Stiffness,
	}

	if kind != constraint.KindPin {
		bodyB, ok := sc.Bodies[cd.B]
		if !ok {
			return nil, fmt.Errorf("scene: constraint references unknown body %q", cd.B)
		}
		cfg.BodyB = bodyB
	}

	return constraint.New(cfg, sc.Engine.IDs()), nil
}
