package scene

import (
	"testing"
)

const stackFixture = `
gravity: [0, 1]
cellSize: 50
positionIterations: 6
velocityIterations: 4
constraintIterations: 2
bodies:
  - name: ground
    shape: rectangle
    position: [0, 100]
    width: 400
    height: 20
    static: true
  - name: box
    shape: rectangle
    position: [0, 0]
    width: 20
    height: 20
    density: 1
constraints:
  - kind: distance
    a: ground
    b: box
    length: 80
`

func TestLoadBuildsEngineAndBodies(t *testing.T) {
	sc, err := Load([]byte(stackFixture))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sc.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(sc.Bodies))
	}
	if _, ok := sc.Bodies["ground"]; !ok {
		t.Errorf("expected a body named 'ground'")
	}

	for i := 0; i < 10; i++ {
		sc.Engine.Step(1000.0 / 60.0)
	}
}

func TestLoadRejectsUnknownShape(t *testing.T) {
	_, err := Load([]byte(`
bodies:
  - name: blob
    shape: blob
    position: [0, 0]
`))
	if err == nil {
		t.Fatal("expected an error for an unsupported shape")
	}
}

func TestLoadRejectsConstraintToUnknownBody(t *testing.T) {
	_, err := Load([]byte(`
bodies:
  - name: a
    shape: circle
    position: [0, 0]
    radius: 5
constraints:
  - kind: distance
    a: a
    b: missing
`))
	if err == nil {
		t.Fatal("expected an error for a constraint referencing an unknown body")
	}
}
