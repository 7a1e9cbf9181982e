package vela2d

import (
	"testing"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/constraint"
	"github.com/ionspark/vela2d/vector"
)

func TestBoxRestsOnGround(t *testing.T) {
	e := NewEngine(EngineConfig{Gravity: vector.New(0, 1)})

	ground := body.Rectangle(vector.New(0, 100), 400, 20, body.Config{IsStatic: true}, e.IDs())
	box := body.Rectangle(vector.New(0, 0), 20, 20, body.Config{Density: 1}, e.IDs())
	e.AddBody(ground, box)

	for i := 0; i < 300; i++ {
		e.Step(1000.0 / 60.0)
	}

	if box.Position[1] > 95 {
		t.Errorf("box should have come to rest above the ground, got Y=%v", box.Position[1])
	}
	if box.Position[1] < 60 {
		t.Errorf("box should have fallen under gravity, got Y=%v", box.Position[1])
	}
}

func TestCollisionEventsFireOnContact(t *testing.T) {
	e := NewEngine(EngineConfig{Gravity: vector.New(0, 1)})

	var started bool
	e.Events.Subscribe(ChannelCollisionStart, func(ev Event) {
		started = true
	})

	ground := body.Rectangle(vector.New(0, 100), 400, 20, body.Config{IsStatic: true}, e.IDs())
	box := body.Rectangle(vector.New(0, 0), 20, 20, body.Config{Density: 1}, e.IDs())
	e.AddBody(ground, box)

	for i := 0; i < 120; i++ {
		e.Step(1000.0 / 60.0)
	}

	if !started {
		t.Errorf("expected a collision-start event once the box lands")
	}
}

func TestSleepEventFiresAfterBodyComesToRest(t *testing.T) {
	e := NewEngine(EngineConfig{Gravity: vector.New(0, 1), EnableSleeping: true})

	var slept bool
	e.Events.Subscribe(ChannelSleepStart, func(ev Event) {
		slept = true
	})

	ground := body.Rectangle(vector.New(0, 100), 400, 20, body.Config{IsStatic: true}, e.IDs())
	box := body.Rectangle(vector.New(0, 0), 20, 20, body.Config{Density: 1}, e.IDs())
	e.AddBody(ground, box)

	for i := 0; i < 600; i++ {
		e.Step(1000.0 / 60.0)
	}

	if !slept {
		t.Errorf("expected the box to eventually fall asleep at rest")
	}
}

func TestDistanceConstraintHoldsTwoBodiesApart(t *testing.T) {
	e := NewEngine(EngineConfig{})

	anchor := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{IsStatic: true}, e.IDs())
	hanging := body.Rectangle(vector.New(0, 50), 10, 10, body.Config{Density: 1}, e.IDs())
	e.AddBody(anchor, hanging)

	link := constraint.New(constraint.Config{
		Kind: constraint.KindDistance, BodyA: anchor, BodyB: hanging, Length: 50,
	}, e.IDs())
	e.AddConstraint(link)

	for i := 0; i < 120; i++ {
		e.Step(1000.0 / 60.0)
	}

	dist := vector.Magnitude(vector.Sub(hanging.Position, anchor.Position))
	if dist > 60 || dist < 40 {
		t.Errorf("hanging body should stay near the constrained distance, got %v", dist)
	}
}

func TestCompoundBodyMassAggregatesOverParts(t *testing.T) {
	e := NewEngine(EngineConfig{})

	root := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{Density: 1}, e.IDs())
	limb := body.Rectangle(vector.New(10, 0), 10, 10, body.Config{Density: 1}, e.IDs())
	root.SetParts([]*body.Body{limb}, false)

	e.AddBody(root)
	for i := 0; i < 10; i++ {
		e.Step(1000.0 / 60.0)
	}

	if root.Mass < 150 {
		t.Errorf("compound mass should include both parts (expected ~200), got %v", root.Mass)
	}
}
