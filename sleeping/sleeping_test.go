package sleeping

import (
	"testing"

	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/entity"
	"github.com/ionspark/vela2d/vector"
)

func TestUpdatePutsRestingBodyToSleepAfterEnoughTicks(t *testing.T) {
	ids := &entity.IDAllocator{}
	b := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{}, ids)
	b.Speed = 0
	b.AngularSpeed = 0

	for i := 0; i < ticksToSleep; i++ {
		Update([]*body.Body{b}, 1)
	}

	if !b.IsSleeping {
		t.Errorf("expected a resting body to fall asleep after %d ticks", ticksToSleep)
	}
}

func TestUpdateKeepsMovingBodyAwake(t *testing.T) {
	ids := &entity.IDAllocator{}
	b := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{}, ids)
	b.Speed = 5
	b.AngularSpeed = 0

	for i := 0; i < ticksToSleep*2; i++ {
		Update([]*body.Body{b}, 1)
		b.Speed = 5 // simulate continued motion each step
	}

	if b.IsSleeping {
		t.Errorf("a continuously moving body should never fall asleep")
	}
}

func TestWakeFromContactRequiresMeaningfulMotion(t *testing.T) {
	ids := &entity.IDAllocator{}
	sleeper := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{}, ids)
	sleeper.Sleep()

	gentle := body.Rectangle(vector.New(20, 0), 10, 10, body.Config{}, ids)
	gentle.Speed = 0.01

	WakeFromContact(sleeper, gentle)
	if sleeper.IsSleeping == false {
		t.Fatal("a gentle touch should not wake a sleeping body")
	}

	fast := body.Rectangle(vector.New(20, 0), 10, 10, body.Config{}, ids)
	fast.Speed = 5
	WakeFromContact(sleeper, fast)
	if sleeper.IsSleeping {
		t.Errorf("a fast-moving contact should wake a sleeping body")
	}
}

func TestStaticBodiesAreNeverTrackedForSleep(t *testing.T) {
	ids := &entity.IDAllocator{}
	b := body.Rectangle(vector.New(0, 0), 10, 10, body.Config{IsStatic: true}, ids)

	for i := 0; i < ticksToSleep; i++ {
		Update([]*body.Body{b}, 1)
	}
	if b.IsSleeping {
		t.Errorf("static bodies should never be put to sleep by the controller")
	}
}
