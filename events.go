package vela2d

import (
	"github.com/ionspark/vela2d/body"
	"github.com/ionspark/vela2d/composite"
)

// Channel enumerates the fixed set of event channels the engine emits.
// Unlike the teacher's open string-keyed dispatch, vela2d's channel list
// is closed (spec.md §4.2): listeners subscribe to one of these, never to
// an arbitrary caller-invented name.
type Channel uint8

const (
	ChannelBeforeUpdate Channel = iota
	ChannelAfterUpdate
	ChannelCollisionStart
	ChannelCollisionActive
	ChannelCollisionEnd
	ChannelSleepStart
	ChannelSleepEnd
	ChannelBeforeAdd
	ChannelAfterAdd
	ChannelBeforeRemove
	ChannelAfterRemove
)

// Event is the payload delivered to a Listener. Only the fields relevant
// to the channel are populated: collision channels set BodyA/BodyB,
// sleep channels set Body, add/remove channels set Composite.
type Event struct {
	Channel   Channel
	BodyA     *body.Body
	BodyB     *body.Body
	Body      *body.Body
	Composite *composite.Composite
}

// Listener receives events on a subscribed channel.
type Listener func(Event)

// Events is the engine's event bus: listeners are invoked synchronously
// from Engine.Step's final flush, in subscription order, never
// mid-solve (spec.md §4.2 — "events are a step-boundary phenomenon, not
// a mid-step side channel").
type Events struct {
	listeners map[Channel][]Listener
	buffer    []Event

	sleepStates map[uint64]bool
}

func newEvents() *Events {
	return &Events{
		listeners:   make(map[Channel][]Listener),
		buffer:      make([]Event, 0, 64),
		sleepStates: make(map[uint64]bool),
	}
}

// Subscribe registers listener to fire whenever an event is emitted on
// channel.
func (e *Events) Subscribe(channel Channel, listener Listener) {
	e.listeners[channel] = append(e.listeners[channel], listener)
}

func (e *Events) emitBeforeUpdate() {
	e.buffer = append(e.buffer, Event{Channel: ChannelBeforeUpdate})
}

func (e *Events) emitAfterUpdate() {
	e.buffer = append(e.buffer, Event{Channel: ChannelAfterUpdate})
}

func (e *Events) emitCollisionStart(a, b *body.Body) {
	e.buffer = append(e.buffer, Event{Channel: ChannelCollisionStart, BodyA: a, BodyB: b})
}

func (e *Events) emitCollisionActive(a, b *body.Body) {
	e.buffer = append(e.buffer, Event{Channel: ChannelCollisionActive, BodyA: a, BodyB: b})
}

func (e *Events) emitCollisionEnd(a, b *body.Body) {
	e.buffer = append(e.buffer, Event{Channel: ChannelCollisionEnd, BodyA: a, BodyB: b})
}

// emitSleepStart/emitSleepEnd are only called by the engine once per
// actual sleeping/waking transition (see trackSleepTransition), not on
// every step a body happens to already be asleep.
func (e *Events) emitSleepStart(b *body.Body) {
	e.buffer = append(e.buffer, Event{Channel: ChannelSleepStart, Body: b})
}

func (e *Events) emitSleepEnd(b *body.Body) {
	e.buffer = append(e.buffer, Event{Channel: ChannelSleepEnd, Body: b})
}

func (e *Events) emitBeforeAdd(c *composite.Composite) {
	e.buffer = append(e.buffer, Event{Channel: ChannelBeforeAdd, Composite: c})
}

func (e *Events) emitAfterAdd(c *composite.Composite) {
	e.buffer = append(e.buffer, Event{Channel: ChannelAfterAdd, Composite: c})
}

func (e *Events) emitBeforeRemove(c *composite.Composite) {
	e.buffer = append(e.buffer, Event{Channel: ChannelBeforeRemove, Composite: c})
}

func (e *Events) emitAfterRemove(c *composite.Composite) {
	e.buffer = append(e.buffer, Event{Channel: ChannelAfterRemove, Composite: c})
}

// trackSleepTransition compares b's current sleep state against what was
// last observed and emits SleepStart/SleepEnd only on an actual flip,
// mirroring the teacher's processSleepEvents (trigger.go) generalized
// from a *RigidBody-keyed map to an engine-scoped body id.
func (e *Events) trackSleepTransition(b *body.Body) {
	was, tracked := e.sleepStates[b.ID]
	if !tracked {
		e.sleepStates[b.ID] = b.IsSleeping
		return
	}
	if !was && b.IsSleeping {
		e.emitSleepStart(b)
	} else if was && !b.IsSleeping {
		e.emitSleepEnd(b)
	}
	e.sleepStates[b.ID] = b.IsSleeping
}

// flush invokes every buffered event's listeners in order, then clears
// the buffer.
func (e *Events) flush() {
	for _, ev := range e.buffer {
		for _, l := range e.listeners[ev.Channel] {
			l(ev)
		}
	}
	e.buffer = e.buffer[:0]
}
