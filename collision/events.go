package collision

import "github.com/milk9111/collide2d/geom"

type EventKind string

const (
	EventPreCollision   EventKind = "precollision"
	EventPostCollision  EventKind = "postcollision"
	EventCollisionStart EventKind = "collisionstart"
	EventCollisionEnd   EventKind = "collisionend"
	EventContactStart   EventKind = "contactstart"
	EventContactEnd     EventKind = "contactend"
)

// EventKinds lists every kind a collider can emit.
var EventKinds = []EventKind{
	EventPreCollision,
	EventPostCollision,
	EventCollisionStart,
	EventCollisionEnd,
	EventContactStart,
	EventContactEnd,
}

// Event is delivered to handlers registered on a collider. Self is the
// collider the event was first emitted on. Side and MTV are copied from the
// contact for every kind.
type Event struct {
	Kind    EventKind
	Self    Collider
	Other   Collider
	Side    Side
	MTV     geom.Vector
	Contact *Contact
}

type Handler func(Event)

type subscription struct {
	id      int
	kind    EventKind
	handler Handler
}

// EventEmitter dispatches events synchronously in subscription order.
type EventEmitter struct {
	subs   []subscription
	nextID int
}

func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// On registers handler for kind. The returned func removes it; calling it
// more than once is harmless.
func (e *EventEmitter) On(kind EventKind, handler Handler) (off func()) {
	return e.subscribe(kind, handler)
}

// OnAll registers handler for every kind.
func (e *EventEmitter) OnAll(handler Handler) (off func()) {
	return e.subscribe("", handler)
}

func (e *EventEmitter) subscribe(kind EventKind, handler Handler) func() {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, kind: kind, handler: handler})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every handler subscribed to ev.Kind.
func (e *EventEmitter) Emit(ev Event) {
	if e == nil || len(e.subs) == 0 {
		return
	}
	// handlers may unsubscribe while running
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	for _, s := range subs {
		if s.kind == "" || s.kind == ev.Kind {
			s.handler(ev)
		}
	}
}

// Len returns the number of live subscriptions.
func (e *EventEmitter) Len() int {
	return len(e.subs)
}
