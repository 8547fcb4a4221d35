package system

import (
	"time"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
)

type trackedCollider struct {
	comp     *component.Collider
	collider collision.Collider
	body     *collision.Body
	off      func()
}

// CollisionSystem runs broadphase, narrowphase and the solver for every
// entity with a Body and a Collider, then reports contacts that started or
// ended this tick.
type CollisionSystem struct {
	config ConfigSource
	cfg    collision.Config
	step   time.Duration

	processor *collision.DynamicTreeProcessor
	solver    collision.Solver
	stats     *collision.Stats

	tracked map[ecs.Entity]*trackedCollider
	owners  map[*collision.Body]ecs.Entity

	// ids keep the solved order so start and end events replay identically
	current    map[string]*collision.Contact
	last       map[string]*collision.Contact
	currentIDs []string
	lastIDs    []string

	Debug bool
}

func NewCollisionSystem(config ConfigSource, step time.Duration) *CollisionSystem {
	if step <= 0 {
		step = DefaultStep
	}
	cfg := loadConfig(config)
	return &CollisionSystem{
		config:    config,
		cfg:       cfg,
		step:      step,
		processor: collision.NewDynamicTreeProcessor(cfg),
		solver:    collision.NewSolver(cfg),
		stats:     collision.NewStats(),
		tracked:   make(map[ecs.Entity]*trackedCollider),
		owners:    make(map[*collision.Body]ecs.Entity),
		current:   make(map[string]*collision.Contact),
		last:      make(map[string]*collision.Contact),
	}
}

// Processor exposes the broadphase for ray casts and debug drawing.
func (s *CollisionSystem) Processor() *collision.DynamicTreeProcessor {
	return s.processor
}

// Stats returns the counters of the last tick.
func (s *CollisionSystem) Stats() *collision.Stats {
	return s.stats
}

// Contacts returns the contacts alive after the last tick, keyed by id.
func (s *CollisionSystem) Contacts() map[string]*collision.Contact {
	return s.last
}

// EntityFor maps a collider back to the entity that owns it.
func (s *CollisionSystem) EntityFor(c collision.Collider) (ecs.Entity, bool) {
	if c == nil || c.Owner() == nil {
		return 0, false
	}
	e, ok := s.owners[c.Owner()]
	return e, ok
}

func (s *CollisionSystem) applyConfig(cfg collision.Config) {
	if cfg == s.cfg {
		return
	}
	if cfg.Solver != s.cfg.Solver {
		s.solver = collision.NewSolver(cfg)
	} else {
		s.solver.SetConfig(cfg)
	}
	s.processor.SetConfig(cfg)
	s.cfg = cfg
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	cfg := loadConfig(s.config)
	if !cfg.Enabled {
		return
	}
	s.applyConfig(cfg)
	s.stats.Reset()

	colliders := s.sync(w)
	for _, c := range colliders {
		c.Update(c.Owner().Transform)
	}
	s.stats.TreeUpdates = s.processor.Update(colliders)

	pairs := s.processor.Broadphase(colliders, s.step, s.stats)
	contacts, err := s.processor.Narrowphase(pairs, s.stats)
	if err != nil {
		panic("collision system: narrowphase: " + err.Error())
	}

	start := time.Now()
	solved := s.solver.Solve(contacts)
	s.stats.Solve = time.Since(start)

	clear(s.current)
	s.currentIDs = s.currentIDs[:0]
	for _, c := range solved {
		id := c.CompositeID()
		if _, ok := s.current[id]; !ok {
			s.currentIDs = append(s.currentIDs, id)
		}
		s.current[id] = c
	}
	s.diff()
	s.current, s.last = s.last, s.current
	s.currentIDs, s.lastIDs = s.lastIDs, s.currentIDs
}

// sync tracks new colliders and drops removed ones. It returns the colliders
// to simulate this tick.
func (s *CollisionSystem) sync(w *ecs.World) []collision.Collider {
	seen := make(map[ecs.Entity]struct{}, len(s.tracked))
	var colliders []collision.Collider

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, body *component.Body, comp *component.Collider) {
		col := comp.Get()
		if col == nil {
			return
		}
		seen[e] = struct{}{}

		t, ok := s.tracked[e]
		if ok && (t.collider != col || t.body != body) {
			s.untrack(e, t)
			ok = false
		}
		if !ok {
			t = s.track(w, e, body, comp)
		}
		if col.Owner() != body {
			comp.Attach(body)
		}
		body.SetActive(true)
		colliders = append(colliders, col)
	})

	for e, t := range s.tracked {
		if _, ok := seen[e]; !ok {
			s.untrack(e, t)
		}
	}
	return colliders
}

func (s *CollisionSystem) track(w *ecs.World, e ecs.Entity, body *collision.Body, comp *component.Collider) *trackedCollider {
	col := comp.Get()
	comp.Attach(body)
	s.processor.Track(col)

	t := &trackedCollider{comp: comp, collider: col, body: body}
	t.off = comp.Events().OnAll(func(ev collision.Event) {
		s.forward(w, e, ev)
	})
	s.tracked[e] = t
	s.owners[body] = e
	return t
}

// untrack removes the collider from the tree before its owner is cleared,
// since the tree needs the owner to find padded bounds.
func (s *CollisionSystem) untrack(e ecs.Entity, t *trackedCollider) {
	s.processor.Untrack(t.collider)
	if t.off != nil {
		t.off()
	}
	t.body.SetActive(false)
	if t.body.Collider() == t.collider {
		t.body.SetCollider(nil)
	}
	t.collider.SetOwner(nil)
	delete(s.tracked, e)
	if s.owners[t.body] == e {
		delete(s.owners, t.body)
	}
}

// diff emits start events for new ids in solved order, then end events for
// vanished ids in last tick's order.
func (s *CollisionSystem) diff() {
	for _, id := range s.currentIDs {
		if _, ok := s.last[id]; ok {
			continue
		}
		c := s.current[id]
		collision.EmitContactEvent(collision.EventCollisionStart, c)
		collision.EmitContactEvent(collision.EventContactStart, c)
	}
	for _, id := range s.lastIDs {
		if _, ok := s.current[id]; ok {
			continue
		}
		c := s.last[id]
		collision.EmitContactEvent(collision.EventCollisionEnd, c)
		collision.EmitContactEvent(collision.EventContactEnd, c)
	}
}

// forward re-broadcasts a collider event onto the world queue.
func (s *CollisionSystem) forward(w *ecs.World, e ecs.Entity, ev collision.Event) {
	other, _ := s.EntityFor(ev.Other)
	contactID := ""
	if ev.Contact != nil {
		contactID = ev.Contact.ID
	}
	w.Events().Push(ecs.Event{
		Type: ecs.EventTypeCollision,
		Data: ecs.CollisionEvent{
			Entity:    e,
			Other:     other,
			Kind:      ecs.CollisionEventKind(ev.Kind),
			Side:      string(ev.Side),
			ContactID: contactID,
		},
	})
}
