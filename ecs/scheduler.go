package ecs

import "github.com/hajimehoshi/ebiten/v2"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// DrawSystem is a System that also renders.
type DrawSystem interface {
	Draw(w *World, screen *ebiten.Image)
}

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system once. Events left undrained from the previous
// tick are dropped first.
func (s *Scheduler) Update(w *World) {
	w.events.flush()
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Draw calls every system that can render.
func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	for _, system := range s.systems {
		if ds, ok := system.(DrawSystem); ok {
			ds.Draw(w, screen)
		}
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
