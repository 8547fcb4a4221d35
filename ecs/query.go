package ecs

import "github.com/milk9111/collide2d/ecs/component"

// intersect returns the entities present in every store. It walks the
// smallest store and snapshots the result, so callers may mutate stores.
func intersect(stores ...store) []Entity {
	if len(stores) == 0 {
		return nil
	}
	smallest := stores[0]
	for _, s := range stores[1:] {
		if s.len() < smallest.len() {
			smallest = s
		}
	}
	out := make([]Entity, 0, smallest.len())
outer:
	for _, e := range smallest.entities() {
		for _, s := range stores {
			if s != smallest && !s.has(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

// Query returns the live entities holding every kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}
	var out []Entity
	for _, e := range intersect(stores...) {
		if w.entities.isAlive(e) {
			out = append(out, e)
		}
	}
	return out
}
