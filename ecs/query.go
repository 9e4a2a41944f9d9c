package ecs

import "github.com/milk9111/strafe/ecs/component"

// intersect returns the entities present in every listed store, walking the
// smallest store. A missing store yields nil.
func intersect(w *World, ids ...component.ComponentID) []Entity {
	if len(ids) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(ids))
	for _, id := range ids {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}

	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}

	out := make([]Entity, 0, smallest.Len())
	for _, e := range smallest.Entities() {
		inAll := true
		for _, s := range sets {
			if !s.Has(e) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, e)
		}
	}
	return out
}

// snapshot copies a store's entity list so callbacks may add or remove
// components while iterating.
func snapshot(s *SparseSet) []Entity {
	return append([]Entity(nil), s.Entities()...)
}
