package ecs

import "github.com/milk9111/strafe/ecs/component"

// System updates a world once per frame.
type System interface {
	Update(w *World)
}

// World owns entities, their component stores, frame timing and events.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue

	frameDelta float64
	frames     uint64
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity frees e and drops all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.live()
}

// BeginFrame records the wall-clock seconds covered by the coming Update.
func (w *World) BeginFrame(delta float64) {
	if w == nil {
		return
	}
	w.frameDelta = delta
	w.frames++
}

// FrameDelta is the seconds passed to the last BeginFrame.
func (w *World) FrameDelta() float64 {
	if w == nil {
		return 0
	}
	return w.frameDelta
}

// Frames counts BeginFrame calls.
func (w *World) Frames() uint64 {
	if w == nil {
		return 0
	}
	return w.frames
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}
