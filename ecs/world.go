package ecs

import (
	"fmt"

	"github.com/milk9111/starchase/ecs/component"
)

// kind is satisfied by every component.ComponentKind[T].
type kind interface {
	ID() component.ComponentID
}

// World owns entities, their components and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires its handle.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, set := range w.stores {
		set.Remove(int(e.id()))
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	return w.entities.alive()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	set, ok := w.stores[id]
	if !ok && create {
		set = &SparseSet{}
		w.stores[id] = set
	}
	return set
}

// AddComponent sets (or replaces) the component with the given id on e.
func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	w.store(id, true).Set(int(e.id()), value)
	return nil
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Remove(int(e.id()))
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	return w.entities.isAlive(e) && w.store(id, false).Has(int(e.id()))
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.HasComponent(e, id) {
		return nil, false
	}
	return w.store(id, false).Get(int(e.id())), true
}

// First returns the first entity (in storage order) that has the component kind.
func (w *World) First(k kind) (Entity, bool) {
	set := w.store(k.ID(), false)
	if set.Len() == 0 {
		return 0, false
	}
	return w.entities.entity(set.denseEntities[0]), true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	return &w.events
}
