package ecs

import (
	"fmt"

	"github.com/milk9111/starchase/ecs/component"
)

// Add sets handle's component on e. Errors name the component type.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if err := w.AddComponent(e, handle.Kind().ID(), value); err != nil {
		return fmt.Errorf("add %s: %w", handle.Kind().Name(), err)
	}
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind().ID())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind().ID())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	value, ok := w.GetComponent(e, handle.Kind().ID())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// First returns the first live entity holding handle's component.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, bool) {
	return w.First(handle.Kind())
}

// ForEach calls fn for every entity holding handle's component, in storage order.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, value T)) {
	set := w.store(handle.Kind().ID(), false)
	if set == nil {
		return
	}
	for i, id := range set.denseEntities {
		v, ok := set.denseValues[i].(T)
		if !ok {
			continue
		}
		fn(w.entities.entity(id), v)
	}
}
