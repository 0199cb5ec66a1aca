package system

import (
	"github.com/milk9111/starchase/ecs"
	"github.com/milk9111/starchase/ecs/component"
)

// cachedFirst returns *cached when it is still alive, otherwise the first
// entity holding handle's component.
func cachedFirst[T any](w *ecs.World, cached *ecs.Entity, handle component.ComponentHandle[T]) (ecs.Entity, bool) {
	if cached.Valid() && w.IsAlive(*cached) {
		return *cached, true
	}
	e, ok := ecs.First(w, handle)
	if ok {
		*cached = e
	}
	return e, ok
}

func mustSet[T any](w *ecs.World, e ecs.Entity, handle component.ComponentHandle[T], value T, who string) {
	if err := ecs.Add(w, e, handle, value); err != nil {
		panic(who + ": " + err.Error())
	}
}

func clock(w *ecs.World, cached *ecs.Entity) (component.SequenceClock, bool) {
	e, ok := cachedFirst(w, cached, component.SequenceClockComponent)
	if !ok {
		return component.SequenceClock{}, false
	}
	return ecs.Get(w, e, component.SequenceClockComponent)
}
