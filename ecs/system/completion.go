package system

import (
	"github.com/milk9111/starchase/ecs"
	"github.com/milk9111/starchase/ecs/component"
)

// CompletionSystem latches the clock's Done flag and emits the completion
// event exactly once per world.
type CompletionSystem struct {
	clockEntity ecs.Entity
}

func NewCompletionSystem() *CompletionSystem {
	return &CompletionSystem{}
}

func (cs *CompletionSystem) Update(w *ecs.World) {
	e, ok := cachedFirst(w, &cs.clockEntity, component.SequenceClockComponent)
	if !ok {
		return
	}
	clk, _ := ecs.Get(w, e, component.SequenceClockComponent)
	if clk.Done || clk.Elapsed < clk.Duration {
		return
	}

	clk.Done = true
	mustSet(w, e, component.SequenceClockComponent, clk, "completion system")
	w.Events().Push(ecs.Event{
		Type: ecs.EventSequenceCompleted,
		Data: ecs.SequenceEvent{Entity: e, Elapsed: clk.Elapsed},
	})
}
