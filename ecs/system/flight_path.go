package system

import (
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/ecs"
	"github.com/milk9111/starchase/ecs/component"
)

// FlightPathSystem places every FlightPath entity on its path for the current
// tick and derives its heading.
type FlightPathSystem struct {
	clockEntity ecs.Entity
}

func NewFlightPathSystem() *FlightPathSystem {
	return &FlightPathSystem{}
}

func (fs *FlightPathSystem) Update(w *ecs.World) {
	clk, ok := clock(w, &fs.clockEntity)
	if !ok {
		return
	}
	t := clk.Clamped()

	type placement struct {
		e    ecs.Entity
		pose component.Pose
	}
	var placed []placement
	ecs.ForEach(w, component.FlightPathComponent, func(e ecs.Entity, fp component.FlightPath) {
		forward := fp.Path.DirectionAt(t)
		placed = append(placed, placement{e: e, pose: component.Pose{
			Position: fp.Path.PositionAt(t),
			Forward:  forward,
			Up:       common.UpOf(forward),
		}})
	})

	for _, p := range placed {
		mustSet(w, p.e, component.PoseComponent, p.pose, "flight path system")
	}
}
