package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/ecs"
	"github.com/milk9111/starchase/ecs/component"
)

// PursuitSystem moves the chaser toward a point behind the target. The first
// tick only spawns it; every later tick eases it toward the desired point.
type PursuitSystem struct {
	clockEntity  ecs.Entity
	chaserEntity ecs.Entity
	targetEntity ecs.Entity
}

func NewPursuitSystem() *PursuitSystem {
	return &PursuitSystem{}
}

func (ps *PursuitSystem) Update(w *ecs.World) {
	clk, ok := clock(w, &ps.clockEntity)
	if !ok {
		return
	}
	chaser, ok := cachedFirst(w, &ps.chaserEntity, component.PursuitComponent)
	if !ok {
		return
	}
	target, ok := cachedFirst(w, &ps.targetEntity, component.TargetTagComponent)
	if !ok {
		return
	}

	tgt, ok := ecs.Get(w, target, component.PoseComponent)
	if !ok {
		return
	}
	pursuit, _ := ecs.Get(w, chaser, component.PursuitComponent)
	pose, _ := ecs.Get(w, chaser, component.PoseComponent)

	if !pursuit.Spawned {
		pose.Position = common.AddScaled(tgt.Position, tgt.Forward, -pursuit.SpawnBehind).Add(pursuit.SpawnBias)
		pursuit.Spawned = true
		mustSet(w, chaser, component.PursuitComponent, pursuit, "pursuit system")
		w.Events().Push(ecs.Event{
			Type: ecs.EventChaserSpawned,
			Data: ecs.SequenceEvent{Entity: chaser, Elapsed: clk.Elapsed},
		})
	} else {
		desired := DesiredPursuitPosition(pursuit, tgt, clk.Clamped())
		pose.Position = common.SmoothTowards(pose.Position, desired, pursuit.Rate, clk.Delta)
	}

	lead := common.AddScaled(tgt.Position, tgt.Forward, pursuit.LeadDistance)
	pose.Forward, _, pose.Up = common.LookBasis(pose.Position, lead)

	mustSet(w, chaser, component.PoseComponent, pose, "pursuit system")
}

// DesiredPursuitPosition is where the chaser wants to be at time t: behind the
// target along its heading, plus a slow lateral sway and vertical bob.
func DesiredPursuitPosition(p component.Pursuit, target component.Pose, t float64) mgl64.Vec3 {
	behind := common.AddScaled(target.Position, target.Forward, -p.BehindOffset)
	return behind.Add(mgl64.Vec3{
		p.SwayAmp * math.Sin(t*p.SwayFreq),
		p.BobAmp * math.Cos(t*p.BobFreq),
		0,
	})
}
