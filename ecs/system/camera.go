package system

import (
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/ecs"
	"github.com/milk9111/starchase/ecs/component"
	"github.com/milk9111/starchase/flight"
)

// CameraSystem frames the chase: it blends the rig's shots for the current
// time, eases the camera toward the blend and aims it between chaser and target.
type CameraSystem struct {
	clockEntity  ecs.Entity
	camEntity    ecs.Entity
	chaserEntity ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	clk, ok := clock(w, &cs.clockEntity)
	if !ok {
		return
	}
	cam, ok := cachedFirst(w, &cs.camEntity, component.CameraRigComponent)
	if !ok {
		return
	}
	chaserEntity, ok := cachedFirst(w, &cs.chaserEntity, component.ChaserTagComponent)
	if !ok {
		return
	}
	targetEntity, ok := cachedFirst(w, &cs.targetEntity, component.TargetTagComponent)
	if !ok {
		return
	}

	chaser, ok := ecs.Get(w, chaserEntity, component.PoseComponent)
	if !ok {
		return
	}
	target, ok := ecs.Get(w, targetEntity, component.PoseComponent)
	if !ok {
		return
	}
	rig, _ := ecs.Get(w, cam, component.CameraRigComponent)
	pose, _ := ecs.Get(w, cam, component.PoseComponent)

	sub := flight.Subject{
		ChaserPos:     chaser.Position,
		ChaserForward: chaser.Forward,
		ChaserRight:   common.RightOf(chaser.Forward),
		ChaserUp:      common.UpOf(chaser.Forward),
		TargetPos:     target.Position,
		TargetDir:     target.Forward,
	}
	blend := flight.BlendShots(rig.Shots, clk.Clamped(), sub, rig.Profile)

	if !rig.Initialized {
		pose.Position = rig.InitialPosition
		rig.Initialized = true
	}
	pose.Position = common.SmoothTowards(pose.Position, blend.Position, rig.Rate, clk.Delta)

	rig.LookAt = common.LerpVec3(chaser.Position, target.Position, rig.LookBlend)
	rig.Desired = blend.Position
	rig.Weights = blend.Weights
	rig.Active = blend.Active
	pose.Forward, _, pose.Up = common.LookBasis(pose.Position, rig.LookAt)

	mustSet(w, cam, component.CameraRigComponent, rig, "camera system")
	mustSet(w, cam, component.PoseComponent, pose, "camera system")
}
