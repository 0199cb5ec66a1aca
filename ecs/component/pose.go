package component

import "github.com/go-gl/mathgl/mgl64"

// Pose is recomputed every tick. Forward and Up are unit vectors, or zero when
// the heading is undefined (e.g. the target at t=0).
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Forward  mgl64.Vec3 `json:"forward"`
	Up       mgl64.Vec3 `json:"up"`
}

var PoseComponent = NewComponent[Pose]()
