package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/flight"
)

// CameraRig blends authored shots and eases the camera toward the blend.
type CameraRig struct {
	Shots   []flight.Shot
	Profile common.WindowProfile

	Rate            float64    // smoothing rate, 1/s
	LookBlend       float64    // 0 looks at the chaser, 1 at the target
	InitialPosition mgl64.Vec3 // camera position before the first tick

	Initialized bool

	// Written every tick.
	LookAt  mgl64.Vec3
	Desired mgl64.Vec3
	Weights []float64
	Active  int
}

func DefaultCameraRig() CameraRig {
	return CameraRig{
		Shots:           flight.DefaultShots(),
		Profile:         common.ProfileBell,
		Rate:            3.0,
		LookBlend:       0.5,
		InitialPosition: mgl64.Vec3{0, 8, 22},
	}
}

// ActiveShot returns the heaviest shot of the last tick.
func (r CameraRig) ActiveShot() flight.Shot {
	if r.Active < 0 || r.Active >= len(r.Shots) {
		return flight.Shot{}
	}
	return r.Shots[r.Active]
}

var CameraRigComponent = NewComponent[CameraRig]()
