package component

import "github.com/go-gl/mathgl/mgl64"

// Pursuit makes an entity trail the TargetTag entity with exponential lag.
type Pursuit struct {
	// Spawned flips once, on the first tick; only a new world clears it.
	Spawned bool

	SpawnBehind float64    // distance behind the target on spawn
	SpawnBias   mgl64.Vec3 // world offset added on spawn

	BehindOffset float64 // desired distance behind the target while tracking
	SwayAmp      float64 // lateral oscillation amplitude
	SwayFreq     float64 // rad/s
	BobAmp       float64 // vertical oscillation amplitude
	BobFreq      float64 // rad/s

	Rate         float64 // smoothing rate, 1/s
	LeadDistance float64 // look-at lead ahead of the target
}

func DefaultPursuit() Pursuit {
	return Pursuit{
		SpawnBehind:  20,
		SpawnBias:    mgl64.Vec3{4, 2, 0},
		BehindOffset: 14,
		SwayAmp:      4,
		SwayFreq:     0.8,
		BobAmp:       2,
		BobFreq:      0.6,
		Rate:         2.5,
		LeadDistance: 6,
	}
}

var PursuitComponent = NewComponent[Pursuit]()
