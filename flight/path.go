// Package flight holds the pure parts of the chase: the target's scripted
// path and the camera shot table.
package flight

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/common"
)

// Duration is the length of the sequence in seconds.
const Duration = 20.0

// Path is a closed-form flight path evaluated over a normalized time s in [0,1].
// Periodic terms are expressed in full cycles over the sequence.
type Path struct {
	Duration float64

	// x = cos(2πs)·Radius
	Radius float64

	// y = sin(2πs·WeaveCycles)·WeaveAmp + sin(2πs·DriftCycles)·DriftAmp
	WeaveAmp    float64
	WeaveCycles float64
	DriftAmp    float64
	DriftCycles float64

	// z = -s·Travel + sin(2πs)·Wobble
	Travel float64
	Wobble float64

	// HeadingEpsilon is the backward sampling step for DirectionAt, seconds.
	HeadingEpsilon float64
}

func DefaultPath() Path {
	return Path{
		Duration:       Duration,
		Radius:         60,
		WeaveAmp:       8,
		WeaveCycles:    2,
		DriftAmp:       5,
		DriftCycles:    0.75,
		Travel:         240,
		Wobble:         20,
		HeadingEpsilon: 0.05,
	}
}

// PositionAt evaluates the path at t seconds. t outside [0, Duration] is clamped.
func (p Path) PositionAt(t float64) mgl64.Vec3 {
	s := common.Clamp(t/p.Duration, 0, 1)
	turn := 2 * math.Pi * s
	return mgl64.Vec3{
		math.Cos(turn) * p.Radius,
		math.Sin(turn*p.WeaveCycles)*p.WeaveAmp + math.Sin(turn*p.DriftCycles)*p.DriftAmp,
		-s*p.Travel + math.Sin(turn)*p.Wobble,
	}
}

// DirectionAt approximates the heading by a backward difference over
// HeadingEpsilon. The earlier sample never goes before 0, so the heading at
// t=0 is the zero vector.
func (p Path) DirectionAt(t float64) mgl64.Vec3 {
	prev := math.Max(0, t-p.HeadingEpsilon)
	return common.Normalize(p.PositionAt(t).Sub(p.PositionAt(prev)))
}

var defaultPath = DefaultPath()

func TargetPositionAt(t float64) mgl64.Vec3 {
	return defaultPath.PositionAt(t)
}

func TargetDirectionAt(t float64) mgl64.Vec3 {
	return defaultPath.DirectionAt(t)
}
