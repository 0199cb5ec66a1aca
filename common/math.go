package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldUp is the +Y axis used to build look bases.
var WorldUp = mgl64.Vec3{0, 1, 0}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LerpVec3 interpolates componentwise; t=0 returns a, t=1 returns b.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// AddScaled returns v + d*s.
func AddScaled(v, d mgl64.Vec3, s float64) mgl64.Vec3 {
	return v.Add(d.Mul(s))
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
// mgl64's Normalize divides by zero in that case.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// SmoothFactor is the lerp fraction of a first-order filter with the given rate
// over dt seconds. Applying it n times with dt/n equals applying it once with dt.
func SmoothFactor(rate, dt float64) float64 {
	return 1 - math.Exp(-rate*dt)
}

// SmoothTowards moves cur toward goal at rate (1/s) over dt seconds.
func SmoothTowards(cur, goal mgl64.Vec3, rate, dt float64) mgl64.Vec3 {
	return LerpVec3(cur, goal, SmoothFactor(rate, dt))
}

// LookBasis derives forward/right/up for an observer at eye looking at target.
// Degenerate inputs (eye == target, forward parallel to WorldUp) yield zero axes.
func LookBasis(eye, target mgl64.Vec3) (forward, right, up mgl64.Vec3) {
	forward = Normalize(target.Sub(eye))
	return forward, RightOf(forward), UpOf(forward)
}

// RightOf returns normalize(forward x WorldUp).
func RightOf(forward mgl64.Vec3) mgl64.Vec3 {
	return Normalize(forward.Cross(WorldUp))
}

// UpOf returns normalize(right x forward) for the basis built from forward.
func UpOf(forward mgl64.Vec3) mgl64.Vec3 {
	return Normalize(RightOf(forward).Cross(forward))
}
