package common

import (
	"fmt"
	"math"
)

// Smoothstep is the cubic Hermite 3u²-2u³ for u in [0,1].
func Smoothstep(u float64) float64 {
	u = Clamp(u, 0, 1)
	return u * u * (3 - 2*u)
}

// WindowWeight is 0 outside the open interval (start, end) and rises with a
// smoothstep to exactly 1 at the window midpoint before falling back to 0.
func WindowWeight(t, start, end float64) float64 {
	if t <= start || t >= end {
		return 0
	}
	u := (t - start) / (end - start)
	p := 1 - 2*math.Abs(u-0.5)
	return Smoothstep(p)
}

// WindowRamp is 0 outside (start, end) and a one-sided smoothstep inside:
// close to 1 just before end, then 0 at end.
func WindowRamp(t, start, end float64) float64 {
	if t <= start || t >= end {
		return 0
	}
	return Smoothstep((t - start) / (end - start))
}

// WindowProfile selects the weight curve used for shot windows.
type WindowProfile int

const (
	ProfileBell WindowProfile = iota
	ProfileRamp
)

func (p WindowProfile) Weight(t, start, end float64) float64 {
	if p == ProfileRamp {
		return WindowRamp(t, start, end)
	}
	return WindowWeight(t, start, end)
}

func (p WindowProfile) String() string {
	switch p {
	case ProfileBell:
		return "bell"
	case ProfileRamp:
		return "ramp"
	default:
		return fmt.Sprintf("WindowProfile(%d)", int(p))
	}
}

// ParseWindowProfile maps a tuning-file name to a profile. Empty means bell.
func ParseWindowProfile(name string) (WindowProfile, error) {
	switch name {
	case "", "bell":
		return ProfileBell, nil
	case "ramp":
		return ProfileRamp, nil
	default:
		return ProfileBell, fmt.Errorf("common: unknown window profile %q", name)
	}
}
