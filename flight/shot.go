package flight

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/common"
)

type ShotKind int

const (
	Establishing ShotKind = iota
	ChaseBehind
	SideTracking
	TargetLead
)

var shotKindNames = [...]string{
	Establishing: "establishing",
	ChaseBehind:  "chase_behind",
	SideTracking: "side_tracking",
	TargetLead:   "target_lead",
}

func (k ShotKind) String() string {
	if k >= 0 && int(k) < len(shotKindNames) {
		return shotKindNames[k]
	}
	return fmt.Sprintf("ShotKind(%d)", int(k))
}

func ParseShotKind(name string) (ShotKind, error) {
	for k, n := range shotKindNames {
		if n == name {
			return ShotKind(k), nil
		}
	}
	return 0, fmt.Errorf("flight: unknown shot kind %q", name)
}

func (k ShotKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ShotKind) UnmarshalText(b []byte) error {
	parsed, err := ParseShotKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Subject is what a shot frames: the chaser's pose and basis plus the target.
type Subject struct {
	ChaserPos     mgl64.Vec3
	ChaserForward mgl64.Vec3
	ChaserRight   mgl64.Vec3
	ChaserUp      mgl64.Vec3
	TargetPos     mgl64.Vec3
	TargetDir     mgl64.Vec3
}

// Shot is one authored camera behavior active inside [Start, End).
// Which framing fields are read depends on Kind.
type Shot struct {
	Kind  ShotKind
	Start float64
	End   float64

	Anchor mgl64.Vec3 // Establishing
	Back   float64    // ChaseBehind, TargetLead
	Side   float64    // SideTracking
	Rise   float64    // ChaseBehind, SideTracking, TargetLead
}

var framers = [...]func(s Shot, sub Subject) mgl64.Vec3{
	Establishing: func(s Shot, _ Subject) mgl64.Vec3 {
		return s.Anchor
	},
	ChaseBehind: func(s Shot, sub Subject) mgl64.Vec3 {
		p := common.AddScaled(sub.ChaserPos, sub.ChaserForward, -s.Back)
		return common.AddScaled(p, sub.ChaserUp, s.Rise)
	},
	SideTracking: func(s Shot, sub Subject) mgl64.Vec3 {
		p := common.AddScaled(sub.ChaserPos, sub.ChaserRight, s.Side)
		return common.AddScaled(p, sub.ChaserUp, s.Rise)
	},
	TargetLead: func(s Shot, sub Subject) mgl64.Vec3 {
		p := common.AddScaled(sub.TargetPos, sub.TargetDir, -s.Back)
		return p.Add(mgl64.Vec3{0, s.Rise, 0})
	},
}

// Candidate returns the camera position this shot wants for sub.
func (s Shot) Candidate(sub Subject) mgl64.Vec3 {
	if s.Kind < 0 || int(s.Kind) >= len(framers) {
		return s.Anchor
	}
	return framers[s.Kind](s, sub)
}

func DefaultShots() []Shot {
	return []Shot{
		{Kind: Establishing, Start: 0, End: 5, Anchor: mgl64.Vec3{0, 30, 80}},
		{Kind: ChaseBehind, Start: 5, End: 12, Back: 18, Rise: 6},
		{Kind: SideTracking, Start: 12, End: 16, Side: 16, Rise: 3},
		{Kind: TargetLead, Start: 16, End: 20, Back: 12, Rise: 2},
	}
}

// Blend is the result of weighting every shot at one instant.
type Blend struct {
	Position   mgl64.Vec3
	Weights    []float64
	Candidates []mgl64.Vec3
	// Active is the index of the heaviest shot. When all weights are 0 it is
	// the latest shot whose window has started by t, or 0 before any has.
	Active int
}

// BlendShots sums each candidate scaled by its window weight at t. Weights are
// not normalized. When every weight is zero the first shot's candidate is used.
func BlendShots(shots []Shot, t float64, sub Subject, profile common.WindowProfile) Blend {
	b := Blend{
		Weights:    make([]float64, len(shots)),
		Candidates: make([]mgl64.Vec3, len(shots)),
	}

	var sum float64
	best := -1.0
	for i, s := range shots {
		w := profile.Weight(t, s.Start, s.End)
		c := s.Candidate(sub)
		b.Weights[i] = w
		b.Candidates[i] = c
		b.Position = common.AddScaled(b.Position, c, w)
		sum += w
		if w > best {
			best = w
			b.Active = i
		}
	}

	if sum == 0 {
		b.Active = startedShot(shots, t)
		if len(shots) > 0 {
			b.Position = b.Candidates[0]
		}
	}
	return b
}

// startedShot returns the shot with the latest start at or before t.
func startedShot(shots []Shot, t float64) int {
	active := 0
	latest := 0.0
	found := false
	for i, s := range shots {
		if s.Start > t {
			continue
		}
		if !found || s.Start > latest {
			active, latest, found = i, s.Start, true
		}
	}
	return active
}
