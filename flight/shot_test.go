package flight

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubject() Subject {
	return Subject{
		ChaserPos:     mgl64.Vec3{10, 0, 0},
		ChaserForward: mgl64.Vec3{0, 0, -1},
		ChaserRight:   mgl64.Vec3{1, 0, 0},
		ChaserUp:      mgl64.Vec3{0, 1, 0},
		TargetPos:     mgl64.Vec3{10, 0, -20},
		TargetDir:     mgl64.Vec3{0, 0, -1},
	}
}

func TestShotCandidates(t *testing.T) {
	shots := DefaultShots()
	sub := testSubject()

	cases := []struct {
		name string
		kind ShotKind
		want mgl64.Vec3
	}{
		{"establishing", Establishing, mgl64.Vec3{0, 30, 80}},
		{"chase_behind", ChaseBehind, mgl64.Vec3{10, 6, 18}},
		{"side_tracking", SideTracking, mgl64.Vec3{26, 3, 0}},
		{"target_lead", TargetLead, mgl64.Vec3{10, 2, -8}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := shots[c.kind]
			require.Equal(t, c.kind, s.Kind)
			assert.True(t, s.Candidate(sub).ApproxEqual(c.want), "got %v", s.Candidate(sub))
		})
	}
}

func TestBlendShotsEstablishingMidWindow(t *testing.T) {
	b := BlendShots(DefaultShots(), 2.5, testSubject(), common.ProfileBell)

	require.Len(t, b.Weights, 4)
	assert.InDelta(t, 1.0, b.Weights[0], 1e-12)
	assert.Equal(t, 0.0, b.Weights[1])
	assert.Equal(t, 0.0, b.Weights[2])
	assert.Equal(t, 0.0, b.Weights[3])
	assert.True(t, b.Position.ApproxEqualThreshold(mgl64.Vec3{0, 30, 80}, 1e-9))
	assert.Equal(t, 0, b.Active)
}

func TestBlendShotsActiveFollowsWindows(t *testing.T) {
	cases := []struct {
		t    float64
		want ShotKind
	}{
		{1, Establishing},
		{8.5, ChaseBehind},
		{14, SideTracking},
		{18, TargetLead},
	}

	for _, c := range cases {
		b := BlendShots(DefaultShots(), c.t, testSubject(), common.ProfileBell)
		assert.Equal(t, c.want, DefaultShots()[b.Active].Kind, "t=%v", c.t)
	}
}

func TestBlendShotsFallsBackWhenNoWeight(t *testing.T) {
	cases := []struct {
		name string
		t    float64
		want ShotKind
	}{
		{"before_start", -1, Establishing},
		{"sequence_start", 0, Establishing},
		{"chase_behind_edge", 5, ChaseBehind},
		{"side_tracking_edge", 12, SideTracking},
		{"target_lead_edge", 16, TargetLead},
		{"sequence_end", 20, TargetLead},
		{"past_end", 25, TargetLead},
	}

	sub := testSubject()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := BlendShots(DefaultShots(), c.t, sub, common.ProfileBell)
			assert.Equal(t, mgl64.Vec3{0, 30, 80}, b.Position)
			assert.Equal(t, c.want, DefaultShots()[b.Active].Kind)
		})
	}
}

func TestBlendShotsIsNotNormalized(t *testing.T) {
	shots := []Shot{
		{Kind: Establishing, Start: 0, End: 10, Anchor: mgl64.Vec3{1, 0, 0}},
		{Kind: Establishing, Start: 0, End: 10, Anchor: mgl64.Vec3{1, 0, 0}},
	}
	b := BlendShots(shots, 5, Subject{}, common.ProfileBell)

	assert.InDelta(t, 2.0, b.Weights[0]+b.Weights[1], 1e-12)
	assert.True(t, b.Position.ApproxEqual(mgl64.Vec3{2, 0, 0}))
}

func TestBlendShotsRampProfile(t *testing.T) {
	b := BlendShots(DefaultShots(), 2.5, testSubject(), common.ProfileRamp)
	assert.InDelta(t, 0.5, b.Weights[0], 1e-12)
	assert.True(t, b.Position.ApproxEqualThreshold(mgl64.Vec3{0, 15, 40}, 1e-9))
}

func TestParseShotKind(t *testing.T) {
	for _, k := range []ShotKind{Establishing, ChaseBehind, SideTracking, TargetLead} {
		got, err := ParseShotKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseShotKind("dolly_zoom")
	assert.Error(t, err)
	assert.Equal(t, "ShotKind(9)", ShotKind(9).String())
}
