package chase

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/flight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = 1.0 / 60

func expectedSpawn() mgl64.Vec3 {
	spawn := common.AddScaled(flight.TargetPositionAt(0), flight.TargetDirectionAt(0), -20)
	return spawn.Add(mgl64.Vec3{4, 2, 0})
}

func runToCompletion(t *testing.T, seq *Sequence) []Frame {
	t.Helper()
	var frames []Frame
	n, err := RunFixed(context.Background(), seq, 60, func(f Frame) error {
		frames = append(frames, f)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, frames, n)
	return frames
}

func TestSpawnPlacement(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	require.False(t, seq.Spawned())

	f := seq.Tick(0, step)

	assert.True(t, seq.Spawned())
	assert.Equal(t, expectedSpawn(), f.Chaser.Position)
	assert.Equal(t, mgl64.Vec3{64, 2, 0}, f.Chaser.Position)
	assert.Equal(t, flight.TargetPositionAt(0), f.Target.Position)
}

func TestResetReproducesSpawn(t *testing.T) {
	seq := NewSequence(DefaultOptions())

	for i := 0; i < 3; i++ {
		for tick := 0; tick < 90; tick++ {
			seq.Tick(float64(tick)*step, step)
		}
		seq.Reset()
		assert.False(t, seq.Spawned())

		f := seq.Tick(0, step)
		assert.Equal(t, expectedSpawn(), f.Chaser.Position, "run %d", i)
		assert.Equal(t, 1, f.Tick)
		assert.False(t, f.Done)
	}
}

func TestChaserSpawnsOnceAndNeverZeroes(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	frames := runToCompletion(t, seq)

	spawnPoint := expectedSpawn()
	for i, f := range frames {
		assert.Greater(t, f.Chaser.Position.Len(), 0.0, "frame %d", i)
		if i > 0 {
			// Past the spawn tick the chaser only ever eases, it never jumps back.
			assert.NotEqual(t, spawnPoint, f.Chaser.Position, "frame %d", i)
		}
	}
	assert.True(t, seq.Spawned())
}

func TestChaserEasesTowardDesired(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	first := seq.Tick(0, step)
	second := seq.Tick(step, step)

	opts := DefaultOptions()
	target := second.Target
	behind := common.AddScaled(target.Position, target.Forward, -opts.Pursuit.BehindOffset)
	desired := behind.Add(mgl64.Vec3{4 * math.Sin(0.8*step), 2 * math.Cos(0.6*step), 0})
	want := common.SmoothTowards(first.Chaser.Position, desired, 2.5, step)

	assert.True(t, second.Chaser.Position.ApproxEqualThreshold(want, 1e-12), "got %v want %v", second.Chaser.Position, want)
}

func TestChaserLooksAtLeadPoint(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	var f Frame
	for i := 0; i <= 300; i++ {
		f = seq.Tick(float64(i)*step, step)
	}

	lead := common.AddScaled(f.Target.Position, f.Target.Forward, 6)
	want := lead.Sub(f.Chaser.Position).Normalize()
	assert.True(t, f.Chaser.Forward.ApproxEqualThreshold(want, 1e-12))
	assert.InDelta(t, 1.0, f.Chaser.Up.Len(), 1e-9)
	assert.InDelta(t, 0.0, f.Chaser.Up.Dot(f.Chaser.Forward), 1e-9)
}

func TestSmoothingIsFrameRateIndependent(t *testing.T) {
	// Past the duration the target and every shot goal are fixed, so one long
	// step must land where ten short ones do.
	once := NewSequence(DefaultOptions())
	stepped := NewSequence(DefaultOptions())
	runToCompletion(t, once)
	runToCompletion(t, stepped)

	a := once.Tick(21, 1.0)

	var b Frame
	for i := 1; i <= 10; i++ {
		b = stepped.Tick(20+float64(i)/10, 0.1)
	}

	assert.True(t, a.Chaser.Position.ApproxEqualThreshold(b.Chaser.Position, 1e-9), "chaser %v vs %v", a.Chaser.Position, b.Chaser.Position)
	assert.True(t, a.Camera.Position.ApproxEqualThreshold(b.Camera.Position, 1e-9), "camera %v vs %v", a.Camera.Position, b.Camera.Position)
}

func TestCameraWeightsMidEstablishing(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	var f Frame
	for i := 0; i <= 150; i++ {
		f = seq.Tick(float64(i)/60, step)
	}

	require.Equal(t, 2.5, f.Elapsed)
	require.Len(t, f.Weights, 4)
	assert.InDelta(t, 1.0, f.Weights[0], 1e-9)
	assert.InDelta(t, 0.0, f.Weights[1], 1e-9)
	assert.InDelta(t, 0.0, f.Weights[2], 1e-9)
	assert.InDelta(t, 0.0, f.Weights[3], 1e-9)
	assert.True(t, f.DesiredCamera.ApproxEqualThreshold(mgl64.Vec3{0, 30, 80}, 1e-9))
	assert.Equal(t, flight.Establishing, f.Shot)
}

func TestCameraFirstTickStartsFromInitialPosition(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	f := seq.Tick(0, step)

	// Every window is closed at t=0, so the blend falls back to the establishing anchor.
	assert.Equal(t, mgl64.Vec3{0, 30, 80}, f.DesiredCamera)
	want := common.SmoothTowards(mgl64.Vec3{0, 8, 22}, mgl64.Vec3{0, 30, 80}, 3.0, step)
	assert.True(t, f.Camera.Position.ApproxEqualThreshold(want, 1e-12))
}

func TestCameraLooksAtMidpoint(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	var f Frame
	for i := 0; i <= 500; i++ {
		f = seq.Tick(float64(i)*step, step)
	}

	mid := common.LerpVec3(f.Chaser.Position, f.Target.Position, 0.5)
	assert.True(t, f.LookAt.ApproxEqualThreshold(mid, 1e-12))
	assert.True(t, f.Camera.Forward.ApproxEqualThreshold(mid.Sub(f.Camera.Position).Normalize(), 1e-12))
}

func TestShotProgression(t *testing.T) {
	frames := runToCompletion(t, NewSequence(DefaultOptions()))

	seen := map[flight.ShotKind]bool{}
	for _, f := range frames {
		seen[f.Shot] = true
	}
	for _, k := range []flight.ShotKind{flight.Establishing, flight.ChaseBehind, flight.SideTracking, flight.TargetLead} {
		assert.True(t, seen[k], "shot %s never active", k)
	}
}

func TestDoneFlagAcrossFixedRun(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	frames := runToCompletion(t, seq)

	require.Len(t, frames, 1201)
	for i, f := range frames[:1200] {
		assert.False(t, f.Done, "frame %d at %v", i, f.Elapsed)
		assert.False(t, f.Completed, "frame %d", i)
	}
	last := frames[1200]
	assert.Equal(t, 20.0, last.Elapsed)
	assert.True(t, last.Done)
	assert.True(t, last.Completed)

	after := seq.Tick(20+step, step)
	assert.True(t, after.Done)
	assert.False(t, after.Completed)
}

func TestOnCompleteFiresOncePerRun(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	var calls []float64
	seq.OnComplete(func(f Frame) { calls = append(calls, f.Elapsed) })
	seq.OnComplete(nil)

	runToCompletion(t, seq)
	seq.Tick(25, 5)
	require.Len(t, calls, 1)

	seq.Reset()
	seq.Tick(0, step)
	seq.Tick(30, 30)
	assert.Equal(t, []float64{20, 30}, calls)
}

func TestRampProfileOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Rig.Profile = common.ProfileRamp
	seq := NewSequence(opts)

	var f Frame
	for i := 0; i <= 150; i++ {
		f = seq.Tick(float64(i)/60, step)
	}
	assert.InDelta(t, 0.5, f.Weights[0], 1e-9)
	assert.True(t, f.DesiredCamera.ApproxEqualThreshold(mgl64.Vec3{0, 15, 40}, 1e-9))
}

func TestShotsReturnsCopy(t *testing.T) {
	seq := NewSequence(DefaultOptions())
	shots := seq.Shots()
	shots[0].Anchor = mgl64.Vec3{1, 1, 1}

	assert.Equal(t, mgl64.Vec3{0, 30, 80}, seq.Shots()[0].Anchor)
	assert.Equal(t, 20.0, seq.Duration())
}
