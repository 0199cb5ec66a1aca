package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func TestProjectorCentersLookAt(t *testing.T) {
	eye := mgl64.Vec3{0, 8, 22}
	target := mgl64.Vec3{60, 0, 0}
	p := NewProjector(eye, target, mgl64.Vec3{}, 50, 0.1, 1000, 1280, 720)

	x, y, depth, ok := p.Project(target)
	require.True(t, ok)
	assert.InDelta(t, 640, x, 1e-6)
	assert.InDelta(t, 360, y, 1e-6)
	assert.InDelta(t, target.Sub(eye).Len(), depth, 1e-6)
}

func TestProjectorOrientation(t *testing.T) {
	p := NewProjector(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 50, 0.1, 1000, 800, 600)

	rx, _, _, ok := p.Project(mgl64.Vec3{1, 0, 0})
	require.True(t, ok)
	assert.Greater(t, rx, 400.0, "+x should land right of center")

	_, uy, _, ok := p.Project(mgl64.Vec3{0, 1, 0})
	require.True(t, ok)
	assert.Less(t, uy, 300.0, "+y should land above center")

	_, _, _, ok = p.Project(mgl64.Vec3{0, 0, 20})
	assert.False(t, ok, "points behind the camera are culled")
}

func TestFogAlpha(t *testing.T) {
	cases := []struct {
		name string
		dist float64
		want float64
	}{
		{"inside_near", 10, 1},
		{"at_near", 60, 1},
		{"halfway", 150, 0.5},
		{"at_far", 240, 0},
		{"beyond_far", 500, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, fogAlpha(c.dist, 60, 240), 1e-12)
		})
	}
	assert.Equal(t, 1.0, fogAlpha(100, 50, 50))
}

func TestTrailKeepsNewest(t *testing.T) {
	tr := newTrail(3)
	for i := 0; i < 5; i++ {
		tr.Push(mgl64.Vec3{float64(i), 0, 0})
	}
	pts := tr.Points()
	require.Len(t, pts, 3)
	assert.Equal(t, 2.0, pts[0].X())
	assert.Equal(t, 4.0, pts[2].X())

	tr.Reset()
	assert.Empty(t, tr.Points())

	empty := newTrail(0)
	empty.Push(mgl64.Vec3{1, 1, 1})
	assert.Empty(t, empty.Points())
}

func TestStarfieldDeterministicShell(t *testing.T) {
	a := starfield(500, 300, 20)
	b := starfield(500, 300, 20)
	c := starfield(500, 300, 21)

	require.Len(t, a, 500)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for _, s := range a {
		assert.InDelta(t, 300, s.Len(), 1e-9)
	}
}

func TestFadeScalesAlpha(t *testing.T) {
	r, g, b, a := fade(colornames.White, 0.5).RGBA()
	assert.InDelta(t, 0xffff/2, float64(a), 1)
	assert.Equal(t, a, r)
	assert.Equal(t, g, b)
	_, _, _, a = fade(colornames.White, 2).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}
