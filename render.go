package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/starchase/chase"
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/prefabs"
	"golang.org/x/image/colornames"
)

// Projector maps world points to screen pixels for one camera pose.
type Projector struct {
	viewProj      mgl64.Mat4
	near          float64
	width, height float64
}

func NewProjector(eye, lookAt, up mgl64.Vec3, fovDeg, near, far, width, height float64) Projector {
	if up.Len() == 0 {
		up = common.WorldUp
	}
	view := mgl64.LookAtV(eye, lookAt, up)
	proj := mgl64.Perspective(mgl64.DegToRad(fovDeg), width/height, near, far)
	return Projector{
		viewProj: proj.Mul4(view),
		near:     near,
		width:    width,
		height:   height,
	}
}

// Project returns the pixel position of p and its depth in front of the
// camera. ok is false for points behind the near plane.
func (p Projector) Project(world mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := p.viewProj.Mul4x1(world.Vec4(1))
	w := clip.W()
	if w < p.near {
		return 0, 0, 0, false
	}
	ndcX, ndcY := clip.X()/w, clip.Y()/w
	return (ndcX + 1) / 2 * p.width, (1 - ndcY) / 2 * p.height, w, true
}

// fogAlpha fades from 1 at near to 0 at far.
func fogAlpha(dist, near, far float64) float64 {
	if far <= near {
		return 1
	}
	return 1 - common.Clamp((dist-near)/(far-near), 0, 1)
}

func fade(c color.Color, alpha float64) color.Color {
	r, g, b, a := c.RGBA()
	k := common.Clamp(alpha, 0, 1)
	return color.RGBA64{
		R: uint16(float64(r) * k),
		G: uint16(float64(g) * k),
		B: uint16(float64(b) * k),
		A: uint16(float64(a) * k),
	}
}

// trail keeps the last n positions of a craft, oldest first.
type trail struct {
	points []mgl64.Vec3
	n      int
}

func newTrail(n int) *trail {
	return &trail{n: n}
}

func (t *trail) Push(p mgl64.Vec3) {
	if t.n <= 0 {
		return
	}
	if len(t.points) == t.n {
		copy(t.points, t.points[1:])
		t.points = t.points[:t.n-1]
	}
	t.points = append(t.points, p)
}

func (t *trail) Points() []mgl64.Vec3 {
	return t.points
}

func (t *trail) Reset() {
	t.points = t.points[:0]
}

// starfield scatters n points on a sphere of the given radius. The same seed
// always yields the same sky.
func starfield(n int, radius float64, seed uint64) []mgl64.Vec3 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stars := make([]mgl64.Vec3, n)
	for i := range stars {
		z := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		r := math.Sqrt(1 - z*z)
		stars[i] = mgl64.Vec3{r * math.Cos(phi), z, r * math.Sin(phi)}.Mul(radius)
	}
	return stars
}

// Renderer draws frames of the chase.
type Renderer struct {
	scene         prefabs.SceneSpec
	width, height float64
	debug         bool

	stars       []mgl64.Vec3
	targetTrail *trail
	chaserTrail *trail
}

func NewRenderer(scene prefabs.SceneSpec, width, height float64, debug bool) *Renderer {
	return &Renderer{
		scene:       scene,
		width:       width,
		height:      height,
		debug:       debug,
		stars:       starfield(scene.Stars, scene.StarRadius, scene.StarSeed),
		targetTrail: newTrail(scene.TargetTrail),
		chaserTrail: newTrail(scene.ChaserTrail),
	}
}

// Observe records the craft positions of a ticked frame.
func (r *Renderer) Observe(f chase.Frame) {
	r.targetTrail.Push(f.Target.Position)
	r.chaserTrail.Push(f.Chaser.Position)
}

func (r *Renderer) Reset() {
	r.targetTrail.Reset()
	r.chaserTrail.Reset()
}

func (r *Renderer) projector(f chase.Frame) Projector {
	return NewProjector(f.Camera.Position, f.LookAt, f.Camera.Up, r.scene.FOV, r.scene.Near, r.scene.Far, r.width, r.height)
}

func (r *Renderer) Draw(screen *ebiten.Image, f chase.Frame) {
	screen.Fill(r.scene.Background.Or(colornames.Black))
	if f.Tick == 0 {
		return
	}

	proj := r.projector(f)
	for _, s := range r.stars {
		x, y, _, ok := proj.Project(s)
		if !ok {
			continue
		}
		vector.FillRect(screen, float32(x), float32(y), 1, 1, colornames.Lightsteelblue, false)
	}

	targetColor := r.scene.TargetColor.Or(color.NRGBA{R: 0x66, G: 0xb3, B: 0xff, A: 0xff})
	chaserColor := r.scene.ChaserColor.Or(color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff})

	r.drawTrail(screen, proj, f.Camera.Position, r.targetTrail, targetColor)
	r.drawTrail(screen, proj, f.Camera.Position, r.chaserTrail, chaserColor)
	r.drawCraft(screen, proj, f.Camera.Position, f.Target, targetColor)
	r.drawCraft(screen, proj, f.Camera.Position, f.Chaser, chaserColor)

	r.drawHUD(screen, f)
}

func (r *Renderer) drawTrail(screen *ebiten.Image, proj Projector, eye mgl64.Vec3, t *trail, c color.Color) {
	pts := t.Points()
	for i := 1; i < len(pts); i++ {
		x0, y0, _, ok0 := proj.Project(pts[i-1])
		x1, y1, _, ok1 := proj.Project(pts[i])
		if !ok0 || !ok1 {
			continue
		}
		age := float64(i) / float64(len(pts))
		alpha := age * fogAlpha(pts[i].Sub(eye).Len(), r.scene.FogNear, r.scene.FogFar)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, fade(c, alpha), true)
	}
}

func (r *Renderer) drawCraft(screen *ebiten.Image, proj Projector, eye mgl64.Vec3, pose chase.Pose, c color.Color) {
	x, y, depth, ok := proj.Project(pose.Position)
	if !ok {
		return
	}
	alpha := fogAlpha(pose.Position.Sub(eye).Len(), r.scene.FogNear, r.scene.FogFar)
	size := common.Clamp(300/depth, 2, 14)
	vector.FillCircle(screen, float32(x), float32(y), float32(size), fade(c, alpha), true)

	nose := common.AddScaled(pose.Position, pose.Forward, 3)
	if nx, ny, _, ok := proj.Project(nose); ok {
		vector.StrokeLine(screen, float32(x), float32(y), float32(nx), float32(ny), 1.5, fade(colornames.White, alpha), true)
	}
}

func (r *Renderer) drawHUD(screen *ebiten.Image, f chase.Frame) {
	msg := fmt.Sprintf("Shot: %s    t=%.2fs    FPS: %.1f", f.Shot, f.Elapsed, ebiten.ActualFPS())
	if f.Done {
		msg += "    [done: R to replay]"
	}
	if r.debug {
		msg += fmt.Sprintf("\nchaser %.1f %.1f %.1f  target %.1f %.1f %.1f  camera %.1f %.1f %.1f\nweights %.2f",
			f.Chaser.Position[0], f.Chaser.Position[1], f.Chaser.Position[2],
			f.Target.Position[0], f.Target.Position[1], f.Target.Position[2],
			f.Camera.Position[0], f.Camera.Position[1], f.Camera.Position[2],
			f.Weights)
	}
	ebitenutil.DebugPrint(screen, msg)
}
