// Package chase evaluates the chase sequence one frame at a time. A Sequence
// owns the world holding the target, chaser and camera, and advances it in a
// fixed system order: target path, pursuit, camera, completion.
package chase

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/ecs"
	"github.com/milk9111/starchase/ecs/component"
	"github.com/milk9111/starchase/ecs/system"
	"github.com/milk9111/starchase/flight"
	"github.com/rs/zerolog"
)

type Pose = component.Pose

// Frame is the observable result of one tick.
type Frame struct {
	Tick    int     `json:"tick"`
	Elapsed float64 `json:"elapsed"`
	Delta   float64 `json:"delta"`

	Target Pose `json:"target"`
	Chaser Pose `json:"chaser"`
	Camera Pose `json:"camera"`

	LookAt        mgl64.Vec3      `json:"look_at"`
	DesiredCamera mgl64.Vec3      `json:"desired_camera"`
	Weights       []float64       `json:"weights"`
	Shot          flight.ShotKind `json:"shot"`

	// Done is true from the first tick at or past the duration until Reset.
	Done bool `json:"done"`
	// Completed is true on that first tick only.
	Completed bool `json:"completed,omitempty"`

	Cost time.Duration `json:"cost_ns"`
}

// Options tunes a Sequence. The zero value is not usable; start from DefaultOptions.
type Options struct {
	Path    flight.Path
	Pursuit component.Pursuit
	Rig     component.CameraRig
	Logger  zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Path:    flight.DefaultPath(),
		Pursuit: component.DefaultPursuit(),
		Rig:     component.DefaultCameraRig(),
		Logger:  zerolog.Nop(),
	}
}

type Sequence struct {
	opts Options
	log  zerolog.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler

	clock  ecs.Entity
	target ecs.Entity
	chaser ecs.Entity
	camera ecs.Entity

	listeners []func(Frame)
	metrics   *metrics
}

func NewSequence(opts Options) *Sequence {
	s := &Sequence{
		opts: opts,
		log:  opts.Logger.With().Str("component", "chase").Logger(),
	}
	s.metrics = newMetrics(s.log)
	s.build()
	return s
}

// build creates a fresh world: every piece of persisted state starts over.
func (s *Sequence) build() {
	w := ecs.NewWorld()

	s.clock = w.CreateEntity()
	s.mustAdd(ecs.Add(w, s.clock, component.SequenceClockComponent, component.SequenceClock{Duration: s.opts.Path.Duration}))

	s.target = w.CreateEntity()
	s.mustAdd(ecs.Add(w, s.target, component.TargetTagComponent, component.TargetTag{}))
	s.mustAdd(ecs.Add(w, s.target, component.FlightPathComponent, component.FlightPath{Path: s.opts.Path}))

	pursuit := s.opts.Pursuit
	pursuit.Spawned = false
	s.chaser = w.CreateEntity()
	s.mustAdd(ecs.Add(w, s.chaser, component.ChaserTagComponent, component.ChaserTag{}))
	s.mustAdd(ecs.Add(w, s.chaser, component.PursuitComponent, pursuit))

	rig := s.opts.Rig
	rig.Shots = append([]flight.Shot(nil), rig.Shots...)
	rig.Initialized = false
	s.camera = w.CreateEntity()
	s.mustAdd(ecs.Add(w, s.camera, component.CameraTagComponent, component.CameraTag{}))
	s.mustAdd(ecs.Add(w, s.camera, component.CameraRigComponent, rig))

	s.world = w
	s.scheduler = ecs.NewScheduler(
		system.NewFlightPathSystem(),
		system.NewPursuitSystem(),
		system.NewCameraSystem(),
		system.NewCompletionSystem(),
	)
}

func (s *Sequence) mustAdd(err error) {
	if err != nil {
		panic("chase: build world: " + err.Error())
	}
}

// Tick evaluates one frame. elapsed is seconds since the sequence started and
// delta the seconds since the previous tick; the host guarantees delta > 0.
func (s *Sequence) Tick(elapsed, delta float64) Frame {
	start := time.Now()

	clk, _ := ecs.Get(s.world, s.clock, component.SequenceClockComponent)
	clk.Elapsed = elapsed
	clk.Delta = delta
	clk.Ticks++
	s.mustAdd(ecs.Add(s.world, s.clock, component.SequenceClockComponent, clk))

	s.scheduler.Update(s.world)

	f := s.snapshot()
	for _, evt := range s.world.Events().Drain() {
		switch evt.Type {
		case ecs.EventChaserSpawned:
			s.log.Debug().Float64("elapsed", elapsed).Floats64("position", f.Chaser.Position[:]).Msg("chaser spawned")
		case ecs.EventSequenceCompleted:
			f.Completed = true
		}
	}

	f.Cost = time.Since(start)
	s.metrics.observeTick(f.Cost)

	if f.Completed {
		s.metrics.completed()
		s.log.Debug().Float64("elapsed", elapsed).Int("ticks", f.Tick).Msg("sequence completed")
		for _, fn := range s.listeners {
			fn(f)
		}
	}
	return f
}

func (s *Sequence) snapshot() Frame {
	w := s.world
	clk, _ := ecs.Get(w, s.clock, component.SequenceClockComponent)
	rig, _ := ecs.Get(w, s.camera, component.CameraRigComponent)

	f := Frame{
		Tick:          clk.Ticks,
		Elapsed:       clk.Elapsed,
		Delta:         clk.Delta,
		LookAt:        rig.LookAt,
		DesiredCamera: rig.Desired,
		Weights:       append([]float64(nil), rig.Weights...),
		Shot:          rig.ActiveShot().Kind,
		Done:          clk.Done,
	}
	f.Target, _ = ecs.Get(w, s.target, component.PoseComponent)
	f.Chaser, _ = ecs.Get(w, s.chaser, component.PoseComponent)
	f.Camera, _ = ecs.Get(w, s.camera, component.PoseComponent)
	return f
}

// Reset discards all state and restarts the clock at zero.
func (s *Sequence) Reset() {
	s.build()
	s.metrics.reset()
	s.log.Debug().Msg("sequence reset")
}

// OnComplete registers fn to run on the completing tick of every run.
func (s *Sequence) OnComplete(fn func(Frame)) {
	if fn == nil {
		return
	}
	s.listeners = append(s.listeners, fn)
}

// Duration is the sequence length in seconds.
func (s *Sequence) Duration() float64 {
	return s.opts.Path.Duration
}

// Shots returns a copy of the camera shot table.
func (s *Sequence) Shots() []flight.Shot {
	return append([]flight.Shot(nil), s.opts.Rig.Shots...)
}

// Spawned reports whether the chaser has been placed in the current run.
func (s *Sequence) Spawned() bool {
	p, _ := ecs.Get(s.world, s.chaser, component.PursuitComponent)
	return p.Spawned
}
