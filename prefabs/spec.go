// Package prefabs loads the chase tuning file. The embedded sequence.yaml
// holds the defaults; a copy under ./prefabs or an explicit path overrides it.
package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/starchase/chase"
	"github.com/milk9111/starchase/common"
	"github.com/milk9111/starchase/ecs/component"
	"github.com/milk9111/starchase/flight"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const SequenceFile = "sequence.yaml"

var (
	ErrInvalidWindow = errors.New("prefabs: shot window must end after it starts")
	ErrInvalidValue  = errors.New("prefabs: value must be positive")
	ErrNoShots       = errors.New("prefabs: camera needs at least one shot")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return decode[T](filename, data)
}

// LoadSpecFile reads a spec from an arbitrary path on disk.
func LoadSpecFile[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	return decode[T](path, data)
}

func decode[T any](name string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	return spec, nil
}

type SequenceSpec struct {
	Path    PathSpec    `yaml:"path"`
	Pursuit PursuitSpec `yaml:"pursuit"`
	Camera  CameraSpec  `yaml:"camera"`
	Scene   SceneSpec   `yaml:"scene"`
}

type PathSpec struct {
	Duration       float64 `yaml:"duration"`
	Radius         float64 `yaml:"radius"`
	WeaveAmp       float64 `yaml:"weave_amp"`
	WeaveCycles    float64 `yaml:"weave_cycles"`
	DriftAmp       float64 `yaml:"drift_amp"`
	DriftCycles    float64 `yaml:"drift_cycles"`
	Travel         float64 `yaml:"travel"`
	Wobble         float64 `yaml:"wobble"`
	HeadingEpsilon float64 `yaml:"heading_epsilon"`
}

type PursuitSpec struct {
	SpawnBehind  float64    `yaml:"spawn_behind"`
	SpawnBias    mgl64.Vec3 `yaml:"spawn_bias"`
	BehindOffset float64    `yaml:"behind_offset"`
	SwayAmp      float64    `yaml:"sway_amp"`
	SwayFreq     float64    `yaml:"sway_freq"`
	BobAmp       float64    `yaml:"bob_amp"`
	BobFreq      float64    `yaml:"bob_freq"`
	Rate         float64    `yaml:"rate"`
	LeadDistance float64    `yaml:"lead_distance"`
}

type CameraSpec struct {
	Rate            float64    `yaml:"rate"`
	LookBlend       float64    `yaml:"look_blend"`
	InitialPosition mgl64.Vec3 `yaml:"initial_position"`
	WindowProfile   string     `yaml:"window_profile"`
	Shots           []ShotSpec `yaml:"shots"`
}

type ShotSpec struct {
	Kind   flight.ShotKind `yaml:"kind"`
	Start  float64         `yaml:"start"`
	End    float64         `yaml:"end"`
	Anchor mgl64.Vec3      `yaml:"anchor"`
	Back   float64         `yaml:"back"`
	Side   float64         `yaml:"side"`
	Rise   float64         `yaml:"rise"`
}

// SceneSpec only affects presentation; the sequence never reads it.
type SceneSpec struct {
	Background  YAMLColor `yaml:"background"`
	Stars       int       `yaml:"stars"`
	StarRadius  float64   `yaml:"star_radius"`
	StarSeed    uint64    `yaml:"star_seed"`
	FOV         float64   `yaml:"fov"`
	Near        float64   `yaml:"near"`
	Far         float64   `yaml:"far"`
	FogNear     float64   `yaml:"fog_near"`
	FogFar      float64   `yaml:"fog_far"`
	TargetColor YAMLColor `yaml:"target_color"`
	ChaserColor YAMLColor `yaml:"chaser_color"`
	TargetTrail int       `yaml:"target_trail"`
	ChaserTrail int       `yaml:"chaser_trail"`
}

// LoadSequence reads the tuning file at path, or the default sequence when
// path is empty, and validates it.
func LoadSequence(path string) (*SequenceSpec, error) {
	var (
		spec SequenceSpec
		err  error
	)
	if path == "" {
		spec, err = LoadSpec[SequenceSpec](SequenceFile)
	} else {
		spec, err = LoadSpecFile[SequenceSpec](path)
	}
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// MustDefaultSequence loads the embedded tuning and panics if it is broken.
func MustDefaultSequence() *SequenceSpec {
	data, err := PrefabsFS.ReadFile(SequenceFile)
	if err != nil {
		panic(err)
	}
	spec, err := decode[SequenceSpec](SequenceFile, data)
	if err != nil {
		panic(err)
	}
	if err := spec.Validate(); err != nil {
		panic(err)
	}
	return &spec
}

func (s SequenceSpec) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"path.duration", s.Path.Duration},
		{"path.heading_epsilon", s.Path.HeadingEpsilon},
		{"pursuit.rate", s.Pursuit.Rate},
		{"camera.rate", s.Camera.Rate},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidValue, p.name, p.value)
		}
	}

	if _, err := common.ParseWindowProfile(s.Camera.WindowProfile); err != nil {
		return fmt.Errorf("prefabs: camera.window_profile: %w", err)
	}
	if len(s.Camera.Shots) == 0 {
		return ErrNoShots
	}
	for i, shot := range s.Camera.Shots {
		if shot.End <= shot.Start {
			return fmt.Errorf("%w: shot %d (%s) [%v, %v]", ErrInvalidWindow, i, shot.Kind, shot.Start, shot.End)
		}
	}
	return nil
}

func (p PathSpec) Path() flight.Path {
	return flight.Path{
		Duration:       p.Duration,
		Radius:         p.Radius,
		WeaveAmp:       p.WeaveAmp,
		WeaveCycles:    p.WeaveCycles,
		DriftAmp:       p.DriftAmp,
		DriftCycles:    p.DriftCycles,
		Travel:         p.Travel,
		Wobble:         p.Wobble,
		HeadingEpsilon: p.HeadingEpsilon,
	}
}

func (p PursuitSpec) Pursuit() component.Pursuit {
	return component.Pursuit{
		SpawnBehind:  p.SpawnBehind,
		SpawnBias:    p.SpawnBias,
		BehindOffset: p.BehindOffset,
		SwayAmp:      p.SwayAmp,
		SwayFreq:     p.SwayFreq,
		BobAmp:       p.BobAmp,
		BobFreq:      p.BobFreq,
		Rate:         p.Rate,
		LeadDistance: p.LeadDistance,
	}
}

func (c CameraSpec) Rig() (component.CameraRig, error) {
	profile, err := common.ParseWindowProfile(c.WindowProfile)
	if err != nil {
		return component.CameraRig{}, err
	}
	shots := make([]flight.Shot, len(c.Shots))
	for i, s := range c.Shots {
		shots[i] = flight.Shot{
			Kind:   s.Kind,
			Start:  s.Start,
			End:    s.End,
			Anchor: s.Anchor,
			Back:   s.Back,
			Side:   s.Side,
			Rise:   s.Rise,
		}
	}
	return component.CameraRig{
		Shots:           shots,
		Profile:         profile,
		Rate:            c.Rate,
		LookBlend:       c.LookBlend,
		InitialPosition: c.InitialPosition,
	}, nil
}

// Options converts the tuning into sequence options using log for the core.
func (s SequenceSpec) Options(log zerolog.Logger) (chase.Options, error) {
	rig, err := s.Camera.Rig()
	if err != nil {
		return chase.Options{}, fmt.Errorf("prefabs: camera: %w", err)
	}
	return chase.Options{
		Path:    s.Path.Path(),
		Pursuit: s.Pursuit.Pursuit(),
		Rig:     rig,
		Logger:  log,
	}, nil
}

// YAMLColor decodes "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the color, or fallback when none was set.
func (c YAMLColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}
