package record

import (
	"sort"
	"time"

	"github.com/milk9111/starchase/chase"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a finished run.
type Summary struct {
	Frames       int     `json:"frames"`
	Elapsed      float64 `json:"elapsed"`
	CostMeanMs   float64 `json:"cost_mean_ms"`
	CostStdDevMs float64 `json:"cost_stddev_ms"`
	CostP95Ms    float64 `json:"cost_p95_ms"`
	// MeanDistance is the average chaser to target distance.
	MeanDistance float64 `json:"mean_distance"`
	// CameraTravel is the path length covered by the camera.
	CameraTravel float64 `json:"camera_travel"`

	// ShotFrames counts frames per active shot name.
	ShotFrames map[string]int `json:"shot_frames"`
}

// Collector accumulates frames for a Summary. The zero value is ready to use.
type Collector struct {
	costs     []float64
	distances []float64
	travel    float64
	last      chase.Frame
	shots     map[string]int
}

func (c *Collector) Add(f chase.Frame) {
	if len(c.costs) > 0 {
		c.travel += f.Camera.Position.Sub(c.last.Camera.Position).Len()
	}
	if c.shots == nil {
		c.shots = make(map[string]int)
	}
	c.shots[f.Shot.String()]++
	c.costs = append(c.costs, float64(f.Cost)/float64(time.Millisecond))
	c.distances = append(c.distances, f.Chaser.Position.Sub(f.Target.Position).Len())
	c.last = f
}

func (c *Collector) Summary() Summary {
	s := Summary{
		Frames:       len(c.costs),
		CameraTravel: c.travel,
		ShotFrames:   make(map[string]int, len(c.shots)),
	}
	for k, v := range c.shots {
		s.ShotFrames[k] = v
	}
	if s.Frames == 0 {
		return s
	}
	s.Elapsed = c.last.Elapsed
	s.CostMeanMs, s.CostStdDevMs = stat.MeanStdDev(c.costs, nil)
	if s.Frames < 2 {
		s.CostStdDevMs = 0
	}
	sorted := append([]float64(nil), c.costs...)
	sort.Float64s(sorted)
	s.CostP95Ms = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	s.MeanDistance = stat.Mean(c.distances, nil)
	return s
}
