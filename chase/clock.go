package chase

import "time"

// WallClock turns a monotonic time source into the (elapsed, delta) pair Tick
// expects. It starts on its first Sample, so time spent before the host's
// first frame does not count.
type WallClock struct {
	now      func() time.Time
	fallback float64

	running bool
	start   time.Time
	last    time.Time
}

// NewWallClock reads now for every sample. fallback is the delta reported
// when two samples are not strictly increasing (e.g. the very first tick).
func NewWallClock(now func() time.Time, fallback float64) *WallClock {
	if now == nil {
		now = time.Now
	}
	return &WallClock{now: now, fallback: fallback}
}

// Restart makes the next Sample report elapsed 0.
func (c *WallClock) Restart() {
	c.running = false
}

// Sample returns seconds since the first Sample after Restart and seconds
// since the previous Sample.
func (c *WallClock) Sample() (elapsed, delta float64) {
	t := c.now()
	if !c.running {
		c.running = true
		c.start, c.last = t, t
		return 0, c.fallback
	}
	elapsed = t.Sub(c.start).Seconds()
	delta = t.Sub(c.last).Seconds()
	if delta <= 0 {
		delta = c.fallback
	}
	c.last = t
	return elapsed, delta
}
