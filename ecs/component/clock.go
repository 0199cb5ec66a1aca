package component

// SequenceClock is the single source of time for one tick.
type SequenceClock struct {
	Elapsed  float64 // seconds since sequence start, as supplied by the host
	Delta    float64 // seconds since the previous tick
	Duration float64
	Ticks    int

	// Done is set on the first tick with Elapsed >= Duration and stays set.
	Done bool
}

// Clamped returns Elapsed limited to [0, Duration].
func (c SequenceClock) Clamped() float64 {
	if c.Elapsed < 0 {
		return 0
	}
	if c.Elapsed > c.Duration {
		return c.Duration
	}
	return c.Elapsed
}

var SequenceClockComponent = NewComponent[SequenceClock]()
