package chase

import (
	"context"
	"errors"
)

// FrameFunc consumes one frame. Returning an error stops the driver.
type FrameFunc func(Frame) error

var ErrInvalidRate = errors.New("chase: frame rate must be positive")

// RunFixed restarts seq and ticks it at fps frames per second from t=0 until the
// first Done frame, handing every frame to fn. Elapsed time is computed as
// i/fps so the final tick lands exactly on whole-second durations. It returns
// the number of frames produced.
func RunFixed(ctx context.Context, seq *Sequence, fps int, fn FrameFunc) (int, error) {
	if fps <= 0 {
		return 0, ErrInvalidRate
	}
	seq.Reset()

	delta := 1 / float64(fps)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		f := seq.Tick(float64(i)/float64(fps), delta)
		if fn != nil {
			if err := fn(f); err != nil {
				return i + 1, err
			}
		}
		if f.Done {
			return i + 1, nil
		}
	}
}
