package chase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/milk9111/starchase/chase"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	tickDuration metric.Float64Histogram
	completions  metric.Int64Counter
	resets       metric.Int64Counter
}

func newMetrics(log zerolog.Logger) *metrics {
	m := &metrics{}
	var err error

	m.tickDuration, err = meter().Float64Histogram("chase.tick.duration",
		metric.WithDescription("Time spent evaluating one frame"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("tick duration histogram unavailable")
		m.tickDuration = noop.Float64Histogram{}
	}

	m.completions, err = meter().Int64Counter("chase.sequence.completed",
		metric.WithDescription("Sequences that reached their duration"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("completion counter unavailable")
		m.completions = noop.Int64Counter{}
	}

	m.resets, err = meter().Int64Counter("chase.sequence.resets",
		metric.WithDescription("Replays requested by the host"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("reset counter unavailable")
		m.resets = noop.Int64Counter{}
	}
	return m
}

func (m *metrics) observeTick(d time.Duration) {
	m.tickDuration.Record(context.Background(), float64(d)/float64(time.Millisecond))
}

func (m *metrics) completed() {
	m.completions.Add(context.Background(), 1)
}

func (m *metrics) reset() {
	m.resets.Add(context.Background(), 1)
}
