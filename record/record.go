// Package record writes a fixed-rate run of the chase to disk, one sample per
// frame, followed by a summary of the run.
package record

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/starchase/chase"
	"github.com/rs/zerolog"
)

var ErrUnknownBackend = errors.New("record: unknown backend")

// Header opens every recording.
type Header struct {
	Started  time.Time `json:"started"`
	FPS      int       `json:"fps"`
	Duration float64   `json:"duration"`
	Shots    []string  `json:"shots"`
}

// Sink receives one run: OnStart, every frame in order, OnEnd, then Close.
type Sink interface {
	OnStart(h Header) error
	OnFrame(f chase.Frame) error
	OnEnd(s Summary) error
	Close() error
}

type Options struct {
	Backend string // jsonl or sqlite
	Path    string
	Gzip    bool // jsonl only
}

// Open creates the parent directory of opts.Path and the backend's sink.
func Open(opts Options) (Sink, error) {
	switch strings.ToLower(opts.Backend) {
	case "jsonl", "":
		return NewJSONLWriter(opts.Path, opts.Gzip)
	case "sqlite":
		return OpenSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// FixExtension adapts the default jsonl file name to the chosen backend:
// sqlite files end in .db and gzipped recordings in .gz.
func FixExtension(path, backend string, gzip bool) string {
	if strings.EqualFold(backend, "sqlite") {
		trimmed := strings.TrimSuffix(path, ".gz")
		if ext := filepath.Ext(trimmed); ext == ".jsonl" || ext == ".json" {
			return strings.TrimSuffix(trimmed, ext) + ".db"
		}
		return path
	}
	if gzip && !strings.HasSuffix(path, ".gz") {
		return path + ".gz"
	}
	return path
}

// Run drives seq from t=0 at fps until it completes, streaming every frame
// into sink and closing it with the run summary.
func Run(ctx context.Context, seq *chase.Sequence, fps int, sink Sink, log zerolog.Logger) (Summary, error) {
	shots := seq.Shots()
	names := make([]string, len(shots))
	for i, s := range shots {
		names[i] = s.Kind.String()
	}
	header := Header{
		Started:  time.Now().UTC(),
		FPS:      fps,
		Duration: seq.Duration(),
		Shots:    names,
	}
	if err := sink.OnStart(header); err != nil {
		return Summary{}, fmt.Errorf("record: start: %w", err)
	}

	var stats Collector
	n, err := chase.RunFixed(ctx, seq, fps, func(f chase.Frame) error {
		stats.Add(f)
		return sink.OnFrame(f)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("record: frame %d: %w", n, err)
	}

	summary := stats.Summary()
	if err := sink.OnEnd(summary); err != nil {
		return Summary{}, fmt.Errorf("record: end: %w", err)
	}
	log.Info().
		Int("frames", summary.Frames).
		Float64("costMeanMs", summary.CostMeanMs).
		Float64("costP95Ms", summary.CostP95Ms).
		Float64("cameraTravel", summary.CameraTravel).
		Msg("recording finished")
	return summary, nil
}
