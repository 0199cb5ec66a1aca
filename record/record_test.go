package record

import (
	"context"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/starchase/chase"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "parquet", Path: filepath.Join(t.TempDir(), "x")})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestFixExtension(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		backend string
		gzip    bool
		want    string
	}{
		{"jsonl_untouched", "out/chase.jsonl", "jsonl", false, "out/chase.jsonl"},
		{"jsonl_gzip", "out/chase.jsonl", "jsonl", true, "out/chase.jsonl.gz"},
		{"jsonl_gzip_already", "out/chase.jsonl.gz", "jsonl", true, "out/chase.jsonl.gz"},
		{"sqlite_from_jsonl", "out/chase.jsonl", "sqlite", false, "out/chase.db"},
		{"sqlite_from_gz", "out/chase.jsonl.gz", "sqlite", true, "out/chase.db"},
		{"sqlite_custom", "out/runs.sqlite", "sqlite", false, "out/runs.sqlite"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, FixExtension(c.path, c.backend, c.gzip))
		})
	}
}

func TestRunJSONL(t *testing.T) {
	cases := []struct {
		name string
		file string
		gzip bool
	}{
		{"plain", "run.jsonl", false},
		{"gzip", "run.jsonl.gz", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", c.file)
			sink, err := Open(Options{Backend: "jsonl", Path: path, Gzip: c.gzip})
			require.NoError(t, err)

			summary, err := Run(context.Background(), chase.NewSequence(chase.DefaultOptions()), 30, sink, zerolog.Nop())
			require.NoError(t, err)
			require.NoError(t, sink.Close())

			rec, err := ReadJSONL(path)
			require.NoError(t, err)

			assert.Equal(t, 30, rec.Header.FPS)
			assert.Equal(t, 20.0, rec.Header.Duration)
			assert.Equal(t, []string{"establishing", "chase_behind", "side_tracking", "target_lead"}, rec.Header.Shots)
			require.Len(t, rec.Frames, 601)
			assert.Equal(t, summary.Frames, len(rec.Frames))

			last := rec.Frames[len(rec.Frames)-1]
			assert.True(t, last.Done)
			assert.True(t, last.Completed)
			assert.Equal(t, 20.0, last.Elapsed)

			require.NotNil(t, rec.Summary)
			assert.Equal(t, 601, rec.Summary.Frames)
			assert.Equal(t, 20.0, rec.Summary.Elapsed)
			assert.Greater(t, rec.Summary.CameraTravel, 0.0)
			assert.InDelta(t, summary.MeanDistance, rec.Summary.MeanDistance, 1e-9)
		})
	}
}

func TestRunSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chase.db")
	sink, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	for i := 0; i < 2; i++ {
		_, err := Run(context.Background(), chase.NewSequence(chase.DefaultOptions()), 20, sink, zerolog.Nop())
		require.NoError(t, err)
	}

	runs, err := sink.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)

	latest := runs[0]
	assert.True(t, latest.Finished)
	assert.Equal(t, 401, latest.Frames)
	assert.Equal(t, 20, latest.FPS)
	assert.JSONEq(t, `["establishing","chase_behind","side_tracking","target_lead"]`, string(latest.Shots))

	samples, err := sink.Samples(latest.ID)
	require.NoError(t, err)
	require.Len(t, samples, 401)
	assert.Equal(t, 1, samples[0].Tick)
	assert.Equal(t, 64.0, samples[0].ChaserX)
	assert.Equal(t, "establishing", samples[0].Shot)
	assert.True(t, samples[400].Done)
	assert.JSONEq(t, `[0,0,0,0]`, string(samples[0].Weights))

	var withSamples RunRecord
	require.NoError(t, sink.db.Preload("Samples").First(&withSamples, latest.ID).Error)
	assert.Len(t, withSamples.Samples, 401)
}

// openHandles counts descriptors of this process that point at path.
func openHandles(t *testing.T, path string) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	n := 0
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join("/proc/self/fd", e.Name()))
		if err == nil && target == path {
			n++
		}
	}
	return n
}

func TestOpenSQLiteReleasesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 8192), 0o644))

	sink, err := OpenSQLite(path)
	require.Error(t, err)
	assert.Nil(t, sink)
	assert.Zero(t, openHandles(t, path))
}

type failingSink struct {
	frames int
	failAt int
}

func (f *failingSink) OnStart(Header) error { return nil }
func (f *failingSink) OnFrame(chase.Frame) error {
	f.frames++
	if f.frames == f.failAt {
		return errors.New("disk full")
	}
	return nil
}
func (f *failingSink) OnEnd(Summary) error { return nil }
func (f *failingSink) Close() error        { return nil }

func TestRunStopsOnSinkError(t *testing.T) {
	sink := &failingSink{failAt: 10}
	_, err := Run(context.Background(), chase.NewSequence(chase.DefaultOptions()), 60, sink, zerolog.Nop())

	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 10, sink.frames)
}

func TestRunHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, chase.NewSequence(chase.DefaultOptions()), 60, &failingSink{}, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}
