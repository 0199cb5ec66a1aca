package record

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/starchase/chase"
)

// Line is one record of a JSONL recording. Exactly one payload is set,
// matching Type.
type Line struct {
	Type    string       `json:"type"`
	Header  *Header      `json:"header,omitempty"`
	Frame   *chase.Frame `json:"frame,omitempty"`
	Summary *Summary     `json:"summary,omitempty"`
}

const (
	LineHeader  = "header"
	LineFrame   = "frame"
	LineSummary = "summary"
)

// JSONLWriter streams a recording as newline-delimited JSON, optionally gzipped.
type JSONLWriter struct {
	f  *os.File
	gz *gzip.Writer
	bw *bufio.Writer
}

func NewJSONLWriter(path string, compress bool) (*JSONLWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &JSONLWriter{f: f}
	if compress {
		w.gz = gzip.NewWriter(f)
		w.bw = bufio.NewWriter(w.gz)
	} else {
		w.bw = bufio.NewWriter(f)
	}
	return w, nil
}

func (w *JSONLWriter) write(line Line) error {
	b, err := json.Marshal(line)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLWriter) OnStart(h Header) error {
	return w.write(Line{Type: LineHeader, Header: &h})
}

func (w *JSONLWriter) OnFrame(f chase.Frame) error {
	return w.write(Line{Type: LineFrame, Frame: &f})
}

func (w *JSONLWriter) OnEnd(s Summary) error {
	if err := w.write(Line{Type: LineSummary, Summary: &s}); err != nil {
		return err
	}
	return w.bw.Flush()
}

func (w *JSONLWriter) Close() error {
	if w.f == nil {
		return nil
	}
	errs := []error{w.bw.Flush()}
	if w.gz != nil {
		errs = append(errs, w.gz.Close())
	}
	errs = append(errs, w.f.Close())
	w.f = nil
	return errors.Join(errs...)
}

// Recording is a decoded JSONL file.
type Recording struct {
	Header  Header
	Frames  []chase.Frame
	Summary *Summary
}

// ReadJSONL decodes a recording. Files ending in .gz are decompressed.
func ReadJSONL(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("record: %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	rec := &Recording{}
	dec := json.NewDecoder(r)
	for n := 1; ; n++ {
		var line Line
		if err := dec.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("record: %s line %d: %w", path, n, err)
		}
		switch {
		case line.Type == LineHeader && line.Header != nil:
			rec.Header = *line.Header
		case line.Type == LineFrame && line.Frame != nil:
			rec.Frames = append(rec.Frames, *line.Frame)
		case line.Type == LineSummary && line.Summary != nil:
			rec.Summary = line.Summary
		default:
			return nil, fmt.Errorf("record: %s line %d: unexpected %q record", path, n, line.Type)
		}
	}
	return rec, nil
}
