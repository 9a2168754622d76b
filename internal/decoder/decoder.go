// Package decoder reads the line-delimited JSON feed.
package decoder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
)

// Stats counts what the decoder has seen so far.
type Stats struct {
	Lines     int
	Records   int
	Malformed int
}

// Decoder turns a line-oriented source into RawRecords. A bad line never
// stops decoding; it is reported and skipped.
type Decoder struct {
	logger interfaces.Logger
	stats  Stats
}

func New(logger interfaces.Logger) *Decoder {
	return &Decoder{logger: logger.With(interfaces.F("component", "decoder"))}
}

// ErrNotFile is returned by Open for directories and other sources that
// cannot be read as a line stream.
var ErrNotFile = errors.New("not a readable file")

// Open opens a feed file. A missing or unusable source is reported to the
// caller, who treats it as fatal to the run. Regular files, named pipes and
// character devices (e.g. /dev/stdin) are accepted.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat input: %w", err)
	}
	mode := info.Mode()
	if !mode.IsRegular() && mode&(os.ModeNamedPipe|os.ModeCharDevice) == 0 {
		f.Close()
		return nil, fmt.Errorf("open input %s: %w (%s)", path, ErrNotFile, mode.Type())
	}
	return f, nil
}

// Stats returns the counters accumulated by Records.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Records lazily yields one record per well-formed line of r. Lines have no
// length limit. A read error ends the sequence.
func (d *Decoder) Records(r io.Reader) iter.Seq[model.RawRecord] {
	return func(yield func(model.RawRecord) bool) {
		br := bufio.NewReader(r)
		lineNo := 0
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				lineNo++
				d.stats.Lines++
				rec, perr := parseLine(line)
				if perr != nil {
					d.stats.Malformed++
					d.logger.Warn("skipping invalid json line",
						interfaces.F("line", lineNo),
						interfaces.F("content", truncate(bytes.TrimSpace(line), 120)),
						interfaces.F("error", perr.Error()))
				} else {
					d.stats.Records++
					rec.Line = lineNo
					if !yield(rec) {
						return
					}
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					d.logger.Error("reading input failed",
						interfaces.F("line", lineNo),
						interfaces.F("error", err.Error()))
				}
				return
			}
		}
	}
}

var errNotObject = errors.New("line is not a JSON object")

func parseLine(line []byte) (model.RawRecord, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return model.RawRecord{}, errors.New("empty line")
	}

	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.RawRecord{}, errNotObject
		}
		return model.RawRecord{}, err
	}
	// "null" decodes into a nil map without error.
	if fields == nil {
		return model.RawRecord{}, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.RawRecord{}, errors.New("trailing data after JSON object")
	}

	return model.RawRecord{Fields: fields}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
