// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package filereader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/linecrunch/internal/record"
)

// DefaultMaxLineBytes is the longest line a LineReader accepts unless told
// otherwise.
const DefaultMaxLineBytes = 64 * 1024 * 1024

// LineReader reads newline-terminated records from a stream and extracts
// each one with an Extractor.
type LineReader struct {
	name      string
	scanner   *bufio.Scanner
	closer    io.Closer
	extractor *record.Extractor
	lineNo    int64
	closed    bool
}

var _ Reader = (*LineReader)(nil)

// NewLineReader creates a LineReader over r. The reader takes ownership of r
// and closes it when Close is called. maxLineBytes <= 0 selects
// DefaultMaxLineBytes.
func NewLineReader(name string, r io.ReadCloser, extractor *record.Extractor, maxLineBytes int) (*LineReader, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if err := extractor.Validate(); err != nil {
		return nil, err
	}
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)

	return &LineReader{
		name:      name,
		scanner:   scanner,
		closer:    r,
		extractor: extractor,
	}, nil
}

// OpenLineReader opens path for reading; "-" or "" reads standard input.
func OpenLineReader(path string, extractor *record.Extractor, maxLineBytes int) (*LineReader, error) {
	if path == "" || path == "-" {
		return NewLineReader("stdin", io.NopCloser(os.Stdin), extractor, maxLineBytes)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	r, err := NewLineReader(path, f, extractor, maxLineBytes)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// Name identifies the input in diagnostics.
func (r *LineReader) Name() string { return r.name }

// Next returns the next extracted record.
func (r *LineReader) Next(ctx context.Context) (*record.View, error) {
	if r.closed {
		return nil, io.EOF
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("%s: read error after line %d: %w", r.name, r.lineNo, err)
		}
		return nil, io.EOF
	}
	r.lineNo++

	linesInCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("reader", "LineReader"),
	))

	view, err := r.extractor.Extract(r.lineNo, r.scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}
	return view, nil
}

// Close closes the underlying stream.
func (r *LineReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.closer.Close()
}
