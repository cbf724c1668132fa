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

// Package linewriter provides the append-only line sinks processors emit to.
package linewriter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
)

// Writer accepts output lines. Close flushes and releases the sink; calling
// it more than once is a no-op.
type Writer interface {
	WriteLine(line string) error
	Close() error
}

// Factory opens one Writer per named group.
type Factory interface {
	Open(name string) (Writer, error)
}

var errClosed = errors.New("write to closed line writer")

var linesOutCounter otelmetric.Int64Counter

func init() {
	meter := otel.Meter("github.com/cardinalhq/linecrunch/internal/linewriter")

	var err error
	linesOutCounter, err = meter.Int64Counter(
		"linecrunch.writer.lines.out",
		otelmetric.WithDescription("Number of lines written to output sinks"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create lines.out counter: %w", err))
	}
}

// StreamWriter buffers lines onto an io.Writer, terminating each with '\n'.
type StreamWriter struct {
	w      *bufio.Writer
	closer io.Closer
	lines  int64
	closed bool
}

var _ Writer = (*StreamWriter)(nil)

// NewStreamWriter wraps w. If w is an io.Closer it is closed by Close.
func NewStreamWriter(w io.Writer) *StreamWriter {
	sw := &StreamWriter{w: bufio.NewWriterSize(w, 64*1024)}
	if c, ok := w.(io.Closer); ok {
		sw.closer = c
	}
	return sw
}

// Create opens path for writing, truncating it. "-" or "" writes to standard
// output, which is flushed but never closed.
func Create(path string) (*StreamWriter, error) {
	if path == "" || path == "-" {
		return &StreamWriter{w: bufio.NewWriterSize(os.Stdout, 64*1024)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return NewStreamWriter(f), nil
}

// WriteLine appends line and a newline.
func (s *StreamWriter) WriteLine(line string) error {
	if s.closed {
		return errClosed
	}
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	s.lines++
	return nil
}

// Lines returns the number of lines written so far.
func (s *StreamWriter) Lines() int64 { return s.lines }

// Close flushes buffered output and closes the destination.
func (s *StreamWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	linesOutCounter.Add(context.Background(), s.lines)

	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Memory collects lines in memory.
type Memory struct {
	Lines  []string
	Closed bool
}

var _ Writer = (*Memory)(nil)

func (m *Memory) WriteLine(line string) error {
	if m.Closed {
		return errClosed
	}
	m.Lines = append(m.Lines, line)
	return nil
}

func (m *Memory) Close() error {
	m.Closed = true
	return nil
}

// MemoryFactory hands out Memory writers and remembers them by name.
type MemoryFactory struct {
	Opened []string
	Groups map[string]*Memory
}

func (f *MemoryFactory) Open(name string) (Writer, error) {
	if f.Groups == nil {
		f.Groups = map[string]*Memory{}
	}
	if _, ok := f.Groups[name]; ok {
		return nil, fmt.Errorf("group %q opened twice", name)
	}
	m := &Memory{}
	f.Groups[name] = m
	f.Opened = append(f.Opened, name)
	return m, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DirFactory creates one file per group inside Dir, named
// Prefix + sanitized group name + Suffix. Groups whose sanitized names
// collide get a numeric suffix, so every group gets its own file.
type DirFactory struct {
	Dir    string
	Prefix string
	Suffix string

	used mapset.Set[string]
}

var _ Factory = (*DirFactory)(nil)

func (f *DirFactory) Open(name string) (Writer, error) {
	if f.used == nil {
		f.used = mapset.NewThreadUnsafeSet[string]()
	}
	safe := unsafeName.ReplaceAllString(name, "_")
	if safe == "" || safe == "." || safe == ".." {
		safe = "_"
	}
	base := f.Prefix + safe
	file := base + f.Suffix
	for n := 2; f.used.Contains(file); n++ {
		file = base + "-" + strconv.Itoa(n) + f.Suffix
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	w, err := Create(filepath.Join(f.Dir, file))
	if err != nil {
		return nil, err
	}
	f.used.Add(file)
	return w, nil
}

