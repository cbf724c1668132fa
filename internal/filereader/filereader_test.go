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
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/linecrunch/internal/ordering"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

type closeCounter struct {
	io.Reader
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return nil
}

func intExtractor(column int) *record.Extractor {
	return &record.Extractor{
		Separator: ",",
		Columns:   []record.Column{{Index: column, Kind: typedvalue.SignedInteger}},
	}
}

func newTestReader(t *testing.T, input string, ex *record.Extractor) *LineReader {
	t.Helper()
	r, err := NewLineReader("test", io.NopCloser(strings.NewReader(input)), ex, 0)
	require.NoError(t, err)
	return r
}

// drain collects the lines of every record, skipping recoverable errors.
func drain(t *testing.T, r Reader) ([]string, int) {
	t.Helper()
	ctx := context.Background()
	var lines []string
	skipped := 0
	for {
		view, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return lines, skipped
		}
		if record.IsRecoverable(err) {
			skipped++
			continue
		}
		require.NoError(t, err)
		lines = append(lines, view.Line)
	}
}

func TestLineReader(t *testing.T) {
	r := newTestReader(t, "a,1\nb,2\nc\nd,4\n", intExtractor(2))
	defer r.Close()

	lines, skipped := drain(t, r)
	assert.Equal(t, []string{"a,1", "b,2", "d,4"}, lines)
	assert.Equal(t, 1, skipped)
}

func TestLineReaderNumbersLines(t *testing.T) {
	r := newTestReader(t, "x,5\ny,6", intExtractor(2))
	defer r.Close()

	ctx := context.Background()
	first, err := r.Next(ctx)
	require.NoError(t, err)
	second, err := r.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Number)
	assert.Equal(t, int64(2), second.Number)
	assert.Equal(t, "6", second.Key().Text())

	_, err = r.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderFatalParseError(t *testing.T) {
	r := newTestReader(t, "a,x\n", intExtractor(2))
	defer r.Close()

	_, err := r.Next(context.Background())
	require.Error(t, err)
	assert.False(t, record.IsRecoverable(err))
	assert.Contains(t, err.Error(), "test")
}

func TestLineReaderLineTooLong(t *testing.T) {
	r, err := NewLineReader("long", io.NopCloser(strings.NewReader(strings.Repeat("x", 100)+"\n")), &record.Extractor{}, 16)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestLineReaderCloseOnce(t *testing.T) {
	src := &closeCounter{Reader: strings.NewReader("1\n")}
	r, err := NewLineReader("c", src, &record.Extractor{}, 0)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 1, src.closes)

	_, err = r.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewLineReaderValidatesExtractor(t *testing.T) {
	_, err := NewLineReader("x", io.NopCloser(strings.NewReader("")), nil, 0)
	assert.Error(t, err)

	_, err = NewLineReader("x", io.NopCloser(strings.NewReader("")), &record.Extractor{Separator: "ab", Quoted: true}, 0)
	assert.Error(t, err)
}

func TestOrderedReaderMerges(t *testing.T) {
	ctx := context.Background()
	left := newTestReader(t, "l,1\nl,3\nl,5\n", intExtractor(2))
	right := newTestReader(t, "r,2\nr,3\nr,10\n", intExtractor(2))

	or, err := NewOrderedReader(ctx, []Reader{left, right}, []string{"left", "right"})
	require.NoError(t, err)
	defer or.Close()
	assert.Equal(t, 2, or.ActiveReaderCount())

	lines, skipped := drain(t, or)
	assert.Equal(t, []string{"l,1", "r,2", "l,3", "r,3", "l,5", "r,10"}, lines)
	assert.Zero(t, skipped)
	assert.Equal(t, 0, or.ActiveReaderCount())
}

func TestOrderedReaderSkipsUnextractableRecords(t *testing.T) {
	ctx := context.Background()
	a := newTestReader(t, "missing\na,2\n", intExtractor(2))
	b := newTestReader(t, "b,1\n", intExtractor(2))

	or, err := NewOrderedReader(ctx, []Reader{a, b}, nil)
	require.NoError(t, err)
	defer or.Close()

	lines, _ := drain(t, or)
	assert.Equal(t, []string{"b,1", "a,2"}, lines)
}

func TestOrderedReaderDetectsUnsortedInput(t *testing.T) {
	ctx := context.Background()
	a := newTestReader(t, "a,1\na,4\na,2\n", intExtractor(2))
	b := newTestReader(t, "b,3\n", intExtractor(2))

	or, err := NewOrderedReader(ctx, []Reader{a, b}, []string{"a.txt", "b.txt"})
	require.NoError(t, err)
	defer or.Close()

	var lastErr error
	for {
		_, err := or.Next(ctx)
		if err != nil {
			lastErr = err
			break
		}
	}
	require.ErrorIs(t, lastErr, ordering.ErrNotSorted)
	assert.Contains(t, lastErr.Error(), "a.txt")
}

func TestOrderedReaderRequiresReaders(t *testing.T) {
	_, err := NewOrderedReader(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestOrderedReaderClosesInputs(t *testing.T) {
	src1 := &closeCounter{Reader: strings.NewReader("1\n")}
	src2 := &closeCounter{Reader: strings.NewReader("2\n")}
	ex := &record.Extractor{Columns: []record.Column{{Index: 1, Kind: typedvalue.SignedInteger}}}
	r1, err := NewLineReader("1", src1, ex, 0)
	require.NoError(t, err)
	r2, err := NewLineReader("2", src2, ex, 0)
	require.NoError(t, err)

	or, err := NewOrderedReader(context.Background(), []Reader{r1, r2}, nil)
	require.NoError(t, err)
	require.NoError(t, or.Close())
	require.NoError(t, or.Close())
	assert.Equal(t, 1, src1.closes)
	assert.Equal(t, 1, src2.closes)
}

func TestSequentialReaderConcatenates(t *testing.T) {
	a := newTestReader(t, "a,3\na,1\n", intExtractor(2))
	b := newTestReader(t, "b,2\n", intExtractor(2))

	sr, err := NewSequentialReader([]Reader{a, b})
	require.NoError(t, err)
	defer sr.Close()
	assert.Equal(t, 0, sr.CurrentReaderIndex())

	lines, _ := drain(t, sr)
	assert.Equal(t, []string{"a,3", "a,1", "b,2"}, lines)
	assert.Equal(t, int64(3), sr.TotalRowsReturned())
	assert.Equal(t, -1, sr.CurrentReaderIndex())
}

func TestSequentialReaderValidatesInputs(t *testing.T) {
	_, err := NewSequentialReader(nil)
	assert.Error(t, err)
	_, err = NewSequentialReader([]Reader{nil})
	assert.Error(t, err)
}

func TestSequentialReaderClosesInputs(t *testing.T) {
	src := &closeCounter{Reader: strings.NewReader("1\n")}
	r, err := NewLineReader("1", src, &record.Extractor{}, 0)
	require.NoError(t, err)

	sr, err := NewSequentialReader([]Reader{r})
	require.NoError(t, err)
	require.NoError(t, sr.Close())
	require.NoError(t, sr.Close())
	assert.Equal(t, 1, src.closes)

	_, err = sr.Next(context.Background())
	assert.Error(t, err)
}

func TestLineReaderIgnoresContextCancellation(t *testing.T) {
	r := newTestReader(t, "1\n2\n", intExtractor(1))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var lines []string
	for {
		view, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		lines = append(lines, view.Line)
	}
	assert.Equal(t, []string{"1", "2"}, lines)
}
