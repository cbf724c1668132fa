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

package transform

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/linecrunch/internal/filereader"
	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/sorting"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

func run(t *testing.T, p processing.Processor, kind typedvalue.Kind, lines ...string) processing.Result {
	t.Helper()
	ex := &record.Extractor{
		Separator: ",",
		Columns:   []record.Column{{Index: 2, Kind: kind}},
	}
	r, err := filereader.NewLineReader("test", io.NopCloser(strings.NewReader(strings.Join(lines, "\n"))), ex, 0)
	require.NoError(t, err)
	defer r.Close()

	res, err := processing.Run(context.Background(), "test", r, p)
	require.NoError(t, err)
	return res
}

func TestSortEveryAlgorithm(t *testing.T) {
	input := []string{"a,10", "b,-1", "c,3", "d,10", "e,0", "f,3"}

	for _, alg := range sorting.Algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			sink := &linewriter.Memory{}
			p, err := NewSort(SortConfig{Algorithm: alg}, sink)
			require.NoError(t, err)
			run(t, p, typedvalue.SignedInteger, input...)

			require.True(t, sink.Closed)
			require.Len(t, sink.Lines, len(input))
			keys := make([]string, len(sink.Lines))
			for i, l := range sink.Lines {
				keys[i] = strings.Split(l, ",")[1]
			}
			assert.Equal(t, []string{"-1", "0", "3", "3", "10", "10"}, keys)
			if alg.Stable() {
				assert.Equal(t, []string{"b,-1", "e,0", "c,3", "f,3", "a,10", "d,10"}, sink.Lines)
			}
		})
	}
}

func TestSortReverseAndUnique(t *testing.T) {
	sink := &linewriter.Memory{}
	p, err := NewSort(SortConfig{Algorithm: sorting.Merge, Reverse: true, Unique: true}, sink)
	require.NoError(t, err)
	run(t, p, typedvalue.Float, "a,1.5", "b,2", "c,1.50", "d,-3")

	assert.Equal(t, []string{"b,2", "a,1.5", "d,-3"}, sink.Lines)
}

func TestSortRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewSort(SortConfig{Algorithm: sorting.Algorithm(9)}, &linewriter.Memory{})
	assert.ErrorContains(t, err, "invalid sort parameters")
}

func TestHeadStopsEarly(t *testing.T) {
	sink := &linewriter.Memory{}
	p, err := NewHead(HeadConfig{Limit: 2}, sink)
	require.NoError(t, err)

	res := run(t, p, typedvalue.String, "a,1", "b,2", "c,3", "d,4")
	assert.Equal(t, []string{"a,1", "b,2"}, sink.Lines)
	assert.True(t, res.Stopped)
	assert.Equal(t, int64(2), res.Read)
	assert.True(t, sink.Closed)

	_, err = NewHead(HeadConfig{Limit: 0}, sink)
	assert.Error(t, err)
}

func TestFilterThreshold(t *testing.T) {
	sink := &linewriter.Memory{}
	p, err := NewFilter(FilterConfig{
		Predicate: typedvalue.Threshold{Op: typedvalue.GreaterOrEqual, Arg: typedvalue.OfInt(3)},
	}, sink)
	require.NoError(t, err)

	run(t, p, typedvalue.SignedInteger, "a,1", "b,3", "c,20", "d,2")
	assert.Equal(t, []string{"b,3", "c,20"}, sink.Lines)
}

func TestFilterIntervalInverted(t *testing.T) {
	iv, err := typedvalue.NewInterval(typedvalue.Between,
		typedvalue.MustParse(typedvalue.DateTime, "2024-01-01"),
		typedvalue.MustParse(typedvalue.DateTime, "2024-01-31"))
	require.NoError(t, err)

	sink := &linewriter.Memory{}
	p, err := NewFilter(FilterConfig{Predicate: iv, Invert: true}, sink)
	require.NoError(t, err)

	run(t, p, typedvalue.DateTime, "a,2023-12-31", "b,2024-01-01", "c,2024-01-15", "d,2024-02-01")
	assert.Equal(t, []string{"a,2023-12-31", "d,2024-02-01"}, sink.Lines)
}

func TestFilterRequiresPredicate(t *testing.T) {
	_, err := NewFilter(FilterConfig{}, &linewriter.Memory{})
	assert.ErrorContains(t, err, "Predicate")
}

func TestCopy(t *testing.T) {
	sink := &linewriter.Memory{}
	run(t, NewCopy(sink), typedvalue.String, "x,1", "y,2")
	assert.Equal(t, []string{"x,1", "y,2"}, sink.Lines)
	assert.True(t, sink.Closed)
}
