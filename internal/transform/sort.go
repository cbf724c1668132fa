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

// Package transform holds processors that need no ordering from their input:
// whole-stream sorting, head, typed filtering and plain copying.
package transform

import (
	"context"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/sorting"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// SortConfig configures Sort.
type SortConfig struct {
	Algorithm sorting.Algorithm `validate:"lte=4"`
	// Reverse emits the largest key first. Equal keys keep the order the
	// algorithm leaves them in.
	Reverse bool
	// Unique keeps only the first record of each run of equal keys.
	Unique bool
}

// Sort buffers every record and writes them ordered by key at Complete.
//
// Memory Impact: HIGH - every line is held until the end of the stream.
type Sort struct {
	cfg   SortConfig
	sink  linewriter.Writer
	pairs []typedvalue.Pair
}

var _ processing.Processor = (*Sort)(nil)

// NewSort validates cfg and returns a Sort writing to sink.
func NewSort(cfg SortConfig, sink linewriter.Writer) (*Sort, error) {
	if err := processing.ValidateConfig("sort", cfg); err != nil {
		return nil, err
	}
	return &Sort{cfg: cfg, sink: sink, pairs: make([]typedvalue.Pair, 0, 1024)}, nil
}

func (s *Sort) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 1); err != nil {
		return processing.Continue, err
	}
	s.pairs = append(s.pairs, typedvalue.Pair{Key: rec.Key(), Line: rec.Line})
	return processing.Continue, nil
}

func (s *Sort) Complete(context.Context) error {
	cmp := typedvalue.ComparePairs
	if s.cfg.Reverse {
		cmp = func(a, b typedvalue.Pair) int { return typedvalue.ComparePairs(b, a) }
	}
	sorting.Sort(s.pairs, cmp, s.cfg.Algorithm)

	for i, p := range s.pairs {
		if s.cfg.Unique && i > 0 && typedvalue.Equal(p.Key, s.pairs[i-1].Key) {
			continue
		}
		if err := s.sink.WriteLine(p.Line); err != nil {
			return err
		}
	}
	s.pairs = nil
	return s.sink.Close()
}
