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

package grouping

import (
	"context"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/sorting"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// WithinConfig configures Within.
type WithinConfig struct {
	Algorithm sorting.Algorithm `validate:"lte=4"`
	Reverse   bool
}

// Within sorts each run of equal primary keys by a secondary key. The
// primary key is the first extracted column, the secondary key the second.
// Runs keep their input order; only records inside a run move.
//
// Memory Impact: proportional to the longest run.
type Within struct {
	cfg  WithinConfig
	run  runState
	buf  []typedvalue.Pair
	sink linewriter.Writer
}

var _ processing.Processor = (*Within)(nil)

// NewWithin validates cfg and returns a Within writing to sink.
func NewWithin(cfg WithinConfig, sink linewriter.Writer) (*Within, error) {
	if err := processing.ValidateConfig("within", cfg); err != nil {
		return nil, err
	}
	return &Within{cfg: cfg, sink: sink}, nil
}

func (w *Within) Execute(_ context.Context, index int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 2); err != nil {
		return processing.Continue, err
	}
	newRun, err := w.run.advance(index, rec.Key())
	if err != nil {
		return processing.Continue, err
	}
	if newRun {
		if err := w.flushRun(); err != nil {
			return processing.Continue, err
		}
	}
	w.buf = append(w.buf, typedvalue.Pair{Key: rec.Values[1], Line: rec.Line})
	return processing.Continue, nil
}

func (w *Within) flushRun() error {
	cmp := typedvalue.ComparePairs
	if w.cfg.Reverse {
		cmp = func(a, b typedvalue.Pair) int { return typedvalue.ComparePairs(b, a) }
	}
	sorting.Sort(w.buf, cmp, w.cfg.Algorithm)
	for _, p := range w.buf {
		if err := w.sink.WriteLine(p.Line); err != nil {
			return err
		}
	}
	w.buf = w.buf[:0]
	return nil
}

func (w *Within) Complete(context.Context) error {
	if err := w.flushRun(); err != nil {
		return err
	}
	return w.sink.Close()
}
