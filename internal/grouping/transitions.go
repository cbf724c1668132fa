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
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// Transitions reports state changes. Records are grouped by the first
// extracted column and carry their state in the second. Whenever two
// consecutive records of the same group have different states both records
// are written, so every change appears as a before/after pair. A record
// that ends one transition and starts the next is written twice.
type Transitions struct {
	run  runState
	prev holdState
	sink linewriter.Writer
}

var _ processing.Processor = (*Transitions)(nil)

// NewTransitions returns a Transitions writing to sink.
func NewTransitions(sink linewriter.Writer) *Transitions {
	return &Transitions{prev: noPending{}, sink: sink}
}

func (t *Transitions) Execute(_ context.Context, index int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 2); err != nil {
		return processing.Continue, err
	}
	key, state := rec.Values[0], rec.Values[1]
	newRun, err := t.run.advance(index, key)
	if err != nil {
		return processing.Continue, err
	}

	if p, ok := t.prev.(pendingRecord); ok && !newRun && !typedvalue.Equal(p.second, state) {
		if err := t.sink.WriteLine(p.line); err != nil {
			return processing.Continue, err
		}
		if err := t.sink.WriteLine(rec.Line); err != nil {
			return processing.Continue, err
		}
	}
	t.prev = pendingRecord{key: key, second: state, line: rec.Line}
	return processing.Continue, nil
}

func (t *Transitions) Complete(context.Context) error {
	t.prev = noPending{}
	return t.sink.Close()
}
