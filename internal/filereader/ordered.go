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
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/linecrunch/internal/ordering"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// readerState holds the state for a single reader in the ordered merge.
type readerState struct {
	reader  Reader
	current *record.View
	done    bool
	index   int
	order   *ordering.Checker
}

// OrderedReader implements merge-sort style reading across multiple pre-sorted
// readers, ordered by the first extracted value of each record. Each input
// is checked for sortedness as it is consumed; an inversion fails the merge
// with *ordering.NotSortedError.
type OrderedReader struct {
	states []*readerState
	closed bool
}

var _ Reader = (*OrderedReader)(nil)

// NewOrderedReader creates a new OrderedReader that merges records from
// multiple readers in key order. On equal keys the earlier reader wins, so
// the merge is stable with respect to input order.
//
// Readers will be closed when the OrderedReader is closed.
func NewOrderedReader(ctx context.Context, readers []Reader, names []string) (*OrderedReader, error) {
	if len(readers) == 0 {
		return nil, errors.New("at least one reader is required")
	}

	states := make([]*readerState, len(readers))
	for i, reader := range readers {
		name := fmt.Sprintf("input %d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		states[i] = &readerState{
			reader: reader,
			index:  i,
			order:  ordering.NewChecker(name),
		}
	}

	or := &OrderedReader{states: states}

	// Prime all readers by loading their first records
	for _, state := range or.states {
		if err := or.advance(ctx, state); err != nil {
			_ = or.Close()
			return nil, fmt.Errorf("failed to prime reader %d: %w", state.index, err)
		}
	}

	return or, nil
}

// advance loads the next record for the given reader state, skipping records
// that could not be extracted.
func (or *OrderedReader) advance(ctx context.Context, state *readerState) error {
	state.current = nil
	for !state.done {
		view, err := state.reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			state.done = true
			return nil
		}
		if err != nil {
			if record.IsRecoverable(err) {
				recordsDroppedCounter.Add(ctx, 1, otelmetric.WithAttributes(
					attribute.String("reader", "OrderedReader"),
				))
				slog.Warn("Skipping record", slog.Int("input", state.index+1), slog.Any("error", err))
				continue
			}
			return err
		}
		if len(view.Values) == 0 {
			return fmt.Errorf("input %d line %d: merge needs a key column", state.index+1, view.Number)
		}
		if err := state.order.Check(view.Number, view.Key()); err != nil {
			return err
		}
		state.current = view
		return nil
	}
	return nil
}

// Next returns the next record in key order across all readers.
func (or *OrderedReader) Next(ctx context.Context) (*record.View, error) {
	if or.closed {
		return nil, errors.New("reader is closed")
	}

	var selected *readerState
	for _, state := range or.states {
		if state.current == nil {
			continue
		}
		if selected == nil || typedvalue.Compare(state.current.Key(), selected.current.Key()) < 0 {
			selected = state
		}
	}
	if selected == nil {
		return nil, io.EOF
	}

	view := selected.current
	if err := or.advance(ctx, selected); err != nil {
		return nil, fmt.Errorf("failed to advance reader %d: %w", selected.index, err)
	}
	return view, nil
}

// ActiveReaderCount returns the number of readers that still have data to read.
func (or *OrderedReader) ActiveReaderCount() int {
	if or.closed {
		return 0
	}
	count := 0
	for _, state := range or.states {
		if state.current != nil {
			count++
		}
	}
	return count
}

// Close closes all underlying readers and releases resources.
func (or *OrderedReader) Close() error {
	if or.closed {
		return nil
	}
	or.closed = true

	var errs *multierror.Error
	for i, state := range or.states {
		if err := state.reader.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to close reader %d: %w", i, err))
		}
	}
	return errs.ErrorOrNil()
}
