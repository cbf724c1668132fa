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

	"github.com/hashicorp/go-multierror"

	"github.com/cardinalhq/linecrunch/internal/record"
)

// SequentialReader reads from multiple readers in the order provided: every
// record of the first, then every record of the second, and so on. Record
// numbers stay those of the underlying reader.
type SequentialReader struct {
	readers      []Reader
	currentIndex int
	closed       bool
	rowCount     int64
}

var _ Reader = (*SequentialReader)(nil)

// NewSequentialReader creates a SequentialReader over readers.
// Readers will be closed when the SequentialReader is closed.
func NewSequentialReader(readers []Reader) (*SequentialReader, error) {
	if len(readers) == 0 {
		return nil, errors.New("at least one reader is required")
	}
	for i, reader := range readers {
		if reader == nil {
			return nil, fmt.Errorf("reader at index %d is nil", i)
		}
	}
	return &SequentialReader{readers: readers}, nil
}

// Next returns the next record of the current reader, moving on to the next
// reader when it is exhausted.
func (sr *SequentialReader) Next(ctx context.Context) (*record.View, error) {
	if sr.closed {
		return nil, errors.New("reader is closed")
	}
	for sr.currentIndex < len(sr.readers) {
		view, err := sr.readers[sr.currentIndex].Next(ctx)
		if errors.Is(err, io.EOF) {
			sr.currentIndex++
			continue
		}
		if err != nil {
			return nil, err
		}
		sr.rowCount++
		return view, nil
	}
	return nil, io.EOF
}

// CurrentReaderIndex returns the index of the reader currently being read from.
// Returns -1 if all readers are exhausted or the reader is closed.
func (sr *SequentialReader) CurrentReaderIndex() int {
	if sr.closed || sr.currentIndex >= len(sr.readers) {
		return -1
	}
	return sr.currentIndex
}

// TotalRowsReturned returns the number of records returned so far.
func (sr *SequentialReader) TotalRowsReturned() int64 {
	return sr.rowCount
}

// Close closes all underlying readers.
func (sr *SequentialReader) Close() error {
	if sr.closed {
		return nil
	}
	sr.closed = true

	var errs *multierror.Error
	for i, reader := range sr.readers {
		if err := reader.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to close reader %d: %w", i, err))
		}
	}
	return errs.ErrorOrNil()
}
