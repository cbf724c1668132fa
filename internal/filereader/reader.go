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

// Package filereader supplies extracted records to processors.
// Callers construct readers directly and compose them as needed: a LineReader
// per input file, optionally merged by an OrderedReader.
package filereader

import (
	"context"

	"github.com/cardinalhq/linecrunch/internal/record"
)

// Reader is the core interface for pulling records from an input.
type Reader interface {
	// Next returns the next record.
	// Returns io.EOF when there are no more records.
	// A recoverable error (see record.IsRecoverable) affects only the record
	// just consumed; the caller may keep calling Next.
	Next(ctx context.Context) (*record.View, error)

	// Close releases any resources held by the reader.
	Close() error
}
