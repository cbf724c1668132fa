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

// Package ordering guards the precondition shared by every order-dependent
// algorithm: the stream arrives sorted on the key being processed.
package ordering

import (
	"errors"
	"fmt"

	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// ErrNotSorted is wrapped by every NotSortedError.
var ErrNotSorted = errors.New("stream is not sorted as expected")

// NotSortedError identifies the two adjacent keys that violate the order.
type NotSortedError struct {
	Stream   string
	Index    int64
	Previous typedvalue.Value
	Current  typedvalue.Value
}

func (e *NotSortedError) Error() string {
	stream := ""
	if e.Stream != "" {
		stream = " in " + e.Stream
	}
	return fmt.Sprintf("%v%s: record %d has key %q after %q",
		ErrNotSorted, stream, e.Index, e.Current.Text(), e.Previous.Text())
}

func (e *NotSortedError) Unwrap() error { return ErrNotSorted }

// Checker remembers the last key of a stream and rejects any key that sorts
// before it. Equal keys are allowed. The zero Checker is ready to use.
type Checker struct {
	stream string
	last   typedvalue.Value
	seen   bool
}

// NewChecker returns a Checker whose errors name stream.
func NewChecker(stream string) *Checker {
	return &Checker{stream: stream}
}

// Check records key as the latest key of the stream. It returns a
// *NotSortedError if key sorts before the previous one.
func (c *Checker) Check(index int64, key typedvalue.Value) error {
	if c.seen && typedvalue.Compare(key, c.last) < 0 {
		return &NotSortedError{Stream: c.stream, Index: index, Previous: c.last, Current: key}
	}
	c.last = key
	c.seen = true
	return nil
}

// Last returns the most recently accepted key.
func (c *Checker) Last() (typedvalue.Value, bool) {
	return c.last, c.seen
}
