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

package typedvalue

import (
	"errors"
	"fmt"
)

var (
	// ErrNotNumeric is returned by arithmetic on String or DateTime values.
	ErrNotNumeric = errors.New("arithmetic is only defined for numeric kinds")
	// ErrOverflow is returned when integer arithmetic leaves the 64-bit range.
	ErrOverflow = errors.New("integer overflow")
	// ErrDivisionByZero is returned by integer division by zero.
	ErrDivisionByZero = errors.New("integer division by zero")
	// ErrInvalidInterval is returned when an interval's lower bound exceeds its upper bound.
	ErrInvalidInterval = errors.New("interval lower bound is greater than upper bound")
)

// ParseError reports text that could not be converted to the requested kind.
type ParseError struct {
	Kind Kind
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// KindMismatchError is the panic value raised when values of different kinds
// are compared, and the error returned when they are combined arithmetically.
type KindMismatchError struct {
	Left, Right Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("cannot combine %s value with %s value", e.Left, e.Right)
}
