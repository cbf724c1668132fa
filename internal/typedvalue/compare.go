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
	"fmt"
	"strings"
)

// Compare orders a and b: negative when a sorts first, zero when equal,
// positive otherwise. It panics with *KindMismatchError if the kinds differ.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		panic(&KindMismatchError{Left: a.kind, Right: b.kind})
	}
	return a.repr().compare(b.repr())
}

// Equal reports whether a and b have the same kind and compare equal.
func Equal(a, b Value) bool {
	return a.kind == b.kind && a.repr().compare(b.repr()) == 0
}

// Op is a single-argument comparison operator.
type Op uint8

const (
	LessThan Op = iota
	LessOrEqual
	EqualTo
	GreaterOrEqual
	GreaterThan
	NotEqual
)

var opNames = [...]string{
	LessThan:       "lt",
	LessOrEqual:    "le",
	EqualTo:        "eq",
	GreaterOrEqual: "ge",
	GreaterThan:    "gt",
	NotEqual:       "ne",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// ParseOp maps an operator token to an Op.
func ParseOp(token string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "lt", "<":
		return LessThan, nil
	case "le", "<=":
		return LessOrEqual, nil
	case "eq", "=", "==":
		return EqualTo, nil
	case "ge", ">=":
		return GreaterOrEqual, nil
	case "gt", ">":
		return GreaterThan, nil
	case "ne", "!=", "<>":
		return NotEqual, nil
	}
	return 0, fmt.Errorf("unknown comparison operator %q", token)
}

// holds reports whether a Compare result satisfies op.
func (op Op) holds(c int) bool {
	switch op {
	case LessThan:
		return c < 0
	case LessOrEqual:
		return c <= 0
	case EqualTo:
		return c == 0
	case GreaterOrEqual:
		return c >= 0
	case GreaterThan:
		return c > 0
	case NotEqual:
		return c != 0
	}
	panic(fmt.Sprintf("typedvalue: unhandled operator %d", uint8(op)))
}

// ThresholdCompare reports whether "value op arg" holds.
func ThresholdCompare(op Op, value, arg Value) bool {
	return op.holds(Compare(value, arg))
}

// Threshold is a reusable single-argument predicate.
type Threshold struct {
	Op  Op
	Arg Value
}

// Match reports whether v satisfies the threshold.
func (t Threshold) Match(v Value) bool { return ThresholdCompare(t.Op, v, t.Arg) }

// IntervalOp is a two-argument range operator.
type IntervalOp uint8

const (
	// Between includes both bounds.
	Between IntervalOp = iota
	// StrictlyBetween excludes both bounds.
	StrictlyBetween
	NotBetween
	NotStrictlyBetween
)

var intervalOpNames = [...]string{
	Between:            "between",
	StrictlyBetween:    "strictly-between",
	NotBetween:         "not-between",
	NotStrictlyBetween: "not-strictly-between",
}

func (op IntervalOp) String() string {
	if int(op) < len(intervalOpNames) {
		return intervalOpNames[op]
	}
	return fmt.Sprintf("IntervalOp(%d)", uint8(op))
}

// ParseIntervalOp maps an interval operator token to an IntervalOp.
func ParseIntervalOp(token string) (IntervalOp, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for i, name := range intervalOpNames {
		if t == name || t == strings.ReplaceAll(name, "-", "") {
			return IntervalOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interval operator %q", token)
}

// IntervalCompare reports whether value lies in the range described by op,
// lo and hi. It fails with ErrInvalidInterval when lo > hi.
func IntervalCompare(op IntervalOp, value, lo, hi Value) (bool, error) {
	iv, err := NewInterval(op, lo, hi)
	if err != nil {
		return false, err
	}
	return iv.Match(value), nil
}

// Interval is a validated two-argument predicate.
type Interval struct {
	op     IntervalOp
	lo, hi Value
}

// NewInterval validates the bounds once so Match can be applied to every
// record without re-checking them.
func NewInterval(op IntervalOp, lo, hi Value) (Interval, error) {
	if lo.kind != hi.kind {
		return Interval{}, &KindMismatchError{Left: lo.kind, Right: hi.kind}
	}
	if Compare(lo, hi) > 0 {
		return Interval{}, fmt.Errorf("%w: %q > %q", ErrInvalidInterval, lo.text, hi.text)
	}
	if op > NotStrictlyBetween {
		return Interval{}, fmt.Errorf("unknown interval operator %d", uint8(op))
	}
	return Interval{op: op, lo: lo, hi: hi}, nil
}

// Match reports whether v satisfies the interval.
func (iv Interval) Match(v Value) bool {
	switch iv.op {
	case Between:
		return Compare(v, iv.lo) >= 0 && Compare(v, iv.hi) <= 0
	case StrictlyBetween:
		return Compare(v, iv.lo) > 0 && Compare(v, iv.hi) < 0
	case NotBetween:
		return !(Compare(v, iv.lo) >= 0 && Compare(v, iv.hi) <= 0)
	case NotStrictlyBetween:
		return !(Compare(v, iv.lo) > 0 && Compare(v, iv.hi) < 0)
	}
	panic(fmt.Sprintf("typedvalue: unhandled interval operator %d", uint8(iv.op)))
}
