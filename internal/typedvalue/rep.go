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
	"cmp"
	"math"
	"strconv"
	"strings"
	"time"
)

// rep is the parsed form of a Value. Every kind has exactly one
// implementation; compare is only ever called with a rep of the same
// concrete type.
type rep interface {
	compare(other rep) int
	key() Key
	format() string
}

// numericRep is implemented by the representations arithmetic is defined for.
type numericRep interface {
	rep
	add(other rep) (rep, error)
	sub(other rep) (rep, error)
	mul(other rep) (rep, error)
	div(other rep) (rep, error)
	float64() float64
}

type stringRep string

func (r stringRep) compare(o rep) int { return strings.Compare(string(r), string(o.(stringRep))) }
func (r stringRep) key() Key          { return Key{kind: String, text: string(r)} }
func (r stringRep) format() string    { return string(r) }

type intRep int64

func (r intRep) compare(o rep) int { return cmp.Compare(r, o.(intRep)) }
func (r intRep) key() Key          { return Key{kind: SignedInteger, bits: uint64(r)} }
func (r intRep) format() string    { return strconv.FormatInt(int64(r), 10) }
func (r intRep) float64() float64  { return float64(r) }

func (r intRep) add(o rep) (rep, error) {
	a, b := int64(r), int64(o.(intRep))
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return nil, ErrOverflow
	}
	return intRep(s), nil
}

func (r intRep) sub(o rep) (rep, error) {
	a, b := int64(r), int64(o.(intRep))
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return nil, ErrOverflow
	}
	return intRep(d), nil
}

func (r intRep) mul(o rep) (rep, error) {
	a, b := int64(r), int64(o.(intRep))
	if a == 0 || b == 0 {
		return intRep(0), nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return nil, ErrOverflow
	}
	p := a * b
	if p/b != a {
		return nil, ErrOverflow
	}
	return intRep(p), nil
}

func (r intRep) div(o rep) (rep, error) {
	a, b := int64(r), int64(o.(intRep))
	if b == 0 {
		return nil, ErrDivisionByZero
	}
	if a == math.MinInt64 && b == -1 {
		return nil, ErrOverflow
	}
	return intRep(a / b), nil
}

type uintRep uint64

func (r uintRep) compare(o rep) int { return cmp.Compare(r, o.(uintRep)) }
func (r uintRep) key() Key          { return Key{kind: UnsignedInteger, bits: uint64(r)} }
func (r uintRep) format() string    { return strconv.FormatUint(uint64(r), 10) }
func (r uintRep) float64() float64  { return float64(r) }

func (r uintRep) add(o rep) (rep, error) {
	a, b := uint64(r), uint64(o.(uintRep))
	s := a + b
	if s < a {
		return nil, ErrOverflow
	}
	return uintRep(s), nil
}

func (r uintRep) sub(o rep) (rep, error) {
	a, b := uint64(r), uint64(o.(uintRep))
	if b > a {
		return nil, ErrOverflow
	}
	return uintRep(a - b), nil
}

func (r uintRep) mul(o rep) (rep, error) {
	a, b := uint64(r), uint64(o.(uintRep))
	if a == 0 || b == 0 {
		return uintRep(0), nil
	}
	p := a * b
	if p/a != b {
		return nil, ErrOverflow
	}
	return uintRep(p), nil
}

func (r uintRep) div(o rep) (rep, error) {
	b := uint64(o.(uintRep))
	if b == 0 {
		return nil, ErrDivisionByZero
	}
	return uintRep(uint64(r) / b), nil
}

type floatRep float64

// compare orders NaN before every other value and equal to itself.
func (r floatRep) compare(o rep) int { return cmp.Compare(r, o.(floatRep)) }
func (r floatRep) format() string    { return strconv.FormatFloat(float64(r), 'g', -1, 64) }
func (r floatRep) float64() float64  { return float64(r) }

func (r floatRep) key() Key {
	f := float64(r)
	switch {
	case f == 0:
		f = 0 // folds -0 into +0
	case math.IsNaN(f):
		f = math.NaN()
	}
	return Key{kind: Float, bits: math.Float64bits(f)}
}

func (r floatRep) add(o rep) (rep, error) { return r + o.(floatRep), nil }
func (r floatRep) sub(o rep) (rep, error) { return r - o.(floatRep), nil }
func (r floatRep) mul(o rep) (rep, error) { return r * o.(floatRep), nil }
func (r floatRep) div(o rep) (rep, error) { return r / o.(floatRep), nil }

type timeRep struct {
	t time.Time
}

func (r timeRep) compare(o rep) int { return r.t.Compare(o.(timeRep).t) }
func (r timeRep) format() string    { return r.t.Format(time.RFC3339Nano) }

func (r timeRep) key() Key {
	return Key{kind: DateTime, bits: uint64(r.t.Unix()), nanos: uint32(r.t.Nanosecond())}
}
