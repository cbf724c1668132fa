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
	"strconv"
	"time"
)

// DefaultDateLayouts are tried in order when parsing DateTime values and no
// layouts are configured.
var DefaultDateLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

var errNoLayout = errors.New("text matches none of the configured date layouts")

// Value is a piece of record text together with its parsed form.
// The zero Value is the empty String.
type Value struct {
	kind Kind
	text string
	rep  rep
}

// Kind returns the semantic type of the value.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text the value was parsed from.
func (v Value) Text() string { return v.text }

// String returns the original text, so canonical input round-trips.
func (v Value) String() string { return v.text }

// Float64 returns the numeric value as a float64. ok is false for String and
// DateTime values.
func (v Value) Float64() (f float64, ok bool) {
	n, ok := v.repr().(numericRep)
	if !ok {
		return 0, false
	}
	return n.float64(), true
}

// Time returns the instant of a DateTime value.
func (v Value) Time() (time.Time, bool) {
	t, ok := v.repr().(timeRep)
	return t.t, ok
}

func (v Value) repr() rep {
	if v.rep == nil {
		return stringRep(v.text)
	}
	return v.rep
}

// OfString returns a String value.
func OfString(s string) Value { return Value{kind: String, text: s, rep: stringRep(s)} }

// OfInt returns a SignedInteger value in canonical decimal form.
func OfInt(i int64) Value { return fromRep(SignedInteger, intRep(i)) }

// OfUint returns an UnsignedInteger value in canonical decimal form.
func OfUint(u uint64) Value { return fromRep(UnsignedInteger, uintRep(u)) }

// OfFloat returns a Float value in shortest round-trip form.
func OfFloat(f float64) Value { return fromRep(Float, floatRep(f)) }

// OfTime returns a DateTime value formatted as RFC 3339.
func OfTime(t time.Time) Value { return fromRep(DateTime, timeRep{t: t}) }

func fromRep(kind Kind, r rep) Value {
	return Value{kind: kind, text: r.format(), rep: r}
}

// Parser converts text into Values. The zero Parser uses DefaultDateLayouts
// and UTC.
type Parser struct {
	DateLayouts []string
	Location    *time.Location
}

// Parse converts text to kind using the default Parser.
func Parse(kind Kind, text string) (Value, error) {
	return Parser{}.Parse(kind, text)
}

// MustParse is like Parse but panics on failure. It is meant for constants
// and tests.
func MustParse(kind Kind, text string) Value {
	v, err := Parse(kind, text)
	if err != nil {
		panic(err)
	}
	return v
}

// TryParse replaces v with text parsed as kind and reports success. On
// failure v is left untouched.
func (v *Value) TryParse(kind Kind, text string) bool {
	return Parser{}.TryParse(v, kind, text)
}

// TryParse replaces *dst with text parsed as kind and reports success. On
// failure *dst is left untouched.
func (p Parser) TryParse(dst *Value, kind Kind, text string) bool {
	v, err := p.Parse(kind, text)
	if err != nil {
		return false
	}
	*dst = v
	return true
}

// Parse converts text to kind. Integers are base 10 and 64 bits wide.
func (p Parser) Parse(kind Kind, text string) (Value, error) {
	var (
		r   rep
		err error
	)
	switch kind {
	case String:
		r = stringRep(text)
	case SignedInteger:
		var i int64
		i, err = strconv.ParseInt(text, 10, 64)
		r = intRep(i)
	case UnsignedInteger:
		var u uint64
		u, err = strconv.ParseUint(text, 10, 64)
		r = uintRep(u)
	case Float:
		var f float64
		f, err = strconv.ParseFloat(text, 64)
		r = floatRep(f)
	case DateTime:
		var t time.Time
		t, err = p.parseTime(text)
		r = timeRep{t: t}
	default:
		err = errors.New("unknown kind")
	}
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return Value{}, &ParseError{Kind: kind, Text: text, Err: err}
	}
	return Value{kind: kind, text: text, rep: r}, nil
}

func (p Parser) parseTime(text string) (time.Time, error) {
	layouts := p.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNoLayout
}
