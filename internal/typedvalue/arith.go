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

import "fmt"

// Add returns a + b.
func Add(a, b Value) (Value, error) { return arith("add", a, b, numericRep.add) }

// Subtract returns a - b.
func Subtract(a, b Value) (Value, error) { return arith("subtract", a, b, numericRep.sub) }

// Multiply returns a * b.
func Multiply(a, b Value) (Value, error) { return arith("multiply", a, b, numericRep.mul) }

// Divide returns a / b. Integer kinds truncate toward zero.
func Divide(a, b Value) (Value, error) { return arith("divide", a, b, numericRep.div) }

func arith(name string, a, b Value, fn func(numericRep, rep) (rep, error)) (Value, error) {
	if a.kind != b.kind {
		return Value{}, &KindMismatchError{Left: a.kind, Right: b.kind}
	}
	na, ok := a.repr().(numericRep)
	if !ok {
		return Value{}, fmt.Errorf("cannot %s %s values: %w", name, a.kind, ErrNotNumeric)
	}
	r, err := fn(na, b.repr())
	if err != nil {
		return Value{}, fmt.Errorf("%s %s and %s: %w", name, a.text, b.text, err)
	}
	return fromRep(a.kind, r), nil
}
