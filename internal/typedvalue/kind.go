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

// Kind is the semantic type a Value is parsed as.
type Kind uint8

const (
	String Kind = iota
	SignedInteger
	UnsignedInteger
	Float
	DateTime
)

var kindNames = [...]string{
	String:          "string",
	SignedInteger:   "int",
	UnsignedInteger: "uint",
	Float:           "float",
	DateTime:        "datetime",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Numeric reports whether arithmetic is defined for the kind.
func (k Kind) Numeric() bool {
	return k == SignedInteger || k == UnsignedInteger || k == Float
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{String, SignedInteger, UnsignedInteger, Float, DateTime}
}

// ParseKind maps a kind token to a Kind. Both the short names returned by
// Kind.String and a few long spellings are accepted.
func ParseKind(token string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "string", "str", "s", "text":
		return String, nil
	case "int", "integer", "signed", "i", "long":
		return SignedInteger, nil
	case "uint", "unsigned", "u":
		return UnsignedInteger, nil
	case "float", "double", "f", "number":
		return Float, nil
	case "datetime", "date", "time", "d":
		return DateTime, nil
	}
	return String, fmt.Errorf("unknown data kind %q (want one of string, int, uint, float, datetime)", token)
}
