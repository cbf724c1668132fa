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

import "strings"

// Pair carries a record line along with the value it is ordered by. Pairs
// compare by Key only; Line never takes part in ordering.
type Pair struct {
	Key  Value
	Line string
}

// ComparePairs orders pairs by their keys.
func ComparePairs(a, b Pair) int { return Compare(a.Key, b.Key) }

// CompareLines orders raw lines lexicographically.
func CompareLines(a, b string) int { return strings.Compare(a, b) }
