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

package sorting

// MergeSort sorts s in place with top-down merge sort. It is stable and
// allocates one scratch buffer of len(s) shared by every merge step.
func MergeSort[T any](s []T, cmp func(a, b T) int) {
	if len(s) < 2 {
		return
	}
	scratch := make([]T, len(s))
	mergeSort(s, scratch, 0, len(s), cmp)
}

func mergeSort[T any](s, scratch []T, lo, hi int, cmp func(a, b T) int) {
	if hi-lo < 2 {
		return
	}
	mid := lo + (hi-lo)/2
	mergeSort(s, scratch, lo, mid, cmp)
	mergeSort(s, scratch, mid, hi, cmp)
	if cmp(s[mid-1], s[mid]) <= 0 {
		return // halves already in order
	}

	copy(scratch[lo:hi], s[lo:hi])
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		// <= keeps the left element first on ties
		if cmp(scratch[i], scratch[j]) <= 0 {
			s[k] = scratch[i]
			i++
		} else {
			s[k] = scratch[j]
			j++
		}
		k++
	}
	k += copy(s[k:], scratch[i:mid])
	copy(s[k:], scratch[j:hi])
}
