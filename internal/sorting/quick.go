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

// quickCutoff is the partition size at or below which QuickSort stops
// recursing and leaves the range for the final insertion pass.
const quickCutoff = 15

// QuickSort sorts s in place. Partitions are chosen by median of three and
// recursion stops at quickCutoff elements; one insertion sort over the whole
// slice then finishes the nearly sorted result.
func QuickSort[T any](s []T, cmp func(a, b T) int) {
	quickSort(s, 0, len(s)-1, cmp)
	InsertionSort(s, cmp)
}

func quickSort[T any](s []T, lo, hi int, cmp func(a, b T) int) {
	if hi-lo+1 <= quickCutoff {
		return
	}

	pivot := medianOfThree(s, lo, hi, cmp)

	// s[lo] <= pivot and s[hi-1] == pivot act as sentinels for the scans.
	i, j := lo, hi-1
	for {
		i++
		for cmp(s[i], pivot) < 0 {
			i++
		}
		j--
		for cmp(pivot, s[j]) < 0 {
			j--
		}
		if i >= j {
			break
		}
		s[i], s[j] = s[j], s[i]
	}
	s[i], s[hi-1] = s[hi-1], s[i]

	quickSort(s, lo, i-1, cmp)
	quickSort(s, i+1, hi, cmp)
}

// medianOfThree orders s[lo], s[mid] and s[hi], then parks the median at
// hi-1 and returns it.
func medianOfThree[T any](s []T, lo, hi int, cmp func(a, b T) int) T {
	mid := lo + (hi-lo)/2
	if cmp(s[mid], s[lo]) < 0 {
		s[lo], s[mid] = s[mid], s[lo]
	}
	if cmp(s[hi], s[lo]) < 0 {
		s[lo], s[hi] = s[hi], s[lo]
	}
	if cmp(s[hi], s[mid]) < 0 {
		s[mid], s[hi] = s[hi], s[mid]
	}
	s[mid], s[hi-1] = s[hi-1], s[mid]
	return s[hi-1]
}
