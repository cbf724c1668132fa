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

// InsertionSort sorts s in place. It is stable and fast for short or nearly
// sorted input.
func InsertionSort[T any](s []T, cmp func(a, b T) int) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i
		for j > 0 && cmp(s[j-1], v) > 0 {
			s[j] = s[j-1]
			j--
		}
		s[j] = v
	}
}

// ShellSort sorts s in place using the gap sequence g = g/3 + 1.
func ShellSort[T any](s []T, cmp func(a, b T) int) {
	n := len(s)
	gap := n
	for gap > 1 {
		gap = gap/3 + 1
		for i := gap; i < n; i++ {
			v := s[i]
			j := i
			for j >= gap && cmp(s[j-gap], v) > 0 {
				s[j] = s[j-gap]
				j -= gap
			}
			s[j] = v
		}
	}
}
