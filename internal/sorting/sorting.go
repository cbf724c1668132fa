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

// Package sorting implements in-place comparison sorts with different
// complexity and stability trade-offs, selectable at runtime.
//
// All algorithms take a three-way comparison function in the style of
// slices.SortFunc and produce a non-decreasing permutation of their input.
// Only Insertion and Merge are stable.
package sorting

import (
	"fmt"
	"strings"
)

// Algorithm selects a sorting strategy.
type Algorithm uint8

const (
	// Insertion is O(n²) and stable.
	Insertion Algorithm = iota
	// Shell is gap-spaced insertion sort; not stable.
	Shell
	// Merge is top-down merge sort; stable, O(n) scratch space.
	Merge
	// Quick is median-of-three quicksort with an insertion-sort finish; not stable.
	Quick
	// Heap is binary heap sort; not stable, O(1) extra space.
	Heap
)

var algorithmNames = [...]string{
	Insertion: "insertion",
	Shell:     "shell",
	Merge:     "merge",
	Quick:     "quick",
	Heap:      "heap",
}

func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// Stable reports whether equal elements keep their input order.
func (a Algorithm) Stable() bool {
	return a == Insertion || a == Merge
}

// Algorithms lists every algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{Insertion, Shell, Merge, Quick, Heap}
}

// ParseAlgorithm maps a name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "quicksort":
		return Quick, nil
	case "mergesort":
		return Merge, nil
	case "heapsort":
		return Heap, nil
	}
	for i, candidate := range algorithmNames {
		if n == candidate {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort algorithm %q (want one of %s)", name, strings.Join(algorithmNames[:], ", "))
}

// Sort sorts s in place with the chosen algorithm.
func Sort[T any](s []T, cmp func(a, b T) int, alg Algorithm) {
	switch alg {
	case Insertion:
		InsertionSort(s, cmp)
	case Shell:
		ShellSort(s, cmp)
	case Merge:
		MergeSort(s, cmp)
	case Quick:
		QuickSort(s, cmp)
	case Heap:
		HeapSort(s, cmp)
	default:
		panic(fmt.Sprintf("sorting: unhandled algorithm %d", uint8(alg)))
	}
}
