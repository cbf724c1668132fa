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

// Package stats aggregates typed values: frequency tables with extremes and
// quantiles, Shannon entropy and conditional entropy.
package stats

import (
	"math"

	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// Entropy returns the Shannon entropy, in bits, of the distribution given by
// counts. Zero counts contribute nothing; an empty or all-zero distribution
// has entropy 0.
func Entropy(counts []int64) float64 {
	var total int64
	for _, c := range counts {
		total += c
	}
	return entropyOf(counts, total)
}

func entropyOf(counts []int64, total int64) float64 {
	if total <= 0 {
		return 0
	}
	h := 0.0
	t := float64(total)
	for _, c := range counts {
		if c <= 0 {
			continue
		}
		p := float64(c) / t
		h -= p * math.Log2(p)
	}
	return h
}

// counter counts distinct values in first-seen order.
type counter struct {
	index  map[typedvalue.Key]int
	values []typedvalue.Value
	counts []int64
	total  int64
}

func newCounter() *counter {
	return &counter{index: map[typedvalue.Key]int{}}
}

// add counts v and reports whether it had not been seen before.
func (c *counter) add(v typedvalue.Value) bool {
	c.total++
	k := v.Key()
	if i, ok := c.index[k]; ok {
		c.counts[i]++
		return false
	}
	c.index[k] = len(c.values)
	c.values = append(c.values, v)
	c.counts = append(c.counts, 1)
	return true
}

func (c *counter) distinct() int { return len(c.values) }

func (c *counter) entropy() float64 { return entropyOf(c.counts, c.total) }
