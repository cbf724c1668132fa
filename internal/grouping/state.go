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

// Package grouping implements single-pass algorithms over streams that are
// already sorted on their key: run deduplication, occurrence selection,
// secondary sorting within runs, state-transition detection, splitting runs
// into separate outputs and sorted joins.
//
// Every processor checks the sortedness of its key on each record and fails
// with *ordering.NotSortedError on the first inversion, since the results on
// unsorted input would be silently wrong.
package grouping

import (
	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/ordering"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// runState tracks which run of equal keys the stream is in.
type runState struct {
	order ordering.Checker
}

// advance validates key against the previous one and reports whether key
// starts a new run.
func (s *runState) advance(index int64, key typedvalue.Value) (bool, error) {
	prev, seen := s.order.Last()
	if err := s.order.Check(index, key); err != nil {
		return false, err
	}
	return !seen || !typedvalue.Equal(prev, key), nil
}

// holdState is either noPending or pendingRecord.
type holdState interface {
	isHoldState()
}

type noPending struct{}

type pendingRecord struct {
	key    typedvalue.Value
	second typedvalue.Value
	line   string
}

func (noPending) isHoldState()     {}
func (pendingRecord) isHoldState() {}

// flush writes the held record, if any, and returns the empty state.
func flush(h holdState, sink linewriter.Writer) (holdState, error) {
	switch p := h.(type) {
	case pendingRecord:
		if err := sink.WriteLine(p.line); err != nil {
			return h, err
		}
	case noPending:
	}
	return noPending{}, nil
}
