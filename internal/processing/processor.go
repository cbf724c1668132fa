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

// Package processing defines the contract every record processor implements
// and the driver that feeds records through one.
//
// A processor is constructed with validated parameters and the sink it owns,
// receives records one at a time through Execute, and is finished exactly
// once with Complete, which flushes buffered state and closes the sink.
// Returning Stop from Execute is the only way to end a run early.
package processing

import (
	"context"
	"fmt"

	"github.com/cardinalhq/linecrunch/internal/record"
)

// Action tells the driver whether to keep feeding records.
type Action uint8

const (
	Continue Action = iota
	Stop
)

func (a Action) String() string {
	if a == Stop {
		return "stop"
	}
	return "continue"
}

// Processor consumes a stream of records.
type Processor interface {
	// Execute consumes one record. index is the record's 1-based input line.
	Execute(ctx context.Context, index int64, rec *record.View) (Action, error)

	// Complete is called once after the last record, or after Execute
	// returned Stop. It flushes buffered output and closes the sink.
	Complete(ctx context.Context) error
}

// RequireValues fails unless rec carries at least n typed values.
func RequireValues(rec *record.View, n int) error {
	if len(rec.Values) < n {
		return fmt.Errorf("line %d: processor needs %d typed value(s), record has %d", rec.Number, n, len(rec.Values))
	}
	return nil
}
