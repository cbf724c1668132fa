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

package grouping

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// Position selects records by where they fall among the records sharing
// their key.
type Position uint8

const (
	First Position = iota
	NotFirst
	Last
	NotLast
)

var positionNames = [...]string{
	First:    "first",
	NotFirst: "not-first",
	Last:     "last",
	NotLast:  "not-last",
}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return fmt.Sprintf("Position(%d)", uint8(p))
}

// ParsePosition maps a position token to a Position.
func ParsePosition(token string) (Position, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for i, name := range positionNames {
		if t == name || t == strings.ReplaceAll(name, "-", "") {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("unknown occurrence position %q (want first, not-first, last or not-last)", token)
}

// OccurrenceConfig configures Occurrence.
type OccurrenceConfig struct {
	Position Position `validate:"lte=3"`
}

// Occurrence emits the first, last, all-but-first or all-but-last record of
// every key.
//
// First and NotFirst consult the set of every key seen so far. Last holds the
// latest record of the current key and writes it once a new key arrives or
// the stream ends. NotLast holds the latest record too, but writes it only
// when another record with the same key follows.
type Occurrence struct {
	pos     Position
	run     runState
	history mapset.Set[typedvalue.Key]
	held    holdState
	sink    linewriter.Writer
}

var _ processing.Processor = (*Occurrence)(nil)

// NewOccurrence validates cfg and returns an Occurrence writing to sink.
func NewOccurrence(cfg OccurrenceConfig, sink linewriter.Writer) (*Occurrence, error) {
	if err := processing.ValidateConfig("occurrence", cfg); err != nil {
		return nil, err
	}
	return &Occurrence{
		pos:     cfg.Position,
		history: mapset.NewThreadUnsafeSet[typedvalue.Key](),
		held:    noPending{},
		sink:    sink,
	}, nil
}

func (o *Occurrence) Execute(_ context.Context, index int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 1); err != nil {
		return processing.Continue, err
	}
	key := rec.Key()
	newRun, err := o.run.advance(index, key)
	if err != nil {
		return processing.Continue, err
	}

	switch o.pos {
	case First, NotFirst:
		// Add reports whether the key was new.
		firstSeen := o.history.Add(key.Key())
		if firstSeen == (o.pos == First) {
			err = o.sink.WriteLine(rec.Line)
		}
	case Last:
		if newRun {
			o.held, err = flush(o.held, o.sink)
		}
		o.held = pendingRecord{key: key, line: rec.Line}
	case NotLast:
		if !newRun {
			o.held, err = flush(o.held, o.sink)
		}
		o.held = pendingRecord{key: key, line: rec.Line}
	}
	return processing.Continue, err
}

func (o *Occurrence) Complete(context.Context) error {
	if o.pos == Last {
		var err error
		if o.held, err = flush(o.held, o.sink); err != nil {
			return err
		}
	}
	o.held = noPending{}
	return o.sink.Close()
}
