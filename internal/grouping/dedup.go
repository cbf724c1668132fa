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

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
)

// DedupMode selects which records of a run Dedup keeps.
type DedupMode uint8

const (
	// SkipRepeats keeps the first record of each run.
	SkipRepeats DedupMode = iota
	// PickRepeats keeps every record except the first of each run.
	PickRepeats
)

func (m DedupMode) String() string {
	switch m {
	case SkipRepeats:
		return "skip"
	case PickRepeats:
		return "pick"
	}
	return fmt.Sprintf("DedupMode(%d)", uint8(m))
}

// ParseDedupMode maps "skip" or "pick" to a DedupMode.
func ParseDedupMode(token string) (DedupMode, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "skip":
		return SkipRepeats, nil
	case "pick":
		return PickRepeats, nil
	}
	return 0, fmt.Errorf("unknown dedup mode %q (want skip or pick)", token)
}

// DedupConfig configures Dedup.
type DedupConfig struct {
	Mode DedupMode `validate:"lte=1"`
}

// Dedup classifies each record as the first of its run or a repeat.
type Dedup struct {
	mode DedupMode
	run  runState
	sink linewriter.Writer
}

var _ processing.Processor = (*Dedup)(nil)

// NewDedup validates cfg and returns a Dedup writing to sink.
func NewDedup(cfg DedupConfig, sink linewriter.Writer) (*Dedup, error) {
	if err := processing.ValidateConfig("dedup", cfg); err != nil {
		return nil, err
	}
	return &Dedup{mode: cfg.Mode, sink: sink}, nil
}

func (d *Dedup) Execute(_ context.Context, index int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 1); err != nil {
		return processing.Continue, err
	}
	first, err := d.run.advance(index, rec.Key())
	if err != nil {
		return processing.Continue, err
	}
	if first == (d.mode == SkipRepeats) {
		return processing.Continue, d.sink.WriteLine(rec.Line)
	}
	return processing.Continue, nil
}

func (d *Dedup) Complete(context.Context) error { return d.sink.Close() }
