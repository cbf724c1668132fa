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

package stats

import (
	"context"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// EntropyCounter measures the Shannon entropy of the first extracted column
// and writes it, with the record and distinct value counts, at Complete.
type EntropyCounter struct {
	counts *counter
	sink   linewriter.Writer
	bits   float64
}

var _ processing.Processor = (*EntropyCounter)(nil)

func NewEntropyCounter(sink linewriter.Writer) *EntropyCounter {
	return &EntropyCounter{counts: newCounter(), sink: sink}
}

func (e *EntropyCounter) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 1); err != nil {
		return processing.Continue, err
	}
	e.counts.add(rec.Key())
	return processing.Continue, nil
}

// Bits returns the entropy computed by Complete.
func (e *EntropyCounter) Bits() float64 { return e.bits }

func (e *EntropyCounter) Complete(context.Context) error {
	e.bits = e.counts.entropy()
	lines := []string{
		"count\t" + itoa(e.counts.total),
		"distinct\t" + itoa(int64(e.counts.distinct())),
		"entropy\t" + formatFloat(e.bits),
	}
	for _, l := range lines {
		if err := e.sink.WriteLine(l); err != nil {
			return err
		}
	}
	return e.sink.Close()
}

// ConditionalSummary describes how much knowing X tells about Y.
type ConditionalSummary struct {
	Total int64
	// HX and HY are the entropies of X and Y on their own.
	HX, HY float64
	// HYGivenX is the conditional entropy H(Y|X).
	HYGivenX float64
	// InformationGain is HY - HYGivenX.
	InformationGain float64
}

// Report renders the summary as tab separated lines.
func (s ConditionalSummary) Report() []string {
	return []string{
		"count\t" + itoa(s.Total),
		"h_x\t" + formatFloat(s.HX),
		"h_y\t" + formatFloat(s.HY),
		"h_y_given_x\t" + formatFloat(s.HYGivenX),
		"information_gain\t" + formatFloat(s.InformationGain),
	}
}

// ConditionalEntropy computes H(Y|X) where X is the first extracted column
// and Y the second. Each group's entropy is weighted by its record count and
// the weighted sum is divided once by the grand total.
type ConditionalEntropy struct {
	xs     *counter
	ys     *counter
	groups map[typedvalue.Key]*counter
	order  []typedvalue.Key
	sink   linewriter.Writer

	summary ConditionalSummary
}

var _ processing.Processor = (*ConditionalEntropy)(nil)

func NewConditionalEntropy(sink linewriter.Writer) *ConditionalEntropy {
	return &ConditionalEntropy{
		xs:     newCounter(),
		ys:     newCounter(),
		groups: map[typedvalue.Key]*counter{},
		sink:   sink,
	}
}

func (c *ConditionalEntropy) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 2); err != nil {
		return processing.Continue, err
	}
	x, y := rec.Values[0], rec.Values[1]
	c.xs.add(x)
	c.ys.add(y)

	k := x.Key()
	g, ok := c.groups[k]
	if !ok {
		g = newCounter()
		c.groups[k] = g
		c.order = append(c.order, k)
	}
	g.add(y)
	return processing.Continue, nil
}

// Summary returns the result computed by Complete.
func (c *ConditionalEntropy) Summary() ConditionalSummary { return c.summary }

func (c *ConditionalEntropy) summarize() ConditionalSummary {
	s := ConditionalSummary{
		Total: c.xs.total,
		HX:    c.xs.entropy(),
		HY:    c.ys.entropy(),
	}
	if s.Total == 0 {
		return s
	}
	weighted := 0.0
	for _, k := range c.order {
		g := c.groups[k]
		weighted += float64(g.total) * g.entropy()
	}
	s.HYGivenX = weighted / float64(s.Total)
	s.InformationGain = s.HY - s.HYGivenX
	return s
}

func (c *ConditionalEntropy) Complete(context.Context) error {
	c.summary = c.summarize()
	for _, l := range c.summary.Report() {
		if err := c.sink.WriteLine(l); err != nil {
			return err
		}
	}
	return c.sink.Close()
}
