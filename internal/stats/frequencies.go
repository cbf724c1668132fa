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
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/axiomhq/hyperloglog"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/sorting"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// sketchAccuracy is the relative accuracy of the quantile sketch.
const sketchAccuracy = 0.01

// ReportedQuantiles are estimated for numeric kinds.
var ReportedQuantiles = []float64{0.5, 0.9, 0.99}

// FrequencyConfig configures Frequencies.
type FrequencyConfig struct {
	// Limit is the number of least and most frequent values to report.
	// Zero reports every value.
	Limit     int               `validate:"gte=0"`
	Algorithm sorting.Algorithm `validate:"lte=4"`
}

// ValueCount is a distinct value and the number of records carrying it.
type ValueCount struct {
	Value typedvalue.Value
	Count int64
}

func compareCounts(a, b ValueCount) int {
	switch {
	case a.Count < b.Count:
		return -1
	case a.Count > b.Count:
		return 1
	}
	return typedvalue.Compare(a.Value, b.Value)
}

// Quantile is an estimated value at quantile Q.
type Quantile struct {
	Q     float64
	Value float64
}

// Summary is the result of a frequency analysis.
type Summary struct {
	Total            int64
	Distinct         int
	DistinctEstimate uint64
	Entropy          float64

	// Extremes are only meaningful when Total > 0.
	Min, Max          typedvalue.Value
	Shortest, Longest typedvalue.Value

	// Sum and Mean are set for numeric kinds unless the sum overflowed.
	HasSum bool
	Sum    typedvalue.Value
	Mean   float64

	Quantiles []Quantile

	// Either All is set, sorted by descending count, or Most and Least
	// hold the Limit most and least frequent values.
	All   []ValueCount
	Most  []ValueCount
	Least []ValueCount
}

// Report renders the summary as tab separated lines.
func (s Summary) Report() []string {
	lines := []string{
		"count\t" + strconv.FormatInt(s.Total, 10),
		"distinct\t" + strconv.Itoa(s.Distinct),
	}
	if s.Total == 0 {
		return lines
	}
	lines = append(lines,
		"distinct_estimate\t"+strconv.FormatUint(s.DistinctEstimate, 10),
		"entropy\t"+formatFloat(s.Entropy),
		"min\t"+s.Min.Text(),
		"max\t"+s.Max.Text(),
		"shortest\t"+s.Shortest.Text(),
		"longest\t"+s.Longest.Text(),
	)
	if s.HasSum {
		lines = append(lines, "sum\t"+s.Sum.Text(), "mean\t"+formatFloat(s.Mean))
	}
	for _, q := range s.Quantiles {
		lines = append(lines, fmt.Sprintf("p%s\t%s", strconv.FormatFloat(q.Q*100, 'f', -1, 64), formatFloat(q.Value)))
	}
	for _, vc := range s.All {
		lines = append(lines, fmt.Sprintf("value\t%d\t%s", vc.Count, vc.Value.Text()))
	}
	for _, vc := range s.Most {
		lines = append(lines, fmt.Sprintf("most\t%d\t%s", vc.Count, vc.Value.Text()))
	}
	for _, vc := range s.Least {
		lines = append(lines, fmt.Sprintf("least\t%d\t%s", vc.Count, vc.Value.Text()))
	}
	return lines
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// Frequencies counts the distinct values of the first extracted column and
// tracks their extremes. The report is written to the sink at Complete.
//
// Memory Impact: proportional to the number of distinct values.
type Frequencies struct {
	cfg    FrequencyConfig
	sink   linewriter.Writer
	counts *counter
	hll    *hyperloglog.Sketch
	sketch *ddsketch.DDSketch

	min, max          typedvalue.Value
	shortest, longest typedvalue.Value

	sum    typedvalue.Value
	sumOK  bool
	kindOK bool

	summary Summary
}

var _ processing.Processor = (*Frequencies)(nil)

// NewFrequencies validates cfg and returns a Frequencies writing its report
// to sink.
func NewFrequencies(cfg FrequencyConfig, sink linewriter.Writer) (*Frequencies, error) {
	if err := processing.ValidateConfig("frequency", cfg); err != nil {
		return nil, err
	}
	sketch, err := ddsketch.NewDefaultDDSketch(sketchAccuracy)
	if err != nil {
		return nil, fmt.Errorf("failed to create quantile sketch: %w", err)
	}
	return &Frequencies{
		cfg:    cfg,
		sink:   sink,
		counts: newCounter(),
		hll:    hyperloglog.New14(),
		sketch: sketch,
	}, nil
}

func (f *Frequencies) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 1); err != nil {
		return processing.Continue, err
	}
	v := rec.Key()
	first := f.counts.total == 0
	f.counts.add(v)
	f.hll.InsertHash(v.Hash())

	if first {
		f.min, f.max, f.shortest, f.longest = v, v, v, v
		f.kindOK = v.Kind().Numeric()
		f.sum, f.sumOK = v, f.kindOK
	} else {
		if typedvalue.Compare(v, f.min) < 0 {
			f.min = v
		}
		if typedvalue.Compare(v, f.max) > 0 {
			f.max = v
		}
		if len(v.Text()) < len(f.shortest.Text()) {
			f.shortest = v
		}
		if len(v.Text()) > len(f.longest.Text()) {
			f.longest = v
		}
		if f.sumOK {
			f.accumulate(v)
		}
	}

	if fv, ok := v.Float64(); ok && f.kindOK {
		// Values outside the sketch's range only cost accuracy.
		_ = f.sketch.Add(fv)
	}
	return processing.Continue, nil
}

func (f *Frequencies) accumulate(v typedvalue.Value) {
	sum, err := typedvalue.Add(f.sum, v)
	if err != nil {
		if errors.Is(err, typedvalue.ErrOverflow) {
			slog.Warn("Sum overflowed, mean will not be reported", slog.String("value", v.Text()))
		} else {
			slog.Warn("Cannot sum values, mean will not be reported", slog.Any("error", err))
		}
		f.sumOK = false
		return
	}
	f.sum = sum
}

// Summary returns the analysis. It is complete once Complete has returned.
func (f *Frequencies) Summary() Summary { return f.summary }

func (f *Frequencies) summarize() Summary {
	c := f.counts
	s := Summary{
		Total:            c.total,
		Distinct:         c.distinct(),
		DistinctEstimate: f.hll.Estimate(),
		Entropy:          c.entropy(),
	}
	if c.total == 0 {
		return s
	}
	s.Min, s.Max, s.Shortest, s.Longest = f.min, f.max, f.shortest, f.longest
	if f.sumOK {
		s.HasSum = true
		s.Sum = f.sum
		total, _ := f.sum.Float64()
		s.Mean = total / float64(c.total)
	}
	if f.kindOK && !f.sketch.IsEmpty() {
		for _, q := range ReportedQuantiles {
			if v, err := f.sketch.GetValueAtQuantile(q); err == nil {
				s.Quantiles = append(s.Quantiles, Quantile{Q: q, Value: v})
			}
		}
	}

	pairs := make([]ValueCount, len(c.values))
	for i, v := range c.values {
		pairs[i] = ValueCount{Value: v, Count: c.counts[i]}
	}
	sorting.Sort(pairs, compareCounts, f.cfg.Algorithm)

	// Most and least would overlap once 2n reaches the distinct count. That
	// also covers 2n reaching the record count, which is never smaller.
	n := f.cfg.Limit
	if n == 0 || n >= (len(pairs)+1)/2 {
		s.All = reversed(pairs)
		return s
	}
	s.Least = pairs[:n]
	s.Most = reversed(pairs[len(pairs)-n:])
	return s
}

func reversed(in []ValueCount) []ValueCount {
	out := make([]ValueCount, len(in))
	for i, vc := range in {
		out[len(in)-1-i] = vc
	}
	return out
}

func (f *Frequencies) Complete(context.Context) error {
	f.summary = f.summarize()
	for _, line := range f.summary.Report() {
		if err := f.sink.WriteLine(line); err != nil {
			return err
		}
	}
	return f.sink.Close()
}
