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

package transform

import (
	"context"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// HeadConfig configures Head.
type HeadConfig struct {
	Limit int64 `validate:"min=1"`
}

// Head writes the first Limit records and then asks the driver to stop.
type Head struct {
	limit   int64
	written int64
	sink    linewriter.Writer
}

// NewHead validates cfg and returns a Head writing to sink.
func NewHead(cfg HeadConfig, sink linewriter.Writer) (*Head, error) {
	if err := processing.ValidateConfig("head", cfg); err != nil {
		return nil, err
	}
	return &Head{limit: cfg.Limit, sink: sink}, nil
}

func (h *Head) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	if err := h.sink.WriteLine(rec.Line); err != nil {
		return processing.Continue, err
	}
	h.written++
	if h.written >= h.limit {
		return processing.Stop, nil
	}
	return processing.Continue, nil
}

func (h *Head) Complete(context.Context) error { return h.sink.Close() }

// Copy writes every record unchanged.
type Copy struct {
	sink linewriter.Writer
}

// NewCopy returns a Copy writing to sink.
func NewCopy(sink linewriter.Writer) *Copy { return &Copy{sink: sink} }

func (c *Copy) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	return processing.Continue, c.sink.WriteLine(rec.Line)
}

func (c *Copy) Complete(context.Context) error { return c.sink.Close() }

// Predicate decides whether a typed value is selected. typedvalue.Threshold
// and typedvalue.Interval implement it.
type Predicate interface {
	Match(v typedvalue.Value) bool
}

// FilterConfig configures Filter.
type FilterConfig struct {
	Predicate Predicate `validate:"required"`
	// Invert writes the records the predicate rejects instead.
	Invert bool
}

// Filter writes the records whose key satisfies a predicate.
type Filter struct {
	cfg  FilterConfig
	sink linewriter.Writer
}

// NewFilter validates cfg and returns a Filter writing to sink.
func NewFilter(cfg FilterConfig, sink linewriter.Writer) (*Filter, error) {
	if err := processing.ValidateConfig("filter", cfg); err != nil {
		return nil, err
	}
	return &Filter{cfg: cfg, sink: sink}, nil
}

func (f *Filter) Execute(_ context.Context, _ int64, rec *record.View) (processing.Action, error) {
	if err := processing.RequireValues(rec, 1); err != nil {
		return processing.Continue, err
	}
	if f.cfg.Predicate.Match(rec.Key()) != f.cfg.Invert {
		return processing.Continue, f.sink.WriteLine(rec.Line)
	}
	return processing.Continue, nil
}

func (f *Filter) Complete(context.Context) error { return f.sink.Close() }
