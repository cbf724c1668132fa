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

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/linecrunch/config"
	"github.com/cardinalhq/linecrunch/internal/filereader"
	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/sorting"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// app carries the resolved settings of one invocation.
type app struct {
	opts      rootOptions
	cfg       *config.Config
	parser    typedvalue.Parser
	algorithm sorting.Algorithm
	runID     ulid.ULID
	closeLogs func() error
	started   time.Time
}

func (a *app) setup(c *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.opts.overlay(c, cfg)
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if a.parser, err = cfg.Parser(); err != nil {
		return err
	}
	if a.algorithm, err = cfg.SortAlgorithm(); err != nil {
		return err
	}
	a.cfg = cfg

	a.runID, a.closeLogs, err = setupLogging(cfg, c.ErrOrStderr(), c.Name())
	if err != nil {
		return err
	}
	a.started = time.Now()
	commandRunsCounter.Add(c.Context(), 1, metric.WithAttributes(attribute.String("command", c.Name())))
	slog.Debug("Configuration loaded",
		slog.String("separator", cfg.Separator),
		slog.String("algorithm", a.algorithm.String()),
		slog.String("timezone", cfg.Timezone),
		slog.Bool("lenient", cfg.Lenient),
		slog.Bool("quoted", cfg.Quoted))
	return nil
}

func (a *app) shutdown() error {
	if a.closeLogs == nil {
		return nil
	}
	err := a.closeLogs()
	a.closeLogs = nil
	return err
}

// extractor returns an extractor for the configured separator that pulls
// the given columns.
func (a *app) extractor(cols ...record.Column) *record.Extractor {
	return &record.Extractor{
		Separator: a.cfg.Separator,
		Quoted:    a.cfg.Quoted,
		Columns:   cols,
		Parser:    a.parser,
		Lenient:   a.cfg.Lenient,
	}
}

// openReaders opens one reader per path. No paths means standard input.
func (a *app) openReaders(c *cobra.Command, paths []string, ex *record.Extractor) ([]filereader.Reader, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	readers := make([]filereader.Reader, 0, len(paths))
	for _, path := range paths {
		var (
			r   *filereader.LineReader
			err error
		)
		if path == "-" {
			r, err = filereader.NewLineReader("stdin", io.NopCloser(c.InOrStdin()), ex, a.cfg.MaxLineBytes)
		} else {
			r, err = filereader.OpenLineReader(path, ex, a.cfg.MaxLineBytes)
		}
		if err != nil {
			for _, open := range readers {
				_ = open.Close()
			}
			return nil, err
		}
		readers = append(readers, r)
	}
	return readers, nil
}

// openInput concatenates the inputs named by paths.
func (a *app) openInput(c *cobra.Command, paths []string, ex *record.Extractor) (filereader.Reader, error) {
	readers, err := a.openReaders(c, paths, ex)
	if err != nil {
		return nil, err
	}
	if len(readers) == 1 {
		return readers[0], nil
	}
	return filereader.NewSequentialReader(readers)
}

// outputOnly hides Close from the command's output stream so that stdout
// is flushed but never closed.
type outputOnly struct{ io.Writer }

func (a *app) openOutput(c *cobra.Command) (linewriter.Writer, error) {
	if a.opts.output == "" || a.opts.output == "-" {
		return linewriter.NewStreamWriter(outputOnly{c.OutOrStdout()}), nil
	}
	return linewriter.Create(a.opts.output)
}

// runProcessor feeds the inputs named by args through the processor build
// returns and writes to the configured output.
func (a *app) runProcessor(c *cobra.Command, args []string, cols []record.Column,
	build func(sink linewriter.Writer) (processing.Processor, error)) error {
	in, err := a.openInput(c, args, a.extractor(cols...))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	return a.drive(c, in, build)
}

func (a *app) drive(c *cobra.Command, in filereader.Reader,
	build func(sink linewriter.Writer) (processing.Processor, error)) error {
	out, err := a.openOutput(c)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	p, err := build(out)
	if err != nil {
		return err
	}
	res, err := processing.Run(c.Context(), c.Name(), in, p)
	if err != nil {
		slog.Error("Run failed", append([]any{slog.Any("error", err)}, inputAttrs(in)...)...)
		return a.failed(c, err)
	}
	slog.Info("Run completed", append([]any{
		slog.Int64("read", res.Read),
		slog.Int64("skipped", res.Skipped),
		slog.Bool("stopped", res.Stopped),
		slog.Duration("elapsed", time.Since(a.started)),
	}, inputAttrs(in)...)...)
	return nil
}

// inputAttrs reports the progress of a multi-input reader.
func inputAttrs(in filereader.Reader) []any {
	switch r := in.(type) {
	case *filereader.SequentialReader:
		attrs := []any{slog.Int64("records", r.TotalRowsReturned())}
		if i := r.CurrentReaderIndex(); i >= 0 {
			attrs = append(attrs, slog.Int("input", i))
		}
		return attrs
	case *filereader.OrderedReader:
		return []any{slog.Int("active_inputs", r.ActiveReaderCount())}
	}
	return nil
}

func (a *app) failed(c *cobra.Command, err error) error {
	commandFailedCounter.Add(c.Context(), 1, metric.WithAttributes(attribute.String("command", c.Name())))
	return fmt.Errorf("%s: %w", c.Name(), err)
}

// keyFlags select one typed column.
type keyFlags struct {
	column int
	kind   string
}

// register adds the column and kind flags. With an empty prefix they are
// --column/-k and --kind/-t.
func (k *keyFlags) register(c *cobra.Command, prefix string, column int, what string) {
	if prefix == "" {
		c.Flags().IntVarP(&k.column, "column", "k", column, "1-based column of the "+what+", 0 for the whole line")
		c.Flags().StringVarP(&k.kind, "kind", "t", "string", "Kind of the "+what+": string, int, uint, float or datetime")
		return
	}
	c.Flags().IntVar(&k.column, prefix, column, "1-based column of the "+what+", 0 for the whole line")
	c.Flags().StringVar(&k.kind, prefix+"-kind", "string", "Kind of the "+what+": string, int, uint, float or datetime")
}

func (k *keyFlags) col() (record.Column, error) {
	kind, err := typedvalue.ParseKind(k.kind)
	if err != nil {
		return record.Column{}, err
	}
	if k.column < 0 {
		return record.Column{}, fmt.Errorf("column %d is negative", k.column)
	}
	return record.Column{Index: k.column, Kind: kind}, nil
}

// columns resolves several key flags in order.
func columns(keys ...*keyFlags) ([]record.Column, error) {
	cols := make([]record.Column, 0, len(keys))
	for _, k := range keys {
		col, err := k.col()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}
