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

// Package record turns input lines into views: the original text, its
// columns and the typed values pulled from selected columns.
package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

var (
	// ErrMissingColumn means a requested column is absent from the line.
	ErrMissingColumn = errors.New("column not present")
	// ErrUnparseable means a column failed to parse in lenient mode.
	ErrUnparseable = errors.New("column value not parseable")

	errNoRecord = errors.New("line holds no CSV record")
)

// ExtractError describes a line that could not be turned into a View.
type ExtractError struct {
	Line   int64
	Column int
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err only affects a single record, which may
// be skipped with a warning while the stream continues.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrUnparseable)
}

// View is one extracted input record.
type View struct {
	// Number is the 1-based line number in the source.
	Number int64
	Line   string
	Fields []string
	Sep    string
	Values []typedvalue.Value
}

// Key returns the first extracted value, the one order-dependent processors
// group by.
func (v *View) Key() typedvalue.Value { return v.Values[0] }

// Column selects one column to extract as a typed value.
type Column struct {
	// Index is 1-based; 0 selects the whole line.
	Index int
	Kind  typedvalue.Kind
}

// Extractor splits lines into fields and parses the configured columns.
type Extractor struct {
	// Separator splits columns. Empty means the line is one column.
	Separator string
	// Quoted parses columns with CSV quoting rules; Separator must then be a
	// single character.
	Quoted  bool
	Columns []Column
	Parser  typedvalue.Parser
	// Lenient turns parse failures into recoverable ErrUnparseable errors
	// instead of aborting.
	Lenient bool
}

// Validate checks the extractor configuration.
func (e *Extractor) Validate() error {
	for _, c := range e.Columns {
		if c.Index < 0 {
			return fmt.Errorf("column index %d is negative", c.Index)
		}
	}
	if e.Quoted && len([]rune(e.Separator)) != 1 {
		return fmt.Errorf("quoted columns need a single-character separator, got %q", e.Separator)
	}
	return nil
}

// Extract builds the View for line. Missing columns produce a recoverable
// *ExtractError. Split and parse failures produce a fatal one unless the
// extractor is lenient.
func (e *Extractor) Extract(number int64, line string) (*View, error) {
	fields, err := e.split(line)
	if err != nil {
		if e.Lenient {
			err = fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		return nil, &ExtractError{Line: number, Err: err}
	}

	view := &View{
		Number: number,
		Line:   line,
		Fields: fields,
		Sep:    e.Separator,
		Values: make([]typedvalue.Value, len(e.Columns)),
	}

	for i, c := range e.Columns {
		text := line
		if c.Index > 0 {
			if c.Index > len(fields) {
				return nil, &ExtractError{Line: number, Column: c.Index, Err: ErrMissingColumn}
			}
			text = fields[c.Index-1]
		}

		v, err := e.Parser.Parse(c.Kind, text)
		if err != nil {
			if e.Lenient {
				err = fmt.Errorf("%w: %v", ErrUnparseable, err)
			}
			return nil, &ExtractError{Line: number, Column: c.Index, Err: err}
		}
		view.Values[i] = v
	}
	return view, nil
}

func (e *Extractor) split(line string) ([]string, error) {
	if e.Separator == "" {
		return []string{line}, nil
	}
	if !e.Quoted {
		return strings.Split(line, e.Separator), nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = []rune(e.Separator)[0]
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		if line == "" {
			return []string{""}, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, errNoRecord
		}
		return nil, err
	}
	return fields, nil
}
