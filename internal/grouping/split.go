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
	"log/slog"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
)

// Split writes every run of equal keys to its own output, opened from the
// factory under the text of the run's key.
type Split struct {
	factory linewriter.Factory
	run     runState
	current linewriter.Writer
	groups  int
}

var _ processing.Processor = (*Split)(nil)

// NewSplit returns a Split opening one writer per run from factory.
func NewSplit(factory linewriter.Factory) *Split {
	return &Split{factory: factory}
}

func (s *Split) Execute(_ context.Context, index int64, rec *record.View) (processing.Action, error) {
	if err := s.execute(index, rec); err != nil {
		// Errors here end the run without Complete; flush what the open group holds.
		if cerr := s.closeCurrent(); cerr != nil {
			slog.Warn("Failed to close group output", slog.Any("error", cerr))
		}
		return processing.Continue, err
	}
	return processing.Continue, nil
}

func (s *Split) execute(index int64, rec *record.View) error {
	if err := processing.RequireValues(rec, 1); err != nil {
		return err
	}
	key := rec.Key()
	newRun, err := s.run.advance(index, key)
	if err != nil {
		return err
	}
	if newRun {
		if err := s.closeCurrent(); err != nil {
			return err
		}
		w, err := s.factory.Open(key.Text())
		if err != nil {
			return fmt.Errorf("open output for key %q: %w", key.Text(), err)
		}
		s.current = w
		s.groups++
	}
	return s.current.WriteLine(rec.Line)
}

func (s *Split) closeCurrent() error {
	if s.current == nil {
		return nil
	}
	w := s.current
	s.current = nil
	return w.Close()
}

// Groups returns the number of outputs opened so far.
func (s *Split) Groups() int { return s.groups }

func (s *Split) Complete(context.Context) error {
	slog.Debug("Split completed", slog.Int("groups", s.groups))
	return s.closeCurrent()
}
