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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cardinalhq/linecrunch/internal/filereader"
	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/ordering"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

// JoinType selects which records of the left stream a join emits.
type JoinType uint8

const (
	// InnerJoin emits only keys present in both streams.
	InnerJoin JoinType = iota
	// LeftJoin also emits left records without a match, on their own.
	LeftJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "inner"
	case LeftJoin:
		return "left"
	}
	return fmt.Sprintf("JoinType(%d)", uint8(t))
}

// ParseJoinType maps "inner" or "left" to a JoinType.
func ParseJoinType(token string) (JoinType, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "inner":
		return InnerJoin, nil
	case "left", "left-outer", "outer":
		return LeftJoin, nil
	}
	return 0, fmt.Errorf("unknown join type %q (want inner or left)", token)
}

// JoinConfig configures Join.
type JoinConfig struct {
	Type JoinType `validate:"lte=1"`
	// OutputSeparator is placed between the left and right line of a match.
	OutputSeparator string
}

// JoinResult summarizes a join.
type JoinResult struct {
	Left      int64
	Right     int64
	Matched   int64
	Unmatched int64
	Skipped   int64
}

// joinSide is one input of a join with its current record.
type joinSide struct {
	name    string
	reader  filereader.Reader
	order   *ordering.Checker
	current *record.View
	read    int64
	skipped int64
}

func (s *joinSide) advance(ctx context.Context) error {
	s.current = nil
	for {
		view, err := s.reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if record.IsRecoverable(err) {
				s.skipped++
				slog.Warn("Skipping record", slog.String("input", s.name), slog.Any("error", err))
				continue
			}
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if err := processing.RequireValues(view, 1); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if err := s.order.Check(view.Number, view.Key()); err != nil {
			return err
		}
		s.read++
		s.current = view
		return nil
	}
}

// Join performs a sorted merge join of left and right on their first
// extracted value and writes the joined lines to sink. Both inputs must be
// sorted; each is checked independently. Runs of equal keys on the right are
// buffered so that duplicated keys on both sides produce every combination.
//
// The sink is closed when the join succeeds. The readers are not closed.
func Join(ctx context.Context, left, right filereader.Reader, cfg JoinConfig, sink linewriter.Writer) (res JoinResult, err error) {
	if err := processing.ValidateConfig("join", cfg); err != nil {
		return res, err
	}

	l := &joinSide{name: "left input", reader: left, order: ordering.NewChecker("left input")}
	r := &joinSide{name: "right input", reader: right, order: ordering.NewChecker("right input")}
	summarize := func() {
		res.Left, res.Right = l.read, r.read
		res.Skipped = l.skipped + r.skipped
	}
	defer summarize()

	if err := l.advance(ctx); err != nil {
		return res, err
	}
	if err := r.advance(ctx); err != nil {
		return res, err
	}

	var group []string
	for l.current != nil {
		c := -1
		if r.current != nil {
			c = typedvalue.Compare(l.current.Key(), r.current.Key())
		}
		switch {
		case c < 0:
			if cfg.Type == LeftJoin {
				if err := sink.WriteLine(l.current.Line); err != nil {
					return res, err
				}
			}
			res.Unmatched++
			if err := l.advance(ctx); err != nil {
				return res, err
			}
		case c > 0:
			if err := r.advance(ctx); err != nil {
				return res, err
			}
		default:
			key := r.current.Key()
			group = group[:0]
			for r.current != nil && typedvalue.Equal(r.current.Key(), key) {
				group = append(group, r.current.Line)
				if err := r.advance(ctx); err != nil {
					return res, err
				}
			}
			for l.current != nil && typedvalue.Equal(l.current.Key(), key) {
				for _, rightLine := range group {
					if err := sink.WriteLine(l.current.Line + cfg.OutputSeparator + rightLine); err != nil {
						return res, err
					}
					res.Matched++
				}
				if err := l.advance(ctx); err != nil {
					return res, err
				}
			}
		}
	}

	// Drain the right side so that its order is still validated.
	for r.current != nil {
		if err := r.advance(ctx); err != nil {
			return res, err
		}
	}

	summarize()
	slog.Debug("Join completed",
		slog.String("type", cfg.Type.String()),
		slog.Int64("left", res.Left),
		slog.Int64("right", res.Right),
		slog.Int64("matched", res.Matched))
	return res, sink.Close()
}
