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
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/linecrunch/internal/grouping"
	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/record"
)

const sortedNote = "\n\nThe input must be sorted on the key; the command fails on the first line that breaks the order."

func newDedupCmd(a *app) *cobra.Command {
	var (
		key  keyFlags
		mode string
	)
	cmd := &cobra.Command{
		Use:   "dedup [FILE...]",
		Short: "Keep the first line of every run of equal keys, or only the repeats",
		Long:  "Keep the first line of every run of equal keys (--mode skip) or every line but the first (--mode pick)." + sortedNote,
		RunE: func(c *cobra.Command, args []string) error {
			m, err := grouping.ParseDedupMode(mode)
			if err != nil {
				return err
			}
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return grouping.NewDedup(grouping.DedupConfig{Mode: m}, sink)
			})
		},
	}
	key.register(cmd, "", 1, "key")
	cmd.Flags().StringVar(&mode, "mode", "skip", "skip repeated lines or pick only the repeats")
	return cmd
}

func newOccurrenceCmd(a *app) *cobra.Command {
	var (
		key      keyFlags
		position string
	)
	cmd := &cobra.Command{
		Use:   "occurrence [FILE...]",
		Short: "Select lines by their position among the lines sharing a key",
		Long:  "Select the first, not-first, last or not-last line of every key." + sortedNote,
		RunE: func(c *cobra.Command, args []string) error {
			pos, err := grouping.ParsePosition(position)
			if err != nil {
				return err
			}
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return grouping.NewOccurrence(grouping.OccurrenceConfig{Position: pos}, sink)
			})
		},
	}
	key.register(cmd, "", 1, "key")
	cmd.Flags().StringVar(&position, "position", "first", "first, not-first, last or not-last")
	return cmd
}

func newWithinCmd(a *app) *cobra.Command {
	var (
		primary   keyFlags
		secondary keyFlags
		reverse   bool
	)
	cmd := &cobra.Command{
		Use:   "within [FILE...]",
		Short: "Sort the lines of every run of equal keys by a second column",
		Long:  "Sort the lines of every run of equal primary keys by the --by column, leaving the runs in place." + sortedNote,
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&primary, &secondary)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return grouping.NewWithin(grouping.WithinConfig{Algorithm: a.algorithm, Reverse: reverse}, sink)
			})
		},
	}
	primary.register(cmd, "", 1, "primary key")
	secondary.register(cmd, "by", 2, "secondary key")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Largest secondary key first")
	return cmd
}

func newTransitionsCmd(a *app) *cobra.Command {
	var key, state keyFlags
	cmd := &cobra.Command{
		Use:   "transitions [FILE...]",
		Short: "Print the line pairs where a key's state changes",
		Long:  "Print both lines whenever two consecutive lines share a key but differ in the --state column." + sortedNote,
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&key, &state)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return grouping.NewTransitions(sink), nil
			})
		},
	}
	key.register(cmd, "", 1, "key")
	state.register(cmd, "state", 2, "state column")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var (
		key    keyFlags
		dir    string
		prefix string
		suffix string
	)
	cmd := &cobra.Command{
		Use:   "split [FILE...]",
		Short: "Write every run of equal keys to its own file",
		Long:  "Write every run of equal keys to DIR/PREFIX<key>SUFFIX." + sortedNote,
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			factory := &linewriter.DirFactory{Dir: dir, Prefix: prefix, Suffix: suffix}
			return a.runProcessor(c, args, cols, func(linewriter.Writer) (processing.Processor, error) {
				return grouping.NewSplit(factory), nil
			})
		},
	}
	key.register(cmd, "", 1, "key")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory receiving the files")
	cmd.Flags().StringVar(&prefix, "prefix", "", "File name prefix")
	cmd.Flags().StringVar(&suffix, "suffix", ".txt", "File name suffix")
	return cmd
}

func newJoinCmd(a *app) *cobra.Command {
	var (
		key         keyFlags
		rightColumn int
		joinType    string
		outSep      string
	)
	cmd := &cobra.Command{
		Use:   "join LEFT RIGHT",
		Short: "Join two files sorted on their key",
		Long:  "Join two files on a typed key. Matching lines are written as LEFT<separator>RIGHT; with --type left, unmatched left lines are written alone." + sortedNote,
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			jt, err := grouping.ParseJoinType(joinType)
			if err != nil {
				return err
			}
			leftCols, err := columns(&key)
			if err != nil {
				return err
			}
			rightCols := leftCols
			if c.Flags().Changed("right-column") {
				rightCols = []record.Column{{Index: rightColumn, Kind: leftCols[0].Kind}}
			}
			sep := a.cfg.Separator
			if c.Flags().Changed("output-separator") {
				sep = outSep
			}

			left, err := a.openReaders(c, args[:1], a.extractor(leftCols...))
			if err != nil {
				return err
			}
			defer func() { _ = left[0].Close() }()
			right, err := a.openReaders(c, args[1:], a.extractor(rightCols...))
			if err != nil {
				return err
			}
			defer func() { _ = right[0].Close() }()

			out, err := a.openOutput(c)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()

			res, err := grouping.Join(c.Context(), left[0], right[0], grouping.JoinConfig{Type: jt, OutputSeparator: sep}, out)
			if err != nil {
				return a.failed(c, err)
			}
			slog.Info("Join completed",
				slog.Int64("left", res.Left),
				slog.Int64("right", res.Right),
				slog.Int64("matched", res.Matched),
				slog.Int64("unmatched", res.Unmatched),
				slog.Int64("skipped", res.Skipped))
			return nil
		},
	}
	key.register(cmd, "", 1, "join key")
	cmd.Flags().IntVar(&rightColumn, "right-column", 1, "Key column of the right file when it differs from --column")
	cmd.Flags().StringVarP(&joinType, "type", "j", "inner", "inner or left")
	cmd.Flags().StringVar(&outSep, "output-separator", "", "Separator between joined lines (default: the column separator)")
	return cmd
}
