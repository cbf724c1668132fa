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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/linecrunch/internal/filereader"
	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/transform"
	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

func newSortCmd(a *app) *cobra.Command {
	var (
		key     keyFlags
		reverse bool
		unique  bool
	)
	cmd := &cobra.Command{
		Use:   "sort [FILE...]",
		Short: "Sort lines by a typed key column",
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return transform.NewSort(transform.SortConfig{Algorithm: a.algorithm, Reverse: reverse, Unique: unique}, sink)
			})
		},
	}
	key.register(cmd, "", 1, "sort key")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Largest key first")
	cmd.Flags().BoolVarP(&unique, "unique", "u", false, "Keep only the first line of each key")
	return cmd
}

func newHeadCmd(a *app) *cobra.Command {
	var limit int64
	cmd := &cobra.Command{
		Use:   "head [FILE...]",
		Short: "Print the first lines of the input",
		RunE: func(c *cobra.Command, args []string) error {
			return a.runProcessor(c, args, nil, func(sink linewriter.Writer) (processing.Processor, error) {
				return transform.NewHead(transform.HeadConfig{Limit: limit}, sink)
			})
		},
	}
	cmd.Flags().Int64VarP(&limit, "lines", "n", 10, "Number of lines to print")
	return cmd
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		key      keyFlags
		op       string
		value    string
		interval string
		low      string
		high     string
		invert   bool
	)
	cmd := &cobra.Command{
		Use:   "filter [FILE...]",
		Short: "Keep lines whose typed key satisfies a comparison",
		Long: `Keep lines whose key satisfies either "--op OP --value V" (lt, le, eq, ge,
gt, ne) or "--interval OP --low LO --high HI" (between, strictly-between,
not-between, not-strictly-between). Comparison arguments are parsed with the
kind of the key.`,
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			kind := cols[0].Kind

			var pred transform.Predicate
			switch {
			case interval != "":
				iop, err := typedvalue.ParseIntervalOp(interval)
				if err != nil {
					return err
				}
				lo, err := a.parser.Parse(kind, low)
				if err != nil {
					return fmt.Errorf("--low: %w", err)
				}
				hi, err := a.parser.Parse(kind, high)
				if err != nil {
					return fmt.Errorf("--high: %w", err)
				}
				iv, err := typedvalue.NewInterval(iop, lo, hi)
				if err != nil {
					return err
				}
				pred = iv
			case op != "":
				top, err := typedvalue.ParseOp(op)
				if err != nil {
					return err
				}
				arg, err := a.parser.Parse(kind, value)
				if err != nil {
					return fmt.Errorf("--value: %w", err)
				}
				pred = typedvalue.Threshold{Op: top, Arg: arg}
			default:
				return errors.New("filter needs --op or --interval")
			}

			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return transform.NewFilter(transform.FilterConfig{Predicate: pred, Invert: invert}, sink)
			})
		},
	}
	key.register(cmd, "", 1, "compared column")
	cmd.Flags().StringVar(&op, "op", "", "Comparison operator: lt, le, eq, ge, gt or ne")
	cmd.Flags().StringVar(&value, "value", "", "Value compared against")
	cmd.Flags().StringVar(&interval, "interval", "", "Interval operator: between, strictly-between, not-between or not-strictly-between")
	cmd.Flags().StringVar(&low, "low", "", "Lower interval bound")
	cmd.Flags().StringVar(&high, "high", "", "Upper interval bound")
	cmd.Flags().BoolVarP(&invert, "invert", "v", false, "Keep the lines that do not match")
	cmd.MarkFlagsMutuallyExclusive("op", "interval")
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	var key keyFlags
	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge inputs that are each sorted on the key into one sorted stream",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			readers, err := a.openReaders(c, args, a.extractor(cols...))
			if err != nil {
				return err
			}
			merged, err := filereader.NewOrderedReader(c.Context(), readers, args)
			if err != nil {
				return a.failed(c, err)
			}
			defer func() { _ = merged.Close() }()

			return a.drive(c, merged, func(sink linewriter.Writer) (processing.Processor, error) {
				return transform.NewCopy(sink), nil
			})
		},
	}
	key.register(cmd, "", 1, "merge key")
	return cmd
}
