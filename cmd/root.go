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
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/linecrunch/config"
)

// rootOptions holds the global flags. A flag only overrides the loaded
// configuration when it was set on the command line.
type rootOptions struct {
	separator   string
	algorithm   string
	lenient     bool
	quoted      bool
	dateLayouts []string
	timezone    string
	debug       bool
	output      string
}

// NewRootCmd builds the linecrunch command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "linecrunch",
		Short: "Sort, group, join and summarize delimited text",
		Long: `linecrunch reads line-oriented text, extracts typed key columns and
sorts, deduplicates, groups, joins, splits or summarizes the records.
Order-dependent commands require input sorted on the key and fail on the
first record that breaks the order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return a.setup(c)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.shutdown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.separator, "separator", "s", "\t", "Column separator (escapes such as \\t are interpreted)")
	flags.StringVar(&a.opts.algorithm, "algorithm", "merge", "Sorting algorithm: insertion, shell, merge, quick or heap")
	flags.BoolVar(&a.opts.lenient, "lenient", false, "Skip records whose key columns do not parse instead of failing")
	flags.BoolVar(&a.opts.quoted, "quoted", false, "Split columns using CSV quoting rules")
	flags.StringArrayVar(&a.opts.dateLayouts, "date-layout", nil, "Go time layout for datetime columns (repeatable)")
	flags.StringVar(&a.opts.timezone, "timezone", "UTC", "Timezone for datetime values without an offset")
	flags.BoolVar(&a.opts.debug, "debug", false, "Enable debug logging")
	flags.StringVarP(&a.opts.output, "output", "o", "-", "Output file, - for standard output")

	rootCmd.AddCommand(
		newSortCmd(a),
		newHeadCmd(a),
		newFilterCmd(a),
		newDedupCmd(a),
		newOccurrenceCmd(a),
		newWithinCmd(a),
		newTransitionsCmd(a),
		newJoinCmd(a),
		newMergeCmd(a),
		newSplitCmd(a),
		newFreqCmd(a),
		newEntropyCmd(a),
	)
	return rootCmd
}

// overlay copies the flags that were set explicitly onto cfg.
func (o *rootOptions) overlay(c *cobra.Command, cfg *config.Config) {
	flags := c.Flags()
	if flags.Changed("separator") {
		cfg.Separator = o.separator
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = o.algorithm
	}
	if flags.Changed("lenient") {
		cfg.Lenient = o.lenient
	}
	if flags.Changed("quoted") {
		cfg.Quoted = o.quoted
	}
	if flags.Changed("date-layout") {
		cfg.DateLayouts = o.dateLayouts
	}
	if flags.Changed("timezone") {
		cfg.Timezone = o.timezone
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
