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
	"github.com/spf13/cobra"

	"github.com/cardinalhq/linecrunch/internal/linewriter"
	"github.com/cardinalhq/linecrunch/internal/processing"
	"github.com/cardinalhq/linecrunch/internal/stats"
)

func newFreqCmd(a *app) *cobra.Command {
	var (
		key   keyFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "freq [FILE...]",
		Short: "Count the distinct values of a column and report extremes",
		Long: `Count how often every distinct value of the key column occurs and report
the record count, distinct count, entropy, minimum, maximum, shortest and
longest value, the sum and mean and quantiles of numeric kinds, and the
--limit most and least frequent values (every value when the limit is 0 or
the two lists would overlap).`,
		RunE: func(c *cobra.Command, args []string) error {
			cols, err := columns(&key)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return stats.NewFrequencies(stats.FrequencyConfig{Limit: limit, Algorithm: a.algorithm}, sink)
			})
		},
	}
	key.register(cmd, "", 1, "counted column")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of most and least frequent values to report, 0 for all")
	return cmd
}

func newEntropyCmd(a *app) *cobra.Command {
	var key, given keyFlags
	cmd := &cobra.Command{
		Use:   "entropy [FILE...]",
		Short: "Report the Shannon entropy of a column",
		Long: `Report the Shannon entropy, in bits, of the key column. With --given the
conditional entropy H(key | given) is reported along with both entropies and
the information gain.`,
		RunE: func(c *cobra.Command, args []string) error {
			if !c.Flags().Changed("given") {
				cols, err := columns(&key)
				if err != nil {
					return err
				}
				return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
					return stats.NewEntropyCounter(sink), nil
				})
			}

			cols, err := columns(&given, &key)
			if err != nil {
				return err
			}
			return a.runProcessor(c, args, cols, func(sink linewriter.Writer) (processing.Processor, error) {
				return stats.NewConditionalEntropy(sink), nil
			})
		},
	}
	key.register(cmd, "", 1, "measured column")
	given.register(cmd, "given", 2, "conditioning column")
	return cmd
}
