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

package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/linecrunch/internal/typedvalue"
)

func TestCheckerAcceptsNonDecreasing(t *testing.T) {
	var c Checker
	for i, text := range []string{"1", "1", "2", "10", "10"} {
		require.NoError(t, c.Check(int64(i+1), typedvalue.MustParse(typedvalue.SignedInteger, text)))
	}
	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "10", last.Text())
}

func TestCheckerRejectsInversion(t *testing.T) {
	c := NewChecker("left input")
	require.NoError(t, c.Check(1, typedvalue.MustParse(typedvalue.SignedInteger, "10")))

	err := c.Check(2, typedvalue.MustParse(typedvalue.SignedInteger, "9"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSorted)

	var nse *NotSortedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, int64(2), nse.Index)
	assert.Equal(t, "10", nse.Previous.Text())
	assert.Equal(t, "9", nse.Current.Text())
	assert.Contains(t, err.Error(), "left input")

	last, _ := c.Last()
	assert.Equal(t, "10", last.Text(), "rejected key must not replace the last key")
}

func TestCheckerUsesTypedOrder(t *testing.T) {
	var c Checker
	require.NoError(t, c.Check(1, typedvalue.MustParse(typedvalue.SignedInteger, "9")))
	assert.NoError(t, c.Check(2, typedvalue.MustParse(typedvalue.SignedInteger, "10")),
		"10 follows 9 numerically even though it sorts first as text")
}
