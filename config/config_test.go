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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/linecrunch/internal/sorting"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "\t", cfg.Separator)
	alg, err := cfg.SortAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, sorting.Merge, alg)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, []string{time.RFC3339Nano, time.DateTime, time.DateOnly}, cfg.DateLayouts)
	assert.False(t, cfg.Lenient)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LINECRUNCH_SEPARATOR", ",")
	t.Setenv("LINECRUNCH_ALGORITHM", "heap")
	t.Setenv("LINECRUNCH_LENIENT", "true")
	t.Setenv("LINECRUNCH_MAX_LINE_BYTES", "4096")
	t.Setenv("LINECRUNCH_DATE_LAYOUTS", "02/01/2006|Jan 2, 2006")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ",", cfg.Separator)
	assert.Equal(t, "heap", cfg.Algorithm)
	assert.True(t, cfg.Lenient)
	assert.Equal(t, 4096, cfg.MaxLineBytes)
	assert.Equal(t, []string{"02/01/2006", "Jan 2, 2006"}, cfg.DateLayouts)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	contents := "separator: '\\t'\nalgorithm: quicksort\ntimezone: Europe/Paris\nquoted: true\ndate_layouts:\n  - \"2006-01-02\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linecrunch.yaml"), []byte(contents), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "\t", cfg.Separator)
	assert.Equal(t, "quicksort", cfg.Algorithm)
	assert.True(t, cfg.Quoted)
	assert.Equal(t, []string{"2006-01-02"}, cfg.DateLayouts)

	p, err := cfg.Parser()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", p.Location.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("algorithm", func(t *testing.T) {
		t.Setenv("LINECRUNCH_ALGORITHM", "bogosort")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("LINECRUNCH_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.ErrorContains(t, err, "timezone")
	})
	t.Run("max line bytes", func(t *testing.T) {
		t.Setenv("LINECRUNCH_MAX_LINE_BYTES", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "MaxLineBytes")
	})
}

func TestNormalizeUnescapesSeparator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Separator = `\x1f`
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, "\x1f", cfg.Separator)

	cfg.Separator = `"`
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, `"`, cfg.Separator)
}
