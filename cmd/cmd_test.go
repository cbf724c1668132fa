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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/linecrunch/internal/ordering"
)

// workspace moves the test into an empty directory so that no config file
// is picked up, and returns that directory.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSortCommand(t *testing.T) {
	workspace(t)

	out, _, err := execute(t, "a,10\nb,-1\nc,3\n", "-s", ",", "sort", "-k", "2", "-t", "int")
	require.NoError(t, err)
	assert.Equal(t, "b,-1\nc,3\na,10\n", out)

	out, _, err = execute(t, "a,10\nb,-1\nc,3\n", "-s", ",", "--algorithm", "quick", "sort", "-k", "2", "-t", "int", "-r")
	require.NoError(t, err)
	assert.Equal(t, "a,10\nc,3\nb,-1\n", out)
}

func TestSortWholeLineAsString(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "pear\napple\nfig\n", "sort", "-k", "0")
	require.NoError(t, err)
	assert.Equal(t, "apple\nfig\npear\n", out)
}

func TestSortRejectsUnknownKind(t *testing.T) {
	workspace(t)
	_, _, err := execute(t, "1\n", "sort", "-t", "complex")
	assert.ErrorContains(t, err, "unknown data kind")
}

func TestHeadCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "1\n2\n3\n4\n", "head", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestFilterCommand(t *testing.T) {
	workspace(t)
	input := "a,1\nb,5\nc,3\nd,9\n"

	out, _, err := execute(t, input, "-s", ",", "filter", "-k", "2", "-t", "int", "--op", "ge", "--value", "5")
	require.NoError(t, err)
	assert.Equal(t, "b,5\nd,9\n", out)

	out, _, err = execute(t, input, "-s", ",", "filter", "-k", "2", "-t", "int", "--interval", "between", "--low", "3", "--high", "5")
	require.NoError(t, err)
	assert.Equal(t, "b,5\nc,3\n", out)

	out, _, err = execute(t, input, "-s", ",", "filter", "-k", "2", "-t", "int", "--interval", "between", "--low", "3", "--high", "5", "-v")
	require.NoError(t, err)
	assert.Equal(t, "a,1\nd,9\n", out)

	_, _, err = execute(t, input, "-s", ",", "filter", "-k", "2", "-t", "int", "--interval", "between", "--low", "5", "--high", "3")
	assert.Error(t, err)

	_, _, err = execute(t, input, "filter")
	assert.ErrorContains(t, err, "--op or --interval")
}

func TestDedupCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "1\n1\n2\n2\n2\n3\n", "dedup", "-t", "int")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)

	out, _, err = execute(t, "1\n1\n2\n2\n2\n3\n", "dedup", "-t", "int", "--mode", "pick")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n2\n", out)
}

func TestDedupCommandFailsOnUnsortedInput(t *testing.T) {
	workspace(t)
	_, _, err := execute(t, "1\n3\n2\n", "dedup", "-t", "int")
	require.ErrorIs(t, err, ordering.ErrNotSorted)
	var nse *ordering.NotSortedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, int64(3), nse.Index)
}

func TestOccurrenceCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "a,1\na,2\nb,3\n", "-s", ",", "occurrence", "--position", "last")
	require.NoError(t, err)
	assert.Equal(t, "a,2\nb,3\n", out)
}

func TestWithinCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "x,3\nx,1\ny,2\ny,-5\n", "-s", ",", "within", "--by", "2", "--by-kind", "int")
	require.NoError(t, err)
	assert.Equal(t, "x,1\nx,3\ny,-5\ny,2\n", out)
}

func TestTransitionsCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "A,x\nA,y\nA,x\nB,x\nB,z\n", "-s", ",", "transitions")
	require.NoError(t, err)
	assert.Equal(t, "A,x\nA,y\nA,y\nA,x\nB,x\nB,z\n", out)
}

func TestJoinCommand(t *testing.T) {
	dir := workspace(t)
	left := writeFile(t, dir, "left.txt", "1,l1\n2,l2\n4,l4\n")
	right := writeFile(t, dir, "right.txt", "2,r2\n3,r3\n4,r4\n")

	out, _, err := execute(t, "", "-s", ",", "join", "-t", "int", left, right)
	require.NoError(t, err)
	assert.Equal(t, "2,l2,2,r2\n4,l4,4,r4\n", out)

	out, _, err = execute(t, "", "-s", ",", "join", "-t", "int", "--type", "left", "--output-separator", " | ", left, right)
	require.NoError(t, err)
	assert.Equal(t, "1,l1\n2,l2 | 2,r2\n4,l4 | 4,r4\n", out)
}

func TestJoinCommandRightColumn(t *testing.T) {
	dir := workspace(t)
	left := writeFile(t, dir, "left.txt", "1,a\n2,b\n")
	right := writeFile(t, dir, "right.txt", "x,2\ny,3\n")

	out, _, err := execute(t, "", "-s", ",", "join", "-t", "int", "--right-column", "2", left, right)
	require.NoError(t, err)
	assert.Equal(t, "2,b,x,2\n", out)
}

func TestMergeCommand(t *testing.T) {
	dir := workspace(t)
	a := writeFile(t, dir, "a.txt", "1\n4\n9\n")
	b := writeFile(t, dir, "b.txt", "2\n4\n10\n")

	out, _, err := execute(t, "", "merge", "-t", "int", a, b)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n4\n4\n9\n10\n", out)

	c := writeFile(t, dir, "c.txt", "5\n1\n")
	_, _, err = execute(t, "", "merge", "-t", "int", a, c)
	assert.ErrorIs(t, err, ordering.ErrNotSorted)
}

func TestSplitCommand(t *testing.T) {
	dir := workspace(t)
	_, _, err := execute(t, "a,1\na,2\nb,3\n", "-s", ",", "split", "--dir", "parts", "--prefix", "g-")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "parts", "g-a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a,1\na,2\n", string(got))
	got, err = os.ReadFile(filepath.Join(dir, "parts", "g-b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b,3\n", string(got))
}

func TestFreqCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "a\nb\na\nc\na\n", "freq", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "count\t5\n")
	assert.Contains(t, out, "distinct\t3\n")
	assert.Contains(t, out, "min\ta\n")
	assert.Contains(t, out, "max\tc\n")
	assert.Contains(t, out, "entropy\t1.370951\n")
	assert.Contains(t, out, "value\t3\ta\n")
}

func TestEntropyCommand(t *testing.T) {
	workspace(t)
	out, _, err := execute(t, "a\nb\nc\nd\n", "entropy")
	require.NoError(t, err)
	assert.Equal(t, "count\t4\ndistinct\t4\nentropy\t2.000000\n", out)

	out, _, err = execute(t, "a,1\na,1\nb,2\nb,2\n", "-s", ",", "entropy", "-k", "2", "--given", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "h_y_given_x\t0.000000\n")
	assert.Contains(t, out, "information_gain\t1.000000\n")
}

func TestOutputFile(t *testing.T) {
	dir := workspace(t)
	out, _, err := execute(t, "b\na\n", "-o", "sorted.txt", "sort")
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(filepath.Join(dir, "sorted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(got))
}

func TestMultipleInputsAreConcatenated(t *testing.T) {
	dir := workspace(t)
	a := writeFile(t, dir, "a.txt", "3\n1\n")
	b := writeFile(t, dir, "b.txt", "2\n")

	out, _, err := execute(t, "", "sort", "-t", "int", a, b)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := workspace(t)
	writeFile(t, dir, "linecrunch.yaml", "separator: ','\n")

	out, _, err := execute(t, "a,2\nb,1\n", "sort", "-k", "2", "-t", "int")
	require.NoError(t, err)
	assert.Equal(t, "b,1\na,2\n", out)

	out, _, err = execute(t, "a;2\nb;1\n", "-s", ";", "sort", "-k", "2", "-t", "int")
	require.NoError(t, err)
	assert.Equal(t, "b;1\na;2\n", out)
}

func TestLenientSkipsUnparseableRecords(t *testing.T) {
	workspace(t)
	_, _, err := execute(t, "1\nx\n3\n", "sort", "-t", "int")
	assert.Error(t, err)

	out, logs, err := execute(t, "1\nx\n3\n", "--lenient", "sort", "-t", "int")
	require.NoError(t, err)
	assert.Equal(t, "1\n3\n", out)
	assert.Contains(t, logs, "Skipping record")
}

func TestDateTimeKeys(t *testing.T) {
	workspace(t)
	input := "2024-03-01 10:00:00,b\n2024-01-15,a\n2024-03-01T09:00:00+00:00,c\n"
	out, _, err := execute(t, input, "-s", ",", "sort", "-t", "datetime")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15,a\n2024-03-01T09:00:00+00:00,c\n2024-03-01 10:00:00,b\n", out)
}

func TestDiagnosticsFile(t *testing.T) {
	dir := workspace(t)
	diag := filepath.Join(dir, "diag.jsonl")
	t.Setenv("LINECRUNCH_DIAGNOSTICS_FILE", diag)

	_, _, err := execute(t, "1\nx\n", "--lenient", "head", "-n", "5")
	require.NoError(t, err)

	got, err := os.ReadFile(diag)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"run":`)
	assert.Contains(t, string(got), `"msg":"Run completed"`)
}

func TestDiagnosticsReportInputProgress(t *testing.T) {
	dir := workspace(t)
	diag := filepath.Join(dir, "diag.jsonl")
	t.Setenv("LINECRUNCH_DIAGNOSTICS_FILE", diag)
	a := writeFile(t, dir, "a.txt", "3\n1\n")
	b := writeFile(t, dir, "b.txt", "2\n")

	out, _, err := execute(t, "", "sort", "-t", "int", a, b)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)

	got, err := os.ReadFile(diag)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"records":3`)

	bad := writeFile(t, dir, "bad.txt", "2\n1\n")
	_, _, err = execute(t, "", "merge", "-t", "int", b, bad)
	require.Error(t, err)

	got, err = os.ReadFile(diag)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"msg":"Run failed"`)
	assert.Contains(t, string(got), `"active_inputs":`)
}
