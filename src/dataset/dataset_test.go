package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = "time,temp,state,event\n" +
	"0,20.5,idle,\n" +
	"1,21.0,idle,\n" +
	"2,21.7,run,start\n" +
	"3,22.1,run,\n" +
	"4,21.9,cool,\n"

func TestLoadBasics(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"time", "temp", "state", "event"}, tb.Columns())
	assert.Equal(t, 5, tb.RowCount())
	assert.Equal(t, 2, tb.ColumnIndex("state"))
	assert.Equal(t, -1, tb.ColumnIndex("missing"))
	assert.Equal(t, "21.7", tb.Cell(2, 1))
	assert.Equal(t, "", tb.Cell(99, 0))
	assert.False(t, tb.Dirty())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)

	_, err = Load(writeCSV(t, ""))
	assert.ErrorContains(t, err, "no header row")

	// ragged rows are a malformed file, not a partial load
	_, err = Load(writeCSV(t, "a,b\n1,2\n3\n"))
	assert.Error(t, err)
}

func TestHeaderOnlyFile(t *testing.T) {
	tb, err := Load(writeCSV(t, "a,b,c\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tb.RowCount())
}

func TestReplaceRangeExactInterval(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	n, err := tb.ReplaceRange("state", 1, 3, "warm")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, tb.Dirty())

	// exactly rows 1..3 changed, everything else untouched
	assert.Equal(t, "idle", tb.Cell(0, 2))
	assert.Equal(t, "warm", tb.Cell(1, 2))
	assert.Equal(t, "warm", tb.Cell(2, 2))
	assert.Equal(t, "warm", tb.Cell(3, 2))
	assert.Equal(t, "cool", tb.Cell(4, 2))
	assert.Equal(t, "21.0", tb.Cell(1, 1), "other columns must not change")
}

func TestReplaceRangeClampAndSwap(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	n, err := tb.ReplaceRange("state", 8, -3, "x")
	require.NoError(t, err)
	assert.Equal(t, 5, n, "reversed out-of-bounds interval clamps to the whole table")
	for i := 0; i < tb.RowCount(); i++ {
		assert.Equal(t, "x", tb.Cell(i, 2))
	}

	_, err = tb.ReplaceRange("missing", 0, 1, "x")
	assert.Error(t, err)
}

func TestDirtyFlagLifecycle(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	assert.False(t, tb.Dirty())

	_, err = tb.ReplaceRange("state", 0, 0, "z")
	require.NoError(t, err)
	assert.True(t, tb.Dirty(), "dirty immediately after an edit")

	require.NoError(t, tb.Save())
	assert.False(t, tb.Dirty(), "clean immediately after a successful save")
}

func TestSaveReloadRoundTrip(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	_, err = tb.ReplaceRange("state", 0, 2, "edited")
	require.NoError(t, err)
	_, err = tb.ReplaceRange("event", 4, 4, "stop")
	require.NoError(t, err)
	require.NoError(t, tb.Save())

	again, err := Load(tb.Path())
	require.NoError(t, err)
	require.Equal(t, tb.Columns(), again.Columns())
	require.Equal(t, tb.RowCount(), again.RowCount())
	for r := 0; r < tb.RowCount(); r++ {
		for c := 0; c < len(tb.Columns()); c++ {
			assert.Equal(t, tb.Cell(r, c), again.Cell(r, c), "cell (%d,%d)", r, c)
		}
	}
}

func TestSaveAsRebinds(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	orig := tb.Path()

	other := filepath.Join(t.TempDir(), "copy.csv")
	require.NoError(t, tb.SaveAs(other))
	assert.Equal(t, other, tb.Path())
	assert.False(t, tb.Dirty())

	// original file is untouched
	before, err := os.ReadFile(orig)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(before))
}

func TestUniqueValues(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	vals, ok := tb.UniqueValues("state")
	require.True(t, ok)
	assert.Equal(t, []string{"cool", "idle", "run"}, vals)

	_, ok = tb.UniqueValues("missing")
	assert.False(t, ok)

	// edits invalidate the cache
	_, err = tb.ReplaceRange("state", 0, 0, "boot")
	require.NoError(t, err)
	vals, ok = tb.UniqueValues("state")
	require.True(t, ok)
	assert.Contains(t, vals, "boot")
}

func TestUniqueValuesCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("id\n")
	for i := 0; i < MaxCategoryValues+1; i++ {
		fmt.Fprintf(&b, "v%d\n", i)
	}
	tb, err := Load(writeCSV(t, b.String()))
	require.NoError(t, err)

	_, ok := tb.UniqueValues("id")
	assert.False(t, ok, "over-cap column must not report a value set")

	// cached over-cap answer stays stable
	_, ok = tb.UniqueValues("id")
	assert.False(t, ok)
}

func TestNumeric(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	temps := tb.Numeric("temp")
	require.Len(t, temps, 5)
	assert.InDelta(t, 20.5, temps[0], 1e-9)
	assert.InDelta(t, 21.9, temps[4], 1e-9)

	states := tb.Numeric("state")
	for i, v := range states {
		assert.True(t, math.IsNaN(v), "non-numeric cell %d must be NaN", i)
	}

	empty := tb.Numeric("event")
	assert.True(t, math.IsNaN(empty[0]), "empty cell must be NaN")
}

func TestColumn(t *testing.T) {
	tb, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"idle", "idle", "run", "run", "cool"}, tb.Column("state"))
	assert.Equal(t, make([]string, 5), tb.Column("missing"))
}
