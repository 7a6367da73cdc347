package main

import (
	"math"
	"testing"
)

func TestCategoryRuns(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []catRun
	}{
		{"empty", nil, nil},
		{"single", []string{"a"}, []catRun{{0, 1, "a"}}},
		{"runs", []string{"a", "a", "b", "b", "b", "a"}, []catRun{{0, 2, "a"}, {2, 5, "b"}, {5, 6, "a"}}},
		{"alternating", []string{"x", "y", "x"}, []catRun{{0, 1, "x"}, {1, 2, "y"}, {2, 3, "x"}}},
	}
	for _, c := range cases {
		got := categoryRuns(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%s: got %d runs, want %d", c.name, len(got), len(c.want))
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: run %d = %+v, want %+v", c.name, i, got[i], c.want[i])
			}
		}
	}
}

func TestCategoryRunsCoverInput(t *testing.T) {
	in := []string{"a", "b", "b", "c", "c", "c", "a", "a"}
	runs := categoryRuns(in)
	if runs[0].Start != 0 {
		t.Fatalf("first run starts at %d", runs[0].Start)
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].Start != runs[i-1].End {
			t.Errorf("gap between run %d and %d", i-1, i)
		}
	}
	if runs[len(runs)-1].End != len(in) {
		t.Fatalf("last run ends at %d, want %d", runs[len(runs)-1].End, len(in))
	}
}

func TestMarkerIndices(t *testing.T) {
	vals := []string{"ok", "fault", "ok", "fault", "fault"}
	got := markerIndices(vals, "fault")
	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, got[i], want[i])
		}
	}
	if got := markerIndices(vals, "missing"); got != nil {
		t.Errorf("expected nil for absent value, got %v", got)
	}
}

func TestFillGaps(t *testing.T) {
	nan := math.NaN()
	out, ok := fillGaps([]float64{nan, 2, nan, nan, 5})
	if !ok {
		t.Fatalf("expected ok for partially valid input")
	}
	want := []float64{2, 2, 2, 2, 5}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
	if _, ok := fillGaps([]float64{nan, nan}); ok {
		t.Errorf("expected not-ok for all-NaN input")
	}
	out, ok = fillGaps([]float64{1, nan, 3})
	if !ok || out[1] != 1 {
		t.Errorf("forward fill failed: %v %v", out, ok)
	}
}

func TestPalette(t *testing.T) {
	if palette(0) != nil {
		t.Fatalf("palette(0) should be nil")
	}
	for _, n := range []int{1, 5, 30} {
		pal := palette(n)
		if len(pal) != n {
			t.Fatalf("palette(%d) has %d entries", n, len(pal))
		}
		seen := map[[3]uint8]bool{}
		for _, c := range pal {
			k := [3]uint8{c.R, c.G, c.B}
			if seen[k] {
				t.Errorf("palette(%d) repeats color %v", n, k)
			}
			seen[k] = true
			if c.A != 0xff {
				t.Errorf("palette color not opaque: %v", c)
			}
		}
	}
}

func TestCategoryColorsExcludesNoBG(t *testing.T) {
	values := []string{"idle", "run", "stop"}
	colors, ordered := categoryColors(values, "idle")
	if _, ok := colors["idle"]; ok {
		t.Errorf("no-background value should not get a color")
	}
	if len(colors) != 2 || len(ordered) != 2 {
		t.Fatalf("got %d colors, %d ordered, want 2", len(colors), len(ordered))
	}
	if ordered[0] != "run" || ordered[1] != "stop" {
		t.Errorf("ordered = %v", ordered)
	}

	colors, _ = categoryColors(values, "")
	if len(colors) != 3 {
		t.Fatalf("without exclusion expected 3 colors, got %d", len(colors))
	}
}

func TestIndexTickValues(t *testing.T) {
	if got := indexTickValues(0, 8); got != nil {
		t.Fatalf("no ticks for empty axis, got %v", got)
	}
	for _, n := range []int{1, 7, 100, 45000} {
		ticks := indexTickValues(n, 8)
		if len(ticks) == 0 || len(ticks) > 8 {
			t.Fatalf("n=%d: %d ticks", n, len(ticks))
		}
		if ticks[0] != 0 {
			t.Errorf("n=%d: first tick %d, want 0", n, ticks[0])
		}
		for i, v := range ticks {
			if v < 0 || v >= n {
				t.Errorf("n=%d: tick %d out of range", n, v)
			}
			if i > 0 && v <= ticks[i-1] {
				t.Errorf("n=%d: ticks not increasing", n)
			}
		}
	}
}

func TestNiceAxisBounds(t *testing.T) {
	lo, hi := niceAxisBounds(3, 97)
	if lo > 3 || hi < 97 {
		t.Fatalf("bounds [%v,%v] do not contain data range", lo, hi)
	}
	lo, hi = niceAxisBounds(5, 5)
	if hi <= lo {
		t.Fatalf("degenerate range not expanded: [%v,%v]", lo, hi)
	}
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(0, 100, 6)
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %d", len(ticks))
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Value <= ticks[i-1].Value {
			t.Errorf("ticks not increasing at %d", i)
		}
	}
	if ticks[0].Value > 0 || ticks[len(ticks)-1].Value < 100 {
		t.Errorf("ticks [%v..%v] do not span data", ticks[0].Value, ticks[len(ticks)-1].Value)
	}
}

func TestFormatTick(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1234, "1234"},
		{12.34, "12.3"},
		{1.234, "1.23"},
		{-250, "-250"},
	}
	for _, c := range cases {
		if got := formatTick(c.in); got != c.want {
			t.Errorf("formatTick(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
