package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/modyf01/csv-visualizer/cmd/csvviewer/uihelpers"
	"github.com/modyf01/csv-visualizer/src/vlog"
)

// markerColor is the vertical marker line (alpha applied when painting).
var markerColor = color.NRGBA{R: 0xd6, G: 0x30, B: 0x31, A: 0xe6}

// spanAlpha is the opacity of category background spans.
const spanAlpha = 33

// palette returns n visually distinct colors spread over the hue circle.
func palette(n int) []color.NRGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.NRGBA, n)
	for i := 0; i < n; i++ {
		h := float64(i) / float64(n) * 360.0
		r, g, b := colorful.Hsv(h, 0.6, 1.0).RGB255()
		out[i] = color.NRGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out
}

// categoryColors maps each category value (minus the no-background value) to a
// palette color, in sorted value order.
func categoryColors(values []string, noBG string) (map[string]color.NRGBA, []string) {
	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if noBG != "" && v == noBG {
			continue
		}
		filtered = append(filtered, v)
	}
	pal := palette(len(filtered))
	m := make(map[string]color.NRGBA, len(filtered))
	for i, v := range filtered {
		m[v] = pal[i]
	}
	return m, filtered
}

// catRun is a maximal run of equal category values, [Start, End) in segment-
// local indices.
type catRun struct {
	Start, End int
	Value      string
}

// categoryRuns collapses a value slice into maximal runs of equal values.
func categoryRuns(vals []string) []catRun {
	if len(vals) == 0 {
		return nil
	}
	var runs []catRun
	start := 0
	cur := vals[0]
	for i := 1; i <= len(vals); i++ {
		if i == len(vals) || vals[i] != cur {
			runs = append(runs, catRun{Start: start, End: i, Value: cur})
			if i < len(vals) {
				start = i
				cur = vals[i]
			}
		}
	}
	return runs
}

// markerIndices returns the segment-local indices whose value equals target.
func markerIndices(vals []string, target string) []int {
	var out []int
	for i, v := range vals {
		if v == target {
			out = append(out, i)
		}
	}
	return out
}

// fillGaps replaces NaN cells with the nearest valid neighbor (forward, then
// backward) so line series stay connected. All-NaN input returns ok=false.
func fillGaps(ys []float64) ([]float64, bool) {
	out := make([]float64, len(ys))
	last := math.NaN()
	any := false
	for i, v := range ys {
		if !math.IsNaN(v) {
			last = v
			any = true
		}
		out[i] = last
	}
	if !any {
		return out, false
	}
	for i := len(out) - 1; i >= 0; i-- {
		if math.IsNaN(out[i]) {
			out[i] = out[i+1]
		}
	}
	return out, true
}

// lineStyle returns a thin stroked line style for plotted series.
func lineStyle(col color.NRGBA) chart.Style {
	return chart.Style{
		StrokeWidth: 1.2,
		StrokeColor: drawing.Color{R: col.R, G: col.G, B: col.B, A: 255},
	}
}

// buildIndexAxis configures the x-axis over n segment rows. The axis range is
// [-0.5, n-0.5] so index i sits at fraction (i+0.5)/n of the plot width, the
// same transform uihelpers uses for selection and overlay painting.
func buildIndexAxis(n int) chart.XAxis {
	maxX := float64(n) - 0.5
	ticks := []chart.Tick{}
	for _, v := range indexTickValues(n, 8) {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	if len(ticks) < 2 {
		ticks = []chart.Tick{{Value: 0, Label: "0"}, {Value: math.Max(1, maxX), Label: ""}}
	}
	return chart.XAxis{
		Name:  "index",
		Ticks: ticks,
		Range: &chart.ContinuousRange{Min: -0.5, Max: maxX},
	}
}

// indexTickValues picks up to maxTicks index positions across [0, n) at a
// round step (1/2/5 times a power of ten).
func indexTickValues(n, maxTicks int) []int {
	if n <= 0 || maxTicks < 2 {
		return nil
	}
	step := 1
	for {
		for _, m := range []int{1, 2, 5} {
			s := m * step
			if (n-1)/s+1 <= maxTicks {
				out := []int{}
				for v := 0; v < n; v += s {
					out = append(out, v)
				}
				return out
			}
		}
		step *= 10
	}
}

// niceAxisBounds expands [min,max] by a small margin and rounds outward to
// round numbers so y labels stay readable.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n tick marks between [min, max] using 1/2/2.5/5
// steps scaled by powers of ten.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// renderChart draws the active segment: selected series as lines, category
// background spans, and vertical marker lines, all painted into one image.
func renderChart(state *uiState) image.Image {
	cw, chh := chartSize(state)
	if state.ds == nil || state.ds.RowCount() == 0 {
		return blank(cw, chh)
	}
	seg := state.plan.At(state.curSeg)
	n := seg.Len()
	if n == 0 {
		return blank(cw, chh)
	}

	cols := state.seriesCols
	if len(cols) == 0 {
		// default to the first column, as a bare "Plot" with nothing picked
		cols = state.ds.Columns()[:1]
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	seriesColors := palette(len(cols))
	series := []chart.Series{}
	minY := math.MaxFloat64
	maxY := -math.MaxFloat64
	for ci, col := range cols {
		ys := state.ds.Numeric(col)[seg.Start:seg.End]
		for _, v := range ys {
			if math.IsNaN(v) {
				continue
			}
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
		filled, ok := fillGaps(ys)
		if !ok {
			vlog.Debugf("series %q has no numeric values in segment %d", col, state.curSeg)
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    col,
			XValues: xs,
			YValues: filled,
			Style:   lineStyle(seriesColors[ci]),
		})
	}
	if len(series) == 0 {
		return blank(cw, chh)
	}

	var yRange *chart.ContinuousRange
	var yTicks []chart.Tick
	if minY != math.MaxFloat64 && maxY != -math.MaxFloat64 {
		nMin, nMax := niceAxisBounds(minY, maxY)
		yRange = &chart.ContinuousRange{Min: nMin, Max: nMax}
		yTicks = niceTicks(nMin, nMax, 6)
	}

	ch := chart.Chart{
		Title: chartTitle(state),
		Background: chart.Style{Padding: chart.Box{
			Top:    uihelpers.ChartPadTop,
			Left:   uihelpers.ChartPadLeft,
			Right:  uihelpers.ChartPadRight,
			Bottom: uihelpers.ChartPadBottom,
		}},
		XAxis:  buildIndexAxis(n),
		YAxis:  chart.YAxis{Range: yRange, Ticks: yTicks},
		Series: series,
	}
	ch.Width = cw
	ch.Height = chh
	if state.showSeriesLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		vlog.Warnf("chart render error: %v; showing blank fallback", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		vlog.Warnf("chart decode error: %v; showing blank fallback", err)
		return blank(cw, chh)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	paintCategorySpans(rgba, state, seg.Start, n)
	paintMarkers(rgba, state, seg.Start, n)
	return rgba
}

func chartTitle(state *uiState) string {
	if state.ds == nil {
		return ""
	}
	if state.plan.Count() > 1 {
		return fmt.Sprintf("%s — segment %d/%d", baseName(state.ds.Path()), state.curSeg+1, state.plan.Count())
	}
	return baseName(state.ds.Path())
}

// paintCategorySpans overlays translucent background rectangles for runs of
// the category column across the plot area, and the category legend swatches
// when enabled.
func paintCategorySpans(img *image.RGBA, state *uiState, segStart, n int) {
	if state.catCol == noneOption || state.catCol == "" {
		return
	}
	values, ok := state.ds.UniqueValues(state.catCol)
	if !ok {
		return
	}
	colors, ordered := categoryColors(values, state.noBGValue)
	if len(colors) == 0 {
		return
	}

	vals := state.ds.Column(state.catCol)[segStart : segStart+n]
	b := img.Bounds()
	imgW, imgH := b.Dx(), b.Dy()
	x0, x1 := uihelpers.PlotSpanX(imgW)
	y0, y1 := uihelpers.PlotSpanY(imgH)

	for _, run := range categoryRuns(vals) {
		col, ok := colors[run.Value]
		if !ok {
			continue
		}
		// run [s,e) spans index-axis values [s-0.5, e-0.5]
		px0 := x0 + (x1-x0)*float32(run.Start)/float32(n)
		px1 := x0 + (x1-x0)*float32(run.End)/float32(n)
		blendRect(img,
			b.Min.X+int(px0), b.Min.Y+int(y0),
			b.Min.X+int(px1), b.Min.Y+int(y1),
			color.NRGBA{R: col.R, G: col.G, B: col.B, A: spanAlpha})
	}

	if state.showCatLegend {
		drawCategoryLegend(img, ordered, colors)
	}
}

// paintMarkers draws a vertical line at every segment row whose marker column
// matches the marker value.
func paintMarkers(img *image.RGBA, state *uiState, segStart, n int) {
	if state.markerCol == noneOption || state.markerCol == "" ||
		state.markerValue == noneOption || state.markerValue == "" {
		return
	}
	vals := state.ds.Column(state.markerCol)[segStart : segStart+n]
	idxs := markerIndices(vals, state.markerValue)
	if len(idxs) == 0 {
		return
	}
	b := img.Bounds()
	imgW, imgH := b.Dx(), b.Dy()
	y0, y1 := uihelpers.PlotSpanY(imgH)
	for _, i := range idxs {
		x := int(uihelpers.CenterX(i, n, imgW))
		blendRect(img, b.Min.X+x, b.Min.Y+int(y0), b.Min.X+x+1, b.Min.Y+int(y1), markerColor)
	}
}

// blendRect alpha-blends a uniform color over the rectangle [x0,y0)–(x1,y1).
func blendRect(img *image.RGBA, x0, y0, x1, y1 int, col color.NRGBA) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(col), image.Point{}, draw.Over)
}

// drawCategoryLegend paints small color swatches with value names in the top
// left of the plot area.
func drawCategoryLegend(img *image.RGBA, ordered []string, colors map[string]color.NRGBA) {
	b := img.Bounds()
	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil() + 3
	x := b.Min.X + int(uihelpers.ChartPadLeft+uihelpers.AxisLeftGutterPx) + 6
	y := b.Min.Y + int(uihelpers.ChartPadTop+uihelpers.AxisTopGutterPx) + lineH

	textCol := image.NewUniform(color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	bgCol := image.NewUniform(color.NRGBA{A: 0xb4})
	for _, name := range ordered {
		col := colors[name]
		dr := &font.Drawer{Dst: img, Src: textCol, Face: face}
		tw := dr.MeasureString(name).Ceil()
		// backdrop, swatch, label
		draw.Draw(img, image.Rect(x-3, y-face.Metrics().Ascent.Ceil()-2, x+14+tw+3, y+3), bgCol, image.Point{}, draw.Over)
		draw.Draw(img, image.Rect(x, y-8, x+10, y+2), image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0xff}), image.Point{}, draw.Over)
		dr.Dot = fixed.Point26_6{X: fixed.I(x + 14), Y: fixed.I(y)}
		dr.DrawString(name)
		y += lineH
	}
}

// chartSize computes a chart size from the current window width so charts use
// the available X-axis space.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100, 340
	}
	sz := state.window.Canvas().Size()
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 18, G: 18, B: 18, A: 255})
		}
	}
	return img
}
