// Package uihelpers holds the pure pixel/data math for the viewer so it stays
// testable without a window: chart sizing, contain-fit rectangles, and the
// mapping between image pixels and row indices of the plotted segment.
package uihelpers

import "math"

// Chart padding and axis gutters, matching how the charts are rendered. The
// plot area of a rendered chart image is the image minus these insets; the
// selection overlay and the span/marker painters all share this transform.
const (
	ChartPadTop    = 14
	ChartPadLeft   = 16
	ChartPadRight  = 12
	ChartPadBottom = 28

	AxisLeftGutterPx   = 46 // y-axis labels + ticks
	AxisRightGutterPx  = 10
	AxisTopGutterPx    = 24 // title band
	AxisBottomGutterPx = 22 // x-axis tick labels
)

// ComputeChartDimensions applies the width/height clamp rules used for charts.
// Input: desired raw width (e.g. canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// PlotSpanX returns the horizontal pixel extent [x0, x1) of the plot area
// inside a rendered chart image of width imgW.
func PlotSpanX(imgW int) (float32, float32) {
	x0 := float32(ChartPadLeft + AxisLeftGutterPx)
	x1 := float32(imgW) - float32(ChartPadRight+AxisRightGutterPx)
	if x1 <= x0 {
		return 0, float32(imgW)
	}
	return x0, x1
}

// PlotSpanY returns the vertical pixel extent [y0, y1) of the plot area inside
// a rendered chart image of height imgH.
func PlotSpanY(imgH int) (float32, float32) {
	y0 := float32(ChartPadTop + AxisTopGutterPx)
	y1 := float32(imgH) - float32(ChartPadBottom+AxisBottomGutterPx)
	if y1 <= y0 {
		return 0, float32(imgH)
	}
	return y0, y1
}

// CenterX returns the image-space x pixel of the center of index i when n
// points are plotted across the plot area (index axis spans [-0.5, n-0.5]).
func CenterX(i, n, imgW int) float32 {
	if n <= 0 {
		return 0
	}
	x0, x1 := PlotSpanX(imgW)
	return x0 + (x1-x0)*(float32(i)+0.5)/float32(n)
}

// IndexFromImageX maps an image-space x pixel to the nearest covered row index,
// clamped to [0, n-1]. Pixels in the gutters clamp to the respective end.
func IndexFromImageX(x float32, n, imgW int) int {
	if n <= 0 {
		return 0
	}
	x0, x1 := PlotSpanX(imgW)
	frac := (x - x0) / (x1 - x0)
	idx := int(math.Floor(float64(frac) * float64(n)))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// ContainRect returns the draw origin and scale of an image of imgW×imgH
// displayed contain-fit inside a view of viewW×viewH: the image is scaled
// uniformly to fit and centered on both axes.
func ContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 1
	}
	scale = viewW / imgW
	if s := viewH / imgH; s < scale {
		scale = s
	}
	drawX = (viewW - imgW*scale) / 2
	drawY = (viewH - imgH*scale) / 2
	return drawX, drawY, scale
}

// ViewToImageX converts a view-space x coordinate (overlay widget space) to
// image space for a contain-fit image.
func ViewToImageX(viewX, imgW, imgH, viewW, viewH float32) float32 {
	drawX, _, scale := ContainRect(imgW, imgH, viewW, viewH)
	if scale <= 0 {
		return viewX
	}
	return (viewX - drawX) / scale
}

// IndexRangeFromDrag maps a horizontal drag in view space to the closed row
// interval [lo, hi] of the n plotted points, clamped to the plot. The drag may
// go in either direction.
func IndexRangeFromDrag(xA, xB float32, n, imgW, imgH int, viewW, viewH float32) (int, int) {
	ia := IndexFromImageX(ViewToImageX(xA, float32(imgW), float32(imgH), viewW, viewH), n, imgW)
	ib := IndexFromImageX(ViewToImageX(xB, float32(imgW), float32(imgH), viewW, viewH), n, imgW)
	if ia > ib {
		ia, ib = ib, ia
	}
	return ia, ib
}

// ComputeTableColumnWidth picks a data-column width for the grid from the
// window width and column count, clamped to keep narrow tables readable and
// wide ones scrollable.
func ComputeTableColumnWidth(winW float32, cols int) int {
	if cols <= 0 {
		return 120
	}
	w := int(winW) / (cols + 1)
	if w < 70 {
		w = 70
	}
	if w > 220 {
		w = 220
	}
	return w
}
