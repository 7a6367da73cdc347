package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/modyf01/csv-visualizer/cmd/csvviewer/uihelpers"
)

// selectionOverlay sits on top of the chart image and turns horizontal drags
// into row-index ranges. It draws a translucent band over the dragged span.
type selectionOverlay struct {
	widget.BaseWidget

	band     *canvas.Rectangle
	dragging bool
	startX   float32
	curX     float32

	// onRange receives view-space drag endpoints and the overlay size.
	onRange func(xA, xB float32, size fyne.Size)
}

func newSelectionOverlay(onRange func(xA, xB float32, size fyne.Size)) *selectionOverlay {
	o := &selectionOverlay{onRange: onRange}
	o.band = canvas.NewRectangle(color.NRGBA{R: 0xd6, G: 0x30, B: 0x31, A: 0x46})
	o.band.Hidden = true
	o.ExtendBaseWidget(o)
	return o
}

func (o *selectionOverlay) Dragged(e *fyne.DragEvent) {
	if !o.dragging {
		o.dragging = true
		o.startX = e.Position.X - e.Dragged.DX
	}
	o.curX = e.Position.X
	o.band.Hidden = false
	o.Refresh()
}

func (o *selectionOverlay) DragEnd() {
	if !o.dragging {
		return
	}
	o.dragging = false
	if o.onRange != nil {
		o.onRange(o.startX, o.curX, o.Size())
	}
}

// ClearBand hides the band, used after an edit is applied or selection reset.
func (o *selectionOverlay) ClearBand() {
	o.band.Hidden = true
	o.Refresh()
}

func (o *selectionOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &selectionOverlayRenderer{o: o}
}

type selectionOverlayRenderer struct {
	o *selectionOverlay
}

func (r *selectionOverlayRenderer) Layout(size fyne.Size) { r.position(size) }

func (r *selectionOverlayRenderer) position(size fyne.Size) {
	o := r.o
	x0, x1 := o.startX, o.curX
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > size.Width {
		x1 = size.Width
	}
	o.band.Move(fyne.NewPos(x0, 0))
	o.band.Resize(fyne.NewSize(x1-x0, size.Height))
}

func (r *selectionOverlayRenderer) MinSize() fyne.Size { return fyne.NewSize(40, 40) }

func (r *selectionOverlayRenderer) Refresh() {
	r.position(r.o.Size())
	canvas.Refresh(r.o.band)
}

func (r *selectionOverlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.o.band}
}

func (r *selectionOverlayRenderer) Destroy() {}

// dragToRowRange maps a finished drag to an absolute closed row range for the
// active segment. Returns ok=false when the segment is empty.
func dragToRowRange(xA, xB float32, segStart, segLen, imgW, imgH int, viewW, viewH float32) (int, int, bool) {
	if segLen <= 0 || imgW <= 0 {
		return 0, 0, false
	}
	lo, hi := uihelpers.IndexRangeFromDrag(xA, xB, segLen, imgW, imgH, viewW, viewH)
	return segStart + lo, segStart + hi, true
}
