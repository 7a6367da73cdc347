package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/modyf01/csv-visualizer/cmd/csvviewer/uihelpers"
	"github.com/modyf01/csv-visualizer/src/dataset"
	"github.com/modyf01/csv-visualizer/src/segment"
	"github.com/modyf01/csv-visualizer/src/vlog"
)

const appName = "CSV Visualizer"

// noneOption is the sentinel shown in selects for "nothing picked".
const noneOption = "— none —"

type uiState struct {
	app      fyne.App
	window   fyne.Window
	filePath string

	ds     *dataset.Table
	plan   segment.Plan
	curSeg int

	// plot choices
	seriesCols  []string
	catCol      string
	noBGValue   string
	markerCol   string
	markerValue string

	// toggles
	showSeriesLegend bool
	showCatLegend    bool
	compactMode      bool

	// active selection, absolute closed row range
	selActive        bool
	selStart, selEnd int

	// widgets
	table          *widget.Table
	chartImgCanvas *canvas.Image
	overlay        *selectionOverlay
	seriesChecks   *widget.CheckGroup
	catSelect      *widget.Select
	noBGSelect     *widget.Select
	markerColSel   *widget.Select
	markerValSel   *widget.Select
	assignEntry    *widget.SelectEntry
	segLabel       *widget.Label
	selLabel       *widget.Label
	topBar         *fyne.Container
	tabs           *container.AppTabs

	// external change watching
	watcher      *dataset.Watcher
	selfWrite    atomic.Bool
	reloadAsking atomic.Bool
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	// CLI flags for opening a file directly
	var fileFlag string
	var logLevel string
	flag.StringVar(&fileFlag, "file", "", "Path to a CSV file to open")
	flag.StringVar(&logLevel, "loglevel", "info", "Log level: debug, info, warn, error")
	flag.Parse()
	vlog.SetLevel(logLevel)

	a := app.NewWithID("com.modyf01.csvviewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow(appName)
	w.Resize(fyne.NewSize(1200, 820))

	state := &uiState{
		app:       a,
		window:    w,
		filePath:  fileFlag,
		catCol:    noneOption,
		noBGValue: noneOption,
		markerCol: noneOption,
	}
	state.showSeriesLegend = a.Preferences().BoolWithFallback("seriesLegend", true)
	state.showCatLegend = a.Preferences().BoolWithFallback("catLegend", true)

	// top bar controls (callbacks assigned after canvases exist)
	state.seriesChecks = widget.NewCheckGroup(nil, nil)
	state.seriesChecks.Horizontal = true
	state.catSelect = widget.NewSelect([]string{noneOption}, nil)
	state.catSelect.Selected = noneOption
	state.noBGSelect = widget.NewSelect([]string{noneOption}, nil)
	state.noBGSelect.Selected = noneOption
	state.markerColSel = widget.NewSelect([]string{noneOption}, nil)
	state.markerColSel.Selected = noneOption
	state.markerValSel = widget.NewSelect([]string{noneOption}, nil)
	state.markerValSel.Selected = noneOption
	state.assignEntry = widget.NewSelectEntry(nil)
	state.assignEntry.SetPlaceHolder("new value")

	seriesLegendChk := widget.NewCheck("Series legend", nil)
	seriesLegendChk.SetChecked(state.showSeriesLegend)
	catLegendChk := widget.NewCheck("Category legend", nil)
	catLegendChk.SetChecked(state.showCatLegend)

	state.selLabel = widget.NewLabel("No selection")
	state.segLabel = widget.NewLabel("Segment -/-")
	prevSeg := widget.NewButton("<", func() { gotoSegment(state, state.curSeg-1) })
	nextSeg := widget.NewButton(">", func() { gotoSegment(state, state.curSeg+1) })
	segEntry := widget.NewEntry()
	segEntry.SetPlaceHolder("#")
	segEntry.OnSubmitted = func(v string) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return
		}
		gotoSegment(state, n-1)
	}

	applyBtn := widget.NewButton("Apply to selection", func() { applyEdit(state) })
	clearBtn := widget.NewButton("Clear", func() { clearSelection(state) })

	// data table (active segment with absolute row numbers)
	state.table = widget.NewTable(
		func() (int, int) {
			if state.ds == nil {
				return 1, 1
			}
			return state.plan.At(state.curSeg).Len() + 1, len(state.ds.Columns()) + 1
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if state.ds == nil {
				lbl.SetText("")
				return
			}
			if id.Row == 0 {
				if id.Col == 0 {
					lbl.SetText("#")
				} else {
					lbl.SetText(state.ds.Columns()[id.Col-1])
				}
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			seg := state.plan.At(state.curSeg)
			abs := seg.Start + id.Row - 1
			if abs >= seg.End {
				lbl.SetText("")
				return
			}
			if id.Col == 0 {
				lbl.SetText(fmt.Sprintf("%d", abs))
				return
			}
			lbl.SetText(state.ds.Cell(abs, id.Col-1))
		},
	)

	// chart placeholder + selection overlay
	state.chartImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.chartImgCanvas.FillMode = canvas.ImageFillContain
	state.chartImgCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.overlay = newSelectionOverlay(func(xA, xB float32, size fyne.Size) {
		onRangeDragged(state, xA, xB, size)
	})

	state.topBar = container.NewVBox(
		container.NewHBox(
			widget.NewButton("Open…", func() { openFileDialog(state) }),
			widget.NewButton("Save", func() { saveCurrent(state) }),
			widget.NewButton("Save As…", func() { saveAsDialog(state) }),
			widget.NewSeparator(),
			widget.NewLabel("Plot:"), state.seriesChecks,
			widget.NewSeparator(),
			widget.NewLabel("Category:"), state.catSelect,
			widget.NewLabel("No background:"), state.noBGSelect,
		),
		container.NewHBox(
			widget.NewLabel("Marker:"), state.markerColSel,
			widget.NewLabel("="), state.markerValSel,
			widget.NewSeparator(),
			seriesLegendChk, catLegendChk,
			widget.NewSeparator(),
			widget.NewLabel("Segment:"), prevSeg, state.segLabel, nextSeg, segEntry,
		),
		container.NewHBox(
			state.selLabel,
			widget.NewLabel("Set category to:"), state.assignEntry,
			applyBtn, clearBtn,
		),
	)

	chartStack := container.NewStack(state.chartImgCanvas, state.overlay)
	chartScroll := container.NewVScroll(chartStack)
	chartScroll.SetMinSize(fyne.NewSize(900, 420))
	state.tabs = container.NewAppTabs(
		container.NewTabItem("Table", state.table),
		container.NewTabItem("Chart", chartScroll),
	)
	state.tabs.SetTabLocation(container.TabLocationTop)
	state.tabs.OnSelected = func(ti *container.TabItem) {
		state.app.Preferences().SetInt("selectedTabIndex", state.tabs.SelectedIndex())
	}
	w.SetContent(container.NewBorder(state.topBar, nil, nil, nil, state.tabs))

	// redraw the chart on window resize so it scales with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			if state.watcher != nil {
				state.watcher.Close()
			}
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawChart(state) })
					}
				}
			}
		}()
	}

	// wire callbacks now that canvases exist
	state.seriesChecks.OnChanged = func(sel []string) {
		state.seriesCols = sel
		savePrefs(state)
		redrawChart(state)
	}
	state.catSelect.OnChanged = func(v string) {
		state.catCol = v
		state.noBGValue = noneOption
		refreshValueSelects(state)
		savePrefs(state)
		redrawChart(state)
	}
	state.noBGSelect.OnChanged = func(v string) {
		if v == noneOption {
			state.noBGValue = ""
		} else {
			state.noBGValue = v
		}
		savePrefs(state)
		redrawChart(state)
	}
	state.markerColSel.OnChanged = func(v string) {
		state.markerCol = v
		state.markerValue = noneOption
		refreshValueSelects(state)
		savePrefs(state)
		redrawChart(state)
	}
	state.markerValSel.OnChanged = func(v string) {
		state.markerValue = v
		savePrefs(state)
		redrawChart(state)
	}
	seriesLegendChk.OnChanged = func(b bool) {
		state.showSeriesLegend = b
		savePrefs(state)
		redrawChart(state)
	}
	catLegendChk.OnChanged = func(b bool) {
		state.showCatLegend = b
		savePrefs(state)
		redrawChart(state)
	}

	buildMenus(state)
	loadPrefs(state)
	if state.filePath != "" {
		loadFile(state, state.filePath)
	}

	w.ShowAndRun()
}

// gotoSegment switches the active segment, clamping to the plan, and clears
// any pixel selection since it was made against the previous rows.
func gotoSegment(state *uiState, i int) {
	if state.ds == nil {
		return
	}
	i = state.plan.Clamp(i)
	if i == state.curSeg {
		return
	}
	state.curSeg = i
	clearSelection(state)
	refreshSegLabel(state)
	state.table.Refresh()
	redrawChart(state)
}

func refreshSegLabel(state *uiState) {
	if state.ds == nil {
		state.segLabel.SetText("Segment -/-")
		return
	}
	seg := state.plan.At(state.curSeg)
	state.segLabel.SetText(fmt.Sprintf("%d/%d (rows %d..%d)",
		state.curSeg+1, state.plan.Count(), seg.Start, seg.End-1))
}

// onRangeDragged converts a finished drag on the chart overlay into an
// absolute closed row range.
func onRangeDragged(state *uiState, xA, xB float32, size fyne.Size) {
	if state.ds == nil || state.chartImgCanvas.Image == nil {
		return
	}
	seg := state.plan.At(state.curSeg)
	b := state.chartImgCanvas.Image.Bounds()
	lo, hi, ok := dragToRowRange(xA, xB, seg.Start, seg.Len(), b.Dx(), b.Dy(), size.Width, size.Height)
	if !ok {
		return
	}
	state.selActive = true
	state.selStart, state.selEnd = lo, hi
	state.selLabel.SetText(fmt.Sprintf("Selected rows %d..%d (%d rows)", lo, hi, hi-lo+1))
	vlog.Debugf("selection: rows %d..%d", lo, hi)
}

func clearSelection(state *uiState) {
	state.selActive = false
	state.selLabel.SetText("No selection")
	if state.overlay != nil {
		state.overlay.ClearBand()
	}
}

// applyEdit writes the assign value into the category column for every row of
// the current selection.
func applyEdit(state *uiState) {
	if state.ds == nil {
		return
	}
	if state.catCol == noneOption || state.catCol == "" {
		dialog.ShowInformation("Edit", "Pick a category column first.", state.window)
		return
	}
	if !state.selActive {
		dialog.ShowInformation("Edit", "Drag across the chart to select rows first.", state.window)
		return
	}
	value := strings.TrimSpace(state.assignEntry.Text)
	if value == "" {
		dialog.ShowInformation("Edit", "Enter the category value to assign.", state.window)
		return
	}
	n, err := state.ds.ReplaceRange(state.catCol, state.selStart, state.selEnd, value)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	vlog.Infof("assigned %q to %d rows (%d..%d) in column %q", value, n, state.selStart, state.selEnd, state.catCol)
	clearSelection(state)
	refreshValueSelects(state)
	updateTitle(state)
	state.table.Refresh()
	redrawChart(state)
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() { loadFile(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { reloadCurrent(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", func() { saveCurrent(state) }),
		fyne.NewMenuItem("Save As…", func() { saveAsDialog(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart PNG…", func() { exportChartPNG(state, state.chartImgCanvas, "chart.png") }),
		fyne.NewMenuItem("Export Table XLSX…", func() { exportXLSXDialog(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	compactItem := fyne.NewMenuItem("Compact Mode", func() { toggleCompact(state) })
	compactItem.Checked = state.compactMode
	viewMenu := fyne.NewMenu("View", compactItem)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, viewMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { saveCurrent(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { saveCurrent(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { reloadCurrent(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { reloadCurrent(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func toggleCompact(state *uiState) {
	state.compactMode = !state.compactMode
	if state.compactMode {
		state.topBar.Hide()
		state.tabs.SelectIndex(1)
	} else {
		state.topBar.Show()
	}
	savePrefs(state)
	buildMenus(state)
	redrawChart(state)
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		loadFile(state, rc.URI().Path())
	}, state.window)
	d.Show()
}

// loadFile reads the CSV, rebuilds the segment plan, and refreshes every
// control that depends on the column set.
func loadFile(state *uiState, path string) {
	ds, err := dataset.Load(path)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.ds = ds
	state.filePath = path
	state.plan = segment.NewThreshold(ds.RowCount(), segment.DefaultChunkSize, segment.DefaultThreshold)
	state.curSeg = 0
	clearSelection(state)

	cols := ds.Columns()
	state.seriesChecks.Options = cols
	kept := make([]string, 0, len(state.seriesCols))
	for _, c := range state.seriesCols {
		if ds.ColumnIndex(c) >= 0 {
			kept = append(kept, c)
		}
	}
	state.seriesCols = kept
	state.seriesChecks.SetSelected(kept)

	colOpts := append([]string{noneOption}, cols...)
	state.catSelect.Options = colOpts
	state.markerColSel.Options = colOpts
	if state.ds.ColumnIndex(state.catCol) < 0 {
		state.catCol = noneOption
	}
	if state.ds.ColumnIndex(state.markerCol) < 0 {
		state.markerCol = noneOption
	}
	state.catSelect.Selected = state.catCol
	state.markerColSel.Selected = state.markerCol
	state.catSelect.Refresh()
	state.markerColSel.Refresh()
	refreshValueSelects(state)

	for c := 0; c <= len(cols); c++ {
		state.table.SetColumnWidth(c, float32(uihelpers.ComputeTableColumnWidth(state.window.Canvas().Size().Width, len(cols)+1)))
	}
	state.table.Refresh()
	refreshSegLabel(state)
	updateTitle(state)
	addRecentFile(state, path)
	buildMenus(state)
	savePrefs(state)
	watchCurrentFile(state)
	redrawChart(state)
	vlog.Infof("loaded %q: %d rows, %d columns, %d segments", path, ds.RowCount(), len(cols), state.plan.Count())
}

// refreshValueSelects repopulates the value pickers that depend on the chosen
// category and marker columns.
func refreshValueSelects(state *uiState) {
	noBGOpts := []string{noneOption}
	markerOpts := []string{noneOption}
	assignOpts := []string{}
	if state.ds != nil {
		if state.catCol != noneOption && state.catCol != "" {
			if vals, ok := state.ds.UniqueValues(state.catCol); ok {
				noBGOpts = append(noBGOpts, vals...)
				assignOpts = vals
			} else {
				vlog.Warnf("column %q has more than %d distinct values; background coloring disabled", state.catCol, dataset.MaxCategoryValues)
			}
		}
		if state.markerCol != noneOption && state.markerCol != "" {
			if vals, ok := state.ds.UniqueValues(state.markerCol); ok {
				markerOpts = append(markerOpts, vals...)
			}
		}
	}
	state.noBGSelect.Options = noBGOpts
	if state.noBGValue == "" || state.noBGValue == noneOption {
		state.noBGSelect.Selected = noneOption
	}
	state.noBGSelect.Refresh()
	state.markerValSel.Options = markerOpts
	if state.markerValue == "" || state.markerValue == noneOption {
		state.markerValSel.Selected = noneOption
	}
	state.markerValSel.Refresh()
	state.assignEntry.SetOptions(assignOpts)
}

// reloadCurrent re-reads the file from disk, confirming first when unsaved
// edits would be lost.
func reloadCurrent(state *uiState) {
	if state.ds == nil || state.filePath == "" {
		return
	}
	if state.ds.Dirty() {
		dialog.ShowConfirm("Reload", "Discard unsaved changes and reload from disk?", func(ok bool) {
			if ok {
				loadFile(state, state.filePath)
			}
		}, state.window)
		return
	}
	loadFile(state, state.filePath)
}

func saveCurrent(state *uiState) {
	if state.ds == nil {
		return
	}
	state.selfWrite.Store(true)
	if err := state.ds.Save(); err != nil {
		state.selfWrite.Store(false)
		dialog.ShowError(err, state.window)
		return
	}
	updateTitle(state)
	vlog.Infof("saved %q", state.ds.Path())
}

func saveAsDialog(state *uiState) {
	if state.ds == nil {
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		state.selfWrite.Store(true)
		if err := state.ds.SaveAs(path); err != nil {
			state.selfWrite.Store(false)
			dialog.ShowError(err, state.window)
			return
		}
		state.filePath = path
		updateTitle(state)
		addRecentFile(state, path)
		buildMenus(state)
		savePrefs(state)
		watchCurrentFile(state)
	}, state.window)
	fs.SetFileName(baseName(state.filePath))
	fs.Show()
}

func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil || img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func exportXLSXDialog(state *uiState) {
	if state.ds == nil {
		dialog.ShowInformation("Export", "No data to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		if err := state.ds.ExportXLSX(path); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	name := strings.TrimSuffix(baseName(state.filePath), filepath.Ext(state.filePath)) + ".xlsx"
	fs.SetFileName(name)
	fs.Show()
}

// watchCurrentFile restarts the on-disk watcher for the loaded file. Writes
// the viewer itself performs are filtered through the selfWrite flag.
func watchCurrentFile(state *uiState) {
	if state.watcher != nil {
		state.watcher.Close()
		state.watcher = nil
	}
	if state.filePath == "" {
		return
	}
	wt, err := dataset.WatchFile(state.filePath, func() {
		if state.selfWrite.Swap(false) {
			return
		}
		if !state.reloadAsking.CompareAndSwap(false, true) {
			return
		}
		fyne.Do(func() {
			dialog.ShowConfirm("File changed",
				"The file changed on disk. Reload and discard any unsaved edits?",
				func(ok bool) {
					state.reloadAsking.Store(false)
					if ok {
						loadFile(state, state.filePath)
					}
				}, state.window)
		})
	})
	if err != nil {
		vlog.Warnf("file watch unavailable for %q: %v", state.filePath, err)
		return
	}
	state.watcher = wt
}

func redrawChart(state *uiState) {
	if state == nil || state.chartImgCanvas == nil {
		return
	}
	img := renderChart(state)
	state.chartImgCanvas.Image = img
	b := img.Bounds()
	state.chartImgCanvas.SetMinSize(fyne.NewSize(float32(b.Dx())/2, float32(b.Dy())/2))
	state.chartImgCanvas.Refresh()
}

// updateTitle reflects the loaded file and its dirty marker in the window
// title, e.g. "data.csv * – CSV Visualizer".
func updateTitle(state *uiState) {
	if state.ds == nil {
		state.window.SetTitle(appName)
		return
	}
	star := ""
	if state.ds.Dirty() {
		star = " *"
	}
	state.window.SetTitle(fmt.Sprintf("%s%s – %s", baseName(state.ds.Path()), star, appName))
}

// recent files helpers
func recentFiles(state *uiState) []string {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	prefs := state.app.Preferences()
	list := recentFiles(state)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("seriesCols", strings.Join(state.seriesCols, "\n"))
	prefs.SetString("catCol", state.catCol)
	prefs.SetString("noBGValue", state.noBGValue)
	prefs.SetString("markerCol", state.markerCol)
	prefs.SetString("markerValue", state.markerValue)
	prefs.SetBool("seriesLegend", state.showSeriesLegend)
	prefs.SetBool("catLegend", state.showCatLegend)
	prefs.SetBool("compactMode", state.compactMode)
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.filePath == "" {
		state.filePath = prefs.StringWithFallback("lastFile", "")
	}
	if raw := prefs.StringWithFallback("seriesCols", ""); raw != "" {
		state.seriesCols = strings.Split(raw, "\n")
	}
	state.catCol = prefs.StringWithFallback("catCol", state.catCol)
	state.noBGValue = prefs.StringWithFallback("noBGValue", state.noBGValue)
	state.markerCol = prefs.StringWithFallback("markerCol", state.markerCol)
	state.markerValue = prefs.StringWithFallback("markerValue", state.markerValue)
	state.showSeriesLegend = prefs.BoolWithFallback("seriesLegend", state.showSeriesLegend)
	state.showCatLegend = prefs.BoolWithFallback("catLegend", state.showCatLegend)
	if prefs.BoolWithFallback("compactMode", false) {
		toggleCompact(state)
	}
	if state.tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(state.tabs.Items) {
			state.tabs.SelectIndex(idx)
		}
	}
}

// utils
func baseName(p string) string {
	if p == "" {
		return "untitled"
	}
	return filepath.Base(p)
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
