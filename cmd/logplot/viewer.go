package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/GKD-RM-Lab/logplot/src/logging"
	"github.com/GKD-RM-Lab/logplot/src/render"
)

// viewerState is the desktop viewer's UI state; win is the only mutable model value.
type viewerState struct {
	app    fyne.App
	window fyne.Window
	data   *dataset
	win    render.Window

	overviewCanvas *canvas.Image
	detailCanvas   *canvas.Image
	slider         *widget.Slider
	posLabel       *widget.Label
}

// runViewer opens the overview/detail window and blocks until it is closed.
func runViewer(data *dataset) error {
	a := app.NewWithID("io.github.gkd-rm-lab.logplot")
	w := a.NewWindow(fmt.Sprintf("logplot - %s", data.logPath))
	w.Resize(fyne.NewSize(1100, 800))

	state := &viewerState{
		app:    a,
		window: w,
		data:   data,
		win:    render.NewWindow(data.set.Len(), data.cfg.WindowSize),
	}

	state.overviewCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.overviewCanvas.FillMode = canvas.ImageFillContain
	state.detailCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.detailCanvas.FillMode = canvas.ImageFillContain
	state.posLabel = widget.NewLabel(state.win.Caption())
	state.slider = newPositionSlider(state.win)
	state.slider.OnChanged = func(v float64) { setPosition(state, int(math.Round(v))) }

	controls := container.NewBorder(nil, nil, widget.NewLabel("Position"), state.posLabel, state.slider)
	charts := container.NewVBox(state.overviewCanvas, state.detailCanvas)
	w.SetContent(container.NewBorder(nil, controls, nil, nil, container.NewVScroll(charts)))

	buildViewerMenus(state)
	bindViewerKeys(state)
	redrawViewer(state)

	// Redraw charts on window resize so they scale with the window
	prevW, prevH := 0, 0
	done := make(chan struct{})
	w.SetOnClosed(func() { close(done) })
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
				sz := c.Size()
				curW, curH := int(sz.Width), int(sz.Height)
				if curW != prevW || curH != prevH {
					prevW, prevH = curW, curH
					fyne.Do(func() { redrawViewer(state) })
				}
			}
		}
	}()

	w.ShowAndRun()
	return nil
}

// newPositionSlider covers [0, MaxIndex] in steps of one. A window that already shows every
// sample gets a disabled slider since fyne needs Max > Min.
func newPositionSlider(win render.Window) *widget.Slider {
	if win.Fixed() {
		s := widget.NewSlider(0, 1)
		s.Step = 1
		s.Disable()
		return s
	}
	s := widget.NewSlider(0, float64(win.MaxIndex()))
	s.Step = 1
	return s
}

// setPosition is the slider callback: clamp, then redraw.
func setPosition(state *viewerState, v int) {
	next := state.win.Apply(v)
	if next == state.win {
		return
	}
	state.win = next
	logging.Debugf("[viewer] window [%d,%d) of %d", next.Start, next.End(), next.Total)
	redrawViewer(state)
}

// stepPosition moves the window through the slider so control and charts stay in sync.
func stepPosition(state *viewerState, delta int) {
	next := state.win.Step(delta)
	if state.slider == nil || state.win.Fixed() {
		setPosition(state, next.Start)
		return
	}
	state.slider.SetValue(float64(next.Start))
}

func bindViewerKeys(state *viewerState) {
	canv := state.window.Canvas()
	if canv == nil {
		return
	}
	canv.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			stepPosition(state, -1)
		case fyne.KeyRight:
			stepPosition(state, 1)
		case fyne.KeyPageUp:
			stepPosition(state, -state.win.Size)
		case fyne.KeyPageDown:
			stepPosition(state, state.win.Size)
		case fyne.KeyHome:
			stepPosition(state, -state.win.Total)
		case fyne.KeyEnd:
			stepPosition(state, state.win.Total)
		}
	})
	canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
	canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
}

func buildViewerMenus(state *viewerState) {
	prefix := state.data.variant.Prefix
	exportOverview := fyne.NewMenuItem("Export Overview Chart…", func() {
		exportChartPNG(state, state.overviewCanvas, prefix+"_overview.png")
	})
	exportDetail := fyne.NewMenuItem("Export Detail Chart…", func() {
		exportChartPNG(state, state.detailCanvas, fmt.Sprintf("%s_detail_%d.png", prefix, state.win.Start))
	})
	fileMenu := fyne.NewMenu("File",
		exportOverview,
		exportDetail,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

// chartSize is the pixel size of the whole figure (overview plus detail).
func chartSize(state *viewerState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return 1100, 660
	}
	sz := state.window.Canvas().Size()
	// Use ~95% of the available width, minus a small margin for scrollbars/padding
	w := int(sz.Width*0.95) - 12
	if w < 640 {
		w = 640
	}
	// leave room for the menu and the position row
	h := int(sz.Height) - 110
	if h < 420 {
		h = 420
	}
	return w, h
}

// renderViewerImages draws the overview (window shaded) and the captioned detail chart.
func renderViewerImages(data *dataset, win render.Window, width, height int) (image.Image, image.Image, error) {
	fig := render.ViewerFigure(data.variant, win, data.logPath)
	imgs, err := fig.RasterizePanels(data.set, data.variant, render.Size{Width: width, Height: height, DPI: 96})
	if err != nil {
		return nil, nil, err
	}
	return imgs[0], render.DrawCaption(imgs[1], win.Caption()), nil
}

func redrawViewer(state *viewerState) {
	cw, ch := chartSize(state)
	over, detail, err := renderViewerImages(state.data, state.win, cw, ch)
	if err != nil {
		logging.Warnf("[viewer] render: %v", err)
		heights := render.ViewerFigure(state.data.variant, state.win, state.data.logPath).PanelHeights(ch)
		over, detail = render.Blank(cw, heights[0]), render.Blank(cw, heights[1])
	}
	setCanvasImage(state.overviewCanvas, over)
	setCanvasImage(state.detailCanvas, detail)
	if state.posLabel != nil {
		state.posLabel.SetText(state.win.Caption())
	}
}

func setCanvasImage(c *canvas.Image, img image.Image) {
	if c == nil || img == nil {
		return
	}
	c.Image = img
	b := img.Bounds()
	c.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	c.Refresh()
}

// export PNG
func exportChartPNG(state *viewerState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		logging.Infof("[viewer] exported %s", wc.URI().Path())
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}
