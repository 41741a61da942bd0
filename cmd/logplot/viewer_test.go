package main

import (
	"image"
	"testing"

	"fyne.io/fyne/v2/canvas"

	"github.com/GKD-RM-Lab/logplot/src/render"
)

func TestRenderViewerImages_Sizes(t *testing.T) {
	data := synthDataset(t, 300, 50)
	win := render.NewWindow(300, 50).Apply(120)
	over, detail, err := renderViewerImages(data, win, 600, 420)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if b := over.Bounds(); b.Dx() != 600 || b.Dy() != 140 {
		t.Fatalf("overview %v", b)
	}
	if b := detail.Bounds(); b.Dx() != 600 || b.Dy() != 280 {
		t.Fatalf("detail %v", b)
	}
}

func TestSetPosition_ClampsAndRedraws(t *testing.T) {
	data := synthDataset(t, 120, 40)
	blank := image.NewRGBA(image.Rect(0, 0, 10, 10))
	state := &viewerState{
		data:           data,
		win:            render.NewWindow(120, 40),
		overviewCanvas: canvas.NewImageFromImage(blank),
		detailCanvas:   canvas.NewImageFromImage(blank),
	}
	setPosition(state, 500)
	if state.win.Start != 80 || state.win.End() != 120 {
		t.Fatalf("window [%d,%d) want [80,120)", state.win.Start, state.win.End())
	}
	if state.detailCanvas.Image == image.Image(blank) {
		t.Fatalf("detail canvas not redrawn")
	}
	stepPosition(state, -1000)
	if state.win.Start != 0 {
		t.Fatalf("step left must clamp to 0, got %d", state.win.Start)
	}
}

func TestNewPositionSlider_Range(t *testing.T) {
	s := newPositionSlider(render.NewWindow(523, 100))
	if s.Min != 0 || s.Max != 423 || s.Step != 1 {
		t.Fatalf("slider [%v,%v] step %v", s.Min, s.Max, s.Step)
	}
}
