package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/GKD-RM-Lab/logplot/src/logparse"
	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

func mustVariant(t *testing.T, name string) *variant.Variant {
	t.Helper()
	v, err := variant.Lookup(name)
	if err != nil {
		t.Fatalf("variant %s: %v", name, err)
	}
	return v
}

// synthSet builds n aligned records for v.
func synthSet(t *testing.T, v *variant.Variant, n int) *series.Set {
	t.Helper()
	fields := v.FieldNames()
	st := series.NewStore(fields, v.Table())
	for i := 0; i < n; i++ {
		vals := make([]float64, len(fields))
		for j := range vals {
			vals[j] = float64(i%17) - float64(j)*3.5
		}
		if err := st.Append(logparse.NewRecord(fields, vals)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	set, err := st.Set()
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	return set
}

func TestBuildFigure_TriggerSinglePanel(t *testing.T) {
	v := mustVariant(t, "trigger")
	set := synthSet(t, v, 2)
	fig := BuildFigure(set, v, 100, "../log/trigger_log.txt")
	if len(fig.Panels) != 1 {
		t.Fatalf("trigger figure has %d panels want 1", len(fig.Panels))
	}
	ch := BuildChart(set, v, fig.Panels[0], Size{Width: 400, Height: 200, DPI: 96})
	names := map[string]bool{}
	for _, s := range ch.Series {
		names[s.GetName()] = true
	}
	if len(ch.Series) != 2 || !names["set"] || !names["trigger"] {
		t.Fatalf("panel series %v want set+trigger", names)
	}
}

func TestBuildFigure_DetailPanel(t *testing.T) {
	v := mustVariant(t, "fric_set")
	set := synthSet(t, v, 250)
	fig := BuildFigure(set, v, 100, "")
	if len(fig.Panels) != 2 {
		t.Fatalf("fric_set figure has %d panels", len(fig.Panels))
	}
	if fig.Panels[0].From != 0 || fig.Panels[0].To != 250 {
		t.Fatalf("overview range [%d,%d)", fig.Panels[0].From, fig.Panels[0].To)
	}
	if fig.Panels[1].From != 0 || fig.Panels[1].To != 100 {
		t.Fatalf("detail range [%d,%d)", fig.Panels[1].From, fig.Panels[1].To)
	}

	short := synthSet(t, v, 40)
	fig = BuildFigure(short, v, 100, "")
	if fig.Panels[1].To != 40 {
		t.Fatalf("detail of short series ends at %d want 40", fig.Panels[1].To)
	}
}

func TestViewerFigure_HighlightMatchesWindow(t *testing.T) {
	v := mustVariant(t, "fric")
	set := synthSet(t, v, 500)
	w := NewWindow(set.Len(), 100).Apply(320)
	fig := ViewerFigure(v, w, "fric_log.txt")
	over, detail := fig.Panels[0], fig.Panels[1]
	if over.Highlight == nil || over.Highlight.From != 320 || over.Highlight.To != 420 {
		t.Fatalf("highlight %+v want [320,420)", over.Highlight)
	}
	if detail.From != 320 || detail.To != 420 {
		t.Fatalf("detail [%d,%d) want [320,420)", detail.From, detail.To)
	}
	ch := BuildChart(set, v, over, Size{Width: 600, Height: 200, DPI: 96})
	if len(ch.Series) != len(v.Fields) || len(ch.Elements) != 2 {
		t.Fatalf("overview has %d series and %d elements", len(ch.Series), len(ch.Elements))
	}
	dch := BuildChart(set, v, detail, Size{Width: 600, Height: 300, DPI: 96})
	left := dch.Series[0].(chart.ContinuousSeries)
	if len(left.XValues) != 100 || left.XValues[0] != 320 || left.XValues[99] != 419 {
		t.Fatalf("detail x [%v..%v] len %d", left.XValues[0], left.XValues[len(left.XValues)-1], len(left.XValues))
	}
}

func TestViewerFigure_ShortSeries(t *testing.T) {
	v := mustVariant(t, "fric")
	w := NewWindow(50, 100).Apply(30)
	fig := ViewerFigure(v, w, "")
	if d := fig.Panels[1]; d.From != 0 || d.To != 50 {
		t.Fatalf("detail [%d,%d) want [0,50)", d.From, d.To)
	}
}

func TestPanelHeights(t *testing.T) {
	f := Figure{Panels: make([]Panel, 2), Weights: []float64{1, 2}}
	h := f.PanelHeights(300)
	if h[0] != 100 || h[1] != 200 {
		t.Fatalf("heights %v", h)
	}
	f = Figure{Panels: make([]Panel, 3)}
	h = f.PanelHeights(100)
	if h[0]+h[1]+h[2] != 100 {
		t.Fatalf("heights %v do not sum to total", h)
	}
}

func TestRasterize(t *testing.T) {
	v := mustVariant(t, "fric")
	set := synthSet(t, v, 120)
	fig := ViewerFigure(v, NewWindow(set.Len(), 100), "")
	img, err := fig.Rasterize(set, v, Size{Width: 800, Height: 600, DPI: 72})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("image %dx%d want 800x600", b.Dx(), b.Dy())
	}
}

func TestRenderPanel_SingleSample(t *testing.T) {
	v := mustVariant(t, "trigger")
	set := synthSet(t, v, 1)
	if _, err := RenderPanel(set, v, Panel{Title: "one", From: 0, To: 1}, Size{Width: 600, Height: 300, DPI: 72}); err != nil {
		t.Fatalf("single sample render: %v", err)
	}
}

func TestCropToContent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 40))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	img.Set(10, 12, color.Black)
	img.Set(20, 15, color.Black)
	out := CropToContent(img, color.White, 2)
	if b := out.Bounds(); b.Dx() != 15 || b.Dy() != 8 {
		t.Fatalf("cropped %dx%d want 15x8", b.Dx(), b.Dy())
	}
	blank := Blank(10, 10)
	if got := CropToContent(blank, color.White, 1); got.Bounds() != blank.Bounds() {
		t.Fatalf("all-background image should be returned unchanged")
	}
}

func TestStack(t *testing.T) {
	out := Stack(Blank(30, 10), Blank(20, 5))
	if b := out.Bounds(); b.Dx() != 30 || b.Dy() != 15 {
		t.Fatalf("stack %dx%d", b.Dx(), b.Dy())
	}
}

func TestDrawCaption(t *testing.T) {
	img := Blank(200, 40)
	out := DrawCaption(img, "window [0, 50) of 50 samples")
	if out == img {
		t.Fatalf("caption should produce a new image")
	}
	if DrawCaption(img, "  ") != img {
		t.Fatalf("empty caption should be a no-op")
	}
}

func TestHighlightBox_FullHeight(t *testing.T) {
	canvas := chart.Box{Top: 40, Left: 20, Right: 520, Bottom: 260}
	b := highlightBox(canvas, 0, 500, Span{From: 200, To: 300})
	if b.Top != 40 || b.Bottom != 260 {
		t.Fatalf("box rows [%d,%d] want [40,260]", b.Top, b.Bottom)
	}
	if b.Left != 220 || b.Right != 320 {
		t.Fatalf("box cols [%d,%d] want [220,320]", b.Left, b.Right)
	}
	clipped := highlightBox(canvas, 0, 500, Span{From: 450, To: 900})
	if clipped.Right != canvas.Right {
		t.Fatalf("box should be clipped to the canvas, right=%d", clipped.Right)
	}
}

// isTint reports pixels of the window shade over a white background.
func isTint(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	r, g, b = r>>8, g>>8, b>>8
	return r == g && g == b && r >= 213 && r <= 219
}

// tintedRows counts shaded pixels per column.
func tintedRows(img image.Image) []int {
	bnds := img.Bounds()
	out := make([]int, bnds.Dx())
	for x := bnds.Min.X; x < bnds.Max.X; x++ {
		for y := bnds.Min.Y; y < bnds.Max.Y; y++ {
			if isTint(img.At(x, y)) {
				out[x-bnds.Min.X]++
			}
		}
	}
	return out
}

func TestViewerFigure_HighlightCoversPlotHeight(t *testing.T) {
	v := mustVariant(t, "trigger")
	cases := []struct {
		name      string
		set, trig func(i int) float64
	}{
		{"negative", func(i int) float64 { return -50 - float64(i%13) }, func(i int) float64 { return -30 - float64(i%7) }},
		{"positive", func(i int) float64 { return 50 + float64(i%13) }, func(i int) float64 { return 30 + float64(i%7) }},
		{"mixed", func(i int) float64 { return float64(i%21) - 10 }, func(i int) float64 { return float64(i%9) - 6 }},
	}
	const width, height = 1000, 300
	for _, c := range cases {
		fields := v.FieldNames()
		st := series.NewStore(fields, v.Table())
		for i := 0; i < 500; i++ {
			if err := st.Append(logparse.NewRecord(fields, []float64{c.set(i), c.trig(i)})); err != nil {
				t.Fatalf("%s: append: %v", c.name, err)
			}
		}
		set, err := st.Set()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		w := NewWindow(set.Len(), 100).Apply(200)
		over := ViewerFigure(v, w, "trigger_log.txt").Panels[0]
		img, err := RenderPanel(set, v, over, Size{Width: width, Height: height, DPI: 96})
		if err != nil {
			t.Fatalf("%s: render: %v", c.name, err)
		}
		counts := tintedRows(img)
		first, last := -1, -1
		for x, n := range counts {
			if n >= height/2 {
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first < 0 {
			t.Fatalf("%s: no column is shaded over the plot height", c.name)
		}
		for x := first; x <= last; x++ {
			if counts[x] < height/2 {
				t.Fatalf("%s: shaded band has a gap at column %d (%d rows)", c.name, x, counts[x])
			}
		}
		// [200,300) of 500 samples is a fifth of the plot width
		if band := last - first + 1; band < width*15/100 || band > width*21/100 {
			t.Fatalf("%s: shaded band is %d px wide", c.name, band)
		}
		if mid := (first + last) / 2; mid < width*35/100 || mid > width*60/100 {
			t.Fatalf("%s: shaded band centered at %d", c.name, mid)
		}
		for x, n := range counts {
			if (x < first-2 || x > last+2) && n > height/4 {
				t.Fatalf("%s: column %d outside the window has %d shaded rows", c.name, x, n)
			}
		}
	}
}
