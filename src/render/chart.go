// Package render draws series sets as line charts: static figures written to PNG files and the
// overview/detail pair used by the interactive viewers.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

// screenDPI is the resolution chart strokes and paddings are designed for.
const screenDPI = 96.0

var (
	highlightColor = drawing.ColorFromHex("808080").WithAlpha(77)
	gridColor      = drawing.ColorFromHex("dddddd")
	background     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Span is a shaded index range [From, To) on a panel.
type Span struct {
	From, To int
}

// Panel is one chart of a figure: every variant field over [From, To).
type Panel struct {
	Title     string
	From, To  int
	Highlight *Span
	XLabel    string
	YLabel    string
	// Alpha dims the series strokes (overview panels), 0 means opaque.
	Alpha uint8
}

// Size is a raster size in pixels plus the DPI used to scale fonts and strokes.
type Size struct {
	Width  int
	Height int
	DPI    float64
}

func (s Size) scale() float64 {
	if s.DPI <= 0 {
		return 1
	}
	return s.DPI / screenDPI
}

// BuildChart turns a panel into a go-chart definition.
func BuildChart(set *series.Set, v *variant.Variant, p Panel, sz Size) chart.Chart {
	from, to := p.From, p.To
	if from < 0 {
		from = 0
	}
	if to > set.Len() {
		to = set.Len()
	}
	if to <= from {
		to = from + 1
	}
	sc := sz.scale()

	lo, hi, ok := set.Bounds(from, to)
	if !ok {
		lo, hi = 0, 1
	}
	yMin, yMax := NiceAxisBounds(lo, hi)
	var yTicks []chart.Tick
	for _, t := range BuildNumericTicks(yMin, yMax, 6) {
		if t >= yMin && t <= yMax {
			yTicks = append(yTicks, chart.Tick{Value: t, Label: FormatNumericTick(t)})
		}
	}
	xMin, xMax := float64(from), float64(to)
	var xTicks []chart.Tick
	for _, t := range IndexTicks(xMin, xMax, 8) {
		xTicks = append(xTicks, chart.Tick{Value: t, Label: fmt.Sprintf("%.0f", t)})
	}

	var ss []chart.Series
	for _, f := range v.Fields {
		ys := set.Window(f.Name, from, to)
		xs := make([]float64, len(ys))
		for i := range xs {
			xs[i] = float64(from + i)
		}
		col := drawing.ColorFromHex(f.Color)
		if p.Alpha > 0 {
			col = col.WithAlpha(p.Alpha)
		}
		st := chart.Style{StrokeColor: col, StrokeWidth: 1.5 * sc}
		if len(ys) == 1 {
			// a lone sample has no segment to stroke
			st.DotColor = col
			st.DotWidth = 3 * sc
		}
		ss = append(ss, chart.ContinuousSeries{Name: f.Label, XValues: xs, YValues: ys, Style: st})
	}

	pad := func(v float64) int { return int(v * sc) }
	ch := chart.Chart{
		Title:      p.Title,
		Width:      sz.Width,
		Height:     sz.Height,
		DPI:        sz.DPI,
		Background: chart.Style{FillColor: drawing.ColorWhite, Padding: chart.Box{Top: pad(24), Left: pad(16), Right: pad(16), Bottom: pad(12)}},
		XAxis: chart.XAxis{
			Name:           p.XLabel,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:          xTicks,
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: sc},
		},
		YAxis: chart.YAxis{
			Name:           p.YLabel,
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks:          yTicks,
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: sc},
		},
		Series: ss,
	}
	if p.Highlight != nil {
		ch.Elements = append(ch.Elements, highlightElement(xMin, xMax, *p.Highlight))
	}
	ch.Elements = append(ch.Elements, chart.Legend(&ch))
	return ch
}

// highlightElement shades the full plot height over the index span.
func highlightElement(xMin, xMax float64, span Span) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		box := highlightBox(canvasBox, xMin, xMax, span)
		if box.Right <= box.Left {
			return
		}
		chart.Draw.Box(r, box, chart.Style{FillColor: highlightColor, StrokeColor: drawing.ColorTransparent, StrokeWidth: 0})
	}
}

// highlightBox maps [span.From, span.To) onto canvas pixels the way a continuous x range translates
// values, clipped to the canvas.
func highlightBox(canvasBox chart.Box, xMin, xMax float64, span Span) chart.Box {
	a, b := span.From, span.To
	if b <= a {
		b = a + 1
	}
	delta := xMax - xMin
	if delta <= 0 {
		delta = 1
	}
	toPx := func(x float64) int {
		px := canvasBox.Left + int(math.Ceil((x-xMin)/delta*float64(canvasBox.Width())))
		if px < canvasBox.Left {
			return canvasBox.Left
		}
		if px > canvasBox.Right {
			return canvasBox.Right
		}
		return px
	}
	return chart.Box{Top: canvasBox.Top, Bottom: canvasBox.Bottom, Left: toPx(float64(a)), Right: toPx(float64(b))}
}

// RenderPanel rasterizes a panel.
func RenderPanel(set *series.Set, v *variant.Variant, p Panel, sz Size) (image.Image, error) {
	ch := BuildChart(set, v, p, sz)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", p.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", p.Title, err)
	}
	return img, nil
}

// Blank returns a plain background image, used when a chart cannot be drawn.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, background)
		}
	}
	return img
}
