package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

// Figure is an ordered, vertically stacked list of panels.
type Figure struct {
	Panels []Panel
	// Weights are relative panel heights; nil means equal.
	Weights []float64
}

// BuildFigure lays out the static figure for a variant: the full-range overview and, when the variant
// declares it, a detail panel over the first windowSize samples.
func BuildFigure(set *series.Set, v *variant.Variant, windowSize int, logPath string) Figure {
	n := set.Len()
	over := Panel{
		Title:  v.OverviewTitle(logPath),
		From:   0,
		To:     n,
		XLabel: "Sample index",
		YLabel: "Value",
	}
	if !v.Detail {
		return Figure{Panels: []Panel{over}}
	}
	over.XLabel, over.YLabel = "", ""
	over.Alpha = 153
	w := NewWindow(n, windowSize)
	detail := Panel{
		Title:  fmt.Sprintf("Detail of First %d Samples", windowSize),
		From:   0,
		To:     w.End(),
		XLabel: "Sample index",
		YLabel: "Value",
	}
	return Figure{Panels: []Panel{over, detail}}
}

// ViewerFigure is the interactive layout: overview with the window shaded (one third of the
// height) above the zoomed detail (two thirds).
func ViewerFigure(v *variant.Variant, w Window, logPath string) Figure {
	over := Panel{
		Title:     v.OverviewTitle(logPath),
		From:      0,
		To:        w.Total,
		Highlight: &Span{From: w.Start, To: w.End()},
		Alpha:     153,
	}
	detail := Panel{
		Title:  "Zoomed Detail",
		From:   w.Start,
		To:     w.End(),
		XLabel: "Sample index",
		YLabel: "Value",
	}
	return Figure{Panels: []Panel{over, detail}, Weights: []float64{1, 2}}
}

// PanelHeights splits total height across the figure's panels by weight.
func (f Figure) PanelHeights(total int) []int {
	out := make([]int, len(f.Panels))
	if len(f.Panels) == 0 {
		return out
	}
	weights := f.Weights
	if len(weights) != len(f.Panels) {
		weights = make([]float64, len(f.Panels))
		for i := range weights {
			weights[i] = 1
		}
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	used := 0
	for i, w := range weights {
		if i == len(weights)-1 {
			out[i] = total - used
			break
		}
		out[i] = int(float64(total) * w / sum)
		used += out[i]
	}
	return out
}

// Rasterize renders every panel at the given page size and stacks them top to bottom.
func (f Figure) Rasterize(set *series.Set, v *variant.Variant, page Size) (image.Image, error) {
	imgs, err := f.RasterizePanels(set, v, page)
	if err != nil {
		return nil, err
	}
	return Stack(imgs...), nil
}

// RasterizePanels renders each panel separately; the viewers place them in their own layout.
func (f Figure) RasterizePanels(set *series.Set, v *variant.Variant, page Size) ([]image.Image, error) {
	heights := f.PanelHeights(page.Height)
	imgs := make([]image.Image, 0, len(f.Panels))
	for i, p := range f.Panels {
		img, err := RenderPanel(set, v, p, Size{Width: page.Width, Height: heights[i], DPI: page.DPI})
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

// Stack places images top to bottom on a white page as wide as the widest one.
func Stack(imgs ...image.Image) image.Image {
	w, h := 0, 0
	for _, img := range imgs {
		b := img.Bounds()
		if b.Dx() > w {
			w = b.Dx()
		}
		h += b.Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	y := 0
	for _, img := range imgs {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}
	return out
}

// CropToContent trims rows and columns that only hold bg, leaving pad pixels of margin.
func CropToContent(img image.Image, bg color.Color, pad int) image.Image {
	b := img.Bounds()
	br, bgc, bb, ba := bg.RGBA()
	isBG := func(x, y int) bool {
		r, g, bl, a := img.At(x, y).RGBA()
		return r == br && g == bgc && bl == bb && a == ba
	}
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isBG(x, y) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return img
	}
	r := image.Rect(minX-pad, minY-pad, maxX+1+pad, maxY+1+pad).Intersect(b)
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
