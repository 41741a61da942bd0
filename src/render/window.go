package render

import "fmt"

// Window is the detail view's half-open index range [Start, Start+Size) over Total samples.
// Values are only ever produced by NewWindow and Apply, so Start always lies in [0, MaxIndex()].
type Window struct {
	Start int
	Size  int
	Total int
}

// NewWindow starts at index 0. A size below one is treated as one.
func NewWindow(total, size int) Window {
	if size < 1 {
		size = 1
	}
	if total < 0 {
		total = 0
	}
	return Window{Start: 0, Size: size, Total: total}
}

// MaxIndex is the largest valid Start.
func (w Window) MaxIndex() int {
	if m := w.Total - w.Size; m > 0 {
		return m
	}
	return 0
}

// End is the exclusive end of the visible range.
func (w Window) End() int {
	if e := w.Start + w.Size; e < w.Total {
		return e
	}
	return w.Total
}

// Apply moves the window origin to v, clamped to [0, MaxIndex]. Applying the same v twice yields
// the same state.
func (w Window) Apply(v int) Window {
	if v < 0 {
		v = 0
	}
	if m := w.MaxIndex(); v > m {
		v = m
	}
	w.Start = v
	return w
}

// Step moves the origin by delta samples.
func (w Window) Step(delta int) Window { return w.Apply(w.Start + delta) }

// Fixed reports whether the position control has a single position.
func (w Window) Fixed() bool { return w.MaxIndex() == 0 }

// Caption describes the visible range, e.g. "samples 100-199 of 523".
func (w Window) Caption() string {
	if w.Total == 0 {
		return "no samples"
	}
	return fmt.Sprintf("samples %d-%d of %d", w.Start, w.End()-1, w.Total)
}
