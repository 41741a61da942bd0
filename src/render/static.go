package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/GKD-RM-Lab/logplot/src/logging"
	"github.com/GKD-RM-Lab/logplot/src/series"
	"github.com/GKD-RM-Lab/logplot/src/variant"
)

// TimestampLayout is the timestamp embedded in output names.
const TimestampLayout = "20060102_150405"

// Options configure the static renderer.
type Options struct {
	OutputDir    string
	DPI          int
	WidthInches  float64
	HeightInches float64
	WindowSize   int
	// LogPath is shown in titles that reference the source log.
	LogPath string
	// Now is the clock used for file names; nil means time.Now.
	Now func() time.Time
}

// Renderer writes static figures to PNG files.
type Renderer struct {
	opts Options
}

// NewRenderer fills unset options with defaults.
func NewRenderer(opts Options) *Renderer {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	if opts.WidthInches <= 0 {
		opts.WidthInches = 10
	}
	if opts.HeightInches <= 0 {
		opts.HeightInches = 7
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = 100
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Renderer{opts: opts}
}

// PageSize is the pixel size of the figure before cropping.
func (r *Renderer) PageSize(f Figure) Size {
	h := r.opts.HeightInches
	if len(f.Panels) == 1 {
		// one-panel figures keep a 10x5 aspect inside the 10x7 page
		h = h * 5 / 7
	}
	dpi := float64(r.opts.DPI)
	return Size{Width: int(r.opts.WidthInches * dpi), Height: int(h * dpi), DPI: dpi}
}

// Image renders the figure for set without writing it.
func (r *Renderer) Image(set *series.Set, v *variant.Variant) (image.Image, error) {
	fig := BuildFigure(set, v, r.opts.WindowSize, r.opts.LogPath)
	img, err := fig.Rasterize(set, v, r.PageSize(fig))
	if err != nil {
		return nil, err
	}
	// 0.1in margin around the drawn content
	return CropToContent(img, background, r.opts.DPI/10), nil
}

// Render draws set and writes <prefix>_plot_<timestamp>.png into the output directory. It never
// overwrites an existing file; a numeric suffix is added instead. Returns the written path.
func (r *Renderer) Render(set *series.Set, v *variant.Variant) (string, error) {
	start := time.Now()
	defer logging.TimeTrack(start, "static render")
	img, err := r.Image(set, v)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, path, err := r.create(v.Prefix)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("png encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	logging.Debugf("wrote %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return path, nil
}

// OutputName is the base file name for prefix at t, with an optional collision suffix.
func OutputName(prefix string, t time.Time, attempt int) string {
	name := fmt.Sprintf("%s_plot_%s", prefix, t.Format(TimestampLayout))
	if attempt > 0 {
		name = fmt.Sprintf("%s_%d", name, attempt)
	}
	return name + ".png"
}

func (r *Renderer) create(prefix string) (*os.File, string, error) {
	now := r.opts.Now()
	for attempt := 0; attempt < 1000; attempt++ {
		path := filepath.Join(r.opts.OutputDir, OutputName(prefix, now, attempt))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G304 -- path built from configured output dir
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("no free output name for prefix %q", prefix)
}
