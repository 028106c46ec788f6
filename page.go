package urlpdf

import (
	"fmt"
	"strings"
)

// PageSize represents paper dimensions in centimeters.
type PageSize struct {
	Width  float64 // Width in centimeters.
	Height float64 // Height in centimeters.
}

// Standard paper sizes.
var (
	A4     = PageSize{Width: 21.0, Height: 29.7}
	Letter = PageSize{Width: 21.59, Height: 27.94}
	Legal  = PageSize{Width: 21.59, Height: 35.56}
)

// ParsePageSize returns the standard paper size called name ("a4",
// "letter" or "legal", case-insensitive).
func ParsePageSize(name string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a4":
		return A4, nil
	case "letter":
		return Letter, nil
	case "legal":
		return Legal, nil
	}
	return PageSize{}, fmt.Errorf("urlpdf: unknown paper size %q", name)
}

// Margin represents page margins in centimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(cm float64) Margin {
	return Margin{Top: cm, Right: cm, Bottom: cm, Left: cm}
}

// PrintOptions are the parameters sent with Page.printToPDF.
//
// The paper size and margins only apply when the page declares no CSS
// @page size, since PreferCSSPageSize is on by default.
type PrintOptions struct {
	Landscape           bool
	DisplayHeaderFooter bool
	PrintBackground     bool
	PreferCSSPageSize   bool

	// Fallback paper size. Defaults to Letter, Chrome's own default.
	Size PageSize

	// Fallback margins. Defaults to 1 cm on all sides.
	Margin Margin

	// Scale of the webpage rendering, between 0.1 and 2.0. Defaults to 1.0.
	Scale float64
}

// DefaultPrintOptions returns portrait output without header or footer,
// with background graphics and the page's own CSS page size.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		Size:              Letter,
		Margin:            UniformMargin(1.0),
		Scale:             1.0,
	}
}

// resolved fills zero geometry fields with defaults. Boolean flags are
// taken as given.
func (p PrintOptions) resolved() PrintOptions {
	d := DefaultPrintOptions()
	if p.Size == (PageSize{}) {
		p.Size = d.Size
	}
	if p.Margin == (Margin{}) {
		p.Margin = d.Margin
	}
	if p.Scale <= 0 {
		p.Scale = d.Scale
	}
	return p
}

// cmToInches converts centimeters to inches.
func cmToInches(cm float64) float64 {
	return cm / 2.54
}

// paperInches returns the fallback paper width and height in inches,
// accounting for orientation.
func (p PrintOptions) paperInches() (width, height float64) {
	r := p.resolved()
	w := cmToInches(r.Size.Width)
	h := cmToInches(r.Size.Height)
	if r.Landscape {
		return h, w
	}
	return w, h
}

// marginInches returns margins converted to inches.
func (p PrintOptions) marginInches() (top, right, bottom, left float64) {
	r := p.resolved()
	return cmToInches(r.Margin.Top),
		cmToInches(r.Margin.Right),
		cmToInches(r.Margin.Bottom),
		cmToInches(r.Margin.Left)
}

// Viewport is the emulated window size used while rendering.
type Viewport struct {
	Width  int64
	Height int64
}

// DefaultViewport is the fixed rendering size that makes print layout
// independent of the host display.
var DefaultViewport = Viewport{Width: 1920, Height: 1080}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// ParseViewport parses a "WIDTHxHEIGHT" string such as "1920x1080".
func ParseViewport(s string) (Viewport, error) {
	var v Viewport
	if _, err := fmt.Sscanf(s, "%dx%d", &v.Width, &v.Height); err != nil {
		return Viewport{}, fmt.Errorf("urlpdf: invalid viewport %q: %w", s, err)
	}
	if v.Width <= 0 || v.Height <= 0 {
		return Viewport{}, fmt.Errorf("urlpdf: invalid viewport %q: dimensions must be positive", s)
	}
	return v, nil
}
