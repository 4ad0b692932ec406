package sink

import (
	"context"

	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/render/tower"
)

// PNG and PDF output rasterize the SVG document with rsvg-convert (package
// librsvg2-bin on Debian, librsvg on Homebrew).

// PNGOption configures [RenderPNG].
type PNGOption func(*pngConfig)

type pngConfig struct {
	svg  []SVGOption
	zoom float64
}

// WithPNGSVGOptions sets the options of the SVG that gets rasterized.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(c *pngConfig) { c.svg = opts }
}

// WithScale sets the zoom factor. One drawing unit becomes zoom pixels.
func WithScale(zoom float64) PNGOption {
	return func(c *pngConfig) { c.zoom = zoom }
}

// RenderPNG draws t as a PNG image, at 2x zoom unless [WithScale] says
// otherwise.
func RenderPNG(ctx context.Context, t tower.Tower, opts ...PNGOption) ([]byte, error) {
	c := pngConfig{zoom: 2}
	for _, o := range opts {
		o(&c)
	}
	return render.ToPNG(ctx, RenderSVG(t, c.svg...), c.zoom)
}

// PDFOption configures [RenderPDF].
type PDFOption func(*pdfConfig)

type pdfConfig struct {
	svg []SVGOption
}

// WithPDFSVGOptions sets the options of the SVG that gets converted.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(c *pdfConfig) { c.svg = opts }
}

// RenderPDF draws t as a single page PDF.
func RenderPDF(ctx context.Context, t tower.Tower, opts ...PDFOption) ([]byte, error) {
	var c pdfConfig
	for _, o := range opts {
		o(&c)
	}
	return render.ToPDF(ctx, RenderSVG(t, c.svg...))
}
