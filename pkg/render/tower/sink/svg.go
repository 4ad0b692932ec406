package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/boxtower/pkg/dag"
	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/styles"
)

// viewPad is the margin around the outermost blocks.
const viewPad = 5

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style styles.Style
	css   string
	title string
}

// WithStyle selects the built-in look. The default is [styles.Classic].
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithCSS appends user rules after the style's built-in rules, so they win
// on equal specificity.
func WithCSS(css string) SVGOption { return func(r *svgRenderer) { r.css = css } }

// WithTitle adds a <title> element, shown as a tooltip by most viewers.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws a tower. All boxes are drawn before any text so labels
// are never hidden behind a neighbor.
func RenderSVG(t tower.Tower, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	blocks := buildBlocks(t)

	minX, minY, maxX, maxY := t.Bounds()
	minX, minY = minX-viewPad, minY-viewPad
	w, h := maxX-minX+viewPad, maxY-minY+viewPad

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.0f %.0f %.0f %.0f">`+"\n", minX, minY, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	renderStyleSheet(&buf, r)
	for _, b := range blocks {
		r.style.RenderBlock(&buf, b)
	}
	for _, b := range blocks {
		r.style.RenderText(&buf, b)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Classic{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderStyleSheet writes user CSS verbatim apart from closing-tag
// sequences, which would end the element early.
func renderStyleSheet(buf *bytes.Buffer, r svgRenderer) {
	buf.WriteString("  <style>")
	buf.WriteString(r.style.CSS())
	if css := strings.TrimSpace(r.css); css != "" {
		buf.WriteString("\n    ")
		buf.WriteString(strings.ReplaceAll(css, "</", `<\/`))
	}
	buf.WriteString("\n  </style>\n")
}

func buildBlocks(t tower.Tower) []styles.Block {
	blocks := make([]styles.Block, 0, len(t.Blocks))
	for _, b := range t.Blocks {
		blocks = append(blocks, styles.Block{
			ID:     b.NodeID,
			Ground: b.NodeID == dag.Ground,
			Class:  b.Style,
			Lines:  b.Lines(),
			X:      b.Left,
			Y:      b.Top,
			W:      b.Width(),
			H:      b.Height(),
		})
	}
	return blocks
}
