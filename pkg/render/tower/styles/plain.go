package styles

import (
	"bytes"
	"fmt"
)

// Plain draws black outlines on white with sans-serif labels and ignores
// style tags. It prints well in greyscale.
type Plain struct{}

const plainCSS = `
    rect { stroke: black; stroke-width: 1.5; fill: white; }
    rect.base { fill: #eee; }
    text { font-family: Helvetica, Arial, sans-serif; font-size: 12pt; }`

func (Plain) Name() string { return "plain" }
func (Plain) CSS() string  { return plainCSS }

func (Plain) RenderBlock(buf *bytes.Buffer, b Block) {
	fmt.Fprintf(buf, `  <rect id="%s" x="%.0f" y="%.0f" width="%.0f" height="%.0f" class="%s"/>`+"\n",
		ElementID(b), b.X, b.Y, b.W, max(0, b.H-1), EscapeXML(b.Class))
}

func (Plain) RenderText(buf *bytes.Buffer, b Block) {
	writeLines(buf, b, b.X+textIndent, b.Y)
}
