package styles

import (
	"bytes"
	"fmt"
)

const (
	lineAdvance = 20
	textIndent  = 4
)

// Classic draws pastel rounded boxes with serif labels. Style tags red,
// yellow, green, blue, purple and pink pick a hue; base is used for the
// ground.
type Classic struct{}

const classicCSS = `
    rect { stroke: hsl(0, 100%, 80%); fill: hsl(0, 100%, 90%); }
    rect.red { stroke: hsl(0, 100%, 80%); fill: hsl(0, 100%, 90%); }
    rect.yellow { stroke: hsl(60, 100%, 80%); fill: hsl(60, 100%, 90%); }
    rect.green { stroke: hsl(120, 100%, 80%); fill: hsl(120, 100%, 90%); }
    rect.blue { stroke: hsl(180, 100%, 80%); fill: hsl(180, 100%, 90%); }
    rect.purple { stroke: hsl(240, 100%, 80%); fill: hsl(240, 100%, 90%); }
    rect.pink { stroke: hsl(300, 100%, 80%); fill: hsl(300, 100%, 90%); }
    rect.base { stroke: hsl(60, 100%, 80%); fill: hsl(60, 100%, 90%); }
    text { font-family: Garamond, sans-serif; font-size: 14pt; }`

func (Classic) Name() string { return "classic" }
func (Classic) CSS() string  { return classicCSS }

// RenderBlock leaves a one unit gap under the box so stacked boxes do not
// share a border.
func (Classic) RenderBlock(buf *bytes.Buffer, b Block) {
	fmt.Fprintf(buf, `  <rect id="%s" fill="white" stroke="gray" x="%.0f" y="%.0f" width="%.0f" height="%.0f" rx="4" ry="4" class="%s"/>`+"\n",
		ElementID(b), b.X, b.Y, b.W, max(0, b.H-1), EscapeXML(b.Class))
}

func (Classic) RenderText(buf *bytes.Buffer, b Block) {
	writeLines(buf, b, b.X+textIndent, b.Y)
}

func writeLines(buf *bytes.Buffer, b Block, x, y float64) {
	if len(b.Lines) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <text x="%.0f" y="%.0f" class="%s">`, x, y, EscapeXML(b.Class))
	for _, line := range b.Lines {
		fmt.Fprintf(buf, `<tspan x="%.0f" dy="%d">%s</tspan>`, x, lineAdvance, EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}
