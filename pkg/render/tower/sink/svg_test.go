package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/boxtower/pkg/render/tower"
	"github.com/matzehuels/boxtower/pkg/render/tower/styles"
)

func sampleTower() tower.Tower {
	return tower.Tower{Seed: 42, Blocks: []tower.Block{
		{NodeID: "( root )", Left: 10, Right: 310, Top: 0, Bottom: 50, Style: "base"},
		{NodeID: "a", Left: 12, Right: 155, Top: -50, Bottom: 0, Style: "red", Label: `first\second`},
		{NodeID: "b", Left: 175, Right: 306, Top: -50, Bottom: 0, Style: "box-generic", Label: "<b>"},
	}}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleTower()))

	for _, want := range []string{
		`viewBox="5 -55 310 110"`,
		`rect.red`,
		`class="red"`,
		`class="base"`,
		`height="49"`,
		`<tspan x="16" dy="20">first</tspan><tspan x="16" dy="20">second</tspan>`,
		`&lt;b&gt;`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Count(svg, "<rect") != 3 {
		t.Errorf("rect count = %d, want 3", strings.Count(svg, "<rect"))
	}
	if strings.Count(svg, "<text") != 2 {
		t.Errorf("text count = %d, want 2 (the ground is unlabelled)", strings.Count(svg, "<text"))
	}
	if !strings.Contains(svg, `id="tower-ground"`) || strings.Contains(svg, "( root )") {
		t.Error("ground should carry a fixed id and no label")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
	if strings.LastIndex(svg, "<rect") > strings.Index(svg, "<text") {
		t.Error("text drawn before all boxes")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	css := "rect.red { fill: black; } </style><script>"
	svg := string(RenderSVG(sampleTower(),
		WithStyle(styles.Plain{}),
		WithCSS(css),
		WithTitle("deps & more"),
	))

	if strings.Contains(svg, "hsl(0, 100%") {
		t.Error("plain style should not use the classic palette")
	}
	if !strings.Contains(svg, "rect.red { fill: black; }") {
		t.Error("user CSS missing")
	}
	if strings.Count(svg, "</style>") != 1 {
		t.Error("user CSS closed the style element")
	}
	builtin := strings.Index(svg, "rect.base")
	user := strings.Index(svg, "rect.red { fill: black; }")
	if builtin < 0 || user < builtin {
		t.Error("user CSS should follow the built-in rules")
	}
	if !strings.Contains(svg, "<title>deps &amp; more</title>") {
		t.Error("title missing or unescaped")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(tower.Tower{}))
	if !strings.Contains(svg, `viewBox="-5 -5 10 10"`) {
		t.Errorf("empty tower view box wrong: %s", svg)
	}
}

func TestRenderSVGGroundOnly(t *testing.T) {
	tw := tower.Tower{Blocks: []tower.Block{
		{NodeID: "( root )", Left: 10, Right: 150, Top: 0, Bottom: 50, Style: "base"},
	}}
	for _, style := range []styles.Style{styles.Classic{}, styles.Plain{}} {
		t.Run(style.Name(), func(t *testing.T) {
			svg := string(RenderSVG(tw, WithStyle(style)))
			if strings.Count(svg, "<rect") != 1 {
				t.Errorf("rect count = %d, want 1", strings.Count(svg, "<rect"))
			}
			if strings.Contains(svg, "<text") || strings.Contains(svg, "<tspan") {
				t.Errorf("ground-only tower should have no text:\n%s", svg)
			}
			if !strings.Contains(svg, `id="tower-ground"`) {
				t.Errorf("ground id missing:\n%s", svg)
			}
		})
	}
}
