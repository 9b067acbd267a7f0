package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/consort/pkg/consort"
)

func testDiagram() *consort.Diagram {
	return &consort.Diagram{
		Width:  100,
		Height: 50,
		Primitives: []consort.Primitive{
			consort.Box{
				X: consort.Extent{Near: 10, Center: 20, Far: 30},
				Y: consort.Extent{Near: 10, Center: 15, Far: 20},
			},
			consort.Label{X: 20, Y: 15, Text: "Dose A & B\n(n=5)", Align: consort.AlignCenter},
			consort.Arrow{X1: 20, Y1: 40, X2: 20, Y2: 20},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testDiagram()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.0 50.0" width="600" height="300">`) {
		t.Errorf("unexpected SVG header:\n%s", svg[:120])
	}
	if !strings.Contains(svg, `<marker id="arrowhead"`) {
		t.Error("missing arrowhead marker defs")
	}

	// Diagram y grows upward; SVG y grows downward. The box's top edge at
	// y=20 lands at 50-20=30.
	if !strings.Contains(svg, `<rect x="10.00" y="30.00" width="20.00" height="10.00"`) {
		t.Error("box not flipped into SVG space")
	}
	if !strings.Contains(svg, `<line x1="20.00" y1="10.00" x2="20.00" y2="30.00"`) {
		t.Error("arrow not flipped into SVG space")
	}
	if !strings.Contains(svg, `marker-end="url(#arrowhead)"`) {
		t.Error("arrow missing arrowhead")
	}
}

func TestRenderSVGMultilineLabel(t *testing.T) {
	svg := string(RenderSVG(testDiagram()))

	// Two lines, centered as a block on the anchor, stepping one line
	// height (3.9 units at the default font size) downward.
	if !strings.Contains(svg, `y="34.10"`) || !strings.Contains(svg, `y="38.00"`) {
		t.Errorf("label lines not stacked as expected:\n%s", svg)
	}
	if strings.Count(svg, `text-anchor="middle"`) != 2 {
		t.Error("want both label lines centered")
	}
	// Text content must be XML-escaped.
	if !strings.Contains(svg, "Dose A &amp; B") {
		t.Error("label text not escaped")
	}
	if !strings.Contains(svg, "(n=5)") {
		t.Error("second label line missing")
	}
}

func TestRenderSVGAnchors(t *testing.T) {
	d := &consort.Diagram{
		Width:  10,
		Height: 10,
		Primitives: []consort.Primitive{
			consort.Label{X: 1, Y: 5, Text: "l", Align: consort.AlignLeft},
			consort.Label{X: 9, Y: 5, Text: "r", Align: consort.AlignRight},
		},
	}
	svg := string(RenderSVG(d))

	if !strings.Contains(svg, `text-anchor="start"`) {
		t.Error("left alignment not mapped to start anchor")
	}
	if !strings.Contains(svg, `text-anchor="end"`) {
		t.Error("right alignment not mapped to end anchor")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(testDiagram(), WithPixelScale(10), WithFontSize(4)))

	if !strings.Contains(svg, `width="1000" height="500"`) {
		t.Error("pixel scale not applied to document size")
	}
	if !strings.Contains(svg, `font-size="4.00"`) {
		t.Error("font size option not applied")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	if !bytes.Equal(RenderSVG(testDiagram()), RenderSVG(testDiagram())) {
		t.Error("repeated renders disagree")
	}
}
