package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/consort/pkg/consort"
)

const (
	defaultFontSize   = 3.0 // diagram units
	defaultPixelScale = 6.0 // device pixels per diagram unit
	lineHeightRatio   = 1.3
	baselineRatio     = 0.35 // vertical centering nudge for text baselines

	strokeColor = "#333333"
	strokeWidth = 0.5
	boxFill     = "#ffffff"
	boxRadius   = 1.0
)

const arrowMarkerDefs = `  <defs>
    <marker id="arrowhead" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="5" markerHeight="5" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="` + strokeColor + `"/>
    </marker>
  </defs>
`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontSize   float64
	pixelScale float64
}

// WithFontSize sets the label font size in diagram units.
func WithFontSize(size float64) SVGOption {
	return func(r *svgRenderer) { r.fontSize = size }
}

// WithPixelScale sets the device pixels rendered per diagram unit
// (default 6.0).
func WithPixelScale(scale float64) SVGOption {
	return func(r *svgRenderer) { r.pixelScale = scale }
}

// RenderSVG renders the diagram's primitive sequence as an SVG document.
// Primitives are written in sequence order, so later primitives paint over
// earlier ones. The output is deterministic for a given diagram and options.
func RenderSVG(d *consort.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{fontSize: defaultFontSize, pixelScale: defaultPixelScale}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		d.Width, d.Height, d.Width*r.pixelScale, d.Height*r.pixelScale)
	buf.WriteString(arrowMarkerDefs)

	for _, p := range d.Primitives {
		switch prim := p.(type) {
		case consort.Box:
			r.renderBox(&buf, d, prim)
		case consort.Label:
			r.renderLabel(&buf, d, prim)
		case consort.Arrow:
			r.renderArrow(&buf, d, prim)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// flipY converts a diagram y coordinate (origin bottom-left) to SVG space.
func flipY(d *consort.Diagram, y float64) float64 {
	return d.Height - y
}

func (r *svgRenderer) renderBox(buf *bytes.Buffer, d *consort.Diagram, b consort.Box) {
	fmt.Fprintf(buf,
		`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		b.X.Near, flipY(d, b.Y.Far), b.X.Far-b.X.Near, b.Y.Far-b.Y.Near,
		boxRadius, boxFill, strokeColor, strokeWidth)
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, d *consort.Diagram, l consort.Label) {
	lines := strings.Split(l.Text, "\n")
	lineHeight := r.fontSize * lineHeightRatio

	// Center the line block on the anchor y, then step downward per line.
	top := flipY(d, l.Y) - float64(len(lines)-1)/2*lineHeight + r.fontSize*baselineRatio

	for i, line := range lines {
		fmt.Fprintf(buf,
			`  <text x="%.2f" y="%.2f" font-size="%.2f" font-family="Helvetica, Arial, sans-serif" text-anchor="%s">%s</text>`+"\n",
			l.X, top+float64(i)*lineHeight, r.fontSize, textAnchor(l.Align), escapeXML(line))
	}
}

func (r *svgRenderer) renderArrow(buf *bytes.Buffer, d *consort.Diagram, a consort.Arrow) {
	fmt.Fprintf(buf,
		`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" marker-end="url(#arrowhead)"/>`+"\n",
		a.X1, flipY(d, a.Y1), a.X2, flipY(d, a.Y2), strokeColor, strokeWidth)
}

func textAnchor(a consort.Alignment) string {
	switch a {
	case consort.AlignLeft:
		return "start"
	case consort.AlignRight:
		return "end"
	default:
		return "middle"
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
