package flowgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/consort"
	"github.com/matzehuels/consort/pkg/render"
)

const rootID = "root"

// ToDOT converts resolved diagram content into Graphviz DOT format.
// Nodes and edges are emitted in layer-then-column order, so the output is
// deterministic for a given template and content.
func ToDOT(tpl consort.Template, content *consort.Content) string {
	var buf bytes.Buffer
	buf.WriteString("digraph consort {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n\n")

	fmt.Fprintf(&buf, "  %s [label=%q];\n", rootID, fmt.Sprintf("%s\n(n=%d)", tpl.Root.Label, content.Total))

	for layer := 1; layer <= tpl.Grid.LayerCount; layer++ {
		if layer == tpl.Root.Layer {
			continue
		}
		for col := 1; col <= tpl.Grid.ColumnCount; col++ {
			if layer == tpl.Exclusion.Layer {
				if occupied(tpl, col) {
					fmt.Fprintf(&buf, "  %s [shape=note, style=filled, fillcolor=lightgrey, label=%q];\n",
						nodeID(layer, col), exclusionLabel(tpl, content, col))
				}
				continue
			}
			if cell, ok := cellAt(tpl, layer, col); ok {
				count := content.Cells[consort.CellKey{Layer: layer, Column: col}]
				fmt.Fprintf(&buf, "  %s [label=%q];\n",
					nodeID(layer, col), fmt.Sprintf("%s\n(n=%d)", cell.Label, count))
			}
		}
	}

	buf.WriteString("\n")
	for layer := 1; layer <= tpl.Grid.LayerCount; layer++ {
		if layer == tpl.Root.Layer {
			continue
		}
		for col := 1; col <= tpl.Grid.ColumnCount; col++ {
			if layer == tpl.Exclusion.Layer {
				if occupied(tpl, col) {
					if src, ok := sourceNode(tpl, layer, col); ok {
						fmt.Fprintf(&buf, "  %s -> %s;\n", src, nodeID(layer, col))
					}
				}
				continue
			}
			if cell, ok := cellAt(tpl, layer, col); ok {
				srcCol := cell.Column
				if cell.FromColumn != 0 {
					srcCol = cell.FromColumn
				}
				if src, ok := sourceNode(tpl, layer, srcCol); ok {
					fmt.Fprintf(&buf, "  %s -> %s;\n", src, nodeID(layer, col))
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(layer, col int) string {
	return fmt.Sprintf("l%dc%d", layer, col)
}

func cellAt(tpl consort.Template, layer, col int) (consort.CellDef, bool) {
	for _, c := range tpl.Cells {
		if c.Layer == layer && c.Column == col {
			return c, true
		}
	}
	return consort.CellDef{}, false
}

// occupied reports whether the exclusion layer has an open cell in col,
// matching the box renderer: the flow must continue below the column.
func occupied(tpl consort.Template, col int) bool {
	for _, c := range tpl.Cells {
		if c.Column == col && c.Layer > tpl.Exclusion.Layer {
			return true
		}
	}
	return false
}

func exclusionLabel(tpl consort.Template, content *consort.Content, col int) string {
	lines := make([]string, 0, len(tpl.Exclusion.Reasons))
	for _, reason := range tpl.Exclusion.Reasons {
		count := content.Exclusions[cohort.PairKey{Column: col, Reason: reason.Code}]
		lines = append(lines, fmt.Sprintf("%s (n=%d)", reason.Label, count))
	}
	return strings.Join(lines, "\n")
}

// sourceNode finds the node the flow enters (layer, col) from: the nearest
// occupied position above the layer in the given column, or the root when
// the column lies within its span.
func sourceNode(tpl consort.Template, layer, col int) (string, bool) {
	for above := layer - 1; above >= 1; above-- {
		if above == tpl.Root.Layer {
			if col >= tpl.Root.SpanFrom && col <= tpl.Root.SpanTo {
				return rootID, true
			}
			continue
		}
		if above == tpl.Exclusion.Layer {
			if occupied(tpl, col) {
				return nodeID(above, col), true
			}
			continue
		}
		if _, ok := cellAt(tpl, above, col); ok {
			return nodeID(above, col), true
		}
	}
	return "", false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph to PDF by converting the Graphviz SVG
// output with librsvg.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
