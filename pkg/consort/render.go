package consort

import (
	"fmt"

	"github.com/matzehuels/consort/pkg/cohort"
)

// Option configures [BuildDiagram].
type Option func(*renderer)

// WithStyle overrides the template's style tuning.
func WithStyle(s Style) Option {
	return func(r *renderer) { r.style = s.orDefault() }
}

type renderer struct {
	grid    Grid
	tpl     Template
	content *Content
	style   Style
	prims   []Primitive
}

// BuildDiagram runs the full pipeline: grid geometry, content resolution and
// primitive emission. All errors surface before the first primitive is
// appended; there is no partial output.
//
// Primitives are emitted in a fixed order: the root cell first, then every
// remaining layer top to bottom, columns left to right. Templated positions
// with no content entry are skipped silently.
func BuildDiagram(d *cohort.Dataset, tpl Template, opts ...Option) (*Diagram, error) {
	grid, err := BuildGrid(tpl.Grid)
	if err != nil {
		return nil, err
	}
	content, err := Resolve(d, tpl)
	if err != nil {
		return nil, err
	}

	r := &renderer{
		grid:    grid,
		tpl:     tpl,
		content: content,
		style:   tpl.Style.orDefault(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.rootCell()
	for layer := 1; layer <= grid.Spec.LayerCount; layer++ {
		if layer == tpl.Root.Layer {
			continue
		}
		if layer == tpl.Exclusion.Layer {
			for col := 1; col <= grid.Spec.ColumnCount; col++ {
				if r.exclusionColumnOccupied(col) {
					r.openCell(layer, col)
				}
			}
			continue
		}
		for col := 1; col <= grid.Spec.ColumnCount; col++ {
			if cell, ok := tpl.cellAt(layer, col); ok {
				r.closedCell(cell)
			}
		}
	}

	return &Diagram{Width: grid.Width, Height: grid.Height, Primitives: r.prims}, nil
}

// rootCell draws the diagram's entry point directly: a box spanning the
// root's column range, a centered label, no inbound arrow.
func (r *renderer) rootCell() {
	from := r.grid.Column(r.tpl.Root.SpanFrom)
	to := r.grid.Column(r.tpl.Root.SpanTo)
	x := Extent{Near: from.Near, Center: (from.Near + to.Far) / 2, Far: to.Far}
	y := r.grid.Layer(r.tpl.Root.Layer)

	r.prims = append(r.prims,
		Box{X: x, Y: y},
		Label{
			X:     x.Center,
			Y:     y.Center,
			Text:  fmt.Sprintf("%s\n(n=%d)", r.tpl.Root.Label, r.content.Total),
			Align: AlignCenter,
		},
	)
}

// closedCell draws a bordered box with a centered label and an inbound
// arrow. The arrow terminates at the cell's far (top) edge; its start
// defaults to the cell's own column center at the midpoint of the layer
// above, and moves under the source column when the template overrides it.
func (r *renderer) closedCell(cell CellDef) {
	x := r.grid.Column(cell.Column)
	y := r.grid.Layer(cell.Layer)
	count := r.content.Cells[CellKey{Layer: cell.Layer, Column: cell.Column}]

	r.prims = append(r.prims,
		Box{X: x, Y: y},
		Label{
			X:     x.Center,
			Y:     y.Center,
			Text:  fmt.Sprintf("%s\n(n=%d)", cell.Label, count),
			Align: AlignCenter,
		},
	)

	if cell.Layer == 1 {
		return // nothing above to connect from
	}

	start := struct{ x, y float64 }{x.Center, r.grid.Layer(cell.Layer - 1).Center}
	if cell.FromColumn != 0 && cell.FromColumn != cell.Column {
		start.x = r.grid.Column(cell.FromColumn).Center
		start.y = y.Far + r.style.SplitArrowLead*r.grid.Spec.LayerSpacing
	}
	r.prims = append(r.prims, Arrow{X1: start.x, Y1: start.y, X2: x.Center, Y2: y.Far})
}

// openCell draws the exclusion annotation for one column: one stacked label
// line per reason and a short outbound arrow into the following layer.
// Left-half columns anchor their text at the column's near edge flowing
// rightward; right-half columns anchor at the far edge flowing leftward, so
// the annotation mirrors around the diagram's center.
func (r *renderer) openCell(layer, col int) {
	x := r.grid.Column(col)
	y := r.grid.Layer(layer)
	excl := r.tpl.Exclusion

	anchor, align := x.Near, AlignLeft
	if col > r.grid.Spec.ColumnCount/2 {
		anchor, align = x.Far, AlignRight
	}

	depth := y.Far - y.Near
	for i, reason := range excl.Reasons {
		count := r.content.Exclusions[cohort.PairKey{Column: col, Reason: reason.Code}]
		lineY := y.Far - (float64(i)+0.5)*depth/float64(len(excl.Reasons))
		r.prims = append(r.prims, Label{
			X:     anchor,
			Y:     lineY,
			Text:  fmt.Sprintf("%s (n=%d)", reason.Label, count),
			Align: align,
		})
	}

	if layer >= r.grid.Spec.LayerCount {
		return // no following layer to point into
	}
	next := r.grid.Layer(layer + 1)
	startY := next.Far + r.style.OpenArrowLead*r.grid.Spec.LayerSpacing
	r.prims = append(r.prims, Arrow{X1: x.Center, Y1: startY, X2: x.Center, Y2: next.Far})
}

// exclusionColumnOccupied reports whether the exclusion layer should draw an
// open cell in a column. A column participates when the flow continues
// below it: some templated cell in a later layer occupies the column.
func (r *renderer) exclusionColumnOccupied(col int) bool {
	for _, c := range r.tpl.Cells {
		if c.Column == col && c.Layer > r.tpl.Exclusion.Layer {
			return true
		}
	}
	return false
}
