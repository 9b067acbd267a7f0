package consort

// Alignment controls how a label anchors to its x position.
type Alignment string

// Label alignments.
const (
	AlignCenter Alignment = "center"
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
)

// Primitive is a single draw instruction. The concrete types are [Box],
// [Label] and [Arrow]. Primitives use diagram coordinates: x grows rightward,
// y grows upward, origin at the bottom-left corner of the plot.
type Primitive interface {
	// Kind returns the primitive's type tag ("box", "label" or "arrow").
	Kind() string
}

// Box is a bordered rectangle covering the product of two extents.
type Box struct {
	X Extent // horizontal placement (column extent)
	Y Extent // vertical placement (layer extent)
}

// Kind returns "box".
func (Box) Kind() string { return "box" }

// Label is a piece of text anchored at (X, Y). Multi-line text is separated
// by newlines; sinks render each line stacked below the previous one.
type Label struct {
	X, Y  float64
	Text  string
	Align Alignment
}

// Kind returns "label".
func (Label) Kind() string { return "label" }

// Arrow is a straight connector from (X1, Y1) to an arrowhead at (X2, Y2).
type Arrow struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Kind returns "arrow".
func (Arrow) Kind() string { return "arrow" }

// Diagram is the ordered primitive sequence produced by [BuildDiagram],
// together with the plot dimensions. The order is fixed by the
// layer-then-column traversal and governs paint order only.
type Diagram struct {
	Width      float64
	Height     float64
	Primitives []Primitive
}
