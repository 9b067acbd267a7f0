package consort

import (
	"github.com/matzehuels/consort/pkg/errors"
)

// Spec holds the scalars that define the diagram's coordinate system.
// All values must be strictly positive.
type Spec struct {
	ColumnCount   int     `toml:"columns"`
	ColumnWidth   float64 `toml:"column_width"`
	ColumnSpacing float64 `toml:"column_spacing"`
	LayerCount    int     `toml:"layers"`
	LayerDepth    float64 `toml:"layer_depth"`
	LayerSpacing  float64 `toml:"layer_spacing"`
}

// DefaultSpec returns the reference grid used by the built-in template:
// four columns of width 28 with spacing 5, five layers of depth 13 with
// spacing 8.
func DefaultSpec() Spec {
	return Spec{
		ColumnCount:   4,
		ColumnWidth:   28,
		ColumnSpacing: 5,
		LayerCount:    5,
		LayerDepth:    13,
		LayerSpacing:  8,
	}
}

// Validate checks that every scalar is strictly positive.
func (s Spec) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"column count", s.ColumnCount > 0},
		{"column width", s.ColumnWidth > 0},
		{"column spacing", s.ColumnSpacing > 0},
		{"layer count", s.LayerCount > 0},
		{"layer depth", s.LayerDepth > 0},
		{"layer spacing", s.LayerSpacing > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return errors.New(errors.ErrCodeInvalidGridSpec, "%s must be strictly positive", c.name)
		}
	}
	return nil
}

// PlotWidth returns the total plot width:
// columns*width + (columns+1)*spacing.
func (s Spec) PlotWidth() float64 {
	return float64(s.ColumnCount)*s.ColumnWidth + float64(s.ColumnCount+1)*s.ColumnSpacing
}

// PlotHeight returns the total plot height:
// layers*depth + (layers+1)*spacing.
func (s Spec) PlotHeight() float64 {
	return float64(s.LayerCount)*s.LayerDepth + float64(s.LayerCount+1)*s.LayerSpacing
}

// Extent is the placement of one column or layer on its axis.
// Near is always the smaller coordinate and Far the larger; Center is the
// midpoint. For columns, Near is the left edge. For layers, whose axis runs
// top to bottom in descending y, Near is the bottom edge and Far the top.
type Extent struct {
	Near   float64
	Center float64
	Far    float64
}

// Grid holds the computed extents for every column and layer.
// It is immutable after [BuildGrid] returns.
type Grid struct {
	Spec    Spec
	Columns []Extent // indexed 0..ColumnCount-1, left to right
	Layers  []Extent // indexed 0..LayerCount-1, top to bottom
	Width   float64
	Height  float64
}

// Column returns the extent of the 1-based column index.
func (g Grid) Column(i int) Extent { return g.Columns[i-1] }

// Layer returns the extent of the 1-based layer index, counted from the top.
func (g Grid) Layer(i int) Extent { return g.Layers[i-1] }

// BuildGrid converts a grid spec into absolute coordinate extents.
//
// Columns are processed from the rightmost to the leftmost: the rightmost
// column's far edge anchors at Width - spacing, and each column's far edge is
// the previously computed column's near edge minus the spacing. Layers use
// the symmetric construction from the top: the topmost layer's far edge
// anchors at Height - spacing. The recurrence guarantees uniform spacing and
// non-overlapping extents, and degenerates correctly for a single column or
// layer.
func BuildGrid(spec Spec) (Grid, error) {
	if err := spec.Validate(); err != nil {
		return Grid{}, err
	}

	width := spec.PlotWidth()
	height := spec.PlotHeight()

	columns := make([]Extent, spec.ColumnCount)
	far := width - spec.ColumnSpacing
	for i := spec.ColumnCount - 1; i >= 0; i-- {
		near := far - spec.ColumnWidth
		columns[i] = Extent{Near: near, Center: (near + far) / 2, Far: far}
		far = near - spec.ColumnSpacing
	}

	layers := make([]Extent, spec.LayerCount)
	far = height - spec.LayerSpacing
	for i := 0; i < spec.LayerCount; i++ {
		near := far - spec.LayerDepth
		layers[i] = Extent{Near: near, Center: (near + far) / 2, Far: far}
		far = near - spec.LayerSpacing
	}

	return Grid{Spec: spec, Columns: columns, Layers: layers, Width: width, Height: height}, nil
}
