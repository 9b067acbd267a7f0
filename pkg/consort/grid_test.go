package consort

import (
	"testing"

	"github.com/matzehuels/consort/pkg/errors"
)

func TestSpecPlotDimensions(t *testing.T) {
	tests := []struct {
		name       string
		spec       Spec
		wantWidth  float64
		wantHeight float64
	}{
		{
			name:       "reference grid",
			spec:       DefaultSpec(),
			wantWidth:  137,
			wantHeight: 113,
		},
		{
			name: "single cell",
			spec: Spec{
				ColumnCount: 1, ColumnWidth: 10, ColumnSpacing: 2,
				LayerCount: 1, LayerDepth: 5, LayerSpacing: 3,
			},
			wantWidth:  14,
			wantHeight: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.PlotWidth(); got != tt.wantWidth {
				t.Errorf("PlotWidth() = %v, want %v", got, tt.wantWidth)
			}
			if got := tt.spec.PlotHeight(); got != tt.wantHeight {
				t.Errorf("PlotHeight() = %v, want %v", got, tt.wantHeight)
			}
		})
	}
}

func TestSpecValidate(t *testing.T) {
	valid := DefaultSpec()

	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"zero columns", func(s *Spec) { s.ColumnCount = 0 }},
		{"negative columns", func(s *Spec) { s.ColumnCount = -1 }},
		{"zero column width", func(s *Spec) { s.ColumnWidth = 0 }},
		{"negative column spacing", func(s *Spec) { s.ColumnSpacing = -5 }},
		{"zero layers", func(s *Spec) { s.LayerCount = 0 }},
		{"zero layer depth", func(s *Spec) { s.LayerDepth = 0 }},
		{"negative layer spacing", func(s *Spec) { s.LayerSpacing = -1 }},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on default spec: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)
			err := spec.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidGridSpec) {
				t.Errorf("error code = %v, want INVALID_GRID_SPEC", errors.GetCode(err))
			}
		})
	}
}

func TestBuildGridReference(t *testing.T) {
	g, err := BuildGrid(DefaultSpec())
	if err != nil {
		t.Fatalf("BuildGrid() error: %v", err)
	}

	if g.Width != 137 {
		t.Errorf("Width = %v, want 137", g.Width)
	}
	if g.Height != 113 {
		t.Errorf("Height = %v, want 113", g.Height)
	}

	wantColumns := []Extent{
		{Near: 5, Center: 19, Far: 33},
		{Near: 38, Center: 52, Far: 66},
		{Near: 71, Center: 85, Far: 99},
		{Near: 104, Center: 118, Far: 132},
	}
	for i, want := range wantColumns {
		if got := g.Column(i + 1); got != want {
			t.Errorf("Column(%d) = %+v, want %+v", i+1, got, want)
		}
	}

	wantLayers := []Extent{
		{Near: 92, Center: 98.5, Far: 105},
		{Near: 71, Center: 77.5, Far: 84},
		{Near: 50, Center: 56.5, Far: 63},
		{Near: 29, Center: 35.5, Far: 42},
		{Near: 8, Center: 14.5, Far: 21},
	}
	for i, want := range wantLayers {
		if got := g.Layer(i + 1); got != want {
			t.Errorf("Layer(%d) = %+v, want %+v", i+1, got, want)
		}
	}
}

func TestBuildGridSpacing(t *testing.T) {
	spec := Spec{
		ColumnCount: 7, ColumnWidth: 11, ColumnSpacing: 3,
		LayerCount: 4, LayerDepth: 9, LayerSpacing: 2,
	}
	g, err := BuildGrid(spec)
	if err != nil {
		t.Fatalf("BuildGrid() error: %v", err)
	}

	// The leftmost gap, every inter-column gap and the rightmost gap must
	// all equal the column spacing, with columns in ascending order.
	if got := g.Column(1).Near; got != spec.ColumnSpacing {
		t.Errorf("leftmost gap = %v, want %v", got, spec.ColumnSpacing)
	}
	if got := g.Width - g.Column(spec.ColumnCount).Far; got != spec.ColumnSpacing {
		t.Errorf("rightmost gap = %v, want %v", got, spec.ColumnSpacing)
	}
	for i := 2; i <= spec.ColumnCount; i++ {
		prev, cur := g.Column(i-1), g.Column(i)
		if gap := cur.Near - prev.Far; gap != spec.ColumnSpacing {
			t.Errorf("gap before column %d = %v, want %v", i, gap, spec.ColumnSpacing)
		}
		if cur.Far-cur.Near != spec.ColumnWidth {
			t.Errorf("column %d width = %v, want %v", i, cur.Far-cur.Near, spec.ColumnWidth)
		}
	}

	// Layers run top to bottom: layer 1 touches the top margin and each
	// following layer sits one spacing below the previous one.
	if got := g.Height - g.Layer(1).Far; got != spec.LayerSpacing {
		t.Errorf("top gap = %v, want %v", got, spec.LayerSpacing)
	}
	if got := g.Layer(spec.LayerCount).Near; got != spec.LayerSpacing {
		t.Errorf("bottom gap = %v, want %v", got, spec.LayerSpacing)
	}
	for i := 2; i <= spec.LayerCount; i++ {
		prev, cur := g.Layer(i-1), g.Layer(i)
		if gap := prev.Near - cur.Far; gap != spec.LayerSpacing {
			t.Errorf("gap below layer %d = %v, want %v", i-1, gap, spec.LayerSpacing)
		}
		if cur.Far-cur.Near != spec.LayerDepth {
			t.Errorf("layer %d depth = %v, want %v", i, cur.Far-cur.Near, spec.LayerDepth)
		}
	}
}

func TestBuildGridSingleCell(t *testing.T) {
	spec := Spec{
		ColumnCount: 1, ColumnWidth: 10, ColumnSpacing: 2,
		LayerCount: 1, LayerDepth: 5, LayerSpacing: 3,
	}
	g, err := BuildGrid(spec)
	if err != nil {
		t.Fatalf("BuildGrid() error: %v", err)
	}

	if got, want := g.Column(1), (Extent{Near: 2, Center: 7, Far: 12}); got != want {
		t.Errorf("Column(1) = %+v, want %+v", got, want)
	}
	if got, want := g.Layer(1), (Extent{Near: 3, Center: 5.5, Far: 8}); got != want {
		t.Errorf("Layer(1) = %+v, want %+v", got, want)
	}
}

func TestBuildGridInvalidSpec(t *testing.T) {
	_, err := BuildGrid(Spec{})
	if err == nil {
		t.Fatal("BuildGrid() = nil error, want INVALID_GRID_SPEC")
	}
	if !errors.Is(err, errors.ErrCodeInvalidGridSpec) {
		t.Errorf("error code = %v, want INVALID_GRID_SPEC", errors.GetCode(err))
	}
}
