package consort

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/errors"
)

// CellKey addresses a cell by its 1-based (layer, column) position.
type CellKey struct {
	Layer  int
	Column int
}

// LayerBinding maps a layer to the dataset field holding each subject's
// column at that layer.
type LayerBinding struct {
	Layer int    `toml:"layer"`
	Field string `toml:"field"`
}

// CellDef declares one closed cell of the diagram. FromColumn overrides the
// column whose center feeds the cell's inbound arrow; zero means the cell's
// own column.
type CellDef struct {
	Layer      int    `toml:"layer"`
	Column     int    `toml:"column"`
	Label      string `toml:"label"`
	FromColumn int    `toml:"from_column"`
}

// ReasonDef describes one exclusion reason.
type ReasonDef struct {
	Code  int    `toml:"code"`
	Label string `toml:"label"`
}

// ExclusionDef declares the exclusion layer: open cells listing, per column,
// how many subjects left the flow for each reason. PriorField names the
// dataset field whose value places an excluded subject in a column;
// ReasonField names the field holding the reason code.
type ExclusionDef struct {
	Layer       int         `toml:"layer"`
	PriorField  string      `toml:"prior_field"`
	ReasonField string      `toml:"reason_field"`
	Reasons     []ReasonDef `toml:"reasons"`
}

// RootDef declares the diagram's unique entry cell. It spans the columns
// SpanFrom through SpanTo and has no inbound arrow.
type RootDef struct {
	Layer    int    `toml:"layer"`
	Field    string `toml:"field"`
	Label    string `toml:"label"`
	SpanFrom int    `toml:"span_from"`
	SpanTo   int    `toml:"span_to"`
}

// Template is the fixed grid template: which cells exist, what they say, and
// how they bind to the dataset. Templates are value objects; nothing mutates
// them after construction.
type Template struct {
	Grid      Spec           `toml:"grid"`
	Style     Style          `toml:"style"`
	Root      RootDef        `toml:"root"`
	Bindings  []LayerBinding `toml:"bindings"`
	Cells     []CellDef      `toml:"cells"`
	Exclusion ExclusionDef   `toml:"exclusion"`
}

// DefaultTemplate returns the built-in reference template: a two-arm trial
// on the [DefaultSpec] grid, with allocation in layer 2, dose subgroups in
// layer 3, exclusion reporting in layer 4 and the final analysis in layer 5.
func DefaultTemplate() Template {
	return Template{
		Grid:  DefaultSpec(),
		Style: DefaultStyle(),
		Root: RootDef{
			Layer:    1,
			Field:    cohort.FieldScreened,
			Label:    "Assessed for eligibility",
			SpanFrom: 2,
			SpanTo:   3,
		},
		Bindings: []LayerBinding{
			{Layer: 2, Field: cohort.FieldArm},
			{Layer: 3, Field: cohort.FieldSubgroup},
			{Layer: 5, Field: cohort.FieldFinal},
		},
		Cells: []CellDef{
			{Layer: 2, Column: 2, Label: "Allocated to treatment A"},
			{Layer: 2, Column: 3, Label: "Allocated to treatment B"},
			{Layer: 3, Column: 1, Label: "Low dose A", FromColumn: 2},
			{Layer: 3, Column: 2, Label: "High dose A"},
			{Layer: 3, Column: 3, Label: "Low dose B"},
			{Layer: 3, Column: 4, Label: "High dose B", FromColumn: 3},
			{Layer: 5, Column: 1, Label: "Analysed"},
			{Layer: 5, Column: 2, Label: "Analysed"},
			{Layer: 5, Column: 3, Label: "Analysed"},
			{Layer: 5, Column: 4, Label: "Analysed"},
		},
		Exclusion: ExclusionDef{
			Layer:       4,
			PriorField:  cohort.FieldSubgroup,
			ReasonField: cohort.FieldReason,
			Reasons: []ReasonDef{
				{Code: cohort.ReasonWithdrew, Label: "Withdrew consent"},
				{Code: cohort.ReasonLost, Label: "Lost to follow-up"},
				{Code: cohort.ReasonProtocol, Label: "Protocol deviation"},
			},
		},
	}
}

// LoadTemplate reads a template from a TOML file. Omitted grid or style
// tables fall back to the defaults; everything else must be spelled out.
func LoadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Template{}, errors.New(errors.ErrCodeFileNotFound, "template file %s does not exist", path)
	}
	if err != nil {
		return Template{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "read %s", path)
	}

	tpl := Template{Grid: DefaultSpec(), Style: DefaultStyle()}
	if err := toml.Unmarshal(data, &tpl); err != nil {
		return Template{}, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse %s", path)
	}
	tpl.Style = tpl.Style.orDefault()

	if err := tpl.Validate(); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

// Validate checks the template's internal consistency against its grid:
// every cell, binding and span must address a position inside the grid.
func (t Template) Validate() error {
	if err := t.Grid.Validate(); err != nil {
		return err
	}

	inLayer := func(l int) bool { return l >= 1 && l <= t.Grid.LayerCount }
	inColumn := func(c int) bool { return c >= 1 && c <= t.Grid.ColumnCount }

	if !inLayer(t.Root.Layer) {
		return errors.New(errors.ErrCodeInvalidTemplate, "root layer %d outside grid", t.Root.Layer)
	}
	if !inColumn(t.Root.SpanFrom) || !inColumn(t.Root.SpanTo) || t.Root.SpanFrom > t.Root.SpanTo {
		return errors.New(errors.ErrCodeInvalidTemplate,
			"root span %d..%d outside grid", t.Root.SpanFrom, t.Root.SpanTo)
	}
	for _, b := range t.Bindings {
		if !inLayer(b.Layer) {
			return errors.New(errors.ErrCodeInvalidTemplate, "binding layer %d outside grid", b.Layer)
		}
		if b.Field == "" {
			return errors.New(errors.ErrCodeInvalidTemplate, "binding for layer %d has no field", b.Layer)
		}
	}
	for _, c := range t.Cells {
		if !inLayer(c.Layer) || !inColumn(c.Column) {
			return errors.New(errors.ErrCodeInvalidTemplate,
				"cell (%d, %d) outside grid", c.Layer, c.Column)
		}
		if c.FromColumn != 0 && !inColumn(c.FromColumn) {
			return errors.New(errors.ErrCodeInvalidTemplate,
				"cell (%d, %d) arrow source column %d outside grid", c.Layer, c.Column, c.FromColumn)
		}
		if _, ok := t.fieldFor(c.Layer); !ok {
			return errors.New(errors.ErrCodeInvalidTemplate,
				"cell (%d, %d) has no layer binding", c.Layer, c.Column)
		}
	}
	if t.Exclusion.Layer != 0 {
		if !inLayer(t.Exclusion.Layer) {
			return errors.New(errors.ErrCodeInvalidTemplate,
				"exclusion layer %d outside grid", t.Exclusion.Layer)
		}
		if t.Exclusion.PriorField == "" || t.Exclusion.ReasonField == "" {
			return errors.New(errors.ErrCodeInvalidTemplate,
				"exclusion layer needs prior_field and reason_field")
		}
	}
	return nil
}

// fieldFor returns the dataset field bound to a layer.
func (t Template) fieldFor(layer int) (string, bool) {
	for _, b := range t.Bindings {
		if b.Layer == layer {
			return b.Field, true
		}
	}
	return "", false
}

// cellAt returns the cell definition at a position, if templated.
func (t Template) cellAt(layer, column int) (CellDef, bool) {
	for _, c := range t.Cells {
		if c.Layer == layer && c.Column == column {
			return c, true
		}
	}
	return CellDef{}, false
}
