package consort

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/consort/pkg/errors"
)

func TestDefaultTemplateValid(t *testing.T) {
	if err := DefaultTemplate().Validate(); err != nil {
		t.Fatalf("Validate() on built-in template: %v", err)
	}
}

func TestTemplateValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Template)
		code   errors.Code
	}{
		{
			name:   "broken grid",
			mutate: func(tpl *Template) { tpl.Grid.LayerCount = 0 },
			code:   errors.ErrCodeInvalidGridSpec,
		},
		{
			name:   "root layer outside grid",
			mutate: func(tpl *Template) { tpl.Root.Layer = 6 },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "root span inverted",
			mutate: func(tpl *Template) { tpl.Root.SpanFrom = 3; tpl.Root.SpanTo = 2 },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "root span outside grid",
			mutate: func(tpl *Template) { tpl.Root.SpanTo = 5 },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "binding without field",
			mutate: func(tpl *Template) { tpl.Bindings[0].Field = "" },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "cell outside grid",
			mutate: func(tpl *Template) { tpl.Cells[0].Column = 7 },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "cell arrow source outside grid",
			mutate: func(tpl *Template) { tpl.Cells[2].FromColumn = -1 },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name: "cell without layer binding",
			mutate: func(tpl *Template) {
				tpl.Cells = append(tpl.Cells, CellDef{Layer: 4, Column: 1, Label: "stray"})
			},
			code: errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "exclusion layer outside grid",
			mutate: func(tpl *Template) { tpl.Exclusion.Layer = 9 },
			code:   errors.ErrCodeInvalidTemplate,
		},
		{
			name:   "exclusion without fields",
			mutate: func(tpl *Template) { tpl.Exclusion.ReasonField = "" },
			code:   errors.ErrCodeInvalidTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := DefaultTemplate()
			tt.mutate(&tpl)
			err := tpl.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

const testTemplateTOML = `
[root]
layer = 1
field = "enrolled"
label = "Enrolled"
span_from = 1
span_to = 2

[[bindings]]
layer = 2
field = "group"

[[cells]]
layer = 2
column = 1
label = "Group A"

[[cells]]
layer = 2
column = 2
label = "Group B"
`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func TestLoadTemplate(t *testing.T) {
	tpl, err := LoadTemplate(writeTemplate(t, testTemplateTOML))
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}

	// Omitted grid and style tables fall back to the defaults.
	if tpl.Grid != DefaultSpec() {
		t.Errorf("Grid = %+v, want defaults", tpl.Grid)
	}
	if tpl.Style != DefaultStyle() {
		t.Errorf("Style = %+v, want defaults", tpl.Style)
	}

	if tpl.Root.Label != "Enrolled" || tpl.Root.Field != "enrolled" {
		t.Errorf("Root = %+v", tpl.Root)
	}
	if len(tpl.Cells) != 2 || tpl.Cells[1].Label != "Group B" {
		t.Errorf("Cells = %+v", tpl.Cells)
	}
	if tpl.Exclusion.Layer != 0 {
		t.Errorf("Exclusion.Layer = %d, want 0 (absent)", tpl.Exclusion.Layer)
	}
}

func TestLoadTemplateGridOverride(t *testing.T) {
	content := `
[grid]
columns = 2
column_width = 10
column_spacing = 2
layers = 2
layer_depth = 5
layer_spacing = 3

[style]
open_arrow_lead = 0.7
` + testTemplateTOML

	tpl, err := LoadTemplate(writeTemplate(t, content))
	if err != nil {
		t.Fatalf("LoadTemplate() error: %v", err)
	}

	if tpl.Grid.ColumnCount != 2 || tpl.Grid.LayerDepth != 5 {
		t.Errorf("Grid = %+v", tpl.Grid)
	}
	if tpl.Style.OpenArrowLead != 0.7 {
		t.Errorf("OpenArrowLead = %v, want 0.7", tpl.Style.OpenArrowLead)
	}
	// Omitted style values still default.
	if tpl.Style.SplitArrowLead != DefaultStyle().SplitArrowLead {
		t.Errorf("SplitArrowLead = %v, want default", tpl.Style.SplitArrowLead)
	}
}

func TestLoadTemplateErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
		}
	})

	t.Run("malformed TOML", func(t *testing.T) {
		_, err := LoadTemplate(writeTemplate(t, "[root\nlayer = 1"))
		if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
			t.Errorf("error code = %v, want INVALID_TEMPLATE", errors.GetCode(err))
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		_, err := LoadTemplate(writeTemplate(t, `
[root]
layer = 99
field = "enrolled"
label = "Enrolled"
span_from = 1
span_to = 2
`))
		if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
			t.Errorf("error code = %v, want INVALID_TEMPLATE", errors.GetCode(err))
		}
	})
}
