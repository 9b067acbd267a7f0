package consort

import (
	"testing"

	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/errors"
)

func TestResolveSampleCohort(t *testing.T) {
	content, err := Resolve(cohort.Sample(), DefaultTemplate())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if content.Total != 100 {
		t.Errorf("Total = %d, want 100", content.Total)
	}

	wantCells := map[CellKey]int{
		{Layer: 2, Column: 2}: 50,
		{Layer: 2, Column: 3}: 50,
		{Layer: 3, Column: 1}: 25,
		{Layer: 3, Column: 2}: 25,
		{Layer: 3, Column: 3}: 25,
		{Layer: 3, Column: 4}: 25,
		{Layer: 5, Column: 1}: 10,
		{Layer: 5, Column: 2}: 10,
		{Layer: 5, Column: 3}: 10,
		{Layer: 5, Column: 4}: 10,
	}
	if len(content.Cells) != len(wantCells) {
		t.Errorf("len(Cells) = %d, want %d", len(content.Cells), len(wantCells))
	}
	for key, want := range wantCells {
		if got := content.Cells[key]; got != want {
			t.Errorf("Cells[%+v] = %d, want %d", key, got, want)
		}
	}

	// Every subgroup column loses 5 subjects per reason.
	for col := 1; col <= 4; col++ {
		for reason := 1; reason <= 3; reason++ {
			key := cohort.PairKey{Column: col, Reason: reason}
			if got := content.Exclusions[key]; got != 5 {
				t.Errorf("Exclusions[%+v] = %d, want 5", key, got)
			}
		}
	}
	if len(content.Exclusions) != 12 {
		t.Errorf("len(Exclusions) = %d, want 12", len(content.Exclusions))
	}
}

func TestResolveEmptyDataset(t *testing.T) {
	d := cohort.New()
	for _, name := range []string{
		cohort.FieldScreened, cohort.FieldArm, cohort.FieldSubgroup,
		cohort.FieldReason, cohort.FieldFinal,
	} {
		if err := d.AddField(name, nil); err != nil {
			t.Fatalf("AddField(%q) error: %v", name, err)
		}
	}

	content, err := Resolve(d, DefaultTemplate())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if content.Total != 0 {
		t.Errorf("Total = %d, want 0", content.Total)
	}
	// Templated cells stay present at zero; nothing else appears.
	if len(content.Cells) != 10 {
		t.Errorf("len(Cells) = %d, want 10", len(content.Cells))
	}
	for key, n := range content.Cells {
		if n != 0 {
			t.Errorf("Cells[%+v] = %d, want 0", key, n)
		}
	}
	if len(content.Exclusions) != 0 {
		t.Errorf("len(Exclusions) = %d, want 0", len(content.Exclusions))
	}
}

func TestResolveUnknownField(t *testing.T) {
	tests := []struct {
		name string
		drop string
	}{
		{"missing root field", cohort.FieldScreened},
		{"missing binding field", cohort.FieldArm},
		{"missing exclusion reason field", cohort.FieldReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := cohort.Sample()
			d := cohort.New()
			for _, name := range full.Fields() {
				if name == tt.drop {
					continue
				}
				values, _ := full.Field(name)
				if err := d.AddField(name, values); err != nil {
					t.Fatalf("AddField(%q) error: %v", name, err)
				}
			}

			_, err := Resolve(d, DefaultTemplate())
			if err == nil {
				t.Fatal("Resolve() = nil error, want UNKNOWN_LAYER_REFERENCE")
			}
			if !errors.Is(err, errors.ErrCodeUnknownLayerReference) {
				t.Errorf("error code = %v, want UNKNOWN_LAYER_REFERENCE", errors.GetCode(err))
			}
		})
	}
}

func TestResolveFlowInvariant(t *testing.T) {
	// One subject allocated to an arm without having been screened.
	d := cohort.New()
	fields := map[string][]int{
		cohort.FieldScreened: {1, 0},
		cohort.FieldArm:      {2, 3},
		cohort.FieldSubgroup: {1, 3},
		cohort.FieldReason:   {0, 0},
		cohort.FieldFinal:    {1, 3},
	}
	for _, name := range []string{
		cohort.FieldScreened, cohort.FieldArm, cohort.FieldSubgroup,
		cohort.FieldReason, cohort.FieldFinal,
	} {
		if err := d.AddField(name, fields[name]); err != nil {
			t.Fatalf("AddField(%q) error: %v", name, err)
		}
	}

	_, err := Resolve(d, DefaultTemplate())
	if err == nil {
		t.Fatal("Resolve() = nil error, want INVALID_DATASET")
	}
	if !errors.Is(err, errors.ErrCodeInvalidDataset) {
		t.Errorf("error code = %v, want INVALID_DATASET", errors.GetCode(err))
	}
}

func TestResolveInvalidTemplate(t *testing.T) {
	tpl := DefaultTemplate()
	tpl.Root.Layer = 9

	_, err := Resolve(cohort.Sample(), tpl)
	if err == nil {
		t.Fatal("Resolve() = nil error, want INVALID_TEMPLATE")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("error code = %v, want INVALID_TEMPLATE", errors.GetCode(err))
	}
}
