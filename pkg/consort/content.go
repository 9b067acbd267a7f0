package consort

import (
	"sort"

	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/errors"
)

// Content holds the resolved counts for every templated position. Positions
// absent from the template never appear here; templated positions always do,
// even when their count is zero.
type Content struct {
	// Total is the number of subjects entering the diagram at the root.
	Total int

	// Cells maps each templated (layer, column) position to its count.
	Cells map[CellKey]int

	// Exclusions maps (column, reason code) to the number of subjects who
	// left the flow at the exclusion layer from that column for that reason.
	Exclusions map[cohort.PairKey]int
}

// Resolve aggregates the dataset into the counts the template calls for.
//
// All validation is eager: a template binding naming a field the dataset
// does not carry fails with UNKNOWN_LAYER_REFERENCE, and a dataset that
// violates the flow invariant (a subject present at a layer without being
// present at the layer above) fails with INVALID_DATASET. An empty dataset
// is valid and resolves to all-zero counts.
func Resolve(d *cohort.Dataset, tpl Template) (*Content, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	rootCounts, ok := d.CountBy(tpl.Root.Field)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownLayerReference,
			"root layer %d references field %q not present in dataset", tpl.Root.Layer, tpl.Root.Field)
	}

	content := &Content{
		Cells:      make(map[CellKey]int),
		Exclusions: make(map[cohort.PairKey]int),
	}
	for _, n := range rootCounts {
		content.Total += n
	}

	counts := make(map[int]map[int]int) // layer -> column -> count
	for _, b := range tpl.Bindings {
		c, ok := d.CountBy(b.Field)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownLayerReference,
				"layer %d references field %q not present in dataset", b.Layer, b.Field)
		}
		counts[b.Layer] = c
	}

	if err := checkFlowInvariant(d, tpl); err != nil {
		return nil, err
	}

	for _, cell := range tpl.Cells {
		key := CellKey{Layer: cell.Layer, Column: cell.Column}
		content.Cells[key] = counts[cell.Layer][cell.Column]
	}

	if tpl.Exclusion.Layer != 0 {
		pairs, ok := d.CountPairs(tpl.Exclusion.PriorField, tpl.Exclusion.ReasonField)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownLayerReference,
				"exclusion layer %d references fields %q/%q not present in dataset",
				tpl.Exclusion.Layer, tpl.Exclusion.PriorField, tpl.Exclusion.ReasonField)
		}
		content.Exclusions = pairs
	}

	return content, nil
}

// checkFlowInvariant verifies that a subject present at a layer was present
// at every bound layer above it.
func checkFlowInvariant(d *cohort.Dataset, tpl Template) error {
	type bound struct {
		layer  int
		values []int
	}

	layers := make([]bound, 0, len(tpl.Bindings)+1)
	if v, ok := d.Field(tpl.Root.Field); ok {
		layers = append(layers, bound{tpl.Root.Layer, v})
	}
	for _, b := range tpl.Bindings {
		if v, ok := d.Field(b.Field); ok {
			layers = append(layers, bound{b.Layer, v})
		}
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].layer < layers[j].layer })

	for i := 1; i < len(layers); i++ {
		upper, lower := layers[i-1], layers[i]
		for row := range lower.values {
			if lower.values[row] != 0 && upper.values[row] == 0 {
				return errors.New(errors.ErrCodeInvalidDataset,
					"subject %d present at layer %d but absent at layer %d",
					row+1, lower.layer, upper.layer)
			}
		}
	}
	return nil
}
