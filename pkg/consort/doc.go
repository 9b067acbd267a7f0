// Package consort computes participant-flow (CONSORT) diagram layouts.
//
// # Overview
//
// A CONSORT diagram arranges the stages of a clinical trial as a grid of
// layers (top to bottom, one per stage) and columns (left to right, one per
// subgroup). This package implements the three-stage pipeline that turns
// subject-level data into a drawable diagram:
//
//  1. Grid geometry ([BuildGrid]): convert the grid scalars into absolute
//     coordinate extents for every column and layer.
//  2. Content resolution ([Resolve]): aggregate the dataset into per-cell
//     counts and the exclusion-reason breakdown.
//  3. Rendering ([BuildDiagram]): walk the template in layer-then-column
//     order and emit draw primitives (boxes, labels, arrows).
//
// # Pipeline
//
//	d := cohort.Sample()
//	tpl := consort.DefaultTemplate()
//
//	diagram, err := consort.BuildDiagram(d, tpl)
//	if err != nil { ... }
//
//	svg := sink.RenderSVG(diagram)
//
// The computation is pure: the same dataset and template always produce the
// same primitive sequence, and nothing is mutated after construction.
//
// # Subpackages
//
//   - [sink]: output generators (SVG, PNG, PDF, JSON).
//   - [flowgraph]: Graphviz node-link view of the same flow.
//
// [sink]: github.com/matzehuels/consort/pkg/consort/sink
// [flowgraph]: github.com/matzehuels/consort/pkg/consort/flowgraph
package consort
