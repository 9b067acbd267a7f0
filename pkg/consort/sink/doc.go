// Package sink exports computed diagrams to their final formats.
//
// The SVG renderer is the base: it walks the diagram's primitive sequence in
// order and writes one SVG element per primitive, flipping the y axis from
// diagram coordinates (origin bottom-left) to SVG coordinates (origin
// top-left). PNG and PDF are produced by converting the SVG with librsvg,
// and JSON exports the raw primitive sequence for external tooling.
package sink
