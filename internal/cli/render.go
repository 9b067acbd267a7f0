package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/consort/pkg/cache"
	"github.com/matzehuels/consort/pkg/cohort"
	"github.com/matzehuels/consort/pkg/consort"
	"github.com/matzehuels/consort/pkg/consort/flowgraph"
	"github.com/matzehuels/consort/pkg/consort/sink"
	apperrors "github.com/matzehuels/consort/pkg/errors"
)

const (
	vizDiagram   = "diagram"   // grid-laid boxes, labels and arrows
	vizFlowgraph = "flowgraph" // Graphviz node-link view
	defaultScale = 2.0         // PNG resolution multiplier
	cacheTTL     = 30 * 24 * time.Hour
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string        // output file path (or base path for multiple outputs)
	vizTypes []string      // visualization types: "diagram", "flowgraph"
	formats  []string      // output formats: "svg", "json", "pdf", "png"
	template string        // template TOML file (empty = built-in template)
	grid     gridOverrides // per-flag grid scalar overrides
	scale    float64       // PNG resolution multiplier
	noCache  bool          // skip the conversion artifact cache
}

// gridOverrides carries grid scalars set on the command line. Zero values
// keep the template's scalars.
type gridOverrides struct {
	columns       int
	columnWidth   float64
	columnSpacing float64
	layers        int
	layerDepth    float64
	layerSpacing  float64
}

// apply overwrites the non-zero override scalars onto s. Negative values
// pass through and fail grid validation downstream.
func (o gridOverrides) apply(s *consort.Spec) {
	if o.columns != 0 {
		s.ColumnCount = o.columns
	}
	if o.columnWidth != 0 {
		s.ColumnWidth = o.columnWidth
	}
	if o.columnSpacing != 0 {
		s.ColumnSpacing = o.columnSpacing
	}
	if o.layers != 0 {
		s.LayerCount = o.layers
	}
	if o.layerDepth != 0 {
		s.LayerDepth = o.layerDepth
	}
	if o.layerSpacing != 0 {
		s.LayerSpacing = o.layerSpacing
	}
}

// newRenderCmd creates the render command for generating diagrams.
// It supports two visualization types (diagram, flowgraph) and four output
// formats (SVG, JSON, PDF, PNG).
func newRenderCmd() *cobra.Command {
	var vizTypesStr, formatsStr string
	opts := renderOpts{scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render [dataset.csv]",
		Short: "Render a participant-flow diagram from a CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = parseVizTypes(vizTypesStr)
			opts.formats = parseFormats(formatsStr)
			if err := validateVizTypes(opts.vizTypes); err != nil {
				return err
			}
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single type/format) or base path (multiple)")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "visualization type(s): diagram (default), flowgraph (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.template, "template", "", "diagram template TOML file (default: built-in two-arm template)")
	cmd.Flags().IntVar(&opts.grid.columns, "columns", 0, "override the template's column count")
	cmd.Flags().Float64Var(&opts.grid.columnWidth, "column-width", 0, "override the template's column width")
	cmd.Flags().Float64Var(&opts.grid.columnSpacing, "column-spacing", 0, "override the template's column spacing")
	cmd.Flags().IntVar(&opts.grid.layers, "layers", 0, "override the template's layer count")
	cmd.Flags().Float64Var(&opts.grid.layerDepth, "layer-depth", 0, "override the template's layer depth")
	cmd.Flags().Float64Var(&opts.grid.layerSpacing, "layer-spacing", 0, "override the template's layer spacing")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the conversion artifact cache")

	return cmd
}

// parseVizTypes parses the --type flag into a slice of visualization types.
// If empty, defaults to ["diagram"].
func parseVizTypes(s string) []string {
	if s == "" {
		return []string{vizDiagram}
	}
	return strings.Split(s, ",")
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "json": true, "pdf": true, "png": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return apperrors.New(apperrors.ErrCodeInvalidFormat,
				"invalid format: %s (must be 'svg', 'json', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// validateVizTypes checks that all requested visualization types are valid.
func validateVizTypes(types []string) error {
	for _, t := range types {
		if t != vizDiagram && t != vizFlowgraph {
			return apperrors.New(apperrors.ErrCodeInvalidVizType,
				"invalid type: %s (must be 'diagram' or 'flowgraph')", t)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
// This is used when generating multiple files (e.g., trial_diagram.svg, trial_flowgraph.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the dataset and template, builds the diagram, and renders
// it to the requested type/format combinations.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	d, err := cohort.ReadCSVFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded dataset: %d subjects, %d fields", d.Len(), len(d.Fields()))

	tpl := consort.DefaultTemplate()
	if opts.template != "" {
		tpl, err = consort.LoadTemplate(opts.template)
		if err != nil {
			return err
		}
		logger.Debugf("Loaded template %s: %d cells", opts.template, len(tpl.Cells))
	}
	opts.grid.apply(&tpl.Grid)

	artifacts, err := openArtifactCache(opts.noCache)
	if err != nil {
		logger.Warnf("Artifact cache unavailable: %v", err)
		artifacts = cache.NewNullCache()
	}
	defer artifacts.Close()

	r := diagramRenderer{dataset: d, template: tpl, opts: opts, artifacts: artifacts}

	if len(opts.vizTypes) == 1 && len(opts.formats) == 1 {
		outputPath := opts.output
		if outputPath == "" {
			outputPath = basePath("", input) + "." + opts.formats[0]
		}
		if err := r.renderAndWrite(ctx, opts.vizTypes[0], opts.formats[0], outputPath); err != nil {
			if errors.Is(err, errSkipFormat) {
				printWarning("%s output is not available for the %s type", opts.formats[0], opts.vizTypes[0])
				return nil
			}
			return err
		}
		return nil
	}

	base := basePath(opts.output, input)
	for _, vizType := range opts.vizTypes {
		for _, format := range opts.formats {
			var path string
			if len(opts.vizTypes) == 1 {
				path = fmt.Sprintf("%s.%s", base, format)
			} else {
				path = fmt.Sprintf("%s_%s.%s", base, vizType, format)
			}
			if err := r.renderAndWrite(ctx, vizType, format, path); err != nil {
				if errors.Is(err, errSkipFormat) {
					loggerFromContext(ctx).Debugf("Skipping %s/%s (unsupported combination)", vizType, format)
					continue
				}
				return fmt.Errorf("%s/%s: %w", vizType, format, err)
			}
		}
	}
	return nil
}

// errSkipFormat is the sentinel for a format/visualization combination that
// has no output, such as JSON for the flow graph. Multi-output runs skip the
// combination instead of failing.
var errSkipFormat = apperrors.New(apperrors.ErrCodeUnsupported, "format not supported for this visualization type")

// diagramRenderer bundles everything a single render run needs.
type diagramRenderer struct {
	dataset   *cohort.Dataset
	template  consort.Template
	opts      *renderOpts
	artifacts cache.Cache
}

// renderAndWrite renders one viz/format combination and writes it to path.
func (r *diagramRenderer) renderAndWrite(ctx context.Context, vizType, format, path string) error {
	logger := loggerFromContext(ctx)

	var data []byte
	var err error
	switch vizType {
	case vizFlowgraph:
		data, err = r.renderFlowgraph(ctx, format)
	case vizDiagram:
		data, err = r.renderDiagram(ctx, format)
	default:
		return apperrors.New(apperrors.ErrCodeInternal, "unknown visualization type: %s", vizType)
	}
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	logger.Infof("Generated %s", path)
	printFile(path)
	return nil
}

// renderDiagram builds the grid diagram and renders it to the requested
// format. PNG and PDF conversions go through the artifact cache.
func (r *diagramRenderer) renderDiagram(ctx context.Context, format string) ([]byte, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	diagram, err := consort.BuildDiagram(r.dataset, r.template)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Diagram computed: %d primitives", len(diagram.Primitives))

	switch format {
	case "svg":
		defer prog.done("Rendered diagram SVG")
		return sink.RenderSVG(diagram), nil
	case "json":
		defer prog.done("Rendered diagram JSON")
		return sink.RenderJSON(diagram, sink.WithJSONSpec(r.template.Grid))
	case "png", "pdf":
		data, cached, err := r.convert(ctx, diagram, format)
		if err != nil {
			return nil, err
		}
		printStats(r.dataset.Len(), len(diagram.Primitives), cached)
		prog.done("Rendered diagram " + strings.ToUpper(format))
		return data, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInternal, "unknown format: %s", format)
	}
}

// convert runs the SVG-to-raster conversion, consulting the artifact cache
// first. The cache key hashes the SVG bytes plus format and scale, so any
// change to the diagram or options misses cleanly.
func (r *diagramRenderer) convert(ctx context.Context, diagram *consort.Diagram, format string) ([]byte, bool, error) {
	svg := sink.RenderSVG(diagram)
	key := cache.ArtifactKey(svg, format, r.opts.scale)

	if data, ok, err := r.artifacts.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	sp := newSpinner(ctx, "Converting "+format)
	sp.Start()
	defer sp.Stop()

	var data []byte
	var err error
	switch format {
	case "png":
		data, err = sink.RenderPNG(diagram, sink.WithScale(r.opts.scale))
	case "pdf":
		data, err = sink.RenderPDF(diagram)
	}
	if err != nil {
		return nil, false, err
	}

	if err := r.artifacts.Set(ctx, key, data, cacheTTL); err != nil {
		loggerFromContext(ctx).Debugf("Artifact cache write failed: %v", err)
	}
	return data, false, nil
}

// renderFlowgraph renders the Graphviz node-link view. JSON is not
// supported for this type (returns errSkipFormat).
func (r *diagramRenderer) renderFlowgraph(ctx context.Context, format string) ([]byte, error) {
	logger := loggerFromContext(ctx)
	logger.Info("Generating flow graph")

	content, err := consort.Resolve(r.dataset, r.template)
	if err != nil {
		return nil, err
	}
	dot := flowgraph.ToDOT(r.template, content)

	switch format {
	case "svg":
		logger.Info("Rendering flow graph SVG")
		return flowgraph.RenderSVG(dot)
	case "png":
		logger.Info("Rendering flow graph PNG")
		return flowgraph.RenderPNG(dot)
	case "pdf":
		logger.Info("Rendering flow graph PDF")
		return flowgraph.RenderPDF(dot)
	case "json":
		return nil, errSkipFormat // primitive export only makes sense for the grid diagram
	default:
		return nil, apperrors.New(apperrors.ErrCodeInternal, "unknown format: %s", format)
	}
}

// openArtifactCache opens the file-backed conversion cache under the user
// cache directory, or a null cache when disabled.
func openArtifactCache(disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
