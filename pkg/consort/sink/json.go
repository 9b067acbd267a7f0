package sink

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/consort/pkg/consort"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	spec *consort.Spec
}

// WithJSONSpec records the grid spec in the JSON output so that external
// tools can reconstruct the coordinate system.
func WithJSONSpec(spec consort.Spec) JSONOption {
	return func(r *jsonRenderer) { r.spec = &spec }
}

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Spec       *jsonSpec       `json:"spec,omitempty"`
	Primitives []jsonPrimitive `json:"primitives"`
}

type jsonSpec struct {
	Columns       int     `json:"columns"`
	ColumnWidth   float64 `json:"column_width"`
	ColumnSpacing float64 `json:"column_spacing"`
	Layers        int     `json:"layers"`
	LayerDepth    float64 `json:"layer_depth"`
	LayerSpacing  float64 `json:"layer_spacing"`
}

type jsonPrimitive struct {
	Kind string `json:"kind"`

	// Box
	X *jsonExtent `json:"x,omitempty"`
	Y *jsonExtent `json:"y,omitempty"`

	// Label
	TextX float64 `json:"text_x,omitempty"`
	TextY float64 `json:"text_y,omitempty"`
	Text  string  `json:"text,omitempty"`
	Align string  `json:"align,omitempty"`

	// Arrow
	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`
}

type jsonExtent struct {
	Near   float64 `json:"near"`
	Center float64 `json:"center"`
	Far    float64 `json:"far"`
}

// RenderJSON exports the primitive sequence as a pretty-printed JSON
// document, preserving emission order. This is the data interchange format
// for external visualization tools and for caching computed layouts.
func RenderJSON(d *consort.Diagram, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      d.Width,
		Height:     d.Height,
		Primitives: make([]jsonPrimitive, 0, len(d.Primitives)),
	}
	if r.spec != nil {
		out.Spec = &jsonSpec{
			Columns:       r.spec.ColumnCount,
			ColumnWidth:   r.spec.ColumnWidth,
			ColumnSpacing: r.spec.ColumnSpacing,
			Layers:        r.spec.LayerCount,
			LayerDepth:    r.spec.LayerDepth,
			LayerSpacing:  r.spec.LayerSpacing,
		}
	}

	for _, p := range d.Primitives {
		switch prim := p.(type) {
		case consort.Box:
			out.Primitives = append(out.Primitives, jsonPrimitive{
				Kind: prim.Kind(),
				X:    &jsonExtent{Near: prim.X.Near, Center: prim.X.Center, Far: prim.X.Far},
				Y:    &jsonExtent{Near: prim.Y.Near, Center: prim.Y.Center, Far: prim.Y.Far},
			})
		case consort.Label:
			out.Primitives = append(out.Primitives, jsonPrimitive{
				Kind:  prim.Kind(),
				TextX: prim.X,
				TextY: prim.Y,
				Text:  prim.Text,
				Align: string(prim.Align),
			})
		case consort.Arrow:
			out.Primitives = append(out.Primitives, jsonPrimitive{
				Kind: prim.Kind(),
				X1:   prim.X1, Y1: prim.Y1,
				X2: prim.X2, Y2: prim.Y2,
			})
		default:
			return nil, fmt.Errorf("unknown primitive kind %q", p.Kind())
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
