package consort

// Style collects the visual tuning constants of the renderer. The values are
// expressed in multiples of the layer spacing so that they scale with the
// grid. They affect where arrows start, never which cells are drawn.
type Style struct {
	// OpenArrowLead positions the start of an open cell's outbound arrow:
	// the arrow begins this many layer spacings above the following layer's
	// far edge and ends on that edge.
	OpenArrowLead float64 `toml:"open_arrow_lead"`

	// SplitArrowLead positions the start of an inbound arrow whose source
	// column differs from its target (a split or merge in the flow): the
	// arrow begins this many layer spacings above the target layer's far
	// edge, under the source column's center.
	SplitArrowLead float64 `toml:"split_arrow_lead"`
}

// DefaultStyle returns the tuning used by the reference diagram.
func DefaultStyle() Style {
	return Style{
		OpenArrowLead:  1.2,
		SplitArrowLead: 2.0,
	}
}

// orDefault fills zero-valued fields from the defaults, so that templates
// loaded from TOML may omit the style table entirely.
func (s Style) orDefault() Style {
	def := DefaultStyle()
	if s.OpenArrowLead == 0 {
		s.OpenArrowLead = def.OpenArrowLead
	}
	if s.SplitArrowLead == 0 {
		s.SplitArrowLead = def.SplitArrowLead
	}
	return s
}
