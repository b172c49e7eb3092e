package cv

// Template describes a named template image and how it should be matched.
// Threshold and Region travel with the template so callers only need a name;
// either can still be overridden per call.
type Template struct {
	Name      string
	Path      string
	Threshold float64
	Region    *Region
}

// Builder methods

// InRegion sets the search region for the template
func (t Template) InRegion(x1, y1, x2, y2 int) Template {
	region := NewRegion(x1, y1, x2, y2)
	t.Region = &region
	return t
}

// WithThreshold sets the matching threshold
func (t Template) WithThreshold(threshold float64) Template {
	t.Threshold = threshold
	return t
}

// MatchConfig builds the matching configuration carried by the template
func (t Template) MatchConfig() *MatchConfig {
	config := DefaultMatchConfig()
	if t.Threshold > 0 {
		config.Threshold = t.Threshold
	}
	if t.Region != nil {
		config.SearchRegion = t.Region.ToImageRectangle()
	}
	return config
}
