package cv

// CV operation options
type Option func(*MatchConfig)

// WithThreshold sets the matching threshold option
func WithThreshold(t float64) Option {
	return func(config *MatchConfig) {
		config.Threshold = t
	}
}

// WithRegion sets the search region option
func WithRegion(r *Region) Option {
	return func(config *MatchConfig) {
		if r != nil {
			config.SearchRegion = r.ToImageRectangle()
		}
	}
}

// NewMatchConfig builds a config from defaults plus the given options
func NewMatchConfig(opts ...Option) *MatchConfig {
	config := DefaultMatchConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}
