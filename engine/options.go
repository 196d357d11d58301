package engine

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/spektr-org/shelfscope/schema"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Defaults for per-chart configuration.
const (
	DefaultTopN               = 10
	DefaultMinYear            = 1900
	DefaultMinDims            = 4
	DefaultMaxDims            = 6
	DefaultMaxLines           = 550
	DefaultMaxMissingRatio    = 0.4
	DefaultRowMissingFraction = 0.5
)

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	TopN         int
	DedupeGenres bool // count a genre once per row even if the cell repeats it

	MinYear float64 // inclusive
	MaxYear float64 // inclusive, +Inf = unbounded

	MinDims            int
	MaxDims            int
	MaxLines           int     // <= 0 disables the cap
	MaxMissingRatio    float64 // column sparsity limit for axis candidates
	RowMissingFraction float64 // allowed holes per row = floor(dims * fraction)
	Exclude            []string

	Logger zerolog.Logger
}

// WithTopN limits the genre ranking. Non-positive values keep the default.
func WithTopN(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

// WithGenreDedupe counts a genre at most once per row.
func WithGenreDedupe(on bool) Option {
	return func(c *config) {
		c.DedupeGenres = on
	}
}

// WithYearRange sets the inclusive heatmap year filter.
// Use math.Inf(-1) / math.Inf(1) for an open bound.
func WithYearRange(min, max float64) Option {
	return func(c *config) {
		c.MinYear = min
		c.MaxYear = max
	}
}

// WithDimensionBounds sets the floor and ceiling of selected axes.
func WithDimensionBounds(minDims, maxDims int) Option {
	return func(c *config) {
		c.MinDims = minDims
		c.MaxDims = maxDims
	}
}

// WithMaxLines caps plotted projection rows. 0 disables the cap.
func WithMaxLines(n int) Option {
	return func(c *config) {
		c.MaxLines = n
	}
}

// WithMaxMissingRatio sets the column sparsity limit (default 0.4).
func WithMaxMissingRatio(r float64) Option {
	return func(c *config) {
		c.MaxMissingRatio = r
	}
}

// WithRowMissingFraction sets how many holes a projected row may have,
// as a fraction of the selected dimensions (default 0.5 → floor(dims/2)).
func WithRowMissingFraction(f float64) Option {
	return func(c *config) {
		c.RowMissingFraction = f
	}
}

// WithExclude replaces the identifier exclusion set.
func WithExclude(keys ...string) Option {
	return func(c *config) {
		c.Exclude = keys
	}
}

// WithLogger routes engine diagnostics to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.Logger = logger
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN:               DefaultTopN,
		MinYear:            DefaultMinYear,
		MaxYear:            math.Inf(1),
		MinDims:            DefaultMinDims,
		MaxDims:            DefaultMaxDims,
		MaxLines:           DefaultMaxLines,
		MaxMissingRatio:    DefaultMaxMissingRatio,
		RowMissingFraction: DefaultRowMissingFraction,
		Exclude:            schema.DefaultExclude,
		Logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
