package controller

import (
	"github.com/rs/zerolog"

	"github.com/spektr-org/shelfscope/engine"
)

// DefaultHeight is the pixel height target when none is configured.
const DefaultHeight = 400

// Option configures an Instance.
type Option func(*Instance)

// WithLoader replaces the default file loader.
func WithLoader(l Loader) Option {
	return func(in *Instance) {
		in.loader = l
	}
}

// WithHeight sets the target pixel height.
func WithHeight(h int) Option {
	return func(in *Instance) {
		in.height = h
	}
}

// WithEngineOptions passes aggregation settings (top-N, year range,
// dimension bounds) through to every recompute.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(in *Instance) {
		in.engineOpts = append(in.engineOpts, opts...)
	}
}

// WithLogger routes instance diagnostics to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(in *Instance) {
		in.logger = logger
	}
}
