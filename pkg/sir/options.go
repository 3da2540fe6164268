package sir

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Option applies a configuration option to an Engine.
type Option func(*Engine)

// WithStorage makes the engine write its results into caller-owned tables
// instead of allocating its own. state must have NumStates columns and events
// NumEvents columns; both need at least one row per projected year. Extra rows
// are left untouched.
func WithStorage(state, events *mat.Dense) Option {
	return func(e *Engine) {
		e.state = state
		e.events = events
		e.external = true
	}
}

// WithScheme sets the integration scheme. The default is SchemeRK4.
func WithScheme(scheme Scheme) Option {
	return func(e *Engine) {
		e.scheme = scheme
	}
}

// WithSubsteps sets the number of integration sub-steps per year.
// Values below one are ignored.
func WithSubsteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.substeps = n
		}
	}
}

// WithLogger sets the logger used for per-year debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
