// Package accuracy provides the pure pointer-accuracy evaluation used to
// judge a reported click against its intended target center.
package accuracy

import "math"

// DefaultThreshold is the maximum pixel distance for a click to pass.
const DefaultThreshold = 5.0

// Evaluator classifies clicks against a fixed pixel threshold. It is
// stateless and safe for concurrent use.
type Evaluator struct {
	threshold float64
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithThreshold overrides the pass/fail distance threshold in pixels.
func WithThreshold(px float64) Option {
	return func(e *Evaluator) {
		if px > 0 {
			e.threshold = px
		}
	}
}

// New constructs an Evaluator with the default threshold unless overridden.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the configured pass/fail threshold in pixels.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// Evaluate computes the Euclidean distance between the observed click and
// the expected point and classifies it. A distance exactly equal to the
// threshold counts as a pass.
func (e *Evaluator) Evaluate(clickX, clickY, expectedX, expectedY float64) (float64, bool) {
	distance := math.Hypot(clickX-expectedX, clickY-expectedY)
	return distance, distance <= e.threshold
}
