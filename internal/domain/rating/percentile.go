// Package rating implements the ranking pipeline: percentile scoring,
// composite blending, behavior adjustment and curve scaling of raw stat
// lines into open-ended ratings. The whole pipeline is a pure, stateless
// function chain; the only external state is the injected model table,
// treated as a read-only snapshot.
package rating

import (
	"math"

	"github.com/okian/deke/internal/domain/model"
)

// Default scoring constants.
const (
	// defaultTransformExponent spreads the top tail: a 99th-percentile
	// performance separates disproportionately from a 90th.
	defaultTransformExponent = 1.8

	maxPercentile = 100.0
)

// Scorer maps raw category values to transformed percentiles using a
// distribution's anchor points.
type Scorer struct {
	exponent float64
}

// ScorerOption applies a configuration option to the Scorer.
type ScorerOption func(*Scorer)

// WithTransformExponent sets the exponential top-end transform exponent.
func WithTransformExponent(k float64) ScorerOption {
	return func(s *Scorer) {
		if k > 0 {
			s.exponent = k
		}
	}
}

// NewScorer creates a Scorer with configuration options.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{exponent: defaultTransformExponent}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Percentile estimates the raw 0-100 percentile of value on the
// distribution for cat, applying the lower-is-better inversion after
// interpolation. ok is false when the distribution has no usable anchors
// and the category must be skipped from averaging.
func (s *Scorer) Percentile(d model.Distribution, cat string, value float64) (float64, bool) {
	p, ok := interpolate(d, value)
	if !ok {
		return 0, false
	}
	if model.LowerIsBetter(cat) {
		p = maxPercentile - p
	}
	return p, true
}

// Transform applies the exponential top-end transform to a raw
// percentile: (p/100)^k * 100.
func (s *Scorer) Transform(p float64) float64 {
	p = clampPercentile(p)
	return math.Pow(p/maxPercentile, s.exponent) * maxPercentile
}

// interpolate performs piecewise-linear interpolation over the anchor
// points. Values at or below the lowest anchor clamp to its percentile,
// values at or above the highest clamp to its percentile. Equal bracketing
// anchors return the lower percentile of the bracket instead of dividing
// by zero.
func interpolate(d model.Distribution, value float64) (float64, bool) {
	anchors := d.Anchors()
	if len(anchors) == 0 {
		return 0, false
	}
	if math.IsNaN(value) {
		return anchors[0].Pct, true
	}
	if value <= anchors[0].Value {
		return anchors[0].Pct, true
	}
	last := anchors[len(anchors)-1]
	if value >= last.Value {
		return last.Pct, true
	}
	for i := 1; i < len(anchors); i++ {
		lo, hi := anchors[i-1], anchors[i]
		if value > hi.Value {
			continue
		}
		if hi.Value == lo.Value {
			return lo.Pct, true
		}
		frac := (value - lo.Value) / (hi.Value - lo.Value)
		return lo.Pct + frac*(hi.Pct-lo.Pct), true
	}
	return last.Pct, true
}

func clampPercentile(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > maxPercentile:
		return maxPercentile
	default:
		return p
	}
}
