package rating

import (
	"math"

	"github.com/okian/deke/internal/domain/statline"
)

// AdjustProfile holds the spike-boost / consistency-penalty coefficients
// for one aggregation level.
type AdjustProfile struct {
	SpikeWeight           float64 `koanf:"spike_weight"`
	SpikeCap              float64 `koanf:"spike_cap"`
	ConsistencyWeight     float64 `koanf:"consistency_weight"`
	ConsistencyMaxPenalty float64 `koanf:"consistency_max_penalty"`
}

// Adjuster applies an aggregation-level-specific spike boost and
// consistency penalty on top of the blended composite, bounded by caps,
// without altering the underlying distributions.
type Adjuster struct {
	profiles map[statline.AggLevel]AdjustProfile
	fallback AdjustProfile
}

// AdjusterOption applies a configuration option to the Adjuster.
type AdjusterOption func(*Adjuster)

// WithAdjustProfiles replaces the per-level adjustment profiles.
func WithAdjustProfiles(profiles map[statline.AggLevel]AdjustProfile) AdjusterOption {
	return func(a *Adjuster) {
		if len(profiles) > 0 {
			a.profiles = profiles
		}
	}
}

// WithFallbackAdjustProfile sets the profile used for unrecognized levels.
func WithFallbackAdjustProfile(p AdjustProfile) AdjusterOption {
	return func(a *Adjuster) {
		a.fallback = p
	}
}

// NewAdjuster creates an Adjuster with configuration options.
func NewAdjuster(opts ...AdjusterOption) *Adjuster {
	a := &Adjuster{
		profiles: DefaultAdjustProfiles(),
		fallback: AdjustProfile{SpikeWeight: 0.2, SpikeCap: 8, ConsistencyWeight: 0.3, ConsistencyMaxPenalty: 8},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultAdjustProfiles returns the built-in adjustment table. Daily
// levels favor the spike boost; season totals favor the consistency
// penalty.
func DefaultAdjustProfiles() map[statline.AggLevel]AdjustProfile {
	daily := AdjustProfile{SpikeWeight: 0.35, SpikeCap: 12, ConsistencyWeight: 0.1, ConsistencyMaxPenalty: 3}
	weekly := AdjustProfile{SpikeWeight: 0.2, SpikeCap: 8, ConsistencyWeight: 0.25, ConsistencyMaxPenalty: 6}
	seasonal := AdjustProfile{SpikeWeight: 0.08, SpikeCap: 4, ConsistencyWeight: 0.45, ConsistencyMaxPenalty: 10}
	return map[statline.AggLevel]AdjustProfile{
		statline.PlayerDay:   daily,
		statline.TeamDay:     daily,
		statline.PlayerWeek:  weekly,
		statline.TeamWeek:    weekly,
		statline.PlayerSplit: weekly,
		statline.PlayerTotal: seasonal,
		statline.PlayerNHL:   seasonal,
		statline.TeamSeason:  seasonal,
	}
}

// Adjust applies the level's spike boost and consistency penalty to the
// blended composite. percentiles are the raw, 0-100-clamped category
// percentiles. The result is clamped to [0, 100].
func (a *Adjuster) Adjust(level statline.AggLevel, composite float64, percentiles []float64) float64 {
	profile, ok := a.profiles[level]
	if !ok {
		profile = a.fallback
	}
	if len(percentiles) == 0 {
		return clampPercentile(composite)
	}

	maxPct := 0.0
	for _, p := range percentiles {
		if p = clampPercentile(p); p > maxPct {
			maxPct = p
		}
	}

	boost := math.Max(0, maxPct-composite) * profile.SpikeWeight
	if boost > profile.SpikeCap {
		boost = profile.SpikeCap
	}

	penalty := stddev(percentiles) / maxPercentile * profile.ConsistencyWeight * maxPercentile
	if penalty > profile.ConsistencyMaxPenalty {
		penalty = profile.ConsistencyMaxPenalty
	}

	return clampPercentile(composite + boost - penalty)
}

// stddev is the population standard deviation of clamped percentiles.
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += clampPercentile(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := clampPercentile(v) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
