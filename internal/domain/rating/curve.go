package rating

import (
	"math"

	"github.com/okian/deke/internal/domain/statline"
)

// ScalingConfig maps a 0-100 composite to the open-ended rating scale for
// one position group.
type ScalingConfig struct {
	// CurveStrength is the power applied after midpoint compression.
	// 0.5 gives skaters a square-root shape; goalies sit near linear to
	// preserve their spread.
	CurveStrength float64 `koanf:"curve_strength"`

	ScaleFactor float64 `koanf:"scale_factor"`
	Multiplier  float64 `koanf:"multiplier"`

	// MidpointCompression dampens a bloated middle of the pack without
	// touching the 0 and 1 fixed points.
	MidpointCompression float64 `koanf:"midpoint_compression"`
}

// TypicalMax is the rating a perfect 100 composite produces, the
// ceiling of the scale for a given position group.
func (c ScalingConfig) TypicalMax() float64 {
	return c.ScaleFactor * c.Multiplier
}

// CurveScaler converts adjusted composites into final ratings using
// position-specific scaling.
type CurveScaler struct {
	byPos    map[statline.PosGroup]ScalingConfig
	fallback ScalingConfig
}

// CurveOption applies a configuration option to the CurveScaler.
type CurveOption func(*CurveScaler)

// WithScalingConfigs replaces the per-position scaling table.
func WithScalingConfigs(byPos map[statline.PosGroup]ScalingConfig) CurveOption {
	return func(c *CurveScaler) {
		if len(byPos) > 0 {
			c.byPos = byPos
		}
	}
}

// NewCurveScaler creates a CurveScaler with configuration options.
func NewCurveScaler(opts ...CurveOption) *CurveScaler {
	c := &CurveScaler{
		byPos:    DefaultScalingConfigs(),
		fallback: ScalingConfig{CurveStrength: 0.5, ScaleFactor: 110, Multiplier: 1.0, MidpointCompression: 0.3},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultScalingConfigs returns the built-in per-position scaling table.
func DefaultScalingConfigs() map[statline.PosGroup]ScalingConfig {
	return map[statline.PosGroup]ScalingConfig{
		statline.PosForward: {CurveStrength: 0.5, ScaleFactor: 130, Multiplier: 1.0, MidpointCompression: 0.35},
		statline.PosDefense: {CurveStrength: 0.5, ScaleFactor: 120, Multiplier: 1.0, MidpointCompression: 0.35},
		statline.PosGoalie:  {CurveStrength: 0.825, ScaleFactor: 105, Multiplier: 1.0, MidpointCompression: 0.25},
		statline.PosTeam:    {CurveStrength: 0.6, ScaleFactor: 110, Multiplier: 1.0, MidpointCompression: 0.3},
	}
}

// Config returns the scaling config for a position group.
func (c *CurveScaler) Config(pg statline.PosGroup) ScalingConfig {
	if cfg, ok := c.byPos[pg]; ok {
		return cfg
	}
	return c.fallback
}

// Scale maps an adjusted 0-100 composite to the final rating: midpoint
// compression, then the power curve, then linear scale and multiplier.
// Floored at 0, no ceiling.
func (c *CurveScaler) Scale(pg statline.PosGroup, composite float64) float64 {
	cfg := c.Config(pg)

	v := composite / maxPercentile
	if v < 0 {
		v = 0
	}
	v = compressMidpoint(v, cfg.MidpointCompression)
	if cfg.CurveStrength > 0 {
		v = math.Pow(v, cfg.CurveStrength)
	}

	score := v * cfg.ScaleFactor * cfg.Multiplier
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	return score
}

// compressMidpoint raises v to 1 + compression*(1-v). The exponent decays
// toward 1 as v approaches 1, so 0 and 1 are fixed points and top-end
// separation survives untouched.
func compressMidpoint(v, compression float64) float64 {
	if v <= 0 || v >= 1 || compression <= 0 {
		return v
	}
	return math.Pow(v, 1+compression*(1-v))
}
