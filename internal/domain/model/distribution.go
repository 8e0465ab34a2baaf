package model

// Distribution defines a piecewise-linear percentile curve for one
// category via nine optional anchor points. Anchors are expected to be
// monotonically non-decreasing in value as percentile rank increases;
// consumers clamp rather than assume this strictly holds.
type Distribution struct {
	Min *float64 `koanf:"min" json:"min,omitempty"`
	P10 *float64 `koanf:"p10" json:"p10,omitempty"`
	P25 *float64 `koanf:"p25" json:"p25,omitempty"`
	P50 *float64 `koanf:"p50" json:"p50,omitempty"`
	P75 *float64 `koanf:"p75" json:"p75,omitempty"`
	P90 *float64 `koanf:"p90" json:"p90,omitempty"`
	P95 *float64 `koanf:"p95" json:"p95,omitempty"`
	P99 *float64 `koanf:"p99" json:"p99,omitempty"`
	Max *float64 `koanf:"max" json:"max,omitempty"`
}

// Anchor is one known point on a percentile curve.
type Anchor struct {
	Pct   float64
	Value float64
}

// Anchors returns the set anchor points in ascending percentile order,
// clamped so values never decrease. Absent anchors are skipped.
func (d Distribution) Anchors() []Anchor {
	fields := []struct {
		pct float64
		val *float64
	}{
		{0, d.Min},
		{10, d.P10},
		{25, d.P25},
		{50, d.P50},
		{75, d.P75},
		{90, d.P90},
		{95, d.P95},
		{99, d.P99},
		{100, d.Max},
	}

	out := make([]Anchor, 0, len(fields))
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		v := *f.val
		if n := len(out); n > 0 && v < out[n-1].Value {
			v = out[n-1].Value
		}
		out = append(out, Anchor{Pct: f.pct, Value: v})
	}
	return out
}

// Ptr is a convenience for building distributions literally.
func Ptr(v float64) *float64 { return &v }

// Dist builds a fully specified nine-anchor distribution.
func Dist(min, p10, p25, p50, p75, p90, p95, p99, max float64) Distribution {
	return Distribution{
		Min: Ptr(min), P10: Ptr(p10), P25: Ptr(p25), P50: Ptr(p50),
		P75: Ptr(p75), P90: Ptr(p90), P95: Ptr(p95), P99: Ptr(p99), Max: Ptr(max),
	}
}
