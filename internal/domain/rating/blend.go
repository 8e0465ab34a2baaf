package rating

import (
	"sort"

	"github.com/okian/deke/internal/domain/statline"
)

// Top-N subset sizes blended into the composite.
const (
	top2 = 2
	top3 = 3
	top5 = 5
)

// BlendProfile weights the all-category average against the top-N spike
// subsets. Daily levels weight the subsets heavily to reward standout
// single-game swings; season totals weight the average to reward
// consistency.
type BlendProfile struct {
	All  float64 `koanf:"all"`
	Top5 float64 `koanf:"top5"`
	Top3 float64 `koanf:"top3"`
	Top2 float64 `koanf:"top2"`
}

func (p BlendProfile) total() float64 {
	return p.All + p.Top5 + p.Top3 + p.Top2
}

// categoryScore is one category's contribution to the blend. percentile
// is the raw (pre-transform) percentile; subset selection orders by it
// so the transform exponent cannot reshuffle the spike subsets.
type categoryScore struct {
	category    string
	percentile  float64
	transformed float64
	weight      float64
}

// Blender combines per-category transformed percentiles into one 0-100
// composite using configured weights and aggregation-level blend profiles.
type Blender struct {
	profiles map[statline.AggLevel]BlendProfile
	fallback BlendProfile

	// weightMultipliers optionally adjusts a category's model weight per
	// aggregation level. Missing entries mean 1.0.
	weightMultipliers map[statline.AggLevel]map[string]float64
}

// BlenderOption applies a configuration option to the Blender.
type BlenderOption func(*Blender)

// WithBlendProfiles replaces the per-level blend profiles.
func WithBlendProfiles(profiles map[statline.AggLevel]BlendProfile) BlenderOption {
	return func(b *Blender) {
		if len(profiles) > 0 {
			b.profiles = profiles
		}
	}
}

// WithFallbackBlendProfile sets the profile used for unrecognized levels.
func WithFallbackBlendProfile(p BlendProfile) BlenderOption {
	return func(b *Blender) {
		if p.total() > 0 {
			b.fallback = p
		}
	}
}

// WithWeightMultipliers sets the level-specific category weight
// multiplier table.
func WithWeightMultipliers(m map[statline.AggLevel]map[string]float64) BlenderOption {
	return func(b *Blender) {
		b.weightMultipliers = m
	}
}

// NewBlender creates a Blender with configuration options.
func NewBlender(opts ...BlenderOption) *Blender {
	b := &Blender{
		profiles: DefaultBlendProfiles(),
		fallback: BlendProfile{All: 0.5, Top5: 0.2, Top3: 0.2, Top2: 0.1},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DefaultBlendProfiles returns the built-in blend profile table.
func DefaultBlendProfiles() map[statline.AggLevel]BlendProfile {
	daily := BlendProfile{All: 0.2, Top5: 0.2, Top3: 0.3, Top2: 0.3}
	weekly := BlendProfile{All: 0.45, Top5: 0.25, Top3: 0.2, Top2: 0.1}
	seasonal := BlendProfile{All: 0.7, Top5: 0.2, Top3: 0.1, Top2: 0}
	return map[statline.AggLevel]BlendProfile{
		statline.PlayerDay:   daily,
		statline.TeamDay:     daily,
		statline.PlayerWeek:  weekly,
		statline.TeamWeek:    weekly,
		statline.PlayerSplit: {All: 0.6, Top5: 0.2, Top3: 0.15, Top2: 0.05},
		statline.PlayerTotal: seasonal,
		statline.PlayerNHL:   seasonal,
		statline.TeamSeason:  seasonal,
	}
}

// Blend computes the composite for one stat line from its category
// scores. Categories with non-positive effective weight contribute
// nothing. A non-positive blend total falls back to the unblended
// all-category average.
func (b *Blender) Blend(level statline.AggLevel, scores []categoryScore) float64 {
	weighted := make([]categoryScore, 0, len(scores))
	for _, s := range scores {
		s.weight *= b.multiplier(level, s.category)
		if s.weight > 0 {
			weighted = append(weighted, s)
		}
	}
	if len(weighted) == 0 {
		return 0
	}

	all := weightedAverage(weighted)

	// Rank categories by percentile x weight so the spike subsets reward
	// being exceptional at a few things.
	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].percentile*weighted[i].weight > weighted[j].percentile*weighted[j].weight
	})

	profile, ok := b.profiles[level]
	if !ok {
		profile = b.fallback
	}
	total := profile.total()
	if total <= 0 {
		return all
	}

	blend := profile.All*all +
		profile.Top5*weightedAverage(topN(weighted, top5)) +
		profile.Top3*weightedAverage(topN(weighted, top3)) +
		profile.Top2*weightedAverage(topN(weighted, top2))
	return blend / total
}

func (b *Blender) multiplier(level statline.AggLevel, category string) float64 {
	if byCat, ok := b.weightMultipliers[level]; ok {
		if m, ok := byCat[category]; ok && m > 0 {
			return m
		}
	}
	return 1.0
}

func topN(scores []categoryScore, n int) []categoryScore {
	if len(scores) < n {
		return scores
	}
	return scores[:n]
}

func weightedAverage(scores []categoryScore) float64 {
	var sum, weight float64
	for _, s := range scores {
		sum += s.transformed * s.weight
		weight += s.weight
	}
	if weight <= 0 {
		return 0
	}
	return sum / weight
}
