package rating

import (
	"math"

	"github.com/okian/deke/internal/domain/model"
	"github.com/okian/deke/internal/domain/statline"
)

// CategoryScore is one category's entry in a ranking breakdown.
type CategoryScore struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Percentile float64 `json:"percentile"`
	Weight     float64 `json:"weight"`
	// Contribution is the category's weighted share of the all-category
	// average, after the top-end transform.
	Contribution float64 `json:"contribution"`
}

// Result is the outcome of ranking one stat line.
//
// Valid is false when no model matched and no global fallback weights
// exist: "no rating available", distinct from a computed zero. A verified
// did-not-play line yields Valid=true with Score=NaN.
type Result struct {
	Score      float64         `json:"score"`
	Valid      bool            `json:"valid"`
	Percentile float64         `json:"percentile"`
	Breakdown  []CategoryScore `json:"breakdown"`

	// IsOutlier marks adjusted composites beyond the resolved model's
	// observed p99 composite.
	IsOutlier bool `json:"isOutlier"`

	// LowConfidence marks scores produced by the global-weights fallback,
	// whose percentile is only an approximation.
	LowConfidence bool `json:"lowConfidence"`

	// Degraded marks results built on a best-effort classification.
	Degraded bool `json:"degraded"`

	GamesPlayed float64             `json:"gamesPlayed"`
	Entity      statline.EntityType `json:"entityType"`
	EntityID    string              `json:"entityId"`
	Level       statline.AggLevel   `json:"aggregationLevel"`
	Phase       statline.Phase      `json:"seasonPhase"`
	ModelKey    string              `json:"modelKey,omitempty"`
}

// DidNotPlay reports whether the result is a verified zero performance.
func (r Result) DidNotPlay() bool {
	return r.Valid && math.IsNaN(r.Score)
}

// Ranker runs the full pipeline per stat line. It performs no I/O and
// keeps no mutable state, so independent calls may run concurrently.
type Ranker struct {
	classifier *statline.Classifier
	resolver   *Resolver
	table      model.Table
	scorer     *Scorer
	blender    *Blender
	adjuster   *Adjuster
	curve      *CurveScaler

	// globalWeights back the flat linear fallback when no model resolves.
	globalWeights map[string]float64
}

// RankerOption applies a configuration option to the Ranker.
type RankerOption func(*Ranker)

// WithClassifier sets a custom classifier.
func WithClassifier(c *statline.Classifier) RankerOption {
	return func(r *Ranker) {
		if c != nil {
			r.classifier = c
		}
	}
}

// WithScorer sets a custom percentile scorer.
func WithScorer(s *Scorer) RankerOption {
	return func(r *Ranker) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithBlender sets a custom composite blender.
func WithBlender(b *Blender) RankerOption {
	return func(r *Ranker) {
		if b != nil {
			r.blender = b
		}
	}
}

// WithAdjuster sets a custom behavior adjuster.
func WithAdjuster(a *Adjuster) RankerOption {
	return func(r *Ranker) {
		if a != nil {
			r.adjuster = a
		}
	}
}

// WithCurveScaler sets a custom curve scaler.
func WithCurveScaler(c *CurveScaler) RankerOption {
	return func(r *Ranker) {
		if c != nil {
			r.curve = c
		}
	}
}

// WithGlobalWeights sets the flat category weights used when no model
// resolves at all.
func WithGlobalWeights(weights map[string]float64) RankerOption {
	return func(r *Ranker) {
		r.globalWeights = weights
	}
}

// NewRanker creates a Ranker over a model table with configuration
// options. The table is the only dependency the pipeline reads.
func NewRanker(table model.Table, opts ...RankerOption) *Ranker {
	r := &Ranker{
		classifier: statline.New(),
		table:      table,
		scorer:     NewScorer(),
		blender:    NewBlender(),
		adjuster:   NewAdjuster(),
		curve:      NewCurveScaler(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resolver = NewResolver(table)
	return r
}

// Rank converts one stat line into a rating.
func (r *Ranker) Rank(line statline.StatLine) Result {
	cls, err := r.classifier.Classify(line)
	degraded := false
	if err != nil {
		cls = r.classifier.ClassifyBestEffort(line)
		degraded = true
	}

	res := Result{
		Degraded:    degraded,
		GamesPlayed: line.NumOr(statline.FieldGamesPlayed, 0),
		Entity:      cls.Entity,
		EntityID:    line.EntityID(),
		Level:       cls.Level,
		Phase:       cls.Phase,
	}

	cats := model.CategoriesFor(cls.PosGroup, cls.SeasonID)

	m, found := r.resolver.Resolve(cls)
	weights := r.globalWeights
	if found {
		weights = m.Weights
		res.ModelKey = m.Key.String()
	}

	if verifiedZero(line, cls.PosGroup) {
		res.Valid = true
		res.Score = math.NaN()
		res.Breakdown = zeroBreakdown(line, cats, weights)
		return res
	}

	if !found {
		if len(r.globalWeights) == 0 {
			return res // Valid=false: no rating available
		}
		return r.rankWithGlobalWeights(line, cls, cats, res)
	}

	scores := make([]categoryScore, 0, len(cats))
	rawPercentiles := make([]float64, 0, len(cats))
	breakdown := make([]CategoryScore, 0, len(cats))
	scored := make([]bool, 0, len(cats))
	var weightSum float64

	for _, cat := range cats {
		value := line.NumOr(cat, 0)
		weight := m.Weights[cat]
		entry := CategoryScore{Category: cat, Value: value, Weight: weight}

		dist, hasDist := m.Distributions[cat]
		if !hasDist {
			// Distribution gap: skipped from averaging, zero contribution.
			breakdown = append(breakdown, entry)
			scored = append(scored, false)
			continue
		}
		raw, ok := r.scorer.Percentile(dist, cat, value)
		if !ok {
			breakdown = append(breakdown, entry)
			scored = append(scored, false)
			continue
		}

		raw = clampPercentile(raw)
		entry.Percentile = raw
		rawPercentiles = append(rawPercentiles, raw)
		scores = append(scores, categoryScore{
			category:    cat,
			percentile:  raw,
			transformed: r.scorer.Transform(raw),
			weight:      weight,
		})
		weightSum += weight
		breakdown = append(breakdown, entry)
		scored = append(scored, true)
	}

	if weightSum > 0 {
		for i := range breakdown {
			if !scored[i] {
				continue
			}
			breakdown[i].Contribution = r.scorer.Transform(breakdown[i].Percentile) * breakdown[i].Weight / weightSum
		}
	}

	composite := r.blender.Blend(cls.Level, scores)
	adjusted := r.adjuster.Adjust(cls.Level, composite, rawPercentiles)
	score := r.curve.Scale(cls.PosGroup, adjusted)

	res.Valid = true
	res.Score = score
	res.Percentile = adjusted
	res.Breakdown = breakdown
	res.IsOutlier = isOutlier(m, adjusted)
	return res
}

// isOutlier reports whether the adjusted composite clears the model's
// observed p99 composite. Models without a composite distribution never
// flag outliers.
func isOutlier(m model.SeasonModel, adjusted float64) bool {
	if m.Composite == nil || m.Composite.P99 == nil {
		return false
	}
	return adjusted > *m.Composite.P99
}

// RankAll ranks a batch sequentially; output order matches input order.
func (r *Ranker) RankAll(lines []statline.StatLine) []Result {
	out := make([]Result, len(lines))
	for i, line := range lines {
		out[i] = r.Rank(line)
	}
	return out
}

// rankWithGlobalWeights is the no-model fallback: a flat linear weighted
// sum of raw values with an approximate percentile.
func (r *Ranker) rankWithGlobalWeights(line statline.StatLine, cls statline.Classification, cats []string, res Result) Result {
	var score float64
	breakdown := make([]CategoryScore, 0, len(cats))
	for _, cat := range cats {
		value := line.NumOr(cat, 0)
		weight := r.globalWeights[cat]
		breakdown = append(breakdown, CategoryScore{
			Category:     cat,
			Value:        value,
			Weight:       weight,
			Contribution: value * weight,
		})
		score += value * weight
	}
	if score < 0 {
		score = 0
	}

	res.Valid = true
	res.LowConfidence = true
	res.Score = score
	res.Percentile = r.approximatePercentile(cls, score)
	res.Breakdown = breakdown
	return res
}

// approximatePercentile anchors a fallback score against any same
// level/posGroup model's composite distribution; without one, assume the
// 50th percentile.
func (r *Ranker) approximatePercentile(cls statline.Classification, score float64) float64 {
	for _, m := range r.table.Candidates(cls.Level, cls.PosGroup) {
		if m.Composite == nil {
			continue
		}
		if p, ok := interpolate(*m.Composite, score); ok {
			return p
		}
	}
	return 50
}

// verifiedZero reports a did-not-play/no-stats line: every counting
// category for the group is exactly zero. Ratio categories (GAA, SVP) are
// excluded since zero is a legitimate elite value for them.
func verifiedZero(line statline.StatLine, pg statline.PosGroup) bool {
	var counting []string
	switch pg {
	case statline.PosGoalie:
		counting = []string{
			model.CatWins, model.CatGoalsAgainst, model.CatShotsAgainst,
			model.CatSaves, model.CatShutouts, model.CatTimeOnIce,
		}
	case statline.PosTeam:
		counting = []string{
			model.CatGoals, model.CatAssists, model.CatPoints, model.CatShots,
			model.CatHits, model.CatBlocks, model.CatTimeOnIce,
			model.CatWins, model.CatShotsAgainst, model.CatSaves,
		}
	default:
		counting = []string{
			model.CatGoals, model.CatAssists, model.CatPoints,
			model.CatPowerPlayPoints, model.CatShots, model.CatHits,
			model.CatBlocks, model.CatTimeOnIce,
		}
	}
	for _, cat := range counting {
		if line.NumOr(cat, 0) != 0 {
			return false
		}
	}
	return true
}

// zeroBreakdown builds the breakdown for a did-not-play line: entries
// present, percentiles and contributions zero.
func zeroBreakdown(line statline.StatLine, cats []string, weights map[string]float64) []CategoryScore {
	out := make([]CategoryScore, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategoryScore{
			Category: cat,
			Value:    line.NumOr(cat, 0),
			Weight:   weights[cat],
		})
	}
	return out
}
