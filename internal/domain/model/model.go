// Package model contains the trained season models consumed by the
// ranking pipeline: per-category percentile distributions plus category
// weights, keyed by season phase, season, aggregation level and position
// group. Models are loaded externally and treated as a read-only snapshot;
// this package never trains or mutates them.
package model

import (
	"fmt"

	"github.com/okian/deke/internal/domain/statline"
)

// Key identifies one trained model.
type Key struct {
	Phase    statline.Phase
	SeasonID string
	Level    statline.AggLevel
	PosGroup statline.PosGroup
}

// String renders the canonical table key, phase:season:level:posGroup.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.Phase, k.SeasonID, k.Level, k.PosGroup)
}

// LegacyKey renders the pre-aggregation-aware key shape, season:posGroup.
func LegacyKey(seasonID string, pg statline.PosGroup) string {
	return fmt.Sprintf("%s:%s", seasonID, pg)
}

// SeasonModel is one trained model: category weights and percentile
// distributions for a single statistical regime.
type SeasonModel struct {
	Key    Key
	Legacy bool

	// Weights maps category code to its blend weight.
	Weights map[string]float64

	// Distributions maps category code to its percentile curve. A category
	// missing here is skipped from percentile averaging, not an error.
	Distributions map[string]Distribution

	// Composite is the distribution of final composite scores produced by
	// this model, when known. The global-weights fallback uses it as an
	// approximate percentile anchor.
	Composite *Distribution
}

// Table provides read access to the keyed model table. Implementations
// must be safe for concurrent readers; the table is a snapshot for the
// duration of a batch.
type Table interface {
	// Exact returns the model stored under the canonical key.
	Exact(k Key) (SeasonModel, bool)

	// Legacy returns the model stored under the legacy season:posGroup key.
	Legacy(seasonID string, pg statline.PosGroup) (SeasonModel, bool)

	// Candidates returns every model matching the aggregation level and
	// position group, across all phases and seasons.
	Candidates(level statline.AggLevel, pg statline.PosGroup) []SeasonModel

	// Len reports the number of models in the table.
	Len() int
}
