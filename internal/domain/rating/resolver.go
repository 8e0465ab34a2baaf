package rating

import (
	"math"
	"sort"
	"strconv"

	"github.com/okian/deke/internal/domain/model"
	"github.com/okian/deke/internal/domain/statline"
)

// Resolver locates the best-matching trained model for a classification
// using an ordered fallback chain. It holds no state beyond the injected
// table reference.
type Resolver struct {
	table model.Table
}

// NewResolver creates a Resolver over a model table.
func NewResolver(table model.Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve walks the fallback chain and returns the first hit:
//
//  1. exact phase:season:level:posGroup key
//  2. legacy season:posGroup key
//  3. same season/level/posGroup under an alternate phase
//  4. same level/posGroup and phase, nearest season by numeric distance
//  5. same level/posGroup under an alternate phase, nearest season
//
// Regular-season classifications never consult an alternate phase;
// playoffs and the losers tournament fall back to the regular season only.
func (r *Resolver) Resolve(c statline.Classification) (model.SeasonModel, bool) {
	if m, ok := r.table.Exact(model.Key{
		Phase: c.Phase, SeasonID: c.SeasonID, Level: c.Level, PosGroup: c.PosGroup,
	}); ok {
		return m, true
	}

	if m, ok := r.table.Legacy(c.SeasonID, c.PosGroup); ok {
		return m, true
	}

	alternates := alternatePhases(c.Phase)
	for _, phase := range alternates {
		if m, ok := r.table.Exact(model.Key{
			Phase: phase, SeasonID: c.SeasonID, Level: c.Level, PosGroup: c.PosGroup,
		}); ok {
			return m, true
		}
	}

	candidates := r.table.Candidates(c.Level, c.PosGroup)
	if m, ok := nearestSeason(candidates, c.SeasonID, c.Phase); ok {
		return m, true
	}
	for _, phase := range alternates {
		if m, ok := nearestSeason(candidates, c.SeasonID, phase); ok {
			return m, true
		}
	}

	return model.SeasonModel{}, false
}

// alternatePhases returns the phases to try after the classification's
// own phase has missed.
func alternatePhases(p statline.Phase) []statline.Phase {
	if p == statline.PhaseRegular {
		return nil
	}
	return []statline.Phase{statline.PhaseRegular}
}

// nearestSeason picks the candidate in phase with the smallest absolute
// numeric season distance. Ties break toward the lower season id; models
// with non-numeric season ids sort last.
func nearestSeason(candidates []model.SeasonModel, seasonID string, phase statline.Phase) (model.SeasonModel, bool) {
	want, wantNumeric := seasonNumber(seasonID)

	matched := make([]model.SeasonModel, 0, len(candidates))
	for _, m := range candidates {
		if m.Key.Phase == phase {
			matched = append(matched, m)
		}
	}
	if len(matched) == 0 {
		return model.SeasonModel{}, false
	}

	sort.SliceStable(matched, func(i, j int) bool {
		di := seasonDistance(matched[i].Key.SeasonID, want, wantNumeric)
		dj := seasonDistance(matched[j].Key.SeasonID, want, wantNumeric)
		if di != dj {
			return di < dj
		}
		ni, iNum := seasonNumber(matched[i].Key.SeasonID)
		nj, jNum := seasonNumber(matched[j].Key.SeasonID)
		if iNum && jNum {
			return ni < nj
		}
		return iNum && !jNum
	})
	return matched[0], true
}

func seasonNumber(id string) (float64, bool) {
	n, err := strconv.ParseFloat(id, 64)
	return n, err == nil
}

func seasonDistance(id string, want float64, wantNumeric bool) float64 {
	n, ok := seasonNumber(id)
	if !ok || !wantNumeric {
		return math.Inf(1)
	}
	return math.Abs(n - want)
}
