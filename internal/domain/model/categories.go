package model

import (
	"strconv"

	"github.com/okian/deke/internal/domain/statline"
)

// Category codes.
const (
	CatGoals           = "G"
	CatAssists         = "A"
	CatPoints          = "P"
	CatPowerPlayPoints = "PPP"
	CatShots           = "SOG"
	CatHits            = "HIT"
	CatBlocks          = "BLK"
	CatTimeOnIce       = "TOI"
	CatPlusMinus       = "PM"
	CatWins            = "W"
	CatGoalsAgainstAvg = "GAA"
	CatSavePct         = "SVP"
	CatGoalsAgainst    = "GA"
	CatShotsAgainst    = "SA"
	CatSaves           = "SV"
	CatShutouts        = "SO"
)

// Plus/minus was only tracked as a scoring category through season 6.
const lastPlusMinusSeason = 6

// SkaterCategories returns the categories rated for forwards and
// defensemen in the given season.
func SkaterCategories(seasonID string) []string {
	cats := []string{
		CatGoals, CatAssists, CatPoints, CatPowerPlayPoints,
		CatShots, CatHits, CatBlocks, CatTimeOnIce,
	}
	if n, err := strconv.Atoi(seasonID); err == nil && n >= 1 && n <= lastPlusMinusSeason {
		cats = append(cats, CatPlusMinus)
	}
	return cats
}

// GoalieCategories returns the categories rated for goalies.
func GoalieCategories() []string {
	return []string{
		CatWins, CatGoalsAgainstAvg, CatSavePct, CatGoalsAgainst,
		CatShotsAgainst, CatSaves, CatShutouts, CatTimeOnIce,
	}
}

// CategoriesFor returns the categories relevant to a position group.
// Team lines rate the union of skater and goalie categories.
func CategoriesFor(pg statline.PosGroup, seasonID string) []string {
	switch pg {
	case statline.PosGoalie:
		return GoalieCategories()
	case statline.PosTeam:
		seen := make(map[string]struct{})
		var out []string
		for _, c := range append(SkaterCategories(seasonID), GoalieCategories()...) {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
		return out
	default:
		return SkaterCategories(seasonID)
	}
}

// LowerIsBetter reports whether a category's raw percentile must be
// inverted after interpolation.
func LowerIsBetter(cat string) bool {
	return cat == CatGoalsAgainstAvg || cat == CatGoalsAgainst
}
