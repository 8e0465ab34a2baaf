package simulate

import (
	"fmt"
)

// lineupResult mirrors the POST /lineup response.
type lineupResult struct {
	Players []struct {
		PlayerID string `json:"playerId"`
		FullPos  string `json:"fullPos"`
		BestPos  string `json:"bestPos"`
	} `json:"players"`
	FullPosRating      float64 `json:"fullPosRating"`
	BestPosRating      float64 `json:"bestPosRating"`
	ImprovementPoints  float64 `json:"improvementPoints"`
	ImprovementPercent float64 `json:"improvementPercent"`
}

// verifyLeaderboard checks ordering and rank assignment invariants.
func verifyLeaderboard(entries []Entry) error {
	for i, e := range entries {
		if e.EntityID == "" {
			return fmt.Errorf("leaderboard entry %d has no entity id", i)
		}
		if e.Rating < 0 {
			return fmt.Errorf("leaderboard entry %s has negative rating %f", e.EntityID, e.Rating)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if e.Rating > prev.Rating {
			return fmt.Errorf("leaderboard not sorted: %s (%.2f) after %s (%.2f)",
				e.EntityID, e.Rating, prev.EntityID, prev.Rating)
		}
		if e.Rating == prev.Rating && e.Rank != prev.Rank {
			return fmt.Errorf("tied ratings with different ranks: %s and %s", prev.EntityID, e.EntityID)
		}
		if e.Rating < prev.Rating && e.Rank <= prev.Rank {
			return fmt.Errorf("rank did not advance from %s to %s", prev.EntityID, e.EntityID)
		}
	}
	return nil
}

// verifyLineup checks that every roster player was assigned in both
// passes and that the unconstrained pass never loses to the realistic
// one.
func verifyLineup(roster []rosterPlayer, res lineupResult) error {
	if len(res.Players) != len(roster) {
		return fmt.Errorf("lineup returned %d players, roster has %d", len(res.Players), len(roster))
	}
	for _, p := range res.Players {
		if p.FullPos == "" || p.BestPos == "" {
			return fmt.Errorf("player %s missing an assignment", p.PlayerID)
		}
	}
	if res.BestPosRating+1e-9 < res.FullPosRating {
		return fmt.Errorf("bestPos total %.3f below fullPos total %.3f",
			res.BestPosRating, res.FullPosRating)
	}
	if res.ImprovementPoints < -1e-9 {
		return fmt.Errorf("negative improvement: %.3f", res.ImprovementPoints)
	}
	return nil
}
