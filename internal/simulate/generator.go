package simulate

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Position mix for generated rosters and stat lines.
var posGroups = []string{"F", "F", "F", "D", "D", "G"}

var seasons = []string{"1", "2", "3", "4", "5", "6", "7", "8"}

// generateLines builds deterministic-ish stat lines for a pool of
// players. Only the idempotency ids are random; stat values derive from
// the seeded source so repeated runs produce comparable distributions.
func generateLines(cfg *Config, stats *Stats) []map[string]any {
	rng := rand.New(rand.NewSource(cfg.Seed))
	playerPool := maxInt(cfg.NumLines/4, 1)

	lines := make([]map[string]any, 0, cfg.NumLines)
	for i := 0; i < cfg.NumLines; i++ {
		playerIdx := rng.Intn(playerPool)
		pos := posGroups[playerIdx%len(posGroups)]
		line := map[string]any{
			"statlineId": uuid.NewString(),
			"entityType": "player",
			"playerId":   fmt.Sprintf("player-%05d", playerIdx),
			"season":     seasons[rng.Intn(len(seasons))],
			"posGroup":   pos,
			"date":       fmt.Sprintf("2026-01-%02d", 1+rng.Intn(28)),
			"gp":         1,
		}
		if pos == "G" {
			fillGoalieLine(rng, line)
		} else {
			fillSkaterLine(rng, line)
		}
		lines = append(lines, line)
		stats.Generated.Add(1)
	}
	return lines
}

func fillSkaterLine(rng *rand.Rand, line map[string]any) {
	goals := rng.Intn(4)
	assists := rng.Intn(4)
	line["G"] = goals
	line["A"] = assists
	line["P"] = goals + assists
	line["PPP"] = rng.Intn(2)
	line["SOG"] = rng.Intn(8)
	line["HIT"] = rng.Intn(6)
	line["BLK"] = rng.Intn(4)
	line["TOI"] = 8 + rng.Float64()*14
}

func fillGoalieLine(rng *rand.Rand, line map[string]any) {
	shots := 20 + rng.Intn(20)
	goalsAgainst := rng.Intn(5)
	line["SA"] = shots
	line["GA"] = goalsAgainst
	line["SV"] = shots - goalsAgainst
	line["SVP"] = float64(shots-goalsAgainst) / float64(shots)
	line["W"] = rng.Intn(2)
	line["SO"] = boolToInt(goalsAgainst == 0)
	line["TOI"] = 60.0
}

// rosterPlayer mirrors the POST /lineup player shape.
type rosterPlayer struct {
	PlayerID     string   `json:"playerId"`
	Eligible     []string `json:"eligiblePositions"`
	DailyPos     string   `json:"dailyPos"`
	GamesPlayed  int      `json:"gamesPlayed"`
	GamesStarted int      `json:"gamesStarted"`
	Rating       float64  `json:"rating"`
}

// generateRoster builds a plausible daily roster: two lines of forwards,
// three defensemen plus depth, and two goalies.
func generateRoster(seed int64) []rosterPlayer {
	rng := rand.New(rand.NewSource(seed))

	shape := []struct {
		eligible []string
		daily    string
	}{
		{[]string{"LW"}, "LW"},
		{[]string{"LW", "C"}, "LW"},
		{[]string{"C"}, "C"},
		{[]string{"C", "RW"}, "C"},
		{[]string{"RW"}, "RW"},
		{[]string{"RW", "LW"}, "RW"},
		{[]string{"D"}, "D"},
		{[]string{"D"}, "D"},
		{[]string{"D"}, "D"},
		{[]string{"LW", "RW"}, "UTIL"},
		{[]string{"G"}, "G"},
		{[]string{"C"}, "BN"},
		{[]string{"D"}, "BN"},
		{[]string{"G"}, "BN"},
	}

	roster := make([]rosterPlayer, 0, len(shape))
	for i, s := range shape {
		gp := rng.Intn(2)
		roster = append(roster, rosterPlayer{
			PlayerID:     fmt.Sprintf("roster-%02d", i),
			Eligible:     s.eligible,
			DailyPos:     s.daily,
			GamesPlayed:  gp,
			GamesStarted: gp,
			Rating:       20 + rng.Float64()*80,
		})
	}
	return roster
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
