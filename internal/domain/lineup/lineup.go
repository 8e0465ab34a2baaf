// Package lineup assigns rated players to the fixed slot template for one
// team on one day. It produces two assignments per roster: fullPos, which
// reproduces real lineup decisions with a fallback fill, and bestPos, the
// purely rating-optimal arrangement. The optimizer needs only a numeric
// rating per player; it has no dependency on how ratings are computed.
package lineup

// Position is a closed lineup position code.
type Position string

// Position codes. Bench is the implicit 12th slot with unlimited
// capacity; IR players count as benched.
const (
	LeftWing  Position = "LW"
	Center    Position = "C"
	RightWing Position = "RW"
	Defense   Position = "D"
	Utility   Position = "UTIL"
	Goalie    Position = "G"
	Bench     Position = "BN"
	Injured   Position = "IR"
)

// Slot is one entry of the fixed lineup template.
type Slot struct {
	ID       string
	Position Position
	Eligible []Position
}

// Player is one roster entry under consideration. Read-only input.
type Player struct {
	PlayerID string `json:"playerId"`

	// Eligible lists the positions the player may fill.
	Eligible []Position `json:"eligiblePositions"`

	// DailyPos is the slot the player actually occupied, as assigned by
	// an external source. Empty means benched.
	DailyPos Position `json:"dailyPos"`

	GamesPlayed  int     `json:"gamesPlayed"`
	GamesStarted int     `json:"gamesStarted"`
	Rating       float64 `json:"rating"`
}

// eligibleFor reports whether the player can fill the slot.
func (p Player) eligibleFor(s Slot) bool {
	for _, want := range s.Eligible {
		for _, have := range p.Eligible {
			if have == want {
				return true
			}
		}
	}
	return false
}

// active reports whether the player's actual daily slot was part of the
// real lineup rather than the bench or injured reserve.
func (p Player) active() bool {
	switch p.DailyPos {
	case "", Bench, Injured:
		return false
	default:
		return true
	}
}

// PlayerAssignment annotates one roster entry with both slot decisions.
type PlayerAssignment struct {
	Player
	FullPos Position `json:"fullPos"`
	BestPos Position `json:"bestPos"`
}

// Result is the outcome of optimizing one roster.
type Result struct {
	Players []PlayerAssignment `json:"players"`

	// FullPosRating and BestPosRating sum the actual ratings of assigned
	// players under each pass.
	FullPosRating float64 `json:"fullPosRating"`
	BestPosRating float64 `json:"bestPosRating"`

	// ImprovementPoints and ImprovementPercent measure the rating gained
	// by the assignment unconstrained by real coaching decisions.
	ImprovementPoints  float64 `json:"improvementPoints"`
	ImprovementPercent float64 `json:"improvementPercent"`

	// Exhaustive reports whether either pass needed the backtracking
	// search instead of the greedy assignment alone.
	Exhaustive bool `json:"exhaustive"`
}

// DefaultTemplate returns the fixed 11-slot lineup structure: two each of
// LW, C and RW, three D, one utility skater slot and one goalie.
func DefaultTemplate() []Slot {
	skaters := []Position{LeftWing, Center, RightWing, Defense}
	return []Slot{
		{ID: "LW1", Position: LeftWing, Eligible: []Position{LeftWing}},
		{ID: "LW2", Position: LeftWing, Eligible: []Position{LeftWing}},
		{ID: "C1", Position: Center, Eligible: []Position{Center}},
		{ID: "C2", Position: Center, Eligible: []Position{Center}},
		{ID: "RW1", Position: RightWing, Eligible: []Position{RightWing}},
		{ID: "RW2", Position: RightWing, Eligible: []Position{RightWing}},
		{ID: "D1", Position: Defense, Eligible: []Position{Defense}},
		{ID: "D2", Position: Defense, Eligible: []Position{Defense}},
		{ID: "D3", Position: Defense, Eligible: []Position{Defense}},
		{ID: "UTIL", Position: Utility, Eligible: skaters},
		{ID: "G1", Position: Goalie, Eligible: []Position{Goalie}},
	}
}
