package lineup

// tierWeight dwarfs any realistic rating spread so priority tiers can
// never be outbid by raw rating alone.
const tierWeight = 1 << 20

// fullPosPriority boosts players into tiers that reproduce what the real
// lineup looked like, filled out with anyone who played:
//
//	3: started in the active lineup
//	2: played while benched
//	1: dressed in the active lineup but did not play
//	0: bench/IR, did not play
//
// Ties within a tier break on actual rating.
func fullPosPriority(p Player) float64 {
	var tier float64
	switch {
	case p.active() && (p.GamesStarted > 0 || p.GamesPlayed > 0):
		tier = 3
	case p.GamesPlayed > 0:
		tier = 2
	case p.active():
		tier = 1
	}
	return tier*tierWeight + p.Rating
}

// bestPosPriority sorts everyone who played above everyone who did not;
// within each group the rating alone decides.
func bestPosPriority(p Player) float64 {
	if p.GamesPlayed > 0 {
		return tierWeight + p.Rating
	}
	return p.Rating
}
