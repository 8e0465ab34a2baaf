package lineup

import (
	"sort"
)

// Default optimizer constants.
const (
	// greedyTolerance is the floating slack allowed when comparing the
	// greedy total against the theoretical maximum.
	greedyTolerance = 0.01
)

// Optimizer assigns players to slots to maximize total priority under
// position-eligibility constraints. It is stateless across calls; each
// optimization works on a fresh copy of the roster.
type Optimizer struct {
	template  []Slot
	tolerance float64
}

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithTemplate replaces the slot template. Empty or malformed templates
// (slots without eligibility sets) are ignored.
func WithTemplate(slots []Slot) Option {
	return func(o *Optimizer) {
		if len(slots) == 0 {
			return
		}
		for _, s := range slots {
			if len(s.Eligible) == 0 {
				return
			}
		}
		o.template = slots
	}
}

// WithTolerance sets the greedy-vs-maximum comparison slack.
func WithTolerance(tol float64) Option {
	return func(o *Optimizer) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

// NewOptimizer creates an Optimizer with configuration options.
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		template:  DefaultTemplate(),
		tolerance: greedyTolerance,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize runs both passes over the roster and returns the annotated
// players plus the derived improvement statistics. An empty roster
// returns all-bench assignments without invoking the optimizer.
func (o *Optimizer) Optimize(players []Player) Result {
	res := Result{Players: make([]PlayerAssignment, len(players))}
	for i, p := range players {
		res.Players[i] = PlayerAssignment{Player: p, FullPos: Bench, BestPos: Bench}
	}
	if len(players) == 0 {
		return res
	}

	fullPrio := make([]float64, len(players))
	bestPrio := make([]float64, len(players))
	for i, p := range players {
		fullPrio[i] = fullPosPriority(p)
		bestPrio[i] = bestPosPriority(p)
	}

	fullAssign, fullExhaustive := o.assign(players, fullPrio)
	bestAssign, bestExhaustive := o.assign(players, bestPrio)
	res.Exhaustive = fullExhaustive || bestExhaustive

	for slotIdx, playerIdx := range fullAssign {
		if playerIdx < 0 {
			continue
		}
		res.Players[playerIdx].FullPos = o.template[slotIdx].Position
		res.FullPosRating += players[playerIdx].Rating
	}
	for slotIdx, playerIdx := range bestAssign {
		if playerIdx < 0 {
			continue
		}
		res.Players[playerIdx].BestPos = o.template[slotIdx].Position
		res.BestPosRating += players[playerIdx].Rating
	}

	res.ImprovementPoints = res.BestPosRating - res.FullPosRating
	if res.FullPosRating > 0 {
		res.ImprovementPercent = res.ImprovementPoints / res.FullPosRating * 100
	}
	return res
}

// assign maps each template slot index to a player index, or -1 for an
// unfilled slot, and reports whether the exhaustive search was needed.
// It tries the greedy pass first and falls back to the exhaustive search
// only when the greedy total is provably suboptimal.
func (o *Optimizer) assign(players []Player, prio []float64) ([]int, bool) {
	order := o.slotOrder()

	assignment := make([]int, len(o.template))
	for i := range assignment {
		assignment[i] = -1
	}
	used := make([]bool, len(players))

	// Greedy phase: most restrictive slot first, highest priority
	// eligible player each time.
	var greedyTotal float64
	for _, slotIdx := range order {
		best := -1
		for p := range players {
			if used[p] || !players[p].eligibleFor(o.template[slotIdx]) {
				continue
			}
			if best < 0 || prio[p] > prio[best] {
				best = p
			}
		}
		if best >= 0 {
			assignment[slotIdx] = best
			used[best] = true
			greedyTotal += prio[best]
		}
	}

	// Optimality check: the greedy result is already optimal whenever it
	// reaches the positions-ignored top-11 sum, i.e. no trade-offs were
	// needed.
	if greedyTotal+o.tolerance >= topSum(prio, nil, len(o.template)) {
		return assignment, false
	}

	search := &boundedSearch{
		optimizer: o,
		players:   players,
		prio:      prio,
		order:     order,
		used:      make([]bool, len(players)),
		current:   make([]int, len(o.template)),
		best:      assignment,
		bestTotal: greedyTotal,
	}
	for i := range search.current {
		search.current[i] = -1
	}
	search.run(0, 0)
	return search.best, true
}

// slotOrder returns template indices sorted most-restrictive first so
// single-position slots are filled before the utility slot.
func (o *Optimizer) slotOrder() []int {
	order := make([]int, len(o.template))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(o.template[order[a]].Eligible) < len(o.template[order[b]].Eligible)
	})
	return order
}

// boundedSearch is a depth-first backtracking search over slot order with
// branch-and-bound pruning. Roster sizes are small (~17 players, 11
// slots), so worst-case runtime stays finite and tiny.
type boundedSearch struct {
	optimizer *Optimizer
	players   []Player
	prio      []float64
	order     []int
	used      []bool
	current   []int
	best      []int
	bestTotal float64
}

func (s *boundedSearch) run(depth int, total float64) {
	if depth == len(s.order) {
		if total > s.bestTotal+s.optimizer.tolerance {
			s.bestTotal = total
			copy(s.best, s.current)
		}
		return
	}

	slotIdx := s.order[depth]
	slot := s.optimizer.template[slotIdx]
	remaining := len(s.order) - depth - 1

	tried := false
	for p := range s.players {
		if s.used[p] || !s.players[p].eligibleFor(slot) {
			continue
		}
		// Bound: even the top remaining priorities cannot beat the best.
		s.used[p] = true
		if total+s.prio[p]+topSum(s.prio, s.used, remaining) <= s.bestTotal {
			s.used[p] = false
			continue
		}
		tried = true
		s.current[slotIdx] = p
		s.run(depth+1, total+s.prio[p])
		s.current[slotIdx] = -1
		s.used[p] = false
	}

	// A slot with no eligible unused player is skipped, not a failure.
	if !tried {
		s.run(depth+1, total)
	}
}

// topSum returns the sum of the n highest priorities among unused
// players. A nil used slice considers everyone.
func topSum(prio []float64, used []bool, n int) float64 {
	if n <= 0 {
		return 0
	}
	avail := make([]float64, 0, len(prio))
	for i, v := range prio {
		if used == nil || !used[i] {
			avail = append(avail, v)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(avail)))
	if len(avail) > n {
		avail = avail[:n]
	}
	var sum float64
	for _, v := range avail {
		sum += v
	}
	return sum
}
