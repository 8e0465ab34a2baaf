package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/okian/deke/pkg/metrics"
)

// Treap-based, in-memory Board implementation.
//
// Ordering: rating DESC, then entityID ASC, so an in-order traversal
// yields the leaderboard best to worst. Ratings are stored fixed-point to
// keep comparisons exact.

// ratingScale controls fixed-point scaling from float64.
const ratingScale = 1_000_000_000

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return ratingFP(math.MaxInt64)
	case math.IsInf(x, -1):
		return ratingFP(math.MinInt64)
	}
	scaled := x * ratingScale
	if scaled > float64(math.MaxInt64) {
		return ratingFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return ratingFP(math.MinInt64)
	}
	return ratingFP(math.Round(scaled))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// record keeps the fixed-point rating plus metadata for an entity's best.
type record struct {
	rating ratingFP
	entry  Entry
}

// treap node
type node struct {
	id     string
	rating ratingFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aRating, aID) ranks earlier than (bRating, bID).
func less(aRating ratingFP, aID string, bRating ratingFP, bID string) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// ratingToPriority keeps higher ratings higher in the treap.
func ratingToPriority(r ratingFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(r) + offset
}

func insert(n *node, id string, rating ratingFP) *node {
	if n == nil {
		return &node{id: id, rating: rating, prio: ratingToPriority(rating), size: 1}
	}
	if less(rating, id, n.rating, n.id) {
		n.left = insert(n.left, id, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, rating ratingFP) *node {
	if n == nil {
		return nil
	}
	if rating == n.rating && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, rating)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, rating)
		}
	} else if less(rating, id, n.rating, n.id) {
		n.left = deleteNode(n.left, id, rating)
	} else {
		n.right = deleteNode(n.right, id, rating)
	}
	fix(n)
	return n
}

// TreapBoard implements Board with O(log n) expected updates.
//
// A second treap holds one node per distinct rating so Rank can compute
// dense tie ranks (the rank TopN assigns) without scanning the board.
type TreapBoard struct {
	mu       sync.RWMutex
	root     *node
	ratings  *node
	byRating map[ratingFP]int
	byID     map[string]record
}

// NewTreapBoard constructs an empty rating board.
func NewTreapBoard() *TreapBoard {
	return &TreapBoard{
		byRating: make(map[ratingFP]int),
		byID:     make(map[string]record),
	}
}

// UpdateBest implements Board. NaN ratings (did-not-play results) are
// ignored without error.
func (b *TreapBoard) UpdateBest(ctx context.Context, e Entry) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if math.IsNaN(e.Rating) {
		return false, nil
	}
	fp := toFixedPoint(e.Rating)

	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.byID[e.EntityID]; ok {
		if fp <= old.rating {
			return false, nil
		}
		b.root = deleteNode(b.root, e.EntityID, old.rating)
		b.removeRating(old.rating)
	}
	b.byID[e.EntityID] = record{rating: fp, entry: e}
	b.root = insert(b.root, e.EntityID, fp)
	b.addRating(fp)
	metrics.UpdateBoardEntities(len(b.byID))
	return true, nil
}

// addRating records one more entity at rating r, growing the distinct
// treap when r is new. Callers hold the write lock.
func (b *TreapBoard) addRating(r ratingFP) {
	b.byRating[r]++
	if b.byRating[r] == 1 {
		b.ratings = insert(b.ratings, "", r)
	}
}

// removeRating drops one entity at rating r, shrinking the distinct
// treap when no entity remains at r. Callers hold the write lock.
func (b *TreapBoard) removeRating(r ratingFP) {
	b.byRating[r]--
	if b.byRating[r] == 0 {
		delete(b.byRating, r)
		b.ratings = deleteNode(b.ratings, "", r)
	}
}

// Rank implements Board in O(log n) via subtree sizes. Tied ratings
// share a rank and the next distinct rating takes the following
// consecutive rank, so Rank and TopN always agree.
func (b *TreapBoard) Rank(ctx context.Context, entityID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.byID[entityID]
	if !ok {
		return Entry{}, ErrNotFound
	}

	// Count distinct ratings strictly above this entity's.
	higher := 0
	n := b.ratings
	for n != nil {
		if n.rating > rec.rating {
			higher += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}

	out := rec.entry
	out.Rating = toFloat(rec.rating)
	out.Rank = higher + 1
	return out, nil
}

// TopN implements Board.
func (b *TreapBoard) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, n)
	b.collectTopN(b.root, n, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count implements Board.
func (b *TreapBoard) Count(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byID)
}

// collectTopN appends up to limit entries in rank order.
func (b *TreapBoard) collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	b.collectTopN(n.left, limit, out)
	if len(*out) < limit {
		if rec, ok := b.byID[n.id]; ok {
			e := rec.entry
			e.Rating = toFloat(rec.rating)
			*out = append(*out, e)
		}
	}
	if len(*out) < limit {
		b.collectTopN(n.right, limit, out)
	}
}

// assignRanksWithTies gives equal ratings equal rank; the next distinct
// rating takes the following consecutive rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Rating != entries[i-1].Rating {
			rank++
		}
		entries[i].Rank = rank
	}
}
