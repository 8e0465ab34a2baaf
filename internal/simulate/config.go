// Package simulate generates synthetic stat lines and rosters, drives a
// running service with them, and verifies leaderboard and lineup
// invariants over the results.
package simulate

import (
	"sync/atomic"
	"time"
)

// Config holds simulation parameters.
type Config struct {
	BaseURL  string
	NumLines int
	TopN     int
	Workers  int
	Timeout  time.Duration
	Seed     int64
	Verbose  bool
}

// Entry mirrors the leaderboard read shape.
type Entry struct {
	Rank     int     `json:"rank"`
	EntityID string  `json:"entityId"`
	Rating   float64 `json:"rating"`
}

// ingestAck mirrors the POST /statlines response.
type ingestAck struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Stats tracks simulation progress across workers.
type Stats struct {
	Generated atomic.Int64
	Submitted atomic.Int64
	Rejected  atomic.Int64
	Errors    atomic.Int64
}
