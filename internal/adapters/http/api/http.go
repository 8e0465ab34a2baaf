// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/okian/deke/internal/adapters/repository"
	"github.com/okian/deke/internal/domain/dedupe"
	"github.com/okian/deke/internal/domain/lineup"
	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a stat line for async ranking. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, id string, line statline.StatLine) bool

	// Synchronous rating operations.
	RankOne(ctx context.Context, line statline.StatLine) rating.Result
	RankMany(ctx context.Context, lines []statline.StatLine) ([]rating.Result, error)

	// OptimizeLineup assigns a rated roster to the lineup template.
	OptimizeLineup(ctx context.Context, players []lineup.Player) lineup.Result

	// Read operations expose leaderboard data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, entityID string) (Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	rankHandler        *RankHandler
	lineupHandler      *LineupHandler
	statLinesHandler   *StatLinesHandler
	leaderboardHandler *LeaderboardHandler
	ratingHandler      *RatingHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		rankHandler:        NewRankHandler(deps),
		lineupHandler:      NewLineupHandler(deps),
		statLinesHandler:   NewStatLinesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		ratingHandler:      NewRatingHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rank", MetricsMiddleware(s.rankHandler.HandleRank, "rank"))
	mux.HandleFunc("/rank/batch", MetricsMiddleware(s.rankHandler.HandleRankBatch, "rank_batch"))
	mux.HandleFunc("/lineup", MetricsMiddleware(s.lineupHandler.HandleLineup, "lineup"))
	mux.HandleFunc("/statlines", MetricsMiddleware(s.statLinesHandler.HandlePostStatLines, "statlines"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rating/", MetricsMiddleware(s.ratingHandler.HandleGetRating, "rating"))
}

// ratingResponse is the JSON shape of one rating result. Score is a
// pointer so "no score" and "verified zero performance" both encode
// cleanly; encoding/json cannot represent NaN.
type ratingResponse struct {
	Score         *float64               `json:"score"`
	Valid         bool                   `json:"valid"`
	DidNotPlay    bool                   `json:"didNotPlay"`
	Percentile    float64                `json:"percentile"`
	Breakdown     []rating.CategoryScore `json:"breakdown"`
	IsOutlier     bool                   `json:"isOutlier"`
	LowConfidence bool                   `json:"lowConfidence"`
	Degraded      bool                   `json:"degraded"`
	GamesPlayed   float64                `json:"gamesPlayed"`
	Entity        statline.EntityType    `json:"entityType"`
	EntityID      string                 `json:"entityId"`
	Level         statline.AggLevel      `json:"aggregationLevel"`
	Phase         statline.Phase         `json:"seasonPhase"`
	ModelKey      string                 `json:"modelKey,omitempty"`
}

func toRatingResponse(res rating.Result) ratingResponse {
	out := ratingResponse{
		Valid:         res.Valid,
		DidNotPlay:    res.DidNotPlay(),
		Percentile:    res.Percentile,
		Breakdown:     res.Breakdown,
		IsOutlier:     res.IsOutlier,
		LowConfidence: res.LowConfidence,
		Degraded:      res.Degraded,
		GamesPlayed:   res.GamesPlayed,
		Entity:        res.Entity,
		EntityID:      res.EntityID,
		Level:         res.Level,
		Phase:         res.Phase,
		ModelKey:      res.ModelKey,
	}
	if res.Valid && !math.IsNaN(res.Score) {
		score := res.Score
		out.Score = &score
	}
	return out
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
