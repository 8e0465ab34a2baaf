// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
)

// maxBatchLines bounds POST /rank/batch request size.
const maxBatchLines = 10_000

// RankDependencies defines the interface for synchronous rating operations.
type RankDependencies interface {
	RankOne(ctx context.Context, line statline.StatLine) rating.Result
	RankMany(ctx context.Context, lines []statline.StatLine) ([]rating.Result, error)
}

// RankHandler handles synchronous rating requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleRank handles POST /rank requests. The body is one raw stat line.
func (h *RankHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var line statline.StatLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(line) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("empty stat line")))
		return
	}

	res := h.deps.RankOne(r.Context(), line)
	writeJSON(w, http.StatusOK, toRatingResponse(res))
}

// HandleRankBatch handles POST /rank/batch requests. The body is a JSON
// array of stat lines; the response preserves input order.
func (h *RankHandler) HandleRankBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var lines []statline.StatLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(lines) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("empty batch")))
		return
	}
	if len(lines) > maxBatchLines {
		writeError(w, http.StatusBadRequest, "batch_too_large", NewKind(op, ErrBadRequest))
		return
	}

	results, err := h.deps.RankMany(r.Context(), lines)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]ratingResponse, len(results))
	for i, res := range results {
		out[i] = toRatingResponse(res)
	}
	writeJSON(w, http.StatusOK, out)
}
