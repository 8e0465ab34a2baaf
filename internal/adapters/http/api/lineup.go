// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/deke/internal/domain/lineup"
)

// LineupDependencies defines the interface for lineup optimization.
type LineupDependencies interface {
	OptimizeLineup(ctx context.Context, players []lineup.Player) lineup.Result
}

// LineupHandler handles lineup optimization requests.
type LineupHandler struct {
	deps LineupDependencies
}

// NewLineupHandler creates a new lineup handler.
func NewLineupHandler(deps LineupDependencies) *LineupHandler {
	return &LineupHandler{deps: deps}
}

// lineupRequest mirrors the POST /lineup body.
type lineupRequest struct {
	Players []lineup.Player `json:"players"`
}

// HandleLineup handles POST /lineup requests.
func (h *LineupHandler) HandleLineup(w http.ResponseWriter, r *http.Request) {
	const op = "api.lineup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req lineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	for _, p := range req.Players {
		if p.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("player without playerId")))
			return
		}
	}

	res := h.deps.OptimizeLineup(r.Context(), req.Players)
	writeJSON(w, http.StatusOK, res)
}
