// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/deke/internal/domain/statline"
)

// FieldStatLineID is the optional idempotency id carried on ingested
// lines. Lines without one get a generated id and are never deduplicated.
const FieldStatLineID = "statlineId"

// StatLineDependencies defines the interface for async stat-line ingest.
type StatLineDependencies interface {
	Enqueue(ctx context.Context, id string, line statline.StatLine) bool
}

// StatLinesHandler handles stat-line ingest requests.
type StatLinesHandler struct {
	deps StatLineDependencies
}

// NewStatLinesHandler creates a new stat-lines handler.
func NewStatLinesHandler(deps StatLineDependencies) *StatLinesHandler {
	return &StatLinesHandler{deps: deps}
}

// ingestResponse summarizes one ingest batch.
type ingestResponse struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// HandlePostStatLines handles POST /statlines requests. The body is a
// JSON array of stat lines queued for asynchronous ranking. Responds 202
// when at least one line was accepted and 429 when backpressure rejected
// the whole batch.
func (h *StatLinesHandler) HandlePostStatLines(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_statlines"
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

	resp := ingestResponse{}
	for _, line := range lines {
		id := line.Str(FieldStatLineID)
		if id == "" {
			id = uuid.NewString()
		}
		if h.deps.Enqueue(r.Context(), id, line) {
			resp.Accepted++
		} else {
			resp.Rejected++
		}
	}
	if resp.Accepted == 0 {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}
