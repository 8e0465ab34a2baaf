// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/okian/deke/internal/app"
)

// Stats mirrors the operational snapshot served on GET /stats: queue
// depth, rated-entity count, and loaded model count alongside the
// configured worker and capacity settings.
type Stats = service.Stats

// StatsProvider supplies the snapshot; the service satisfies it.
type StatsProvider interface {
	GetStats() Stats
}

// StatsHandler serves the operational snapshot.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler over a snapshot provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
