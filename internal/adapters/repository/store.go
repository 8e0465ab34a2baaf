// Package repository provides the in-memory stores backing the decision
// engine: the keyed season-model table and the rating board that tracks
// each entity's best rating.
package repository

import (
	"context"

	"github.com/okian/deke/internal/domain/statline"
)

// Entry represents one rating-board row.
type Entry struct {
	Rank     int                 `json:"rank"`
	EntityID string              `json:"entityId"`
	Rating   float64             `json:"rating"`
	Entity   statline.EntityType `json:"entityType"`
	Level    statline.AggLevel   `json:"aggregationLevel"`
	ModelKey string              `json:"modelKey,omitempty"`
}

// Board provides read/write access to the best-rating state.
type Board interface {
	// UpdateBest records a new best rating for an entity if it beats the
	// existing one. Returns true when the board changed.
	UpdateBest(ctx context.Context, e Entry) (bool, error)

	// Rank returns the current rank and rating for an entity.
	// Returns ErrNotFound when the entity is unknown.
	Rank(ctx context.Context, entityID string) (Entry, error)

	// TopN returns the top-N entries ordered by rating desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of entities on the board.
	Count(ctx context.Context) int
}
