// Package statline defines the raw stat-line record and its classification.
//
// A stat line is one row of accumulated or per-game statistics for a player
// or team at some aggregation granularity. The shape of the record (which
// marker fields are present) determines how it is classified and which
// trained model is used to rate it.
package statline

import (
	"strconv"
	"strings"
)

// Well-known field keys on a StatLine. Category values (G, A, SOG, ...)
// use their category code as the key.
const (
	FieldEntityType   = "entityType"
	FieldPlayerID     = "playerId"
	FieldTeamID       = "teamId"
	FieldSeason       = "season"
	FieldDate         = "date"
	FieldWeek         = "week"
	FieldDays         = "days"
	FieldSeasonType   = "seasonType"
	FieldTeams        = "teams"
	FieldPosGroup     = "posGroup"
	FieldGamesPlayed  = "gp"
	FieldSalary       = "salary"
	FieldSeasonRating = "seasonRating"
)

// StatLine is a flat record of named numeric/string fields. It is read-only
// input to the ranking pipeline and is never mutated by it.
type StatLine map[string]any

// Has reports whether key is present with a non-empty value.
func (s StatLine) Has(key string) bool {
	v, ok := s[key]
	if !ok || v == nil {
		return false
	}
	if str, isStr := v.(string); isStr {
		return strings.TrimSpace(str) != ""
	}
	return true
}

// Str returns the string value for key, converting numerics when needed.
func (s StatLine) Str(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// Num returns the numeric value for key. Strings are parsed; anything
// non-numeric reports ok=false.
func (s StatLine) Num(key string) (float64, bool) {
	v, present := s[key]
	if !present || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumOr returns the numeric value for key or def when absent/non-numeric.
func (s StatLine) NumOr(key string, def float64) float64 {
	if f, ok := s.Num(key); ok {
		return f
	}
	return def
}

// Strings returns the value for key as a string slice. Scalars become a
// single-element slice; comma-separated strings are split.
func (s StatLine) Strings(key string) []string {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if str, isStr := e.(string); isStr && str != "" {
				out = append(out, str)
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// EntityID returns the player or team identifier for the line, preferring
// the player id.
func (s StatLine) EntityID() string {
	if id := s.Str(FieldPlayerID); id != "" {
		return id
	}
	return s.Str(FieldTeamID)
}
