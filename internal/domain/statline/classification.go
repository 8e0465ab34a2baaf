package statline

// EntityType distinguishes player rows from team rows.
type EntityType string

// Entity types.
const (
	EntityPlayer EntityType = "player"
	EntityTeam   EntityType = "team"
)

// PosGroup is the position group a model is trained for.
type PosGroup string

// Position groups.
const (
	PosForward PosGroup = "F"
	PosDefense PosGroup = "D"
	PosGoalie  PosGroup = "G"
	PosTeam    PosGroup = "TEAM"
)

// AggLevel is the aggregation granularity of a stat line.
type AggLevel string

// Aggregation levels.
const (
	PlayerDay   AggLevel = "playerDay"
	PlayerWeek  AggLevel = "playerWeek"
	PlayerSplit AggLevel = "playerSplit"
	PlayerTotal AggLevel = "playerTotal"
	PlayerNHL   AggLevel = "playerNhl"
	TeamDay     AggLevel = "teamDay"
	TeamWeek    AggLevel = "teamWeek"
	TeamSeason  AggLevel = "teamSeason"
)

// Phase is the season phase a stat line belongs to. Regular season,
// playoffs and the losers tournament are distinct statistical regimes
// with separate models.
type Phase string

// Season phases.
const (
	PhaseRegular Phase = "regular"
	PhasePlayoff Phase = "playoffs"
	PhaseLosers  Phase = "losersTournament"
)

// Classification is the derived shape of a stat line. It is computed once
// per line and never mutated.
type Classification struct {
	SeasonID string
	Entity   EntityType
	Level    AggLevel
	PosGroup PosGroup
	Phase    Phase
}
