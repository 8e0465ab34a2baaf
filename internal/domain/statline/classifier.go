package statline

import "strings"

// Classifier infers a Classification from the shape of a stat line. It is
// pure and stateless; the zero value is not usable, construct with New.
type Classifier struct {
	defaultPosGroup PosGroup
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithDefaultPosGroup sets the position group substituted by best-effort
// classification when the line carries an unrecognized group.
func WithDefaultPosGroup(pg PosGroup) Option {
	return func(c *Classifier) {
		if pg != "" {
			c.defaultPosGroup = pg
		}
	}
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		defaultPosGroup: PosForward,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify derives the Classification for a stat line. It fails with
// ErrMissingSeason when no season id is present and with
// ErrUnknownPosGroup when a player line carries a position group that
// cannot be normalized; callers should fall back to ClassifyBestEffort so
// a rating, possibly degraded, can still be produced.
func (c *Classifier) Classify(line StatLine) (Classification, error) {
	if !line.Has(FieldSeason) {
		return Classification{}, ErrMissingSeason
	}

	entity := c.entityType(line)
	pg, ok := c.posGroup(line, entity)
	if !ok {
		return Classification{}, ErrUnknownPosGroup
	}

	return Classification{
		SeasonID: line.Str(FieldSeason),
		Entity:   entity,
		Level:    c.level(line, entity),
		PosGroup: pg,
		Phase:    c.phase(line),
	}, nil
}

// ClassifyBestEffort applies the same rules as Classify but substitutes
// defaults for anything that would fail, so it always yields a usable
// Classification.
func (c *Classifier) ClassifyBestEffort(line StatLine) Classification {
	entity := c.entityType(line)
	pg, ok := c.posGroup(line, entity)
	if !ok {
		pg = c.defaultPosGroup
	}
	return Classification{
		SeasonID: line.Str(FieldSeason),
		Entity:   entity,
		Level:    c.level(line, entity),
		PosGroup: pg,
		Phase:    c.phase(line),
	}
}

// entityType resolves the entity: an explicit marker wins, then a player
// id, then a team id, then the player default.
func (c *Classifier) entityType(line StatLine) EntityType {
	switch strings.ToLower(line.Str(FieldEntityType)) {
	case string(EntityPlayer):
		return EntityPlayer
	case string(EntityTeam):
		return EntityTeam
	}
	if line.Has(FieldPlayerID) {
		return EntityPlayer
	}
	if line.Has(FieldTeamID) {
		return EntityTeam
	}
	return EntityPlayer
}

// level resolves the aggregation granularity from marker fields, most
// specific first.
func (c *Classifier) level(line StatLine, entity EntityType) AggLevel {
	if entity == EntityTeam {
		switch {
		case line.Has(FieldDate):
			return TeamDay
		case line.Has(FieldWeek):
			return TeamWeek
		default:
			return TeamSeason
		}
	}

	switch {
	case line.Has(FieldSalary) || line.Has(FieldSeasonRating):
		return PlayerNHL
	case line.Has(FieldDate):
		return PlayerDay
	case line.Has(FieldWeek) && line.Has(FieldDays):
		return PlayerWeek
	case line.Has(FieldSeasonType) && line.Has(FieldTeamID):
		return PlayerSplit
	case len(line.Strings(FieldTeams)) > 1 || line.Has(FieldSeasonType):
		return PlayerTotal
	case line.Has(FieldWeek):
		return PlayerWeek
	default:
		return PlayerDay
	}
}

// posGroup normalizes the free-text position group. Team entities are
// forced to the TEAM group.
func (c *Classifier) posGroup(line StatLine, entity EntityType) (PosGroup, bool) {
	if entity == EntityTeam {
		return PosTeam, true
	}
	switch strings.ToUpper(line.Str(FieldPosGroup)) {
	case "F", "FWD", "FORWARD", "LW", "C", "RW", "W", "WING":
		return PosForward, true
	case "D", "DEF", "DEFENSE", "DEFENCE", "LD", "RD":
		return PosDefense, true
	case "G", "GOALIE", "GOALTENDER":
		return PosGoalie, true
	default:
		return "", false
	}
}

// phase normalizes the season-type marker; anything unrecognized is the
// regular season.
func (c *Classifier) phase(line StatLine) Phase {
	t := strings.ToUpper(line.Str(FieldSeasonType))
	switch {
	case t == "PO" || strings.HasPrefix(t, "PLAYOFF"):
		return PhasePlayoff
	case t == "LT" || strings.HasPrefix(t, "LOSERS"):
		return PhaseLosers
	default:
		return PhaseRegular
	}
}
