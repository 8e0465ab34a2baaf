package statline_test

import (
	"testing"

	"github.com/okian/deke/internal/domain/statline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassifier(t *testing.T) {
	Convey("Given a classifier", t, func() {
		c := statline.New()

		Convey("When classifying a daily skater line", func() {
			cls, err := c.Classify(statline.StatLine{
				"playerId": "p1",
				"season":   "7",
				"date":     "2026-01-15",
				"posGroup": "F",
			})

			Convey("Then it should resolve the player-day shape", func() {
				So(err, ShouldBeNil)
				So(cls.Entity, ShouldEqual, statline.EntityPlayer)
				So(cls.Level, ShouldEqual, statline.PlayerDay)
				So(cls.PosGroup, ShouldEqual, statline.PosForward)
				So(cls.Phase, ShouldEqual, statline.PhaseRegular)
				So(cls.SeasonID, ShouldEqual, "7")
			})
		})

		Convey("When the line has no season", func() {
			_, err := c.Classify(statline.StatLine{
				"playerId": "p1",
				"posGroup": "F",
			})

			Convey("Then it should fail with the season sentinel", func() {
				So(err, ShouldEqual, statline.ErrMissingSeason)
			})

			Convey("And best effort should still classify", func() {
				cls := c.ClassifyBestEffort(statline.StatLine{
					"playerId": "p1",
					"posGroup": "F",
				})
				So(cls.Level, ShouldEqual, statline.PlayerDay)
				So(cls.SeasonID, ShouldEqual, "")
			})
		})

		Convey("When the position group is unrecognized", func() {
			line := statline.StatLine{
				"playerId": "p1",
				"season":   "7",
				"posGroup": "ROVER",
			}
			_, err := c.Classify(line)

			Convey("Then it should fail with the position sentinel", func() {
				So(err, ShouldEqual, statline.ErrUnknownPosGroup)
			})

			Convey("And best effort should substitute the forward default", func() {
				cls := c.ClassifyBestEffort(line)
				So(cls.PosGroup, ShouldEqual, statline.PosForward)
			})
		})

		Convey("When normalizing position group spellings", func() {
			cases := map[string]statline.PosGroup{
				"F":       statline.PosForward,
				"lw":      statline.PosForward,
				"WING":    statline.PosForward,
				"D":       statline.PosDefense,
				"defence": statline.PosDefense,
				"LD":      statline.PosDefense,
				"g":       statline.PosGoalie,
				"GOALIE":  statline.PosGoalie,
			}
			for raw, want := range cases {
				cls, err := c.Classify(statline.StatLine{
					"playerId": "p1", "season": "3", "posGroup": raw,
				})
				So(err, ShouldBeNil)
				So(cls.PosGroup, ShouldEqual, want)
			}
		})

		Convey("When resolving aggregation levels for players", func() {
			base := statline.StatLine{"playerId": "p1", "season": "7", "posGroup": "F"}
			withField := func(extra map[string]any) statline.StatLine {
				line := statline.StatLine{}
				for k, v := range base {
					line[k] = v
				}
				for k, v := range extra {
					line[k] = v
				}
				return line
			}

			Convey("Then salary lines are season projections", func() {
				cls, err := c.Classify(withField(map[string]any{"salary": 12.5}))
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerNHL)
			})

			Convey("Then a date marks a daily line even with other markers", func() {
				cls, err := c.Classify(withField(map[string]any{"date": "2026-02-01", "week": 5}))
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerDay)
			})

			Convey("Then week plus days marks a weekly line", func() {
				cls, err := c.Classify(withField(map[string]any{"week": 5, "days": 7}))
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerWeek)
			})

			Convey("Then a bare week marks a weekly line", func() {
				cls, err := c.Classify(withField(map[string]any{"week": 5}))
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerWeek)
			})

			Convey("Then seasonType with a team marks a split", func() {
				cls, err := c.Classify(withField(map[string]any{"seasonType": "PO", "teamId": "t1"}))
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerSplit)
			})

			Convey("Then multiple teams mark a season total", func() {
				cls, err := c.Classify(withField(map[string]any{"teams": []string{"t1", "t2"}}))
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerTotal)
			})

			Convey("Then a bare line defaults to daily", func() {
				cls, err := c.Classify(base)
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.PlayerDay)
			})
		})

		Convey("When classifying team lines", func() {
			Convey("Then a dated team line is a team day", func() {
				cls, err := c.Classify(statline.StatLine{
					"teamId": "t1", "season": "7", "date": "2026-01-15",
				})
				So(err, ShouldBeNil)
				So(cls.Entity, ShouldEqual, statline.EntityTeam)
				So(cls.Level, ShouldEqual, statline.TeamDay)
				So(cls.PosGroup, ShouldEqual, statline.PosTeam)
			})

			Convey("Then a weekly team line is a team week", func() {
				cls, err := c.Classify(statline.StatLine{
					"teamId": "t1", "season": "7", "week": 3,
				})
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.TeamWeek)
			})

			Convey("Then a bare team line is a team season", func() {
				cls, err := c.Classify(statline.StatLine{
					"teamId": "t1", "season": "7",
				})
				So(err, ShouldBeNil)
				So(cls.Level, ShouldEqual, statline.TeamSeason)
			})
		})

		Convey("When resolving the season phase", func() {
			classify := func(seasonType string) statline.Classification {
				cls, err := c.Classify(statline.StatLine{
					"playerId": "p1", "season": "7", "posGroup": "F",
					"seasonType": seasonType,
				})
				So(err, ShouldBeNil)
				return cls
			}

			Convey("Then playoff markers map to the playoff phase", func() {
				So(classify("PO").Phase, ShouldEqual, statline.PhasePlayoff)
				So(classify("playoffs").Phase, ShouldEqual, statline.PhasePlayoff)
			})

			Convey("Then losers markers map to the losers tournament", func() {
				So(classify("LT").Phase, ShouldEqual, statline.PhaseLosers)
				So(classify("losersTournament").Phase, ShouldEqual, statline.PhaseLosers)
			})

			Convey("Then anything else is the regular season", func() {
				So(classify("exhibition").Phase, ShouldEqual, statline.PhaseRegular)
			})
		})
	})
}

func TestStatLineAccessors(t *testing.T) {
	Convey("Given a stat line with mixed value types", t, func() {
		line := statline.StatLine{
			"playerId": "p1",
			"season":   7,
			"G":        "3",
			"TOI":      18.5,
			"teams":    "t1, t2",
			"empty":    "   ",
		}

		Convey("Then Str converts numerics", func() {
			So(line.Str("season"), ShouldEqual, "7")
		})

		Convey("Then Num parses strings", func() {
			So(line.NumOr("G", 0), ShouldEqual, 3)
			So(line.NumOr("TOI", 0), ShouldEqual, 18.5)
			So(line.NumOr("missing", -1), ShouldEqual, -1)
		})

		Convey("Then Strings splits comma lists", func() {
			So(line.Strings("teams"), ShouldResemble, []string{"t1", "t2"})
		})

		Convey("Then Has ignores blank strings", func() {
			So(line.Has("empty"), ShouldBeFalse)
			So(line.Has("playerId"), ShouldBeTrue)
		})

		Convey("Then EntityID prefers the player id", func() {
			So(line.EntityID(), ShouldEqual, "p1")
			So(statline.StatLine{"teamId": "t9"}.EntityID(), ShouldEqual, "t9")
		})
	})
}
