package lineup_test

import (
	"testing"

	"github.com/okian/deke/internal/domain/lineup"
	. "github.com/smartystreets/goconvey/convey"
)

func skater(id string, pos lineup.Position, daily lineup.Position, gp int, ratingVal float64) lineup.Player {
	return lineup.Player{
		PlayerID:     id,
		Eligible:     []lineup.Position{pos},
		DailyPos:     daily,
		GamesPlayed:  gp,
		GamesStarted: gp,
		Rating:       ratingVal,
	}
}

func fullRoster() []lineup.Player {
	return []lineup.Player{
		skater("lw1", lineup.LeftWing, lineup.LeftWing, 1, 80),
		skater("lw2", lineup.LeftWing, lineup.LeftWing, 1, 60),
		skater("c1", lineup.Center, lineup.Center, 1, 85),
		skater("c2", lineup.Center, lineup.Center, 1, 55),
		skater("rw1", lineup.RightWing, lineup.RightWing, 1, 75),
		skater("rw2", lineup.RightWing, lineup.RightWing, 1, 50),
		skater("d1", lineup.Defense, lineup.Defense, 1, 70),
		skater("d2", lineup.Defense, lineup.Defense, 1, 65),
		skater("d3", lineup.Defense, lineup.Defense, 1, 45),
		skater("util", lineup.Center, lineup.Utility, 1, 40),
		skater("g1", lineup.Goalie, lineup.Goalie, 1, 90),
		skater("bench1", lineup.LeftWing, lineup.Bench, 0, 30),
		skater("ir1", lineup.Defense, lineup.Injured, 0, 95),
	}
}

func TestOptimizer(t *testing.T) {
	Convey("Given the default optimizer", t, func() {
		o := lineup.NewOptimizer()

		Convey("When optimizing an empty roster", func() {
			res := o.Optimize(nil)

			Convey("Then nothing is assigned", func() {
				So(res.Players, ShouldBeEmpty)
				So(res.FullPosRating, ShouldEqual, 0)
				So(res.BestPosRating, ShouldEqual, 0)
			})
		})

		Convey("When optimizing a complete roster", func() {
			roster := fullRoster()
			res := o.Optimize(roster)

			Convey("Then every player receives both assignments", func() {
				So(res.Players, ShouldHaveLength, len(roster))
				for _, p := range res.Players {
					So(p.FullPos, ShouldNotBeEmpty)
					So(p.BestPos, ShouldNotBeEmpty)
				}
			})

			Convey("Then the unconstrained pass never loses to the realistic one", func() {
				So(res.BestPosRating, ShouldBeGreaterThanOrEqualTo, res.FullPosRating)
				So(res.ImprovementPoints, ShouldAlmostEqual,
					res.BestPosRating-res.FullPosRating, 1e-9)
			})

			Convey("Then extra players land on the bench", func() {
				var benched int
				for _, p := range res.Players {
					if p.BestPos == lineup.Bench {
						benched++
					}
				}
				So(benched, ShouldEqual, len(roster)-11)
			})
		})

		Convey("When two left wings compete for one open slot", func() {
			players := []lineup.Player{
				skater("strong", lineup.LeftWing, lineup.LeftWing, 1, 90),
				skater("weak", lineup.LeftWing, lineup.LeftWing, 1, 40),
			}
			res := o.Optimize(players)

			Convey("Then both fill the two LW slots and totals add up", func() {
				So(res.FullPosRating, ShouldAlmostEqual, 130, 1e-9)
				So(res.BestPosRating, ShouldAlmostEqual, 130, 1e-9)
				So(res.Players[0].BestPos, ShouldEqual, lineup.LeftWing)
				So(res.Players[1].BestPos, ShouldEqual, lineup.LeftWing)
			})
		})

		Convey("When the realistic pass prefers players who actually played", func() {
			players := []lineup.Player{
				skater("played", lineup.LeftWing, lineup.LeftWing, 1, 40),
				skater("sat", lineup.LeftWing, lineup.Bench, 0, 90),
				skater("alsoSat", lineup.LeftWing, lineup.Bench, 0, 85),
			}
			res := o.Optimize(players)

			byID := make(map[string]lineup.PlayerAssignment)
			for _, p := range res.Players {
				byID[p.PlayerID] = p
			}

			Convey("Then the active player outranks higher-rated bench players", func() {
				So(byID["played"].FullPos, ShouldEqual, lineup.LeftWing)
			})

			Convey("Then the rating-only pass ignores lineup status", func() {
				So(byID["sat"].BestPos, ShouldEqual, lineup.LeftWing)
				So(byID["alsoSat"].BestPos, ShouldEqual, lineup.LeftWing)
				So(byID["played"].BestPos, ShouldEqual, lineup.Bench)
			})
		})

		Convey("When greedy slot filling would strand a specialist", func() {
			// Greedy puts the flexible stars on the wing and strands one
			// LW-only player with the centre slots empty; only the
			// exhaustive search finds the full placement.
			players := []lineup.Player{
				{PlayerID: "flex1", Eligible: []lineup.Position{lineup.LeftWing, lineup.Center}, GamesPlayed: 1, Rating: 90},
				{PlayerID: "flex2", Eligible: []lineup.Position{lineup.LeftWing, lineup.Center}, GamesPlayed: 1, Rating: 88},
				{PlayerID: "wing1", Eligible: []lineup.Position{lineup.LeftWing}, GamesPlayed: 1, Rating: 86},
				{PlayerID: "wing2", Eligible: []lineup.Position{lineup.LeftWing}, GamesPlayed: 1, Rating: 84},
			}
			res := o.Optimize(players)

			Convey("Then every one of the four skaters is placed", func() {
				var benched int
				for _, p := range res.Players {
					if p.BestPos == lineup.Bench {
						benched++
					}
				}
				So(benched, ShouldEqual, 0)
				So(res.BestPosRating, ShouldAlmostEqual, 90+88+86+84, 1e-9)
			})

			Convey("Then the exhaustive search was required", func() {
				So(res.Exhaustive, ShouldBeTrue)
			})
		})

		Convey("When greedy filling is already optimal", func() {
			res := o.Optimize(fullRoster())

			Convey("Then the exhaustive search stays off", func() {
				So(res.Exhaustive, ShouldBeFalse)
			})
		})

		Convey("When slots cannot all be filled", func() {
			players := []lineup.Player{
				skater("g1", lineup.Goalie, lineup.Goalie, 1, 80),
			}
			res := o.Optimize(players)

			Convey("Then the lone goalie is placed and the rest stay open", func() {
				So(res.Players[0].BestPos, ShouldEqual, lineup.Goalie)
				So(res.BestPosRating, ShouldAlmostEqual, 80, 1e-9)
			})
		})
	})

	Convey("Given a custom template", t, func() {
		o := lineup.NewOptimizer(lineup.WithTemplate([]lineup.Slot{
			{ID: "G1", Position: lineup.Goalie, Eligible: []lineup.Position{lineup.Goalie}},
		}))

		Convey("When optimizing two goalies for one slot", func() {
			players := []lineup.Player{
				skater("better", lineup.Goalie, lineup.Goalie, 1, 92),
				skater("backup", lineup.Goalie, lineup.Bench, 0, 70),
			}
			res := o.Optimize(players)

			Convey("Then only the stronger goalie starts", func() {
				So(res.Players[0].BestPos, ShouldEqual, lineup.Goalie)
				So(res.Players[1].BestPos, ShouldEqual, lineup.Bench)
			})
		})
	})

	Convey("Given a malformed template option", t, func() {
		o := lineup.NewOptimizer(lineup.WithTemplate([]lineup.Slot{
			{ID: "broken", Position: lineup.Center},
		}))

		Convey("Then the default template is kept", func() {
			roster := fullRoster()
			res := o.Optimize(roster)
			So(res.BestPosRating, ShouldBeGreaterThan, 0)
		})
	})
}
