package rating_test

import (
	"math"
	"testing"

	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCurveScaler(t *testing.T) {
	Convey("Given the default curve scaler", t, func() {
		c := rating.NewCurveScaler()

		Convey("When scaling the endpoints", func() {
			Convey("Then zero stays zero", func() {
				So(c.Scale(statline.PosForward, 0), ShouldEqual, 0)
			})

			Convey("Then a perfect composite hits the typical maximum", func() {
				So(c.Scale(statline.PosForward, 100), ShouldAlmostEqual, 130, 1e-9)
				So(c.Scale(statline.PosDefense, 100), ShouldAlmostEqual, 120, 1e-9)
				So(c.Scale(statline.PosGoalie, 100), ShouldAlmostEqual, 105, 1e-9)
				So(c.Scale(statline.PosTeam, 100), ShouldAlmostEqual, 110, 1e-9)
			})
		})

		Convey("When composites increase", func() {
			Convey("Then scaling is monotonic per position", func() {
				for _, pg := range []statline.PosGroup{
					statline.PosForward, statline.PosDefense,
					statline.PosGoalie, statline.PosTeam,
				} {
					prev := -1.0
					for v := 0.0; v <= 100; v += 2.5 {
						got := c.Scale(pg, v)
						So(got, ShouldBeGreaterThanOrEqualTo, prev)
						prev = got
					}
				}
			})
		})

		Convey("When comparing the middle of the pack", func() {
			Convey("Then midpoint compression pulls skaters below linear", func() {
				// Without compression or curve, 50 would map to 65 for F.
				mid := c.Scale(statline.PosForward, 50)
				So(mid, ShouldBeGreaterThan, 0)
				So(mid, ShouldNotAlmostEqual, 65, 1e-9)
			})

			Convey("Then goalies keep more of their linear spread than forwards", func() {
				f := c.Scale(statline.PosForward, 50) / c.Scale(statline.PosForward, 100)
				g := c.Scale(statline.PosGoalie, 50) / c.Scale(statline.PosGoalie, 100)
				So(g, ShouldBeLessThan, f)
			})
		})

		Convey("When inputs are degenerate", func() {
			Convey("Then negatives floor at zero", func() {
				So(c.Scale(statline.PosForward, -20), ShouldEqual, 0)
			})

			Convey("Then NaN floors at zero", func() {
				So(c.Scale(statline.PosForward, math.NaN()), ShouldEqual, 0)
			})
		})

		Convey("When asking for an unknown position group", func() {
			cfg := c.Config(statline.PosGroup("X"))

			Convey("Then the fallback config applies", func() {
				So(cfg.TypicalMax(), ShouldAlmostEqual, 110, 1e-9)
			})
		})
	})

	Convey("Given a custom scaling table", t, func() {
		c := rating.NewCurveScaler(rating.WithScalingConfigs(map[statline.PosGroup]rating.ScalingConfig{
			statline.PosForward: {CurveStrength: 1, ScaleFactor: 100, Multiplier: 2},
		}))

		Convey("Then the multiplier stacks on the scale factor", func() {
			So(c.Scale(statline.PosForward, 100), ShouldAlmostEqual, 200, 1e-9)
			So(c.Config(statline.PosForward).TypicalMax(), ShouldAlmostEqual, 200, 1e-9)
		})

		Convey("Then no compression plus linear curve is linear", func() {
			So(c.Scale(statline.PosForward, 50), ShouldAlmostEqual, 100, 1e-9)
		})
	})
}
