package rating_test

import (
	"testing"

	"github.com/okian/deke/internal/domain/model"
	"github.com/okian/deke/internal/domain/rating"
	"github.com/okian/deke/internal/domain/statline"
	. "github.com/smartystreets/goconvey/convey"
)

// tableStub is a minimal in-memory model.Table for resolver tests.
type tableStub struct {
	models []model.SeasonModel
}

func (t *tableStub) Exact(k model.Key) (model.SeasonModel, bool) {
	for _, m := range t.models {
		if !m.Legacy && m.Key == k {
			return m, true
		}
	}
	return model.SeasonModel{}, false
}

func (t *tableStub) Legacy(seasonID string, pg statline.PosGroup) (model.SeasonModel, bool) {
	for _, m := range t.models {
		if m.Legacy && m.Key.SeasonID == seasonID && m.Key.PosGroup == pg {
			return m, true
		}
	}
	return model.SeasonModel{}, false
}

func (t *tableStub) Candidates(level statline.AggLevel, pg statline.PosGroup) []model.SeasonModel {
	var out []model.SeasonModel
	for _, m := range t.models {
		if !m.Legacy && m.Key.Level == level && m.Key.PosGroup == pg {
			out = append(out, m)
		}
	}
	return out
}

func (t *tableStub) Len() int { return len(t.models) }

func dayForwardKey(phase statline.Phase, season string) model.Key {
	return model.Key{
		Phase: phase, SeasonID: season,
		Level: statline.PlayerDay, PosGroup: statline.PosForward,
	}
}

func TestResolver(t *testing.T) {
	Convey("Given a resolver over a small model table", t, func() {
		classify := func(phase statline.Phase, season string) statline.Classification {
			return statline.Classification{
				SeasonID: season,
				Entity:   statline.EntityPlayer,
				Level:    statline.PlayerDay,
				PosGroup: statline.PosForward,
				Phase:    phase,
			}
		}

		Convey("When an exact model exists", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhaseRegular, "5")},
			}}
			r := rating.NewResolver(table)

			m, ok := r.Resolve(classify(statline.PhaseRegular, "5"))

			Convey("Then it should be returned directly", func() {
				So(ok, ShouldBeTrue)
				So(m.Key.SeasonID, ShouldEqual, "5")
				So(m.Key.Phase, ShouldEqual, statline.PhaseRegular)
			})
		})

		Convey("When only a legacy model exists for the season", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhaseRegular, "2"), Legacy: true},
			}}
			r := rating.NewResolver(table)

			m, ok := r.Resolve(classify(statline.PhaseRegular, "2"))

			Convey("Then the legacy model should be used", func() {
				So(ok, ShouldBeTrue)
				So(m.Legacy, ShouldBeTrue)
			})
		})

		Convey("When a playoff line has no playoff model", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhaseRegular, "5")},
			}}
			r := rating.NewResolver(table)

			m, ok := r.Resolve(classify(statline.PhasePlayoff, "5"))

			Convey("Then it should fall back to the regular-season model", func() {
				So(ok, ShouldBeTrue)
				So(m.Key.Phase, ShouldEqual, statline.PhaseRegular)
			})
		})

		Convey("When a regular-season line only has a playoff model", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhasePlayoff, "5")},
			}}
			r := rating.NewResolver(table)

			_, ok := r.Resolve(classify(statline.PhaseRegular, "5"))

			Convey("Then it should not borrow across phases", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When only other seasons are available", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhaseRegular, "3")},
				{Key: dayForwardKey(statline.PhaseRegular, "7")},
			}}
			r := rating.NewResolver(table)

			Convey("Then the nearest season wins", func() {
				m, ok := r.Resolve(classify(statline.PhaseRegular, "6"))
				So(ok, ShouldBeTrue)
				So(m.Key.SeasonID, ShouldEqual, "7")
			})

			Convey("Then equidistant seasons break toward the lower one", func() {
				m, ok := r.Resolve(classify(statline.PhaseRegular, "5"))
				So(ok, ShouldBeTrue)
				So(m.Key.SeasonID, ShouldEqual, "3")
			})
		})

		Convey("When candidates include a non-numeric season", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhaseRegular, "champs")},
				{Key: dayForwardKey(statline.PhaseRegular, "8")},
			}}
			r := rating.NewResolver(table)

			m, ok := r.Resolve(classify(statline.PhaseRegular, "5"))

			Convey("Then numeric seasons are preferred", func() {
				So(ok, ShouldBeTrue)
				So(m.Key.SeasonID, ShouldEqual, "8")
			})
		})

		Convey("When a playoff line misses on every same-phase step", func() {
			table := &tableStub{models: []model.SeasonModel{
				{Key: dayForwardKey(statline.PhaseRegular, "2")},
			}}
			r := rating.NewResolver(table)

			m, ok := r.Resolve(classify(statline.PhasePlayoff, "6"))

			Convey("Then the nearest regular season is the last resort", func() {
				So(ok, ShouldBeTrue)
				So(m.Key.Phase, ShouldEqual, statline.PhaseRegular)
				So(m.Key.SeasonID, ShouldEqual, "2")
			})
		})

		Convey("When the table is empty", func() {
			r := rating.NewResolver(&tableStub{})

			_, ok := r.Resolve(classify(statline.PhaseRegular, "5"))

			Convey("Then nothing resolves", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
