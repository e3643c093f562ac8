package model_test

import (
	"testing"

	"github.com/okian/sensei/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDifficulty(t *testing.T) {
	Convey("Given the difficulty ladder", t, func() {
		Convey("When parsing raw strings", func() {
			Convey("Then known values should round-trip", func() {
				So(model.ParseDifficulty("easy"), ShouldEqual, model.DifficultyEasy)
				So(model.ParseDifficulty("Medium"), ShouldEqual, model.DifficultyMedium)
				So(model.ParseDifficulty(" HARD "), ShouldEqual, model.DifficultyHard)
			})

			Convey("Then malformed values should map to unknown", func() {
				So(model.ParseDifficulty(""), ShouldEqual, model.DifficultyUnknown)
				So(model.ParseDifficulty("extreme"), ShouldEqual, model.DifficultyUnknown)
			})
		})

		Convey("When comparing levels", func() {
			Convey("Then easy < medium < hard < unknown", func() {
				So(model.DifficultyEasy.Level(), ShouldBeLessThan, model.DifficultyMedium.Level())
				So(model.DifficultyMedium.Level(), ShouldBeLessThan, model.DifficultyHard.Level())
				So(model.DifficultyHard.Level(), ShouldBeLessThan, model.DifficultyUnknown.Level())
			})
		})

		Convey("When asking for the next level", func() {
			Convey("Then easy and medium should progress", func() {
				next, ok := model.DifficultyEasy.Next()
				So(ok, ShouldBeTrue)
				So(next, ShouldEqual, model.DifficultyMedium)

				next, ok = model.DifficultyMedium.Next()
				So(ok, ShouldBeTrue)
				So(next, ShouldEqual, model.DifficultyHard)
			})

			Convey("Then hard and unknown should not", func() {
				_, ok := model.DifficultyHard.Next()
				So(ok, ShouldBeFalse)

				_, ok = model.DifficultyUnknown.Next()
				So(ok, ShouldBeFalse)
			})
		})
	})
}
