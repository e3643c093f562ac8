package scoring_test

import (
	"testing"
	"time"

	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func meta(expectedComplexity string, expectedMinutes float64) model.ProblemMeta {
	return model.ProblemMeta{
		ProblemID:           "p1",
		Title:               "Two Sum",
		Topic:               "arrays",
		Difficulty:          model.DifficultyEasy,
		ExpectedComplexity:  expectedComplexity,
		ExpectedTimeMinutes: expectedMinutes,
	}
}

func submission(passed bool, attempts int, minutes float64, reported string) model.Submission {
	return model.Submission{
		ID:                 "s1",
		UserID:             "u1",
		ProblemID:          "p1",
		Topic:              "arrays",
		Difficulty:         model.DifficultyEasy,
		Passed:             passed,
		Attempts:           attempts,
		TimeTakenMinutes:   minutes,
		ReportedComplexity: reported,
		SubmittedAt:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestScore(t *testing.T) {
	Convey("Given a scorer with default weights", t, func() {
		scorer := scoring.New()

		Convey("When scoring an optimal first-try pass", func() {
			rec := scorer.Score(submission(true, 1, 7.5, "O(n)"), meta("O(n)", 15))

			Convey("Then every component should be maximal", func() {
				So(rec.Correctness, ShouldEqual, 1.0)
				So(rec.Efficiency, ShouldEqual, 1.0)
				So(rec.Speed, ShouldEqual, 1.0)
				So(rec.Attempts, ShouldEqual, 1.0)
				So(rec.Total, ShouldEqual, 100)
				So(rec.BruteForce, ShouldBeFalse)
				So(rec.Feedback, ShouldEqual, "Great job! Optimal solution achieved.")
			})
		})

		Convey("When scoring a failed attempt", func() {
			rec := scorer.Score(submission(false, 5, 30, "O(n)"), meta("O(n)", 15))

			Convey("Then correctness and efficiency should be zero", func() {
				So(rec.Correctness, ShouldEqual, 0.0)
				So(rec.Efficiency, ShouldEqual, 0.0)
				So(rec.Speed, ShouldEqual, 0.5)
				So(rec.Attempts, ShouldEqual, 0.3)
				So(rec.Total, ShouldEqual, 15)
			})
		})

		Convey("When the reported complexity is worse than expected", func() {
			Convey("Then one level maps to 0.8", func() {
				rec := scorer.Score(submission(true, 1, 7.5, "O(n log n)"), meta("O(n)", 15))
				So(rec.Efficiency, ShouldEqual, 0.8)
			})

			Convey("Then two levels map to 0.5 and flag brute force", func() {
				rec := scorer.Score(submission(true, 1, 7.5, "O(n^2)"), meta("O(n)", 15))
				So(rec.Efficiency, ShouldEqual, 0.5)
				So(rec.BruteForce, ShouldBeTrue)
			})

			Convey("Then three levels map to 0.3", func() {
				rec := scorer.Score(submission(true, 1, 7.5, "O(n^2 log n)"), meta("O(n)", 15))
				So(rec.Efficiency, ShouldEqual, 0.3)
			})
		})

		Convey("When the reported complexity is unrecognized", func() {
			rec := scorer.Score(submission(true, 1, 7.5, "O(n^5)"), meta("O(n)", 15))

			Convey("Then scoring should degrade to the minimum, not fail", func() {
				So(rec.Efficiency, ShouldEqual, 0.1)
				So(rec.Total, ShouldBeBetweenOrEqual, 0, 100)
			})

			Convey("And a failed unrecognized submission should score zero efficiency", func() {
				failed := scorer.Score(submission(false, 1, 7.5, "O(n^5)"), meta("O(n)", 15))
				So(failed.Efficiency, ShouldEqual, 0.0)
			})
		})

		Convey("When the reported complexity beats the expected one", func() {
			rec := scorer.Score(submission(true, 1, 7.5, "O(log n)"), meta("O(n)", 15))

			Convey("Then efficiency should stay maximal", func() {
				So(rec.Efficiency, ShouldEqual, 1.0)
			})
		})

		Convey("When scoring speed across the breakpoints", func() {
			speedOf := func(minutes float64) float64 {
				return scorer.Score(submission(true, 1, minutes, "O(n)"), meta("O(n)", 15)).Speed
			}

			Convey("Then anchors should match the contract", func() {
				So(speedOf(7.5), ShouldEqual, 1.0)  // ratio 0.5
				So(speedOf(15), ShouldAlmostEqual, 0.8)  // ratio 1.0
				So(speedOf(30), ShouldAlmostEqual, 0.5)  // ratio 2.0
				So(speedOf(60), ShouldAlmostEqual, 0.25) // ratio 4.0
				So(speedOf(600), ShouldEqual, 0.1)       // floor
			})

			Convey("Then slower never scores higher than faster", func() {
				times := []float64{1, 5, 10, 14, 15, 20, 29, 30, 45, 60, 100, 600, 1000}
				for i := 1; i < len(times); i++ {
					So(speedOf(times[i]), ShouldBeLessThanOrEqualTo, speedOf(times[i-1]))
				}
			})
		})

		Convey("When time or expected time are missing", func() {
			Convey("Then a missing time scores the floor", func() {
				rec := scorer.Score(submission(true, 1, 0, "O(n)"), meta("O(n)", 15))
				So(rec.Speed, ShouldEqual, 0.1)
			})

			Convey("Then a missing expected time is treated as ratio 1", func() {
				rec := scorer.Score(submission(true, 1, 10, "O(n)"), meta("O(n)", 0))
				So(rec.Speed, ShouldAlmostEqual, 0.8)
			})
		})

		Convey("When scoring attempts", func() {
			attemptsOf := func(n int) float64 {
				return scorer.Score(submission(true, n, 7.5, "O(n)"), meta("O(n)", 15)).Attempts
			}

			Convey("Then the ladder should match the contract", func() {
				So(attemptsOf(1), ShouldEqual, 1.0)
				So(attemptsOf(2), ShouldEqual, 0.9)
				So(attemptsOf(3), ShouldEqual, 0.7)
				So(attemptsOf(4), ShouldEqual, 0.5)
				So(attemptsOf(5), ShouldEqual, 0.3)
				So(attemptsOf(9), ShouldEqual, 0.3)
			})

			Convey("Then missing attempts count as one", func() {
				So(attemptsOf(0), ShouldEqual, 1.0)
			})
		})

		Convey("When scoring the same submission twice", func() {
			sub := submission(true, 2, 20, "O(n log n)")
			m := meta("O(n)", 15)

			Convey("Then the records should be identical", func() {
				So(scorer.Score(sub, m), ShouldResemble, scorer.Score(sub, m))
			})
		})
	})

	Convey("Given a scorer with custom weights", t, func() {
		scorer := scoring.New(scoring.WithWeights(scoring.Weights{
			Correctness: 1.0,
			Efficiency:  0.0001,
			Speed:       0.0001,
			Attempts:    0.0001,
		}))

		Convey("When scoring a pass", func() {
			rec := scorer.Score(submission(true, 5, 600, "garbage"), meta("O(1)", 15))

			Convey("Then correctness should dominate and the total stay clamped", func() {
				So(rec.Total, ShouldEqual, 100)
			})
		})
	})
}
