package scoring_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/scoring"
)

var _ = Describe("CalculateAccuracy", func() {
	DescribeTable("is symmetric around the target",
		func(target, d float64) {
			over := scoring.CalculateAccuracy(target+d, target, 0)
			under := scoring.CalculateAccuracy(target-d, target, 0)
			Expect(over.Label).To(Equal(under.Label))
			Expect(over.Points).To(Equal(under.Points))
		},
		Entry("small miss", 50.0, 1.0),
		Entry("medium miss", 50.0, 4.0),
		Entry("large miss", 50.0, 30.0),
		Entry("negative target", -20.0, 3.0),
		Entry("zero target", 0.0, 0.05),
	)

	It("awards the top band on an exact match", func() {
		for _, target := range []float64{0, 1, 50, -7.5, 1e6} {
			r := scoring.CalculateAccuracy(target, target, 0.5)
			Expect(r.Label).To(Equal("Perfect"))
			Expect(r.Points).To(Equal(100))
		}
	})

	DescribeTable("classifies relative error",
		func(actual float64, label string, points int) {
			r := scoring.CalculateAccuracy(actual, 100, 0)
			Expect(r.Label).To(Equal(label))
			Expect(r.Points).To(Equal(points))
		},
		Entry("within 3%", 102.0, "Perfect", 100),
		Entry("within 10%", 92.0, "Great", 60),
		Entry("within 20%", 115.0, "Good", 25),
		Entry("beyond 20%", 150.0, scoring.LabelOff, 0),
	)

	It("uses absolute error for a zero target", func() {
		r := scoring.CalculateAccuracy(0.5, 0, 0)
		Expect(r.ErrorMagnitude).To(BeNumerically("~", 0.5, 1e-12))
		Expect(math.IsInf(r.ErrorMagnitude, 0)).To(BeFalse())
	})

	It("widens bands with the tolerance scale", func() {
		Expect(scoring.CalculateAccuracy(110, 100, 0).Label).To(Equal("Great"))
		Expect(scoring.CalculateAccuracy(110, 100, 4).Label).To(Equal("Perfect"))
	})

	It("classifies NaN as Off", func() {
		r := scoring.CalculateAccuracy(math.NaN(), 10, 0)
		Expect(r.Label).To(Equal(scoring.LabelOff))
		Expect(math.IsInf(r.ErrorMagnitude, 1)).To(BeTrue())
	})
})

var _ = Describe("Bands", func() {
	It("accepts the defaults", func() {
		Expect(scoring.DefaultBands.Validate()).To(Succeed())
	})

	It("rejects unordered thresholds", func() {
		bands := scoring.Bands{{Label: "a", MaxError: 0.2, Points: 10}, {Label: "b", MaxError: 0.1, Points: 5}}
		Expect(bands.Validate()).To(MatchError(scoring.ErrInvalidBands))
	})

	It("rejects an empty set", func() {
		Expect(scoring.Bands{}.Validate()).To(MatchError(scoring.ErrInvalidBands))
	})
})

var _ = Describe("UpdateChallengeState", func() {
	perfect := scoring.AccuracyResult{Label: "Perfect", Points: 100}
	off := scoring.AccuracyResult{Label: scoring.LabelOff}

	It("does not mutate its input", func() {
		state := scoring.NewChallengeState()
		a := scoring.UpdateChallengeState(state, perfect)
		b := scoring.UpdateChallengeState(state, perfect)

		Expect(state).To(Equal(scoring.NewChallengeState()))
		Expect(a).To(Equal(b))
		Expect(a.LastResult).NotTo(BeIdenticalTo(b.LastResult))
	})

	It("tracks streaks and the best streak", func() {
		state := scoring.NewChallengeState()
		var streaks []int
		for _, r := range []scoring.AccuracyResult{perfect, perfect, off, perfect} {
			state = scoring.UpdateChallengeState(state, r)
			streaks = append(streaks, state.Streak)
		}
		Expect(streaks).To(Equal([]int{1, 2, 0, 1}))
		Expect(state.BestStreak).To(Equal(2))
		Expect(state.Attempts).To(Equal(4))
		Expect(state.CorrectCount).To(Equal(3))
		Expect(*state.LastResult).To(Equal(perfect))
	})
})

var _ = Describe("RenderScorePopup", func() {
	start := time.Now()
	popup := scoring.NewPopup(scoring.AccuracyResult{Label: "Great", Points: 60}, 100, 100, start, time.Second)

	It("is alive within its lifetime and draws text", func() {
		rec := gfx.NewRecorder()
		Expect(scoring.RenderScorePopup(gfx.NewCanvas2D(rec), popup, start.Add(300*time.Millisecond))).To(BeTrue())
		Expect(rec.Texts()).To(Equal([]string{"Great! +60"}))
	})

	It("rises as it ages", func() {
		early, late := gfx.NewRecorder(), gfx.NewRecorder()
		scoring.RenderScorePopup(gfx.NewCanvas2D(early), popup, start.Add(300*time.Millisecond))
		scoring.RenderScorePopup(gfx.NewCanvas2D(late), popup, start.Add(700*time.Millisecond))
		Expect(late.Ops[0].Points[0].Y).To(BeNumerically("<", early.Ops[0].Points[0].Y))
	})

	It("expires once the lifetime has elapsed", func() {
		rec := gfx.NewRecorder()
		Expect(scoring.RenderScorePopup(gfx.NewCanvas2D(rec), popup, start.Add(time.Second))).To(BeFalse())
		Expect(rec.Ops).To(BeEmpty())
	})

	It("filters a list in place", func() {
		old := popup
		old.Start = start.Add(-2 * time.Second)
		list := []scoring.Popup{old, popup, old}
		list = scoring.FilterPopups(nil, list, start.Add(100*time.Millisecond))
		Expect(list).To(HaveLen(1))
		Expect(list[0].Start).To(Equal(start))
	})
})

var _ = Describe("RenderScoreboard", func() {
	It("draws every counter", func() {
		state := scoring.UpdateChallengeState(scoring.NewChallengeState(), scoring.AccuracyResult{Label: "Good", Points: 25})
		rec := gfx.NewRecorder()
		scoring.RenderScoreboard(gfx.NewCanvas2D(rec), 0, 0, 160, 120, state)
		Expect(rec.Texts()).To(ContainElements("Attempts", "Correct", "Streak", "Best", "Good"))
	})
})

var _ = Describe("Round", func() {
	anchor := gfx.Pt(0, 0)

	It("fires once inside the window", func() {
		r := scoring.NewRound(50, 0.03, 0, nil)
		_, ok := r.Observe(40, anchor)
		Expect(ok).To(BeFalse())
		ev, ok := r.Observe(49.5, anchor)
		Expect(ok).To(BeTrue())
		Expect(ev.Result.Label).To(Equal("Perfect"))
		_, ok = r.Observe(50, anchor)
		Expect(ok).To(BeFalse())
		_, ok = r.Finish(50, anchor)
		Expect(ok).To(BeFalse())
	})

	It("scores the closer sample when the target is crossed", func() {
		r := scoring.NewRound(50, 0.001, 0, nil)
		r.Observe(45, anchor)
		ev, ok := r.Observe(52, anchor)
		Expect(ok).To(BeTrue())
		Expect(ev.Actual).To(Equal(52.0))
	})

	It("falls back to end-of-run scoring", func() {
		r := scoring.NewRound(50, 0.03, 0, nil)
		r.Observe(10, anchor)
		r.Observe(20, anchor)
		ev, ok := r.Finish(20, anchor)
		Expect(ok).To(BeTrue())
		Expect(ev.Result.Label).To(Equal(scoring.LabelOff))
		Expect(r.Fired()).To(BeTrue())
	})
})
