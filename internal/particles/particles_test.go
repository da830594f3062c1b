package particles_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/gfx"
	"github.com/san-kum/physlab/internal/particles"
)

var _ = Describe("System", func() {
	var sys *particles.System
	origin := gfx.Pt(100, 100)

	BeforeEach(func() {
		sys = particles.NewSystem(particles.WithSeed(7), particles.WithCap(50))
	})

	Describe("Emit", func() {
		It("adds exactly count particles", func() {
			Expect(sys.Emit(particles.KindConfetti, origin, 12, particles.EmitParams{})).To(Equal(12))
			Expect(sys.Len()).To(Equal(12))
		})

		It("treats negative and zero counts as nothing", func() {
			Expect(sys.Emit(particles.KindConfetti, origin, -3, particles.EmitParams{})).To(Equal(0))
			Expect(sys.Emit(particles.KindTrail, origin, 0, particles.EmitParams{})).To(Equal(0))
			Expect(sys.Len()).To(BeZero())
		})

		It("truncates at the cap", func() {
			Expect(sys.Emit(particles.KindConfetti, origin, 40, particles.EmitParams{})).To(Equal(40))
			Expect(sys.Emit(particles.KindConfetti, origin, 40, particles.EmitParams{})).To(Equal(10))
			Expect(sys.Len()).To(Equal(sys.Cap()))
		})

		It("ignores non-finite origins", func() {
			Expect(sys.Emit(particles.KindTrail, gfx.Pt(math.NaN(), 0), 5, particles.EmitParams{})).To(Equal(0))
		})

		It("drops unknown kinds", func() {
			Expect(sys.Emit(particles.Kind(7), origin, 3, particles.EmitParams{})).To(Equal(0))
			Expect(sys.Len()).To(BeZero())
		})

		It("needs a finite target for transfers", func() {
			p := particles.EmitParams{Target: gfx.Pt(math.Inf(1), 0)}
			Expect(sys.Emit(particles.KindTransfer, origin, 5, p)).To(Equal(0))
		})
	})

	Describe("Update", func() {
		It("only removes particles whose lifetime elapsed", func() {
			sys.Emit(particles.KindTrail, origin, 5, particles.EmitParams{Lifetime: 1})
			sys.Emit(particles.KindTrail, origin, 3, particles.EmitParams{Lifetime: 3})

			sys.Update(0.5)
			Expect(sys.Len()).To(Equal(8))
			sys.Update(0.6)
			Expect(sys.Len()).To(Equal(3))
			sys.Update(2)
			Expect(sys.Len()).To(BeZero())
		})

		It("treats bad dt as zero", func() {
			sys.Emit(particles.KindTrail, origin, 4, particles.EmitParams{Lifetime: 0.1})
			sys.Update(math.NaN())
			sys.Update(-1)
			Expect(sys.Len()).To(Equal(4))
		})

		It("eventually empties", func() {
			sys.Emit(particles.KindConfetti, origin, 20, particles.EmitParams{})
			sys.Emit(particles.KindTransfer, origin, 20, particles.EmitParams{Target: gfx.Pt(300, 50)})
			for i := 0; i < 300; i++ {
				sys.Update(1.0 / 60)
			}
			Expect(sys.Len()).To(BeZero())
		})
	})

	Describe("Draw", func() {
		It("does not change the collection", func() {
			sys.Emit(particles.KindConfetti, origin, 6, particles.EmitParams{})
			rec := gfx.NewRecorder()
			sys.Draw(gfx.NewCanvas2D(rec))
			sys.Draw(gfx.NewCanvas2D(rec))
			Expect(sys.Len()).To(Equal(6))
			Expect(rec.Count(gfx.OpFill)).To(Equal(12))
		})

		It("fades with progress", func() {
			sys.Emit(particles.KindTrail, origin, 1, particles.EmitParams{Lifetime: 1, Color: gfx.White})
			sys.Update(0.5)
			rec := gfx.NewRecorder()
			sys.Draw(gfx.NewCanvas2D(rec))
			Expect(rec.Ops).To(HaveLen(1))
			Expect(rec.Ops[0].Color.A).To(BeNumerically("~", 128, 1))
		})
	})

	It("clears everything", func() {
		sys.Emit(particles.KindTrail, origin, 9, particles.EmitParams{})
		sys.Clear()
		Expect(sys.Len()).To(BeZero())
	})
})
