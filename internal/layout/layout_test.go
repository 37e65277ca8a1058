package layout_test

import (
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/soa"
	"github.com/san-kum/cachelayout/internal/vec"
)

func pair(n int) (layout.System, layout.System) {
	a, err := layout.New(layout.AoS, n)
	Expect(err).NotTo(HaveOccurred())
	s, err := layout.New(layout.SoA, n)
	Expect(err).NotTo(HaveOccurred())
	return a, s
}

var _ = Describe("New", func() {
	It("builds both layouts", func() {
		for _, k := range layout.Kinds() {
			sys, err := layout.New(k, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Len()).To(Equal(10))
		}
	})

	It("rejects unknown layouts", func() {
		_, err := layout.New(layout.Kind("aosoa"), 10)
		Expect(err).To(MatchError(layout.ErrUnknownLayout))
	})

	It("rejects negative counts", func() {
		_, err := layout.New(layout.AoS, -1)
		Expect(err).To(MatchError(layout.ErrNegativeCount))
	})

	DescribeTable("ParseKind",
		func(in string, want layout.Kind, ok bool) {
			k, err := layout.ParseKind(in)
			if !ok {
				Expect(err).To(MatchError(layout.ErrUnknownLayout))
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(k).To(Equal(want))
		},
		Entry("aos", "aos", layout.AoS, true),
		Entry("upper case", "SoA", layout.SoA, true),
		Entry("padded", " aos ", layout.AoS, true),
		Entry("unknown", "aosoa", layout.Kind(""), false),
		Entry("empty", "", layout.Kind(""), false),
	)
})

var _ = Describe("cross-layout equivalence", func() {
	gravity := vec.New(0, -9.81, 0)

	DescribeTable("initial state",
		func(n int) {
			a, s := pair(n)
			Expect(layout.Equal(a, s)).To(Succeed())
			Expect(a.KineticEnergy()).To(Equal(s.KineticEnergy()))
		},
		Entry("empty", 0),
		Entry("one", 1),
		Entry("three", 3),
		Entry("ten thousand", 10_000),
	)

	DescribeTable("after operation sequences",
		func(n int, g vec.Vec3, dt float32) {
			a, s := pair(n)

			a.ApplyGravity(g, dt)
			s.ApplyGravity(g, dt)
			Expect(layout.Equal(a, s)).To(Succeed())

			a.UpdatePositions(dt)
			s.UpdatePositions(dt)
			Expect(layout.Equal(a, s)).To(Succeed())

			for i := 0; i < 5; i++ {
				Expect(a.Update(g, dt)).To(Equal(s.Update(g, dt)))
			}
			Expect(layout.Equal(a, s)).To(Succeed())
			Expect(a.KineticEnergy()).To(Equal(s.KineticEnergy()))
		},
		Entry("earth gravity", 1000, gravity, float32(0.016)),
		Entry("sideways gravity", 1000, vec.New(3, 0, -1.5), float32(0.1)),
		Entry("negative dt", 500, gravity, float32(-0.016)),
		Entry("large step", 500, vec.New(1e3, 1e3, 1e3), float32(10)),
		Entry("zero gravity", 200, vec.Vec3{}, float32(0.016)),
	)

	It("agrees on the documented scenario", func() {
		a, s := pair(3)
		for _, sys := range []layout.System{a, s} {
			sys.ApplyGravity(gravity, 0.016)
			_, v, _ := sys.Particle(1)
			Expect(v.Y).To(BeNumerically("~", 0.04304, 1e-5))

			sys.UpdatePositions(0.016)
			p, _, _ := sys.Particle(1)
			Expect(p.Y).To(BeNumerically("~", 2.000689, 1e-5))
		}
		Expect(layout.Equal(a, s)).To(Succeed())
	})

	It("returns zero energy for empty systems", func() {
		a, s := pair(0)
		Expect(a.Update(gravity, 0.016)).To(BeZero())
		Expect(s.Update(gravity, 0.016)).To(BeZero())
	})
})

var _ = Describe("Equal", func() {
	It("reports the first differing particle", func() {
		a, s := pair(10)
		s.(*soa.ParticleSystem).Velocities[4].X += 1

		err := layout.Equal(a, s)
		Expect(err).To(MatchError(layout.ErrMismatch))

		var mm *layout.MismatchError
		Expect(errors.As(err, &mm)).To(BeTrue())
		Expect(mm.Index).To(Equal(4))
		Expect(mm.Field).To(Equal("velocity"))
	})

	It("reports length differences", func() {
		a, _ := pair(10)
		_, s := pair(11)

		var mm *layout.MismatchError
		Expect(errors.As(layout.Equal(a, s), &mm)).To(BeTrue())
		Expect(mm.Index).To(Equal(-1))
		Expect(fmt.Sprint(mm)).To(ContainSubstring("length"))
	})
})

var _ = Describe("Same", func() {
	It("treats matching NaNs as equal", func() {
		nan := float32(math.NaN())
		Expect(layout.Same(nan, nan)).To(BeTrue())
		Expect(layout.Same(0, float32(math.Copysign(0, -1)))).To(BeFalse())
		Expect(layout.Same(1.5, 1.5)).To(BeTrue())
	})

	It("compares systems driven to non-finite values", func() {
		a, s := pair(4)
		huge := vec.New(float32(math.Inf(1)), 0, float32(math.Inf(-1)))
		a.ApplyGravity(huge, 1)
		s.ApplyGravity(huge, 1)
		a.ApplyGravity(huge.Scale(-1), 1)
		s.ApplyGravity(huge.Scale(-1), 1)
		Expect(layout.Equal(a, s)).To(Succeed())
	})
})
