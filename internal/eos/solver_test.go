package eos_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/eoslab/internal/eos"
)

var water = eos.State{Tc: 647.1, Pc: 22.06e6, Omega: 0.345}

func at(s eos.State, t, p float64) eos.State {
	s.T, s.P = t, p
	return s
}

// closedFormLnPhi is the textbook fugacity expression for the generic cubic.
func closedFormLnPhi(c eos.Coefficients, z float64) float64 {
	d := math.Sqrt(c.U*c.U - 4*c.W)
	if d == 0 {
		return z - 1 - math.Log(z-c.B) - c.A/z
	}
	return z - 1 - math.Log(z-c.B) -
		c.A/(c.B*d)*math.Log((2*z+c.B*(c.U+d))/(2*z+c.B*(c.U-d)))
}

var _ = Describe("Solve", func() {
	models := []TableEntry{
		Entry("van der Waals", eos.VDW),
		Entry("Redlich-Kwong", eos.RK),
		Entry("Soave-Redlich-Kwong", eos.SRK),
		Entry("Peng-Robinson", eos.PR),
	}

	Describe("compressibility and volume", func() {
		DescribeTable("round-trips Z·R·T/P to V on every branch",
			func(m eos.Model) {
				for _, st := range []eos.State{
					at(water, 373.15, 101325),
					at(water, 500, 5e6),
					at(water, 900, 30e6),
					at(water, 300, 1e3),
				} {
					res, err := eos.Solve(m, st)
					Expect(err).NotTo(HaveOccurred())
					for _, br := range res.Branches() {
						Expect(br.V).To(BeNumerically("~", br.Z*eos.R*st.T/st.P, 1e-12*br.V))
						Expect(br.Z).To(BeNumerically(">", res.Coefficients.B))
					}
				}
			},
			models,
		)
	})

	Describe("van der Waals", func() {
		It("ignores the acentric factor", func() {
			a, err := eos.Solve(eos.VDW, eos.State{Tc: 647.1, Pc: 22.06e6, Omega: 0, T: 450, P: 2e5})
			Expect(err).NotTo(HaveOccurred())
			b, err := eos.Solve(eos.VDW, eos.State{Tc: 647.1, Pc: 22.06e6, Omega: 0.6, T: 450, P: 2e5})
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Roots).To(Equal(a.Roots))
			Expect(b.Liquid).To(Equal(a.Liquid))
			Expect(b.Vapor).To(Equal(a.Vapor))
		})
	})

	Describe("critical point", func() {
		DescribeTable("collapses to one root at the model's critical Z",
			func(m eos.Model, tol float64) {
				res, err := eos.Solve(m, at(water, water.Tc, water.Pc))
				Expect(err).NotTo(HaveOccurred())

				Expect(res.Branches()).To(HaveLen(1))
				Expect(res.Vapor).NotTo(BeNil())
				Expect(res.Liquid).To(BeNil())
				Expect(res.Vapor.Z).To(BeNumerically("~", m.CriticalZ(), tol))
			},
			Entry("van der Waals at 3/8", eos.VDW, 1e-4),
			Entry("Redlich-Kwong at 1/3", eos.RK, 1e-4),
			Entry("Soave-Redlich-Kwong at 1/3", eos.SRK, 1e-4),
			Entry("Peng-Robinson at 0.3074", eos.PR, 1e-3),
		)
	})

	Describe("subcritical states", func() {
		DescribeTable("yield three roots and drop the middle one",
			func(m eos.Model) {
				res, err := eos.Solve(m, at(water, 373.15, 101325))
				Expect(err).NotTo(HaveOccurred())

				Expect(res.Roots).To(HaveLen(3))
				Expect(res.Liquid).NotTo(BeNil())
				Expect(res.Vapor).NotTo(BeNil())
				Expect(res.Liquid.Z).To(Equal(res.Roots[0]))
				Expect(res.Vapor.Z).To(Equal(res.Roots[2]))
				for _, br := range res.Branches() {
					Expect(br.Z).NotTo(Equal(res.Roots[1]))
				}
			},
			models,
		)
	})

	Describe("ideal gas limit", func() {
		DescribeTable("approaches Z=1, zero departures and φ=1",
			func(m eos.Model) {
				res, err := eos.Solve(m, at(water, 300, 1e-2))
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Vapor).NotTo(BeNil())

				v := res.Vapor
				Expect(v.Z).To(BeNumerically("~", 1, 1e-6))
				Expect(v.U).To(BeNumerically("~", 0, 1e-3))
				Expect(v.H).To(BeNumerically("~", 0, 1e-3))
				Expect(v.S).To(BeNumerically("~", 0, 1e-5))
				Expect(v.G).To(BeNumerically("~", 0, 1e-3))
				Expect(v.Phi).To(BeNumerically("~", 1, 1e-6))
			},
			models,
		)
	})

	Describe("water at its normal boiling point with Peng-Robinson", func() {
		var res *eos.Result

		BeforeEach(func() {
			var err error
			res, err = eos.Solve(eos.PR, at(water, 373.15, 101325))
			Expect(err).NotTo(HaveOccurred())
		})

		It("has a vapor branch just below ideal", func() {
			Expect(res.Vapor).NotTo(BeNil())
			Expect(res.Vapor.Z).To(BeNumerically("<", 1))
			Expect(res.Vapor.Z).To(BeNumerically(">", 0.95))
		})

		It("has a dense liquid branch", func() {
			Expect(res.Liquid).NotTo(BeNil())
			Expect(res.Liquid.Z).To(BeNumerically(">", 1e-4))
			Expect(res.Liquid.Z).To(BeNumerically("<", 1e-2))
		})

		It("has a small negative vapor Gibbs departure", func() {
			Expect(res.Vapor.G).To(BeNumerically("<", 0))
			Expect(res.Vapor.G).To(BeNumerically(">", -200))
			Expect(res.Vapor.Phi).To(BeNumerically("<", 1))
			Expect(res.Vapor.Phi).To(BeNumerically(">", 0.95))
		})

		It("has negative liquid energy and entropy departures", func() {
			Expect(res.Liquid.U).To(BeNumerically("<", 0))
			Expect(res.Liquid.H).To(BeNumerically("<", res.Vapor.H))
			Expect(res.Liquid.S).To(BeNumerically("<", res.Vapor.S))
		})
	})

	Describe("departure functions", func() {
		DescribeTable("match the closed-form fugacity coefficient",
			func(m eos.Model) {
				for _, st := range []eos.State{
					at(water, 373.15, 101325),
					at(water, 600, 8e6),
					at(water, 700, 40e6),
				} {
					res, err := eos.Solve(m, st)
					Expect(err).NotTo(HaveOccurred())
					for _, br := range res.Branches() {
						want := closedFormLnPhi(res.Coefficients, br.Z)
						Expect(math.Log(br.Phi)).To(BeNumerically("~", want, 1e-9*math.Max(1, math.Abs(want))))
						Expect(br.G).To(BeNumerically("~", br.H-st.T*br.S, 1e-9*math.Max(1, math.Abs(br.G))))
						Expect(br.H).To(BeNumerically("~", br.U+eos.R*st.T*(br.Z-1), 1e-9*math.Max(1, math.Abs(br.H))))
					}
				}
			},
			models,
		)

		DescribeTable("satisfy ΔH = -RT²·∂lnφ/∂T at constant P",
			func(m eos.Model) {
				const h = 1e-3
				st := at(water, 450, 5e5)
				lnPhi := func(t float64) float64 {
					res, err := eos.Solve(m, at(st, t, st.P))
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Vapor).NotTo(BeNil())
					return math.Log(res.Vapor.Phi)
				}

				res, err := eos.Solve(m, st)
				Expect(err).NotTo(HaveOccurred())
				dlnPhi := (lnPhi(st.T+h) - lnPhi(st.T-h)) / (2 * h)
				want := -eos.R * st.T * st.T * dlnPhi
				Expect(res.Vapor.H).To(BeNumerically("~", want, 1e-4*math.Abs(want)+1e-3))
			},
			models,
		)
	})

	Describe("errors", func() {
		DescribeTable("rejects non-positive inputs as invalid",
			func(st eos.State, field string) {
				_, err := eos.Solve(eos.PR, st)
				Expect(errors.Is(err, eos.ErrInvalidInput)).To(BeTrue())

				var ie *eos.InputError
				Expect(errors.As(err, &ie)).To(BeTrue())
				Expect(ie.Field).To(Equal(field))
			},
			Entry("zero Tc", eos.State{Tc: 0, Pc: 1e6, T: 300, P: 1e5}, "Tc"),
			Entry("negative Pc", eos.State{Tc: 300, Pc: -1, T: 300, P: 1e5}, "Pc"),
			Entry("zero T", eos.State{Tc: 300, Pc: 1e6, T: 0, P: 1e5}, "T"),
			Entry("negative P", eos.State{Tc: 300, Pc: 1e6, T: 300, P: -5}, "P"),
			Entry("NaN T", eos.State{Tc: 300, Pc: 1e6, T: math.NaN(), P: 1e5}, "T"),
		)

		It("reports an unknown model", func() {
			_, err := eos.Solve(eos.Model(42), at(water, 300, 1e5))
			Expect(errors.Is(err, eos.ErrUnknownModel)).To(BeTrue())
		})
	})

	Describe("custom split", func() {
		It("moves a lone dense supercritical root between branches", func() {
			st := at(water, 700, 60e6)
			res, err := eos.Solve(eos.PR, st)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Branches()).To(HaveLen(1))
			z := res.Branches()[0].Z

			low := eos.NewSolver(eos.Options{ZSplit: z / 2})
			r1, err := low.Solve(eos.PR, st)
			Expect(err).NotTo(HaveOccurred())
			Expect(r1.Vapor).NotTo(BeNil())
			Expect(r1.Liquid).To(BeNil())

			high := eos.NewSolver(eos.Options{ZSplit: z * 2})
			r2, err := high.Solve(eos.PR, st)
			Expect(err).NotTo(HaveOccurred())
			Expect(r2.Liquid).NotTo(BeNil())
			Expect(r2.Vapor).To(BeNil())
			Expect(r2.Liquid.G).To(Equal(r1.Vapor.G))
		})
	})
})
