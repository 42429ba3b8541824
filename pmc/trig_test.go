package pmc

import (
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

func within(eps float64) func(float64) bool {
	return func(d float64) bool { return math.Abs(d) <= eps }
}

func Test_ksin_kcos_identity(t *testing.T) {
	c := qt.New(t)

	for x := -kpi; x <= kpi; x += kpi / 257 {
		s := ksin(x)
		cs := kcos(x)
		c.Assert(s*s+cs*cs-1, qt.Satisfies, within(1e-4))
	}
}

func Test_kcos_complement(t *testing.T) {
	c := qt.New(t)

	for x := -kpi / 2; x <= kpi/2; x += kpi / 257 {
		c.Assert(kcos(x)-ksin(kpi/2-x), qt.Satisfies, within(1e-4))
	}
}

func Test_ksin_kcos_against_math(t *testing.T) {
	c := qt.New(t)

	for x := -kpi; x <= kpi; x += kpi / 97 {
		c.Assert(ksin(x)-math.Sin(x), qt.Satisfies, within(1e-3))
		c.Assert(kcos(x)-math.Cos(x), qt.Satisfies, within(1e-3))
	}
}

func Test_wrapAngle(t *testing.T) {
	c := qt.New(t)

	c.Assert(wrapAngle(0), qt.Equals, 0.0)
	c.Assert(wrapAngle(kpi), qt.Equals, kpi)
	c.Assert(wrapAngle(kpi+0.1)-(-kpi+0.1), qt.Satisfies, within(1e-9))
	c.Assert(wrapAngle(-kpi-0.1)-(kpi-0.1), qt.Satisfies, within(1e-9))
}

func Test_renormalize(t *testing.T) {
	c := qt.New(t)

	x, y := renormalize(0.9, 0.1)
	c.Assert(x*x+y*y-1, qt.Satisfies, within(1e-3))
}
