package pmc

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func newTestPM() *PM {
	pm := New(30000, 1000, func(xA, xB, xC uint32) {})
	pm.R, pm.Ld, pm.Lq, pm.E, pm.Zp, pm.J = .1, 5e-5, 5e-5, 1e-3, 7, 1e-5
	return pm
}

func Test_sFC_holds_equilibrium_at_rest(t *testing.T) {
	c := qt.New(t)

	pm := newTestPM()
	pm.uX, pm.uY = 0, 0

	for i := 0; i < 100; i++ {
		pm.sFC()
	}

	c.Assert(pm.kX[0], qt.Equals, 0.0)
	c.Assert(pm.kX[1], qt.Equals, 0.0)
	c.Assert(pm.kX[3], qt.Equals, 0.0)
}

func Test_sFC_wraps_theta(t *testing.T) {
	c := qt.New(t)

	pm := newTestPM()
	pm.kX[3] = 1e4 // a speed large enough to wrap theta within a handful of ticks

	wrapped := false
	prev := pm.kX[2]
	for i := 0; i < 200; i++ {
		pm.sFC()
		if pm.kX[2] < prev {
			wrapped = true
		}
		prev = pm.kX[2]
		c.Assert(pm.kX[2] >= -kpi && pm.kX[2] <= kpi, qt.Equals, true)
	}
	c.Assert(wrapped, qt.Equals, true)
}
