package pmc

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func newSpeedLoopTestPM() *PM {
	pm := New(30000, 1000, func(xA, xB, xC uint32) {})
	pm.wKP = 1e-3
	pm.wKI = 1e-4
	pm.wIMax = 1
	return pm
}

func Test_wFB_drives_iSPQ_toward_positive_error(t *testing.T) {
	c := qt.New(t)

	pm := newSpeedLoopTestPM()
	pm.wSP = 100
	pm.kX[3] = 0

	pm.wFB()

	c.Assert(pm.iSPQ, qt.Not(qt.Equals), 0.0)
	c.Assert(pm.iSPQ > 0, qt.Equals, true)
}

func Test_wFB_zero_error_holds_integrator(t *testing.T) {
	c := qt.New(t)

	pm := newSpeedLoopTestPM()
	pm.wSP = 50
	pm.kX[3] = 50
	pm.wX = .2

	pm.wFB()

	c.Assert(pm.wX, qt.Equals, .2)
	c.Assert(pm.iSPQ, qt.Equals, .2)
}

func Test_wFB_integrator_clamps_to_wIMax(t *testing.T) {
	c := qt.New(t)

	pm := newSpeedLoopTestPM()
	pm.wIMax = .5
	pm.wSP = 1e6
	pm.kX[3] = 0

	for i := 0; i < 100000; i++ {
		pm.wFB()
	}

	c.Assert(pm.wX, qt.Equals, pm.wIMax)
}

func Test_wFB_never_touches_iSPD(t *testing.T) {
	c := qt.New(t)

	pm := newSpeedLoopTestPM()
	pm.iSPD = .42
	pm.wSP = 10
	pm.kX[3] = 0

	pm.wFB()

	c.Assert(pm.iSPD, qt.Equals, .42)
}
