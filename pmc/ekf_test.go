package pmc

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// Test_kFB_reduces_residual drives kFB repeatedly against a fixed, slightly
// offset measurement and checks that the predicted currents converge toward
// it — the EKF's basic job.
func Test_kFB_reduces_residual(t *testing.T) {
	c := qt.New(t)

	pm := newTestPM()
	pm.rX, pm.rY = 1, 0
	pm.kP[0], pm.kP[2], pm.kP[5], pm.kP[9] = 1e4, 1e4, 5, 5
	pm.kQ = [9]float64{1e-8, 1e-8, 1e-8, 1e-8, 1e-4, 1e-12, 1e-2, 1e-16, 0}
	pm.kR = 1e-2

	const iAtarget = 0.2

	firstResidual := iAtarget - (pm.rX*pm.kX[0] - pm.rY*pm.kX[1])

	for i := 0; i < 200; i++ {
		pm.kFB(iAtarget, 0)
		pm.kAT()
	}

	lastResidual := iAtarget - (pm.rX*pm.kX[0] - pm.rY*pm.kX[1])

	c.Assert(lastResidual*lastResidual < firstResidual*firstResidual, qt.Equals, true)
}

func Test_kFB_skips_correction_on_degenerate_covariance(t *testing.T) {
	c := qt.New(t)

	pm := newTestPM()
	pm.kP = [21]float64{}
	pm.kR = 0 // all-zero P and zero kR make S singular (det <= 0)

	pm.kFB(0.1, 0.1)

	// at rest (uX=uY=0, omega=0) sFC is a no-op too, so a correctly skipped
	// correction should leave state and covariance exactly as they were.
	c.Assert(pm.kX, qt.Equals, [4]float64{})
	c.Assert(pm.kP, qt.Equals, [21]float64{})
}
