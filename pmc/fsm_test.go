package pmc

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func newFSMTestPM(hzF float64, pwmR int) *PM {
	pm := New(hzF, pwmR, func(xA, xB, xC uint32) {})
	pm.U = 24
	return pm
}

func Test_bFSM_idle_clears_non_break_request_when_ekf_running(t *testing.T) {
	c := qt.New(t)

	pm := newFSMTestPM(30000, 1000)
	pm.mBit = ModeEKF6xBase
	pm.mReq = ReqCalibrate

	pm.bFSM(0, 0, pm.U)

	c.Assert(pm.mReq, qt.Equals, ReqNull)
	c.Assert(pm.mS1, qt.Equals, StateIdle)
}

func Test_bFSM_idle_break_is_honoured_when_ekf_running(t *testing.T) {
	c := qt.New(t)

	pm := newFSMTestPM(30000, 1000)
	pm.mBit = ModeEKF6xBase
	pm.mReq = ReqBreak

	pm.bFSM(0, 0, pm.U)

	c.Assert(pm.mS1, qt.Equals, StateBreak)
}

func Test_bFSM_drift_calibrates_zero_offset(t *testing.T) {
	c := qt.New(t)

	pm := newFSMTestPM(30000, 1000)
	pm.sTdrift = .1
	pm.mReq = ReqCalibrate
	pm.mS1 = StateDrift

	// a small, fixed phase-current offset the drift phase should cancel.
	const iAoffset, iBoffset = .02, -.015

	for i := 0; i < 3200 && pm.mS1 != StateCalibrate; i++ {
		pm.bFSM(iAoffset, iBoffset, pm.U)
	}

	c.Assert(pm.mS1, qt.Equals, StateCalibrate)
	c.Assert(pm.cA0, qt.Not(qt.Equals), 0.0)
	c.Assert(pm.cB0, qt.Not(qt.Equals), 0.0)
}

func Test_bFSM_spinup_holds_then_releases(t *testing.T) {
	c := qt.New(t)

	pm := newFSMTestPM(30000, 1000)
	pm.sThold = .7
	pm.mReq = ReqSpinup
	pm.mS1 = StateSpinup

	pm.bFSM(0, 0, pm.U) // init sub-phase: sets kP, iSPD=1, iSPQ=0

	c.Assert(pm.mBit&ModeEKF6xBase, qt.Not(qt.Equals), uint32(0))
	c.Assert(pm.iSPD, qt.Equals, 1.0)
	c.Assert(pm.iSPQ, qt.Equals, 0.0)

	want := int(pm.hzF*pm.sThold + .5)
	for i := 1; i < want; i++ {
		pm.bFSM(0, 0, pm.U)
	}
	c.Assert(pm.mS1, qt.Equals, StateSpinup) // not released yet

	pm.bFSM(0, 0, pm.U) // final hold tick releases

	c.Assert(pm.mS1, qt.Equals, StateIdle)
	c.Assert(pm.iSPD, qt.Equals, 0.0)
	c.Assert(pm.iSPQ, qt.Equals, 1.0)
}

func Test_bFSM_end_resets_mode_bits(t *testing.T) {
	c := qt.New(t)

	pm := newFSMTestPM(30000, 1000)
	pm.mBit = ModeEKF6xBase | ModeSpeedControlLoop
	pm.mS1 = StateEnd

	pm.bFSM(0, 0, pm.U)

	c.Assert(pm.mBit, qt.Equals, uint32(0))
	c.Assert(pm.mS1, qt.Equals, StateIdle)
	c.Assert(pm.mReq, qt.Equals, ReqNull)
}
