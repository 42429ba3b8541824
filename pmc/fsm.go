package pmc

// driftPhase1Samples is the sample count for DRIFT's first sub-phase
// (fixed at 64 in the source, regardless of PWM rate — it only refines the
// ADC zero offset and DC-link estimate, not the longer current-sensor
// drift average).
const driftPhase1Samples = 64

// bFSM is the commissioning/operational state machine. iA, iB, uS are the
// already affine-scaled phase currents and DC-link voltage for this tick.
func (pm *PM) bFSM(iA, iB, uS float64) {
	switch pm.mS1 {

	case StateIdle:
		pm.fsmIdle()

	case StateDrift:
		pm.fsmDrift(iA, iB, uS)

	case StateImpedance:
		pm.fsmImpedance(iA, iB)

	case StateCalibrate:
		// Reserved; no-op.

	case StateSpinup:
		pm.fsmSpinup()

	case StateBreak:
		// Reserved; no-op (intended for coordinated shutdown). Once
		// entered, only an external reset of mS1 leaves this state —
		// matches the original firmware exactly.

	case StateEnd:
		pm.uFB(0, 0)
		pm.mReq = ReqNull
		pm.mBit = 0
		pm.mS1 = StateIdle
		pm.mS2 = 0
	}
}

func (pm *PM) fsmIdle() {
	if pm.mReq == ReqNull {
		return
	}

	if pm.mBit&ModeEKF6xBase != 0 {
		if pm.mReq == ReqBreak {
			pm.mS1 = StateBreak
		} else {
			pm.mReq = ReqNull
		}
		return
	}

	switch pm.mReq {
	case ReqImpedance, ReqCalibrate, ReqSpinup:
		pm.mS1 = StateDrift
	default:
		pm.mReq = ReqNull
	}
}

func (pm *PM) fsmDrift(iA, iB, uS float64) {
	if pm.mS2 == 0 {
		pm.uFB(0, 0)

		pm.zA, pm.zB, pm.zU = 0, 0, 0
		pm.timVal = 0
		pm.timEnd = driftPhase1Samples
		pm.mS2++
		return
	}

	pm.zA += -iA
	pm.zB += -iB
	pm.zU += uS - pm.U
	pm.timVal++

	if pm.timVal < pm.timEnd {
		return
	}

	// Zero drift (ADC offset refinement).
	pm.cA0 += pm.zA / float64(pm.timEnd)
	pm.cB0 += pm.zB / float64(pm.timEnd)
	// Supply voltage.
	pm.U += pm.zU / float64(pm.timEnd)

	if pm.mS2 == 1 {
		pm.zA, pm.zB, pm.zU = 0, 0, 0
		pm.timVal = 0
		pm.timEnd = int(pm.hzF*pm.sTdrift + .5)
		pm.mS2++
		return
	}

	switch pm.mReq {
	case ReqImpedance:
		pm.mS1 = StateImpedance
	case ReqCalibrate:
		pm.mS1 = StateCalibrate
	case ReqSpinup:
		pm.mS1 = StateSpinup
	}
	pm.mS2 = 0
}

func (pm *PM) fsmImpedance(iA, iB float64) {
	iX := iA
	iY := invSqrt3*iA + twoInvSqrt3*iB

	if pm.mS2 == 0 {
		pm.rX, pm.rY = 1, 0

		l := 2 * kpi * pm.jFq / pm.hzF
		pm.jCOS = kcos(l)
		pm.jSIN = ksin(l)

		pm.jX, pm.jY = iX, iY

		pm.jIXre, pm.jIXim = 0, 0
		pm.jIYre, pm.jIYim = 0, 0
		pm.jUXre, pm.jUXim = 0, 0
		pm.jUYre, pm.jUYim = 0, 0 // fixes the source's jUYre-never-zeroed typo

		pm.timVal = 0
		pm.timEnd = int(pm.hzF*pm.jTskip + .5)
		pm.mS2++
		return
	}

	iX = .5 * (pm.jX + iX)
	iY = .5 * (pm.jY + iY)

	pm.rX, pm.rY = pm.jCOS*pm.rX-pm.jSIN*pm.rY, pm.jSIN*pm.rX+pm.jCOS*pm.rY
	pm.rX, pm.rY = renormalize(pm.rX, pm.rY)

	if pm.mS2 == 2 {
		pm.jIXre += iX * pm.rX
		pm.jIXim += iX * pm.rY
		pm.jIYre += iY * pm.rX
		pm.jIYim += iY * pm.rY

		pm.jUXre += pm.uX * pm.rX
		pm.jUXim += pm.uX * pm.rY
		pm.jUYre += pm.uY * pm.rX
		pm.jUYim += pm.uY * pm.rY
	}

	pm.uFB((pm.jUX+pm.rX*pm.jAmp)/pm.U, (pm.jUY+pm.rY*pm.jAmp)/pm.U)

	pm.jX, pm.jY = iX, iY
	pm.timVal++

	if pm.timVal < pm.timEnd {
		return
	}

	if pm.mS2 == 1 {
		pm.timVal = 0
		pm.timEnd = int(pm.hzF*pm.jTcap + .5)
		pm.mS2++
		return
	}

	pm.mS1 = StateEnd
	pm.mS2 = 0
}

func (pm *PM) fsmSpinup() {
	if pm.mS2 == 0 {
		pm.mBit |= ModeEKF6xBase | ModeSpeedControlLoop

		pm.kX = [4]float64{}
		pm.zA, pm.zB = 0, 0
		pm.kP = [21]float64{}
		pm.kP[0] = 1e4
		pm.kP[2] = 1e4
		pm.kP[5] = 5
		pm.kP[9] = 5

		pm.rX, pm.rY = 1, 0

		pm.iSPD = 1
		pm.iSPQ = 0

		pm.timVal = 0
		pm.timEnd = int(pm.hzF*pm.sThold + .5)
		pm.mS2++
		return
	}

	if pm.mS2 != 1 {
		return
	}

	pm.timVal++
	if pm.timVal < pm.timEnd {
		return
	}

	pm.iSPD = 0
	pm.iSPQ = 1

	pm.mReq = ReqNull
	pm.mS1 = StateIdle
	pm.mS2 = 0
}
