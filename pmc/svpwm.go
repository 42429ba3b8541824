package pmc

// uEPS biases the efficient-modulation neutral choice away from an exact
// tie, so a vector sitting exactly on the clamp boundary doesn't chatter
// between GND and VCC clamping tick to tick.
const uEPS = 1e-3

// uFB realises the desired stator voltage vector (uX, uY), given in
// per-unit where 1.0 equals the current DC-link voltage, as three integer
// PWM duty codes. It writes the codes via pm.pDC and reconstructs the
// voltage actually applied (accounting for minimum-pulse clamping and
// overmodulation scaling) back into pm.uX, pm.uY so the motor model sees
// truth rather than the request.
func (pm *PM) uFB(uX, uY float64) {
	uA := uX
	uB := -.5*uX + sqrt3Over2*uY
	uC := -.5*uX - sqrt3Over2*uY

	var uMin, uMid, uMax float64
	if uA < uB {
		uMin, uMax = uA, uB
	} else {
		uMin, uMax = uB, uA
	}
	if uC < uMin {
		uMid, uMin = uMin, uC
	} else {
		uMid = uC
	}
	if uMax < uMid {
		uMax, uMid = uMid, uMax
	}

	q := uMax - uMin

	if q < 1 {
		if pm.mBit&ModeEfficientModulation != 0 {
			// Clamp whichever rail is closer, reducing switching losses
			// (discontinuous PWM).
			q = uMin + uMax - uEPS
			if q < 0 {
				q = -uMin
			} else {
				q = 1 - uMax
			}
		} else {
			// Only snap the neutral if the vector would otherwise clip.
			switch {
			case uMin < -.5:
				q = -uMin
			case uMax > .5:
				q = 1 - uMax
			default:
				q = .5
			}
		}
	} else {
		// Overmodulation: scale into range, then pick the only neutral
		// that keeps all three phases in [0, 1].
		q = 1 / q
		uA *= q
		uB *= q
		uC *= q
		q = .5 - (uMin+uMax)*q*.5
	}

	uA += q
	uB += q
	uC += q

	xA := roundDuty(float64(pm.pwmR) * uA)
	xB := roundDuty(float64(pm.pwmR) * uB)
	xC := roundDuty(float64(pm.pwmR) * uC)

	// Minimum-pulse clamp: the gate driver cannot reliably produce pulses
	// shorter than sMP ticks.
	hi := pm.pwmR - pm.sMP
	xA = mpClamp(xA, pm.sMP, hi, pm.pwmR)
	xB = mpClamp(xB, pm.sMP, hi, pm.pwmR)
	xC = mpClamp(xC, pm.sMP, hi, pm.pwmR)

	pm.pDC(uint32(xA), uint32(xB), uint32(xC))

	// Reconstruct the voltage vector that was actually produced: subtract
	// the neutral the three codes settled at, scale by U/pwmR, and
	// Clarke-forward from the two measured phases back to (uX, uY).
	neutral := (float64(xA) + float64(xB) + float64(xC)) * .33333333
	pA := (float64(xA) - neutral) * pm.U / float64(pm.pwmR)
	pB := (float64(xB) - neutral) * pm.U / float64(pm.pwmR)

	pm.uX = pA
	pm.uY = invSqrt3*pA + twoInvSqrt3*pB
}

func mpClamp(x, lo, hi, top int) int {
	switch {
	case x < lo:
		return 0
	case x > hi:
		return top
	default:
		return x
	}
}
