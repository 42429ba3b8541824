package pmc

// wFB is the speed loop. original_source/fw/pmc.c's wFB has no body at
// all — the original firmware leaves it an empty stub. This fills that
// surface with the same PI idiom iFB uses: a clamped integrator on the
// speed error, driving the Q axis current setpoint. It only runs when
// ModeSpeedControlLoop is set (see PM.Tick), and it never touches iSPD —
// field weakening is out of scope.
func (pm *PM) wFB() {
	e := pm.wSP - pm.kX[3]

	pm.wX += pm.wKI * e
	pm.wX = clamp(pm.wX, -pm.wIMax, pm.wIMax)

	pm.iSPQ = pm.wKP*e + pm.wX
}
