package pmc

// integratorClamp bounds both the current-loop and speed-loop integrator
// states to [-0.5, 0.5] in normalised voltage.
const integratorClamp = .5

// iFB is the per-axis current PI regulator. It forms the DQ error against
// the setpoints (pm.iSPD, pm.iSPQ), accumulates and clamps each axis'
// integrator, adds the proportional term (plus a currently-zero
// feed-forward slot), rotates the resulting DQ voltage back to the
// stator (XY) frame using the cached rotor axes, and hands it to SVPWM.
func (pm *PM) iFB() {
	eD := pm.iSPD - pm.kX[0]
	eQ := pm.iSPQ - pm.kX[1]

	pm.iXD += pm.iKI * eD
	pm.iXD = clamp(pm.iXD, -integratorClamp, integratorClamp)
	uD := pm.iKP*eD + pm.iXD + 0

	pm.iXQ += pm.iKI * eQ
	pm.iXQ = clamp(pm.iXQ, -integratorClamp, integratorClamp)
	uQ := pm.iKP*eQ + pm.iXQ + 0

	uX := pm.rX*uD - pm.rY*uQ
	uY := pm.rY*uD + pm.rX*uQ

	pm.uFB(uX, uY)
}
