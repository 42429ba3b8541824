package pmc

// sFC advances pm.kX by one dT using Heun's method (improved Euler): a
// predictor step with the derivative at the current state, a corrector
// step with the derivative at the predicted state, and the average of the
// two used for the actual update. Theta is wrapped into (-pi, pi] after
// both the predictor and the final update.
func (pm *PM) sFC() {
	d1 := pm.dEq(pm.kX)
	dT := pm.dT

	var x2 [4]float64
	x2[0] = pm.kX[0] + d1[0]*dT
	x2[1] = pm.kX[1] + d1[1]*dT
	x2[2] = pm.kX[2] + d1[2]*dT
	x2[3] = pm.kX[3] + d1[3]*dT
	x2[2] = wrapAngle(x2[2])

	d2 := pm.dEq(x2)
	dT *= .5

	pm.kX[0] += (d1[0] + d2[0]) * dT
	pm.kX[1] += (d1[1] + d2[1]) * dT
	pm.kX[2] += (d1[2] + d2[2]) * dT
	pm.kX[3] += (d1[3] + d2[3]) * dT
	pm.kX[2] = wrapAngle(pm.kX[2])
}
