package pmc

// Stator-frame projection constants: sqrt(3)/2 and friends, shared with
// svpwm.go's Clarke transforms.
const (
	sqrt3Over2   = .8660254
	invSqrt3     = .57735027
	twoInvSqrt3  = 1.1547005
)

// kFB is the EKF measurement update. iA, iB are the affine-scaled phase
// currents for this tick. It runs the two-output residual correction
// against the cached rotor axes (the axes as of the previous tick's end —
// the prediction must use the same axes that generated last tick's
// prediction), snapshots the pre-propagation state for the time update,
// then propagates kX one step via sFC and refreshes the rotor axes from
// the new theta.
func (pm *PM) kFB(iA, iB float64) {
	rX, rY := pm.rX, pm.rY

	iX := rX*pm.kX[0] - rY*pm.kX[1]
	iY := rY*pm.kX[0] + rX*pm.kX[1]

	hA := iX - pm.zA
	hB := -.5*iX + sqrt3Over2*iY - pm.zB

	eA := iA - hA
	eB := iB - hB

	// Output Jacobian C (2x6), columns (iD, iQ, theta, omega, M, E); only
	// the first four columns can be nonzero.
	var c [6]float64
	c[0] = rX
	c[1] = -rY
	c[2] = -rX*pm.kX[1] - rY*pm.kX[0]
	c[3] = -.5*rX + sqrt3Over2*rY
	c[4] = .5*rY + sqrt3Over2*rX
	c[5] = -.5*c[2] + sqrt3Over2*(-rY*pm.kX[1]+rX*pm.kX[0])

	P := &pm.kP

	// PC = P * C' (6x2), stored row-major as 12 entries: PC[2i]=row i col A,
	// PC[2i+1]=row i col B.
	var pc [12]float64
	pc[0] = P[0]*c[0] + P[1]*c[1] + P[3]*c[2]
	pc[1] = P[0]*c[3] + P[1]*c[4] + P[3]*c[5]
	pc[2] = P[1]*c[0] + P[2]*c[1] + P[4]*c[2]
	pc[3] = P[1]*c[3] + P[2]*c[4] + P[4]*c[5]
	pc[4] = P[3]*c[0] + P[4]*c[1] + P[5]*c[2]
	pc[5] = P[3]*c[3] + P[4]*c[4] + P[5]*c[5]
	pc[6] = P[6]*c[0] + P[7]*c[1] + P[8]*c[2]
	pc[7] = P[6]*c[3] + P[7]*c[4] + P[8]*c[5]
	pc[8] = P[10]*c[0] + P[11]*c[1] + P[12]*c[2]
	pc[9] = P[10]*c[3] + P[11]*c[4] + P[12]*c[5]
	pc[10] = P[15]*c[0] + P[16]*c[1] + P[17]*c[2]
	pc[11] = P[15]*c[3] + P[16]*c[4] + P[17]*c[5]

	s00 := c[0]*pc[0] + c[1]*pc[2] + c[2]*pc[4] + pm.kR
	s01 := c[0]*pc[1] + c[1]*pc[3] + c[2]*pc[5]
	s11 := c[3]*pc[1] + c[4]*pc[3] + c[5]*pc[5] + pm.kR

	det := s00*s11 - s01*s01
	if det <= 0 {
		// Degenerate S; skip the correction without disturbing state, the
		// explicitly permitted fallback for this case.
		pm.snapshotAndPropagate()
		return
	}

	iS00 := s11 / det
	iS01 := -s01 / det
	iS11 := s00 / det

	var k [12]float64
	k[0] = pc[0]*iS00 + pc[1]*iS01
	k[1] = pc[0]*iS01 + pc[1]*iS11
	k[2] = pc[2]*iS00 + pc[3]*iS01
	k[3] = pc[2]*iS01 + pc[3]*iS11
	k[4] = pc[4]*iS00 + pc[5]*iS01
	k[5] = pc[4]*iS01 + pc[5]*iS11
	k[6] = pc[6]*iS00 + pc[7]*iS01
	k[7] = pc[6]*iS01 + pc[7]*iS11
	k[8] = pc[8]*iS00 + pc[9]*iS01
	k[9] = pc[8]*iS01 + pc[9]*iS11
	k[10] = pc[10]*iS00 + pc[11]*iS01
	k[11] = pc[10]*iS01 + pc[11]*iS11

	pm.kX[0] += k[0]*eA + k[1]*eB
	pm.kX[1] += k[2]*eA + k[3]*eB
	dR := clamp(k[4]*eA+k[5]*eB, -kpi, kpi)
	pm.kX[2] += dR
	pm.kX[3] += k[6]*eA + k[7]*eB
	pm.M += k[8]*eA + k[9]*eB
	pm.E += k[10]*eA + k[11]*eB

	P[0] -= k[0]*pc[0] + k[1]*pc[1]
	P[1] -= k[2]*pc[0] + k[3]*pc[1]
	P[2] -= k[2]*pc[2] + k[3]*pc[3]
	P[3] -= k[4]*pc[0] + k[5]*pc[1]
	P[4] -= k[4]*pc[2] + k[5]*pc[3]
	P[5] -= k[4]*pc[4] + k[5]*pc[5]
	P[6] -= k[6]*pc[0] + k[7]*pc[1]
	P[7] -= k[6]*pc[2] + k[7]*pc[3]
	P[8] -= k[6]*pc[4] + k[7]*pc[5]
	P[9] -= k[6]*pc[6] + k[7]*pc[7]
	P[10] -= k[8]*pc[0] + k[9]*pc[1]
	P[11] -= k[8]*pc[2] + k[9]*pc[3]
	P[12] -= k[8]*pc[4] + k[9]*pc[5]
	P[13] -= k[8]*pc[6] + k[9]*pc[7]
	P[14] -= k[8]*pc[8] + k[9]*pc[9]
	P[15] -= k[10]*pc[0] + k[11]*pc[1]
	P[16] -= k[10]*pc[2] + k[11]*pc[3]
	P[17] -= k[10]*pc[4] + k[11]*pc[5]
	P[18] -= k[10]*pc[6] + k[11]*pc[7]
	P[19] -= k[10]*pc[8] + k[11]*pc[9]
	P[20] -= k[10]*pc[10] + k[11]*pc[11]

	pm.kX[2] = wrapAngle(pm.kX[2])

	pm.snapshotAndPropagate()
}

// snapshotAndPropagate takes the kT snapshot used by the time update, then
// runs sFC to propagate state across the tick and refreshes the cached
// rotor axes from the integrated theta.
func (pm *PM) snapshotAndPropagate() {
	pm.kT[0] = pm.kX[0]
	pm.kT[1] = pm.kX[1]
	pm.kT[2] = pm.rX
	pm.kT[3] = pm.rY
	pm.kT[4] = pm.kX[3]

	pm.sFC()

	pm.rX = kcos(pm.kX[2])
	pm.rY = ksin(pm.kX[2])
}

// kAT is the EKF time update. It forms the trapezoidal average of the
// pre- and post-propagation (iD, iQ, rX, rY, omega), renormalises the
// averaged rotor axes, builds the sparse 6x6 transition Jacobian A from
// the linearised electromechanical model, propagates P <- A*P*A' and adds
// the process noise on the diagonal.
func (pm *PM) kAT() {
	dT := pm.dT

	iD := .5 * (pm.kT[0] + pm.kX[0])
	iQ := .5 * (pm.kT[1] + pm.kX[1])
	rX := .5 * (pm.kT[2] + pm.rX)
	rY := .5 * (pm.kT[3] + pm.rY)
	wR := .5 * (pm.kT[4] + pm.kX[3])

	rX, rY = renormalize(rX, rY)

	dToLd := dT / pm.Ld
	dToLq := dT / pm.Lq
	dToJ := dT / pm.J
	zp2 := 1.5 * pm.Zp * pm.Zp * dToJ

	var a [13]float64
	a[0] = 1 - pm.R*dToLd
	a[1] = wR * pm.Lq * dToLd
	a[2] = (rX*pm.uY - rY*pm.uX) * dToLd
	a[3] = iQ * pm.Lq * dToLd

	a[4] = -wR * pm.Ld * dToLq
	a[5] = 1 - pm.R*dToLq
	a[6] = (-rY*pm.uY - rX*pm.uX) * dToLq
	a[7] = (-pm.E - iD*pm.Ld) * dToLq
	a[8] = -wR * dToLq

	a[9] = iQ * (pm.Ld - pm.Lq) * zp2
	a[10] = zp2 * (pm.E - iD*(pm.Lq-pm.Ld))
	a[11] = -pm.Zp * dToJ
	a[12] = iQ * zp2

	P := &pm.kP

	var pa [36]float64
	pa[0] = P[0]*a[0] + P[1]*a[1] + P[3]*a[2] + P[6]*a[3]
	pa[1] = P[0]*a[4] + P[1]*a[5] + P[3]*a[6] + P[6]*a[7] + P[15]*a[8]
	pa[2] = P[3] + P[6]*dT
	pa[3] = P[0]*a[9] + P[1]*a[10] + P[6] + P[10]*a[11] + P[15]*a[12]
	pa[4] = P[10]
	pa[5] = P[15]

	pa[6] = P[1]*a[0] + P[2]*a[1] + P[4]*a[2] + P[7]*a[3]
	pa[7] = P[1]*a[4] + P[2]*a[5] + P[4]*a[6] + P[7]*a[7] + P[16]*a[8]
	pa[8] = P[4] + P[7]*dT
	pa[9] = P[1]*a[9] + P[2]*a[10] + P[7] + P[11]*a[11] + P[16]*a[12]
	pa[10] = P[11]
	pa[11] = P[16]

	pa[12] = P[3]*a[0] + P[4]*a[1] + P[5]*a[2] + P[8]*a[3]
	pa[13] = P[3]*a[4] + P[4]*a[5] + P[5]*a[6] + P[8]*a[7] + P[17]*a[8]
	pa[14] = P[5] + P[8]*dT
	pa[15] = P[3]*a[9] + P[4]*a[10] + P[8] + P[12]*a[11] + P[17]*a[12]
	pa[16] = P[12]
	pa[17] = P[17]

	pa[18] = P[6]*a[0] + P[7]*a[1] + P[8]*a[2] + P[9]*a[3]
	pa[19] = P[6]*a[4] + P[7]*a[5] + P[8]*a[6] + P[9]*a[7] + P[18]*a[8]
	pa[20] = P[8] + P[9]*dT
	pa[21] = P[6]*a[9] + P[7]*a[10] + P[9] + P[13]*a[11] + P[18]*a[12]
	pa[22] = P[13]
	pa[23] = P[18]

	pa[24] = P[10]*a[0] + P[11]*a[1] + P[12]*a[2] + P[13]*a[3]
	pa[25] = P[10]*a[4] + P[11]*a[5] + P[12]*a[6] + P[13]*a[7] + P[19]*a[8]
	pa[26] = P[12] + P[13]*dT
	pa[27] = P[10]*a[9] + P[11]*a[10] + P[13] + P[14]*a[11] + P[19]*a[12]
	pa[28] = P[14]
	pa[29] = P[19]

	pa[30] = P[15]*a[0] + P[16]*a[1] + P[17]*a[2] + P[18]*a[3]
	pa[31] = P[15]*a[4] + P[16]*a[5] + P[17]*a[6] + P[18]*a[7] + P[20]*a[8]
	pa[32] = P[17] + P[18]*dT
	pa[33] = P[15]*a[9] + P[16]*a[10] + P[18] + P[19]*a[11] + P[20]*a[12]
	pa[34] = P[19]
	pa[35] = P[20]

	P[0] = a[0]*pa[0] + a[1]*pa[6] + a[2]*pa[12] + a[3]*pa[18] + pm.kQ[0]
	P[1] = a[4]*pa[0] + a[5]*pa[6] + a[6]*pa[12] + a[7]*pa[18] + a[8]*pa[30]
	P[2] = a[4]*pa[1] + a[5]*pa[7] + a[6]*pa[13] + a[7]*pa[19] + a[8]*pa[31] + pm.kQ[1]
	P[3] = pa[12] + dT*pa[18]
	P[4] = pa[13] + dT*pa[19]
	P[5] = pa[14] + dT*pa[20] + pm.kQ[2]
	P[6] = a[9]*pa[0] + a[10]*pa[6] + pa[18] + a[11]*pa[24] + a[12]*pa[30]
	P[7] = a[9]*pa[1] + a[10]*pa[7] + pa[19] + a[11]*pa[25] + a[12]*pa[31]
	P[8] = a[9]*pa[2] + a[10]*pa[8] + pa[20] + a[11]*pa[26] + a[12]*pa[32]
	// P[9] (Var(omega)) picks up both the diagonal noise term Q[3] and the
	// one reserved off-diagonal slot that is actually consumed: Q[6].
	P[9] = a[9]*pa[3] + a[10]*pa[9] + pa[21] + a[11]*pa[27] + a[12]*pa[33] + pm.kQ[3] + pm.kQ[6]
	P[10] = pa[24]
	P[11] = pa[25]
	P[12] = pa[26]
	P[13] = pa[27]
	P[14] = pa[28] + pm.kQ[4]
	P[15] = pa[30]
	P[16] = pa[31]
	P[17] = pa[32]
	P[18] = pa[33]
	P[19] = pa[34]
	P[20] = pa[35] + pm.kQ[5]
}
