package pmc

// dEq evaluates the continuous-time electromechanical ODE f(x, u) at state
// x = (iD, iQ, theta, omega), using the stator voltage currently applied
// (pm.uX, pm.uY) and the motor parameters on pm. It returns the derivative
// D = (diD/dt, diQ/dt, dtheta/dt, domega/dt).
func (pm *PM) dEq(x [4]float64) [4]float64 {
	rX := kcos(x[2])
	rY := ksin(x[2])

	uD := rX*pm.uX + rY*pm.uY
	uQ := rX*pm.uY - rY*pm.uX

	var d [4]float64
	d[0] = (uD - pm.R*x[0] + pm.Lq*x[3]*x[1]) / pm.Ld
	d[1] = (uQ - pm.R*x[1] - pm.Ld*x[3]*x[0] - pm.E*x[3]) / pm.Lq
	d[2] = x[3]
	d[3] = pm.Zp * (1.5*pm.Zp*(pm.E-(pm.Lq-pm.Ld)*x[0])*x[1] - pm.M) / pm.J

	return d
}
