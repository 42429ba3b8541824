package pmc

import "sync"

// PWMWriter commands the three PWM duty codes a tick's SVPWM stage
// produces. It is an injectable output function rather than a bound
// peripheral, so tests can supply a recording stub and the hal package can
// supply a machine.PWM-backed implementation.
type PWMWriter func(xA, xB, xC uint32)

// Request is a pending command a collaborator places on PM.mReq.
type Request int

const (
	ReqNull Request = iota
	ReqImpedance
	ReqCalibrate
	ReqSpinup
	ReqBreak
)

// FsmState is the primary FSM state (PM.mS1).
type FsmState int

const (
	StateIdle FsmState = iota
	StateDrift
	StateImpedance
	StateCalibrate
	StateSpinup
	StateBreak
	StateEnd
)

func (s FsmState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDrift:
		return "DRIFT"
	case StateImpedance:
		return "IMPEDANCE"
	case StateCalibrate:
		return "CALIBRATE"
	case StateSpinup:
		return "SPINUP"
	case StateBreak:
		return "BREAK"
	case StateEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Mode bits packed into PM.mBit.
const (
	ModeEKF6xBase uint32 = 1 << iota
	ModeSpeedControlLoop
	ModeEfficientModulation
)

// PM is the single aggregate record owning all core state and
// configuration: every field is tick-local so there is no benefit to
// splitting it across components that would then borrow across each other
// in the hot loop.
type PM struct {
	mu sync.Mutex // guards the setter surface only; Tick never locks.

	// Timing & PWM.
	hzF                    float64
	dT                     float64
	pwmR                   int
	sMP                    int
	sTdrift, sThold, sTend float64

	// ADC scaling. adcCenter is the code-space zero point (2048 for a
	// 12-bit converter), kept as a field rather than a hard-coded constant
	// so a different converter width can be substituted.
	cA0, cA1  float64
	cB0, cB1  float64
	cU0, cU1  float64
	adcCenter float64

	// Applied stator voltage, as actually realised by SVPWM last tick.
	uX, uY float64

	// Motor electrical parameters.
	R, Ld, Lq, E, Zp, J, M, U float64

	// EKF state vector kX = (iD, iQ, theta, omega).
	kX [4]float64

	// Cached rotor axes, consistent with kX[2].
	rX, rY float64

	// Covariance, packed upper triangle of the 6x6 symmetric matrix over
	// (iD, iQ, theta, omega, M, E).
	kP [21]float64

	// Process noise diagonal (0..5) plus reserved off-diagonal slots
	// (6..8); only slot 6 is consumed (added into P[9], the omega-variance
	// slot).
	kQ [9]float64

	// Measurement noise variance, one scalar shared by both current axes.
	kR float64

	// Snapshot of (iD, iQ, rX, rY, omega) taken right after the
	// measurement update, consumed by the time update's trapezoidal
	// average.
	kT [5]float64

	// Current regulator.
	iSPD, iSPQ float64
	iKP, iKI   float64
	iXD, iXQ   float64

	// Speed loop: a PI outer loop producing iSPQ from a speed error,
	// gated by ModeSpeedControlLoop.
	wSP    float64
	wKP    float64
	wKI    float64
	wX     float64
	wIMax  float64

	// Measurement accumulators (drift sums during DRIFT).
	zA, zB, zU     float64
	timVal, timEnd int

	// Impedance-probe scratch.
	jX, jY         float64
	jCOS, jSIN     float64
	jIXre, jIXim   float64
	jIYre, jIYim   float64
	jUXre, jUXim   float64
	jUYre, jUYim   float64
	jAmp, jFq      float64
	jTskip, jTcap  float64
	jUX, jUY       float64

	// FSM control.
	mReq Request
	mS1  FsmState
	mS2  int
	mBit uint32

	// Peripheral callback.
	pDC PWMWriter
}

// New allocates a PM for a controller running at hzF Hz with a PWM counter
// resolution of pwmR ticks per period, and applies the firmware defaults.
func New(hzF float64, pwmR int, pDC PWMWriter) *PM {
	pm := &PM{hzF: hzF, pwmR: pwmR, pDC: pDC, adcCenter: 2048}
	pm.Enable()
	return pm
}

// Enable (re-)applies the default configuration. It is pmcEnable: called
// once at boot, and safe to call again from a setter context to reset
// defaults.
func (pm *PM) Enable() {
	pm.dT = 1 / pm.hzF

	pm.sTdrift = .1
	pm.sThold = .7
	pm.sTend = .1
	pm.sMP = int(250e-9*pm.hzF*float64(pm.pwmR) + .5)

	pm.cA0 = 0
	pm.cA1 = .01464844
	pm.cB0 = 0
	pm.cB1 = .01464844
	pm.cU0 = 0
	pm.cU1 = .00725098

	pm.iKP = 1e-5
	pm.iKI = 2e-3

	pm.kQ = [9]float64{1e-8, 1e-8, 1e-8, 1e-8, 1e-4, 1e-12, 1e-2, 1e-16, 0}
	pm.kR = 1e-2

	pm.wKP = 1e-3
	pm.wKI = 1e-4
	pm.wIMax = 1
}

// WithLock runs fn while holding PM's config-mutation lock. It stands in
// for disabling the ADC interrupt on the original firmware target:
// shell/CAN/telemetry/FSM-request setters call it to publish a new
// setpoint or config field; Tick itself never calls WithLock, since it is
// always the sole, highest-priority writer for the duration of one tick.
func (pm *PM) WithLock(fn func()) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	fn()
}

// RequestState places a pending FSM request. Requests made while the FSM is
// mid-transition are queued in mReq exactly as the hot path would see them
// from an interrupt-masked write.
func (pm *PM) RequestState(r Request) {
	pm.WithLock(func() { pm.mReq = r })
}

// SetMotorParams publishes the motor's electrical/mechanical constants.
// E, J and U may also be commissioning/online-estimation outputs.
func (pm *PM) SetMotorParams(R, Ld, Lq, E, Zp, J, U float64) {
	pm.WithLock(func() {
		pm.R, pm.Ld, pm.Lq, pm.E, pm.Zp, pm.J, pm.U = R, Ld, Lq, E, Zp, J, U
	})
}

// SetCurrentGains publishes the current-loop PI gains.
func (pm *PM) SetCurrentGains(kP, kI float64) {
	pm.WithLock(func() { pm.iKP, pm.iKI = kP, kI })
}

// SetSpeedGains publishes the speed-loop PI gains and integrator clamp.
func (pm *PM) SetSpeedGains(kP, kI, iMax float64) {
	pm.WithLock(func() { pm.wKP, pm.wKI, pm.wIMax = kP, kI, iMax })
}

// SetSpeedSetpoint publishes the speed-loop setpoint in electrical rad/s.
func (pm *PM) SetSpeedSetpoint(wSP float64) {
	pm.WithLock(func() { pm.wSP = wSP })
}

// SetNoise publishes the EKF process/measurement noise.
func (pm *PM) SetNoise(kQ [9]float64, kR float64) {
	pm.WithLock(func() { pm.kQ, pm.kR = kQ, kR })
}

// SetADCScale publishes the ADC affine scaling coefficients.
func (pm *PM) SetADCScale(cA0, cA1, cB0, cB1, cU0, cU1 float64) {
	pm.WithLock(func() {
		pm.cA0, pm.cA1, pm.cB0, pm.cB1, pm.cU0, pm.cU1 = cA0, cA1, cB0, cB1, cU0, cU1
	})
}

// SetImpedanceProbe publishes the AC impedance-identification probe
// parameters: excitation frequency (Hz), amplitude (volts),
// transient-skip duration and capture duration (both seconds), and the
// bias voltage vector (volts) superimposed on the probe. Amplitude and
// bias are divided by the DC-link voltage U before modulation.
func (pm *PM) SetImpedanceProbe(freq, amp, tSkip, tCap, uX, uY float64) {
	pm.WithLock(func() {
		pm.jFq, pm.jAmp, pm.jTskip, pm.jTcap, pm.jUX, pm.jUY = freq, amp, tSkip, tCap, uX, uY
	})
}

// SetMode sets or clears one or more mode bits.
func (pm *PM) SetMode(bits uint32, on bool) {
	pm.WithLock(func() {
		if on {
			pm.mBit |= bits
		} else {
			pm.mBit &^= bits
		}
	})
}

// Snapshot is the read-only view of outputs observable by collaborators.
// Reads are advisory and intentionally do not take PM's lock — they may
// race a concurrent Tick the way a single-scalar read on a 32-bit target
// would.
type Snapshot struct {
	ID, IQ, Theta, Omega float64
	M, E, U              float64
	UX, UY               float64
	State                FsmState
	SubState             int
	ModeBits             uint32
	P                    [21]float64
}

// Snapshot returns the current observable state.
func (pm *PM) Snapshot() Snapshot {
	return Snapshot{
		ID: pm.kX[0], IQ: pm.kX[1], Theta: pm.kX[2], Omega: pm.kX[3],
		M: pm.M, E: pm.E, U: pm.U,
		UX: pm.uX, UY: pm.uY,
		State: pm.mS1, SubState: pm.mS2, ModeBits: pm.mBit,
		P: pm.kP,
	}
}
