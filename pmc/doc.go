// Package pmc is the sensorless field-oriented-control core for a
// permanent-magnet synchronous motor (PMSM) controller: an extended Kalman
// filter over the electromechanical state, a cascaded DQ current regulator,
// a space-vector PWM modulator, and the commissioning/operational state
// machine that drives drift calibration, AC impedance identification and
// aligned spin-up.
//
// Everything in this package is meant to run from a single real-time
// interrupt context once per PWM period (PM.Tick). It does not allocate,
// does not block, and never logs. Config mutation from other contexts goes
// through PM.WithLock, which models masking the ADC interrupt for the
// shortest possible critical section; telemetry reads go through
// PM.Snapshot, which takes no lock.
package pmc
