package pmc

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func Test_clamp_bounds(t *testing.T) {
	c := qt.New(t)

	c.Assert(clamp(5, 0, 10), qt.Equals, 5)
	c.Assert(clamp(-5, 0, 10), qt.Equals, 0)
	c.Assert(clamp(15, 0, 10), qt.Equals, 10)
	c.Assert(clamp(.2, -.5, .5), qt.Equals, .2)
}

func Test_roundDuty_rounds_to_nearest(t *testing.T) {
	c := qt.New(t)

	c.Assert(roundDuty(499.4), qt.Equals, 499)
	c.Assert(roundDuty(499.5), qt.Equals, 500)
	c.Assert(roundDuty(0), qt.Equals, 0)
}

func Test_magnitude_pythagorean(t *testing.T) {
	c := qt.New(t)

	const eps = 1e-3
	m := magnitude(3, 4)
	d := m - 5
	if d < 0 {
		d = -d
	}
	c.Assert(d < eps, qt.Equals, true)
	c.Assert(magnitude(0, 0), qt.Equals, 0.0)
}
