// Package control provides the feedback blocks used by the path follower.
package control

import "time"

// PIDConfig holds the gains of a PID block. Gains may change between ticks;
// apply them with SetGains, which preserves accumulated state.
type PIDConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
	// IntegralLimit bounds the magnitude of the accumulated integral term.
	// Zero means unbounded.
	IntegralLimit float64 `json:"integral_limit,omitempty"`
}

// PID is a discrete proportional-integral-derivative controller. The
// integral accumulates with the gain inside the sum, so a live Ki change
// applies to future accumulation only, while Kp and Kd apply in full on the
// next step. The zero value is ready to use.
type PID struct {
	cfg      PIDConfig
	integral float64
	prevErr  float64
	primed   bool
}

// SetGains installs new gains without touching the accumulated integral or
// the previous error.
func (p *PID) SetGains(cfg PIDConfig) {
	p.cfg = cfg
}

// Next advances the controller by one step of duration dt with the given
// error and returns the control output. A non-positive dt primes the
// derivative state and returns zero.
func (p *PID) Next(errVal float64, dt time.Duration) float64 {
	dtS := dt.Seconds()
	if dtS <= 0 {
		p.prevErr = errVal
		p.primed = true
		return 0
	}
	p.integral += p.cfg.Ki * errVal * dtS
	if lim := p.cfg.IntegralLimit; lim > 0 {
		if p.integral > lim {
			p.integral = lim
		} else if p.integral < -lim {
			p.integral = -lim
		}
	}
	var deriv float64
	if p.primed {
		deriv = (errVal - p.prevErr) / dtS
	}
	p.prevErr = errVal
	p.primed = true
	return p.cfg.Kp*errVal + p.integral + p.cfg.Kd*deriv
}

// Reset clears the accumulated integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.primed = false
}
