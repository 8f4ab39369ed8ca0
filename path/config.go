package path

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/timothyhollabaugh/micromouse2019/control"
)

// Strategy selects how cross-track error becomes a steering correction.
type Strategy string

const (
	// StrategyGeometric shapes the correction with a bounded s-curve of the
	// cross-track distance. This is the default.
	StrategyGeometric Strategy = "geometric"
	// StrategyPID feeds the cross-track distance through a PID loop.
	StrategyPID Strategy = "pid"
)

// Config holds the live-tunable parameters of the follower. A Config value
// is passed to every Update call and re-read in full, so changing fields
// between ticks needs no restart.
type Config struct {
	// Strategy selects the correction strategy; empty means geometric.
	Strategy Strategy `json:"strategy,omitempty"`
	// CruiseVelocity is the forward velocity command in mm/s while a
	// segment is being tracked.
	CruiseVelocity float64 `json:"cruise_velocity"`
	// OffsetGain is the geometric strategy's correction strength in 1/mm.
	// Zero disables the correction term, leaving open-loop arc tracking.
	OffsetGain float64 `json:"offset_gain"`
	// PID holds the feedback strategy's gains, re-read every tick. All
	// zeros disables the correction term.
	PID control.PIDConfig `json:"pid"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	switch cfg.Strategy {
	case "", StrategyGeometric, StrategyPID:
	default:
		return goutils.NewConfigValidationError(path, errors.Errorf("unknown strategy %q", cfg.Strategy))
	}
	if cfg.CruiseVelocity < 0 {
		return goutils.NewConfigValidationError(path, errors.New("cruise_velocity must be non-negative"))
	}
	if cfg.OffsetGain < 0 {
		return goutils.NewConfigValidationError(path, errors.New("offset_gain must be non-negative"))
	}
	return nil
}

func (cfg *Config) strategy() Strategy {
	if cfg.Strategy == "" {
		return StrategyGeometric
	}
	return cfg.Strategy
}
