// Package base converts follower commands into differential-drive wheel
// commands.
package base

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/timothyhollabaugh/micromouse2019/path"
)

// Config describes the drive geometry of a two-wheeled base.
type Config struct {
	// TrackWidthMM is the distance between the two wheels.
	TrackWidthMM float64 `json:"track_width_mm"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(p string) error {
	if cfg.TrackWidthMM == 0 {
		return goutils.NewConfigValidationFieldRequiredError(p, "track_width_mm")
	}
	if cfg.TrackWidthMM < 0 {
		return goutils.NewConfigValidationError(p, errors.New("track_width_mm must be positive"))
	}
	return nil
}

// Differential mixes a follower command into left and right wheel commands
// with a fixed differential model: the angular term is the wheel-speed
// differential implied by the commanded curvature at the commanded
// velocity.
type Differential struct {
	cfg Config
}

// NewDifferential returns a mixer for the given drive geometry.
func NewDifferential(cfg Config) (*Differential, error) {
	if err := cfg.Validate("base"); err != nil {
		return nil, err
	}
	return &Differential{cfg: cfg}, nil
}

// WheelPowers converts a follower command into left and right wheel
// velocity commands in mm/s. A done command stops the base.
func (d *Differential) WheelPowers(cmd path.Command) (left, right float64) {
	if cmd.Done {
		return 0, 0
	}
	angular := cmd.Velocity * cmd.Curvature * d.cfg.TrackWidthMM / 2
	return cmd.Velocity - angular, cmd.Velocity + angular
}
