package path

import (
	"github.com/golang/geo/r2"

	"github.com/timothyhollabaugh/micromouse2019/spatialmath"
)

// Diagnostics is a snapshot of every intermediate quantity computed during
// one Update call, for telemetry. A field is nil when the branch that
// produces it did not run this tick (no active segment, correction
// disabled). Control decisions never read it back.
type Diagnostics struct {
	// ClosestT and ClosestPoint describe the projection of the pose onto
	// the last segment inspected, including one popped for completion.
	ClosestT     *float64  `json:"closest_t,omitempty"`
	ClosestPoint *r2.Point `json:"closest_point,omitempty"`

	// Distance is the signed cross-track distance in mm; positive means
	// the vehicle is left of the path.
	Distance         *float64               `json:"distance,omitempty"`
	TangentDirection *spatialmath.Direction `json:"tangent_direction,omitempty"`
	PathCurvature    *float64               `json:"path_curvature,omitempty"`
	OffsetCurvature  *float64               `json:"offset_curvature,omitempty"`

	AdjustDirection   *spatialmath.Direction `json:"adjust_direction,omitempty"`
	CenteredHeading   *float64               `json:"centered_heading,omitempty"`
	ProjectedDistance *float64               `json:"projected_distance,omitempty"`
	AdjustCurvature   *float64               `json:"adjust_curvature,omitempty"`
	TargetCurvature   *float64               `json:"target_curvature,omitempty"`

	// Segments is the remaining path after any completed segments were
	// popped this tick.
	Segments []Segment `json:"segments,omitempty"`
}

func f64p(v float64) *float64 {
	return &v
}

func dirp(d spatialmath.Direction) *spatialmath.Direction {
	return &d
}
