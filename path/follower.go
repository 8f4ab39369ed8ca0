package path

import (
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"github.com/timothyhollabaugh/micromouse2019/control"
	"github.com/timothyhollabaugh/micromouse2019/spatialmath"
)

// Command is the follower's per-tick output to the actuation layer.
type Command struct {
	// Curvature is the target curvature in 1/mm; positive turns left.
	Curvature float64
	// Velocity is the forward velocity command in mm/s; zero once done.
	Velocity float64
	// Done reports that no segment remains to track. It stays true until
	// new segments are added.
	Done bool
}

// Follower tracks a buffered path. Each tick it projects the pose onto the
// active segment, pops segments the vehicle has completed, and produces the
// curvature and velocity commands that keep the vehicle on the path.
//
// A Follower is owned by a single control loop; Update, AddSegments and
// Replace must all be called from that loop.
type Follower struct {
	logger   golog.Logger
	buffer   SegmentBuffer
	lastTick time.Duration
	pid      control.PID
}

// NewFollower returns a follower with an empty buffer. start is the
// monotonic time of the tick preceding the first Update call.
func NewFollower(logger golog.Logger, start time.Duration) *Follower {
	return &Follower{logger: logger, lastTick: start}
}

// AddSegments pushes planned segments onto the path buffer; see
// SegmentBuffer.AddSegments. The active segment is the last one pushed.
func (f *Follower) AddSegments(segments ...Segment) (int, error) {
	return f.buffer.AddSegments(segments...)
}

// Replace drops the buffered path and installs a new one. The swap takes
// effect on the next Update.
func (f *Follower) Replace(segments ...Segment) (int, error) {
	f.buffer.Clear()
	return f.buffer.AddSegments(segments...)
}

// Remaining returns the number of buffered segments.
func (f *Follower) Remaining() int {
	return f.buffer.Len()
}

// ResetFeedback clears the feedback strategy's accumulated state (integral
// and previous error) for a mission restart. Gains are unaffected; they are
// re-read from the config every tick regardless.
func (f *Follower) ResetFeedback() {
	f.pid.Reset()
}

// Update runs one control tick against the pose estimate for time now and
// returns the steering command along with a diagnostics snapshot. With an
// empty buffer it reports done with zero curvature and velocity, the
// terminal state for the whole path.
func (f *Follower) Update(cfg Config, now time.Duration, pose spatialmath.Pose) (Command, Diagnostics) {
	var diag Diagnostics
	dt := now - f.lastTick
	f.lastTick = now

	// Pop segments the vehicle has already completed, stopping at the
	// first one it is still on or when the buffer runs out. Bounded by the
	// buffer capacity.
	var (
		active    Segment
		t         float64
		projected r2.Point
		examined  bool
		tracking  bool
	)
	for {
		seg, ok := f.buffer.Active()
		if !ok {
			break
		}
		examined = true
		t, projected = seg.ClosestPoint(pose.Position)
		if t >= 1 {
			f.buffer.PopActive()
			f.logger.Debugw("segment complete", "t", t, "remaining", f.buffer.Len())
			continue
		}
		active = seg
		tracking = true
		break
	}
	if examined {
		p := projected
		diag.ClosestT = f64p(t)
		diag.ClosestPoint = &p
	}
	diag.Segments = f.buffer.Segments()

	if !tracking {
		return Command{Done: true}, diag
	}

	tangent := active.DerivativeAt(t)
	offset := pose.Position.Sub(projected)
	distance := offset.Norm()
	if !(tangent.Cross(offset) > 0) {
		distance = -distance
	}
	tangentDir := spatialmath.DirectionOf(tangent)
	pathCurvature := active.CurvatureAt(t)
	offsetCurv := offsetCurvature(pathCurvature, distance)

	diag.Distance = f64p(distance)
	diag.TangentDirection = dirp(tangentDir)
	diag.PathCurvature = f64p(pathCurvature)
	diag.OffsetCurvature = f64p(offsetCurv)

	var adjustCurvature float64
	switch cfg.strategy() {
	case StrategyPID:
		// The setpoint is zero cross-track distance, so the loop error is
		// the negated distance and positive gains steer back toward the
		// path.
		f.pid.SetGains(cfg.PID)
		adjustCurvature = f.pid.Next(-distance, dt)
	default:
		if cfg.OffsetGain != 0 {
			adjustCurvature = f.geometricCorrection(cfg, dt, pose, tangentDir, distance, &diag)
		}
	}

	target := offsetCurv + adjustCurvature
	diag.AdjustCurvature = f64p(adjustCurvature)
	diag.TargetCurvature = f64p(target)

	return Command{Curvature: target, Velocity: cfg.CruiseVelocity}, diag
}

// geometricCorrection computes a curvature that turns the vehicle toward
// the path without turning past it. An s-curve of the cross-track distance
// picks a target heading that points at the path far away and along its
// tangent close up; the correction is the curvature that reaches that
// heading over the distance expected before the next tick.
func (f *Follower) geometricCorrection(
	cfg Config,
	dt time.Duration,
	pose spatialmath.Pose,
	tangentDir spatialmath.Direction,
	distance float64,
	diag *Diagnostics,
) float64 {
	adjustDir := tangentDir.Add(correctionAngle(cfg.OffsetGain, distance))

	// Curvature is radians per mm: the required heading change spread over
	// the arc length expected before the next correction.
	projectedDistance := dt.Seconds() * cfg.CruiseVelocity
	centered := pose.Heading.CenteredAt(adjustDir)
	angleError := adjustDir.Radians() - centered.Radians()

	diag.AdjustDirection = dirp(adjustDir)
	diag.CenteredHeading = f64p(centered.Radians())
	diag.ProjectedDistance = f64p(projectedDistance)

	if projectedDistance == 0 {
		return 0
	}
	return angleError / projectedDistance
}

// correctionAngle is the s-curve heading offset for a given cross-track
// distance. It asymptotes at ∓π/2 as the distance grows to ±∞ and crosses
// zero on the path, so the adjusted heading aims straight at the path far
// away and along the tangent close up. gain sets how aggressively it
// transitions.
func correctionAngle(gain, distance float64) float64 {
	return math.Pi/(1+math.Exp(gain*distance)) - math.Pi/2
}

// offsetCurvature is the curvature of the arc concentric with the path that
// passes through the vehicle's offset position. The sign of the path
// curvature selects which side the offset narrows the radius from. Straight
// segments have no local arc; they contribute nothing here and their
// lateral correction comes entirely from the correction strategy.
func offsetCurvature(pathCurvature, distance float64) float64 {
	if pathCurvature == 0 {
		return 0
	}
	r := 1 / pathCurvature
	if pathCurvature > 0 {
		r -= distance
	} else {
		r += distance
	}
	return 1 / r
}
