// Package path implements trajectory tracking for a differential-drive
// vehicle: path segments built on cubic curves, a bounded buffer of the
// remaining path, and the steering law that turns cross-track error into a
// target curvature once per control tick.
package path

import (
	"encoding/json"

	"github.com/golang/geo/r2"
	"honnef.co/go/curve"

	"github.com/timothyhollabaugh/micromouse2019/spatialmath"
)

const (
	// nearestAccuracy bounds the closest-point projection error in mm.
	nearestAccuracy = 1e-4

	// endSnap is how close to t=1 a clamped projection must land before the
	// exit-tangent extension is considered. Projections inside the segment
	// are returned unchanged even within this band.
	endSnap = 1e-3
)

// Segment is one piece of planned path geometry over a cubic Bézier. The
// parametrization runs from t=0 at the entry to t=1 at the exit;
// ClosestPoint reports t ≥ 1 once a position projects at or beyond the
// exit, which the follower treats as the segment's completion signal.
//
// Segments are normally arranged so each starts where the previous one ends
// and tangent to it, keeping the tracked motion smooth across transitions,
// but nothing here requires that.
type Segment struct {
	bez curve.CubicBez
}

// Corner builds a tangent-continuous blend approximating a constant-radius
// turn. center is where the entry and exit lines intersect, entry and exit
// are the absolute directions of those lines, and radius is the distance
// from center to each end of the blend. Both interior control points sit on
// the corner itself.
func Corner(center r2.Point, entry, exit spatialmath.Direction, radius float64) Segment {
	ctrl := pt(center)
	return Segment{bez: curve.CubicBez{
		P0: pt(center.Sub(entry.Unit().Mul(radius))),
		P1: ctrl,
		P2: ctrl,
		P3: pt(center.Add(exit.Unit().Mul(radius))),
	}}
}

// Line builds a straight segment. Both interior control points are the
// midpoint of start and end, so the curvature is zero along the whole
// segment.
func Line(start, end r2.Point) Segment {
	mid := pt(start.Add(end.Sub(start).Mul(0.5)))
	return Segment{bez: curve.CubicBez{P0: pt(start), P1: mid, P2: mid, P3: pt(end)}}
}

// Start returns the segment's entry point.
func (s Segment) Start() r2.Point {
	return xy(s.bez.P0)
}

// End returns the segment's exit point.
func (s Segment) End() r2.Point {
	return xy(s.bez.P3)
}

// ClosestPoint returns the curve parameter minimizing the Euclidean
// distance to position, along with the projected point. The parameter is
// not clamped to [0,1]: when the position projects at or beyond the exit,
// the parametrization is extended linearly along the exit tangent and a
// value ≥ 1 comes back.
func (s Segment) ClosestPoint(position r2.Point) (float64, r2.Point) {
	p := pt(position)
	_, t := s.bez.Nearest(p, nearestAccuracy)
	if t < 1-endSnap {
		return t, xy(s.bez.Eval(t))
	}

	tangent := curve.Vec2(s.bez.Differentiate().Eval(1))
	speed := tangent.Hypot()
	if speed == 0 {
		return 1, xy(s.bez.P3)
	}
	overshoot := p.Sub(s.bez.P3).Dot(tangent) / speed
	if overshoot < 0 {
		return t, xy(s.bez.Eval(t))
	}
	return 1 + overshoot/speed, xy(s.bez.P3)
}

// DerivativeAt returns the tangent vector at parameter t. Only its
// direction is meaningful to callers; the magnitude depends on the
// parametrization speed.
func (s Segment) DerivativeAt(t float64) r2.Point {
	return xy(s.bez.Differentiate().Eval(t))
}

// CurvatureAt returns the signed curvature at parameter t, in 1/mm.
// Positive curvature bends the path to the left.
func (s Segment) CurvatureAt(t float64) float64 {
	d1 := curve.Vec2(s.bez.Differentiate().Eval(t))
	d2 := curve.Vec2(s.bez.Differentiate().Differentiate().Eval(t))
	speed := d1.Hypot()
	if speed == 0 {
		return 0
	}
	return d1.Cross(d2) / (speed * speed * speed)
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type segmentJSON struct {
	Start pointJSON `json:"start"`
	Ctrl0 pointJSON `json:"ctrl0"`
	Ctrl1 pointJSON `json:"ctrl1"`
	End   pointJSON `json:"end"`
}

// MarshalJSON emits the segment's four control points, for telemetry.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(segmentJSON{
		Start: pointJSON{s.bez.P0.X, s.bez.P0.Y},
		Ctrl0: pointJSON{s.bez.P1.X, s.bez.P1.Y},
		Ctrl1: pointJSON{s.bez.P2.X, s.bez.P2.Y},
		End:   pointJSON{s.bez.P3.X, s.bez.P3.Y},
	})
}

func pt(p r2.Point) curve.Point {
	return curve.Pt(p.X, p.Y)
}

func xy(p curve.Point) r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}
