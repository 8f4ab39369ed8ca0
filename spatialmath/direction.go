// Package spatialmath provides the planar math primitives used by the rest
// of the robot: headings with wraparound-safe arithmetic, and vehicle poses.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// Direction is a heading in radians, measured counterclockwise from the
// positive x axis. The value is continuous: arithmetic never wraps, so two
// Directions may compare unequal while pointing the same way. Use Normalized
// for comparison, and CenteredAt before subtracting two headings.
type Direction float64

// Common headings, named after their radian values.
const (
	Direction0    Direction = 0
	DirectionPi2  Direction = math.Pi / 2
	DirectionPi   Direction = math.Pi
	Direction3Pi2 Direction = 3 * math.Pi / 2
)

// DirectionOf returns the heading of a vector.
func DirectionOf(v r2.Point) Direction {
	return Direction(math.Atan2(v.Y, v.X))
}

// Radians returns the direction as a plain radian value.
func (d Direction) Radians() float64 {
	return float64(d)
}

// Add offsets the direction by an angle in radians.
func (d Direction) Add(offset float64) Direction {
	return d + Direction(offset)
}

// Unit returns the unit vector pointing along d.
func (d Direction) Unit() r2.Point {
	return r2.Point{X: math.Cos(float64(d)), Y: math.Sin(float64(d))}
}

// Normalized maps the direction into [0, 2π) for comparison.
func (d Direction) Normalized() Direction {
	m := math.Mod(float64(d), 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return Direction(m)
}

// CenteredAt re-expresses d on the 2π branch nearest ref, so the result is
// within π of ref. Differencing two headings through CenteredAt avoids the
// spurious 2π jump that raw subtraction of normalized angles produces at the
// ±π boundary.
func (d Direction) CenteredAt(ref Direction) Direction {
	diff := math.Mod(float64(d-ref), 2*math.Pi)
	if diff > math.Pi {
		diff -= 2 * math.Pi
	} else if diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	return ref + Direction(diff)
}
