package spatialmath

import "github.com/golang/geo/r2"

// Pose is a vehicle pose estimate: position in millimeters and heading.
type Pose struct {
	Position r2.Point
	Heading  Direction
}

// NewPose returns a pose at (x, y) millimeters facing heading.
func NewPose(x, y float64, heading Direction) Pose {
	return Pose{Position: r2.Point{X: x, Y: y}, Heading: heading}
}
