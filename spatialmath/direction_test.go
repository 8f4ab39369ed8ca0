package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestDirectionUnit(t *testing.T) {
	u := Direction0.Unit()
	test.That(t, u.X, test.ShouldAlmostEqual, 1)
	test.That(t, u.Y, test.ShouldAlmostEqual, 0)

	u = DirectionPi2.Unit()
	test.That(t, u.X, test.ShouldAlmostEqual, 0)
	test.That(t, u.Y, test.ShouldAlmostEqual, 1)

	u = Direction3Pi2.Unit()
	test.That(t, u.X, test.ShouldAlmostEqual, 0)
	test.That(t, u.Y, test.ShouldAlmostEqual, -1)
}

func TestDirectionOf(t *testing.T) {
	test.That(t, DirectionOf(r2.Point{X: 10, Y: 0}).Radians(), test.ShouldAlmostEqual, 0)
	test.That(t, DirectionOf(r2.Point{X: 0, Y: 5}).Radians(), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, DirectionOf(r2.Point{X: -3, Y: 0}).Radians(), test.ShouldAlmostEqual, math.Pi)
	test.That(t, DirectionOf(r2.Point{X: 1, Y: -1}).Radians(), test.ShouldAlmostEqual, -math.Pi/4)
}

func TestNormalized(t *testing.T) {
	test.That(t, Direction(-math.Pi/2).Normalized().Radians(), test.ShouldAlmostEqual, 3*math.Pi/2)
	test.That(t, Direction(5*math.Pi/2).Normalized().Radians(), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, Direction0.Normalized().Radians(), test.ShouldAlmostEqual, 0)
}

func TestCenteredAt(t *testing.T) {
	for _, tc := range []struct {
		name     string
		d, ref   float64
		expected float64
	}{
		{"same branch", 0.5, 0.25, 0.5},
		{"across pi boundary", 0.9 * math.Pi, -0.9 * math.Pi, -1.1 * math.Pi},
		{"across pi boundary reversed", -0.9 * math.Pi, 0.9 * math.Pi, 1.1 * math.Pi},
		{"many turns apart", 4*math.Pi + 0.1, 0, 0.1},
		{"negative turns", -6 * math.Pi, 0.2, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Direction(tc.d).CenteredAt(Direction(tc.ref))
			test.That(t, got.Radians(), test.ShouldAlmostEqual, tc.expected, 1e-9)
			test.That(t, math.Abs(got.Radians()-tc.ref), test.ShouldBeLessThanOrEqualTo, math.Pi+1e-9)
		})
	}
}
