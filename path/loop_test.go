package path

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/timothyhollabaugh/micromouse2019/spatialmath"
)

type fixedPoseSource struct {
	mu   sync.Mutex
	pose spatialmath.Pose
	err  error
}

func (s *fixedPoseSource) Pose(ctx context.Context) (spatialmath.Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pose, s.err
}

func (s *fixedPoseSource) set(pose spatialmath.Pose, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pose = pose
	s.err = err
}

type channelSink struct {
	commands chan Command
}

func (s *channelSink) SendCommand(ctx context.Context, cmd Command, diag Diagnostics) error {
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
	}
	return nil
}

func TestLoopTicks(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mock := clock.NewMock()

	follower := NewFollower(logger, 0)
	_, err := follower.AddSegments(Line(r2.Point{X: 0, Y: 0}, r2.Point{X: 1000, Y: 0}))
	test.That(t, err, test.ShouldBeNil)

	source := &fixedPoseSource{pose: spatialmath.NewPose(0, 0, 0)}
	sink := &channelSink{commands: make(chan Command)}

	l, err := NewLoop(
		logger,
		LoopConfig{Frequency: 100},
		follower,
		source,
		sink,
		func() Config { return testConfig },
		WithClock(mock),
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldBeNil)
	defer l.Stop()

	mock.Add(10 * time.Millisecond)
	cmd := <-sink.commands
	test.That(t, cmd.Done, test.ShouldBeFalse)
	test.That(t, cmd.Velocity, test.ShouldEqual, testConfig.CruiseVelocity)

	// Move the pose to the end of the line; the next tick completes the
	// path and commands a stop.
	source.set(spatialmath.NewPose(1000, 0, 0), nil)
	mock.Add(10 * time.Millisecond)
	cmd = <-sink.commands
	test.That(t, cmd.Done, test.ShouldBeTrue)
	test.That(t, cmd.Velocity, test.ShouldEqual, 0)
}

func TestLoopLiveConfig(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mock := clock.NewMock()

	follower := NewFollower(logger, 0)
	_, err := follower.AddSegments(Line(r2.Point{X: 0, Y: 0}, r2.Point{X: 1000, Y: 0}))
	test.That(t, err, test.ShouldBeNil)

	velocity := 200.0
	sink := &channelSink{commands: make(chan Command)}
	l, err := NewLoop(
		logger,
		LoopConfig{Frequency: 100},
		follower,
		&fixedPoseSource{pose: spatialmath.NewPose(0, 0, 0)},
		sink,
		func() Config { return Config{CruiseVelocity: velocity, OffsetGain: 1} },
		WithClock(mock),
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldBeNil)
	defer l.Stop()

	mock.Add(10 * time.Millisecond)
	cmd := <-sink.commands
	test.That(t, cmd.Velocity, test.ShouldEqual, 200)

	// Retuning between ticks applies without a restart.
	velocity = 350
	mock.Add(10 * time.Millisecond)
	cmd = <-sink.commands
	test.That(t, cmd.Velocity, test.ShouldEqual, 350)
}

func TestLoopSkipsTickWithoutPose(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mock := clock.NewMock()

	follower := NewFollower(logger, 0)
	source := &fixedPoseSource{err: errors.New("estimator warming up")}
	sink := &channelSink{commands: make(chan Command, 4)}

	l, err := NewLoop(
		logger,
		LoopConfig{Frequency: 100},
		follower,
		source,
		sink,
		func() Config { return testConfig },
		WithClock(mock),
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldBeNil)
	defer l.Stop()

	mock.Add(10 * time.Millisecond)
	// Once the estimator recovers, ticks resume.
	source.set(spatialmath.NewPose(0, 0, 0), nil)
	mock.Add(10 * time.Millisecond)
	cmd := <-sink.commands
	test.That(t, cmd.Done, test.ShouldBeTrue)
}

func TestLoopLifecycle(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := NewLoop(logger, LoopConfig{Frequency: 0}, nil, nil, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewLoop(logger, LoopConfig{Frequency: 100}, nil, nil, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	follower := NewFollower(logger, 0)
	sink := &channelSink{commands: make(chan Command, 1)}
	l, err := NewLoop(
		logger,
		LoopConfig{Frequency: 100},
		follower,
		&fixedPoseSource{},
		sink,
		func() Config { return testConfig },
		WithClock(clock.NewMock()),
	)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, l.Start(), test.ShouldBeNil)
	test.That(t, l.Start(), test.ShouldNotBeNil)
	l.Stop()
	// Stopping twice is fine.
	l.Stop()
}
