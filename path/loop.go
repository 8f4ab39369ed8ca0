package path

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/timothyhollabaugh/micromouse2019/spatialmath"
)

// A PoseSource supplies the pose estimate for the current tick.
type PoseSource interface {
	Pose(ctx context.Context) (spatialmath.Pose, error)
}

// A CommandSink consumes the follower's output each tick. SendCommand runs
// on the loop goroutine, so a sink may call AddSegments or Replace on the
// follower to extend the path without further synchronization.
type CommandSink interface {
	SendCommand(ctx context.Context, cmd Command, diag Diagnostics) error
}

// LoopConfig configures the fixed-period control loop.
type LoopConfig struct {
	// Frequency is the tick rate in Hz.
	Frequency float64 `json:"frequency"`
}

// Validate ensures all parts of the config are valid.
func (cfg *LoopConfig) Validate(path string) error {
	if cfg.Frequency == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "frequency")
	}
	if cfg.Frequency < 0 || cfg.Frequency > 200 {
		return goutils.NewConfigValidationError(path, errors.New("frequency must be between 0 and 200Hz"))
	}
	return nil
}

// Loop drives a Follower at a fixed period: each tick it reads a pose from
// the source, runs one Update with a freshly provided config, and forwards
// the command and diagnostics to the sink. The follower is owned by the
// loop goroutine between Start and Stop.
type Loop struct {
	logger   golog.Logger
	cfg      LoopConfig
	follower *Follower
	source   PoseSource
	sink     CommandSink
	confFn   func() Config
	clk      clock.Clock
	dt       time.Duration

	mu                      sync.Mutex
	running                 bool
	cancelCtx               context.Context
	cancel                  context.CancelFunc
	activeBackgroundWorkers sync.WaitGroup
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithClock substitutes the loop's time source, for tests.
func WithClock(clk clock.Clock) LoopOption {
	return func(l *Loop) { l.clk = clk }
}

// NewLoop constructs a stopped loop. confFn is called once per tick, so
// configuration changes apply without a restart.
func NewLoop(
	logger golog.Logger,
	cfg LoopConfig,
	follower *Follower,
	source PoseSource,
	sink CommandSink,
	confFn func() Config,
	opts ...LoopOption,
) (*Loop, error) {
	if err := cfg.Validate("loop"); err != nil {
		return nil, err
	}
	if follower == nil || source == nil || sink == nil || confFn == nil {
		return nil, errors.New("loop needs a follower, a pose source, a command sink and a config provider")
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	l := &Loop{
		logger:    logger,
		cfg:       cfg,
		follower:  follower,
		source:    source,
		sink:      sink,
		confFn:    confFn,
		clk:       clock.New(),
		dt:        time.Duration(float64(time.Second) / cfg.Frequency),
		cancelCtx: cancelCtx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Start begins ticking in the background.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return errors.New("control loop already running")
	}
	l.logger.Debugw("starting control loop", "period", l.dt)
	ticker := l.clk.Ticker(l.dt)
	epoch := l.clk.Now()
	l.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		defer ticker.Stop()
		for {
			select {
			case <-l.cancelCtx.Done():
				return
			case <-ticker.C:
			}
			l.tick(l.cancelCtx, epoch)
		}
	}, l.activeBackgroundWorkers.Done)
	l.running = true
	return nil
}

func (l *Loop) tick(ctx context.Context, epoch time.Time) {
	pose, err := l.source.Pose(ctx)
	if err != nil {
		l.logger.Warnw("skipping tick, no pose estimate", "error", err)
		return
	}
	cmd, diag := l.follower.Update(l.confFn(), l.clk.Now().Sub(epoch), pose)
	if err := l.sink.SendCommand(ctx, cmd, diag); err != nil {
		l.logger.Warnw("command sink rejected command", "error", err)
	}
}

// Stop halts ticking and waits for the loop goroutine to exit. The follower
// keeps its state and may be restarted with a new loop.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.cancel()
	l.activeBackgroundWorkers.Wait()
	l.running = false
}
