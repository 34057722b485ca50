package host

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Clock reports the length of the frame being processed.
type Clock struct {
	bits atomic.Uint64
}

func (c *Clock) DeltaSeconds() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *Clock) set(dt float64) {
	c.bits.Store(math.Float64bits(dt))
}

// Loop drives input and pawn once per frame.
type Loop struct {
	input    *InputComponent
	pawn     *Pawn
	clock    *Clock
	interval time.Duration
	log      *zap.Logger
	frames   atomic.Uint64
}

func NewLoop(input *InputComponent, pawn *Pawn, clock *Clock, interval time.Duration, log *zap.Logger) *Loop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		input:    input,
		pawn:     pawn,
		clock:    clock,
		interval: interval,
		log:      log,
	}
}

// Step runs one frame of dt seconds.
func (l *Loop) Step(dt float64) {
	l.clock.set(dt)
	l.input.Tick()
	l.pawn.Advance(dt)
	l.frames.Add(1)
}

// Frames returns the number of frames run so far.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Run steps the loop at its interval until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Info("Frame loop started", zap.Duration("interval", l.interval))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("Frame loop stopped", zap.Uint64("frames", l.Frames()))
			return
		case now := <-ticker.C:
			l.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}
